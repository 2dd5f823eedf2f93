// Package anvil writes Minecraft Anvil (.mca) region files: an 8 KiB
// header of per-chunk sector locations and timestamps followed by
// zlib-compressed, NBT-encoded chunk payloads, one region per 32x32
// chunk column. Ported from the original source's mca.hpp, with the
// per-chunk compression/NBT loop reshaped into the engine's bounded
// fork-join worker pool (particles_ecs.go) since chunks are independent,
// write-once, disjoint units of work.
package anvil

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/gekko3d/voxelmca/errs"
)

const (
	regionChunks = 32 // chunks per region side
	sectorSize   = 4096
	headerBytes  = 2 * regionChunks * regionChunks * 4 // locations + timestamps
	compressionZlib = 2 // Anvil compression-scheme byte for zlib
)

// Options tunes the writer's sector-accounting behavior.
type Options struct {
	// Hardened computes each chunk's real size_sectors from its
	// compressed length. When false (the default), the writer
	// reproduces the original source's sector layout exactly: every
	// chunk is placed at a fixed one-sector offset/size regardless of
	// its actual compressed size, which is bug-compatible with the
	// original but silently truncates any chunk whose compressed
	// payload exceeds one sector (4096 bytes). See the Open Questions
	// section for why this is the default.
	Hardened bool
}

// WriteRegion writes one r.<regionX>.<regionZ>.mca file at path, for a
// region that is height blocks tall (height/16 sections), sourcing block
// data from src and writing palette as every non-empty section's block
// palette (palette[0] must name the air/empty block).
func WriteRegion(path string, regionX, regionZ int32, height int, src BlockSource, palette []string, opts Options) error {
	type chunkJob struct {
		cx, cz int
	}
	type chunkResult struct {
		cx, cz     int
		compressed []byte
		err        error
	}

	jobs := make([]chunkJob, 0, regionChunks*regionChunks)
	for cz := 0; cz < regionChunks; cz++ {
		for cx := 0; cx < regionChunks; cx++ {
			jobs = append(jobs, chunkJob{cx, cz})
		}
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > 8 {
		workers = 8
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]chunkResult, len(jobs))
	jobCh := make(chan int, len(jobs))
	for i := range jobs {
		jobCh <- i
	}
	close(jobCh)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobCh {
				j := jobs[i]
				raw := buildChunkNBT(j.cx, j.cz, int(regionX), int(regionZ), height, src, palette)
				compressed, err := deflate(raw)
				results[i] = chunkResult{cx: j.cx, cz: j.cz, compressed: compressed, err: err}
			}
		}()
	}
	wg.Wait()

	header := make([]byte, headerBytes)
	var body bytes.Buffer
	nextSector := 2 // sectors 0-1 reserved for the header

	for i, res := range results {
		if res.err != nil {
			return errs.IO(path, fmt.Errorf("compress chunk (%d,%d): %w", res.cx, res.cz, res.err))
		}

		var offsetSectors, sizeSectors int
		var payload []byte
		if opts.Hardened {
			payload = framePayload(res.compressed)
			sizeSectors = (len(payload) + sectorSize - 1) / sectorSize
			offsetSectors = nextSector
			nextSector += sizeSectors
		} else {
			// Bug-for-bug compatible with the original source: every
			// chunk claims exactly one sector starting at a fixed
			// index derived from its position in iteration order,
			// regardless of actual compressed size.
			offsetSectors = i + 2
			sizeSectors = 1
			payload = framePayload(res.compressed)
			if len(payload) > sectorSize {
				payload = payload[:sectorSize]
			}
		}

		locIdx := (res.cz*regionChunks + res.cx) * 4
		putLocation(header[locIdx:locIdx+4], offsetSectors, sizeSectors)

		tsIdx := headerBytes/2 + (res.cz*regionChunks+res.cx)*4
		binary.BigEndian.PutUint32(header[tsIdx:tsIdx+4], 0)

		body.Write(payload)
		if opts.Hardened {
			if pad := sizeSectors*sectorSize - len(payload); pad > 0 {
				body.Write(make([]byte, pad))
			}
		} else if pad := sectorSize - len(payload); pad > 0 {
			body.Write(make([]byte, pad))
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return errs.IO(path, err)
	}
	defer f.Close()

	if _, err := f.Write(header); err != nil {
		return errs.IO(path, err)
	}
	if _, err := body.WriteTo(f); err != nil {
		return errs.IO(path, err)
	}
	return nil
}

// framePayload prefixes compressed with the 4-byte big-endian length and
// 1-byte compression scheme every Anvil chunk payload carries.
func framePayload(compressed []byte) []byte {
	out := make([]byte, 5+len(compressed))
	binary.BigEndian.PutUint32(out[0:4], uint32(len(compressed)+1))
	out[4] = compressionZlib
	copy(out[5:], compressed)
	return out
}

func putLocation(dst []byte, offsetSectors, sizeSectors int) {
	dst[0] = byte(offsetSectors >> 16)
	dst[1] = byte(offsetSectors >> 8)
	dst[2] = byte(offsetSectors)
	dst[3] = byte(sizeSectors)
}

func deflate(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	// Matches the original source's Z_BEST_COMPRESSION call.
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(raw); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
