package anvil

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLocation(header []byte, cx, cz int) (offset, size int) {
	idx := (cz*regionChunks + cx) * 4
	offset = int(header[idx])<<16 | int(header[idx+1])<<8 | int(header[idx+2])
	size = int(header[idx+3])
	return
}

func TestWriteRegion_RoundTripsOneChunk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "r.0.0.mca")

	err := WriteRegion(path, 0, 0, 16, diagonalSource{}, []string{"minecraft:air", "minecraft:stone"}, Options{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), headerBytes)

	header := data[:headerBytes]
	offset, size := readLocation(header, 0, 0)
	require.Greater(t, offset, 0)
	require.Greater(t, size, 0)

	start := offset * sectorSize
	length := binary.BigEndian.Uint32(data[start : start+4])
	scheme := data[start+4]
	require.EqualValues(t, compressionZlib, scheme)

	compressed := data[start+5 : start+5+int(length)-1]
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	require.NoError(t, err)
	raw, err := io.ReadAll(zr)
	require.NoError(t, err)

	want := buildChunkNBT(0, 0, 0, 0, 16, diagonalSource{}, []string{"minecraft:air", "minecraft:stone"})
	assert.Equal(t, want, raw)
}

func TestWriteRegion_AllChunksGetNonZeroLocations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "r.0.0.mca")
	require.NoError(t, WriteRegion(path, 0, 0, 16, constSource{0}, []string{"minecraft:air"}, Options{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	header := data[:headerBytes]

	for cz := 0; cz < regionChunks; cz++ {
		for cx := 0; cx < regionChunks; cx++ {
			offset, size := readLocation(header, cx, cz)
			assert.Greaterf(t, offset, 0, "chunk (%d,%d) offset", cx, cz)
			assert.Greaterf(t, size, 0, "chunk (%d,%d) size", cx, cz)
		}
	}
}

func TestWriteRegion_DeterministicAcrossRuns(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.mca")
	p2 := filepath.Join(dir, "b.mca")

	require.NoError(t, WriteRegion(p1, 1, -1, 32, diagonalSource{}, []string{"minecraft:air", "minecraft:stone"}, Options{}))
	require.NoError(t, WriteRegion(p2, 1, -1, 32, diagonalSource{}, []string{"minecraft:air", "minecraft:stone"}, Options{}))

	d1, err := os.ReadFile(p1)
	require.NoError(t, err)
	d2, err := os.ReadFile(p2)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestWriteRegion_HardenedSizesFitActualPayload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "r.0.0.mca")
	require.NoError(t, WriteRegion(path, 0, 0, 256, diagonalSource{}, []string{"minecraft:air", "minecraft:stone"}, Options{Hardened: true}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	header := data[:headerBytes]

	offset, size := readLocation(header, 0, 0)
	start := offset * sectorSize
	length := binary.BigEndian.Uint32(data[start : start+4])
	wantSectors := (int(length) + 4 + sectorSize - 1) / sectorSize
	assert.Equal(t, wantSectors, size)
}
