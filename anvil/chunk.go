package anvil

import (
	"github.com/gekko3d/voxelmca/nbt"
)

// dataVersion mirrors the original source's hard-coded NBT DataVersion
// tag (mca.hpp), chosen to match a Minecraft release new enough to read
// paletted block_states sections without further per-version quirks.
const dataVersion = 2975

// BlockSource supplies a palette index for every region-local block
// coordinate a region covers: x, z in [0,512), y in [0, height).
type BlockSource interface {
	Block(x, y, z int) byte
}

// buildChunkNBT assembles one chunk column's NBT payload (the bytes that
// get zlib-compressed into the region file), for chunk column (cx, cz)
// within a region whose origin is (regionX*512, regionZ*512), height
// blocks tall, using palette as the block_states palette shared by every
// section (palette[0] must be the air/empty block).
func buildChunkNBT(cx, cz, regionX, regionZ, height int, src BlockSource, palette []string) []byte {
	w := nbt.NewWriter()
	w.OpenCompound("")

	w.Int("DataVersion", dataVersion)
	w.Int("xPos", int32(regionX*32+cx))
	w.Int("zPos", int32(regionZ*32+cz))
	w.Int("yPos", -4)
	w.String("Status", "full")
	w.Long("LastUpdate", 0)

	sectionCount := height / 16
	w.OpenList("sections", nbt.TagCompound, sectionCount)
	for sy := 0; sy < sectionCount; sy++ {
		writeSection(w, cx, cz, sy, src, palette)
	}

	writeTrailingContainers(w, sectionCount)

	w.End() // root compound
	return w.Bytes()
}

// writeTrailingContainers emits the chunk-level containers every vanilla
// chunk carries even when this writer never populates them: empty
// entity/tick/heightmap data, one empty nested list per section for
// Lights and PostProcessing, and the empty structures skeleton. Mirrors
// mca.hpp's writeChunk tail exactly, including its block_entities ->
// Heightmaps -> fluid_ticks -> block_ticks -> entities ->
// InhabitedTime -> Lights -> PostProcessing -> CarvingMasks ->
// structures order.
func writeTrailingContainers(w *nbt.Writer, sectionCount int) {
	w.OpenList("block_entities", nbt.TagCompound, 0)

	w.OpenCompound("Heightmaps")
	w.End()

	w.OpenList("fluid_ticks", nbt.TagCompound, 0)
	w.OpenList("block_ticks", nbt.TagCompound, 0)
	w.OpenList("entities", nbt.TagCompound, 0)
	w.Long("InhabitedTime", 0)

	// Lights and PostProcessing are each a list of per-section lists;
	// every per-section list is empty (elem type End, length 0).
	w.OpenList("Lights", nbt.TagList, sectionCount)
	for i := 0; i < sectionCount; i++ {
		w.ElemListHeader(nbt.TagEnd, 0)
	}

	w.OpenList("PostProcessing", nbt.TagList, sectionCount)
	for i := 0; i < sectionCount; i++ {
		w.ElemListHeader(nbt.TagEnd, 0)
	}

	w.OpenCompound("CarvingMasks")
	w.End()

	w.OpenCompound("structures")
	w.OpenCompound("References")
	w.End()
	w.OpenCompound("starts")
	w.End()
	w.End() // structures
}

// writeSection writes one TAG_Compound list element of the sections
// list. List elements of compound type carry no tag byte or name of
// their own (OpenElemCompound is a no-op marker for readability) — the
// element's payload starts directly with its named fields and ends with
// the same TAG_End every compound closes with.
func writeSection(w *nbt.Writer, cx, cz, sy int, src BlockSource, palette []string) {
	w.OpenElemCompound()
	w.Byte("Y", int8(sy-4))

	writeBiomes(w)
	writeBlockStates(w, cx, cz, sy, src, palette)

	w.End() // section compound
}

// writeBiomes emits a single-entry biome palette: the region writer has
// no biome model of its own, so every section is "minecraft:the_void"
// uniformly, with no accompanying data array (palette length 1 implies
// every entry is palette[0], per the paletted-container convention).
func writeBiomes(w *nbt.Writer) {
	w.OpenCompound("biomes")
	w.OpenList("palette", nbt.TagString, 1)
	w.ElemString("minecraft:the_void")
	w.End() // biomes
}

func writeBlockStates(w *nbt.Writer, cx, cz, sy int, src BlockSource, palette []string) {
	var section SectionBlocks
	allAir := true
	for ly := 0; ly < 16; ly++ {
		for lz := 0; lz < 16; lz++ {
			for lx := 0; lx < 16; lx++ {
				x := cx*16 + lx
				y := sy*16 + ly
				z := cz*16 + lz
				v := src.Block(x, y, z)
				if v != 0 {
					allAir = false
				}
				section[SectionIndex(lx, ly, lz)] = v
			}
		}
	}

	w.OpenCompound("block_states")
	if allAir {
		w.OpenList("palette", nbt.TagCompound, 1)
		writePaletteEntry(w, palette[0])
		w.End() // block_states
		return
	}

	w.OpenList("palette", nbt.TagCompound, len(palette))
	for _, name := range palette {
		writePaletteEntry(w, name)
	}
	words := PackSection(section)
	w.LongArray("data", words[:])
	w.End() // block_states
}

// writePaletteEntry writes one block_states palette entry: a compound
// with a single "Name" field, per Anvil's real palette format (not the
// bare-string list the paletted-container name might suggest).
func writePaletteEntry(w *nbt.Writer, name string) {
	w.OpenElemCompound()
	w.String("Name", name)
	w.End()
}
