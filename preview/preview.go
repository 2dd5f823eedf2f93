// Package preview renders a single horizontal slice of a tile's
// occupancy grid to a PNG, purely as a diagnostic aid for eyeballing a
// conversion before trusting the region output. It is a non-interactive,
// static-bitmap descendant of the engine's GPU text renderer
// (voxelrt/rt/core/text_renderer.go): that code drives an opentype atlas
// through a live OpenGL pipeline to label entities in a 3-D view, which
// has no analogue in a batch CLI tool, so this package keeps only the
// font/drawing half — golang.org/x/image's basicfont plus image/draw —
// and upscales each occupied cell into a flat-shaded square instead.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/gekko3d/voxelmca/errs"
)

const cellPixels = 8

var (
	colorEmpty    = color.RGBA{20, 20, 24, 255}
	colorOccupied = color.RGBA{210, 180, 90, 255}
	colorLabel    = color.RGBA{240, 240, 240, 255}
)

// SliceSource supplies occupancy for one Y layer of a tile, x in
// [0,width), z in [0,depth).
type SliceSource interface {
	Occupied(x, z int) bool
}

// Render rasterizes the y=layer slice of src (width x depth cells) into
// a PNG at path, with the tile's (ix, iz) index stamped in the corner.
func Render(path string, src SliceSource, width, depth, layer, ix, iz int) error {
	img := image.NewRGBA(image.Rect(0, 0, width*cellPixels, depth*cellPixels))

	for z := 0; z < depth; z++ {
		for x := 0; x < width; x++ {
			c := colorEmpty
			if src.Occupied(x, z) {
				c = colorOccupied
			}
			rect := image.Rect(x*cellPixels, z*cellPixels, (x+1)*cellPixels, (z+1)*cellPixels)
			draw.Draw(img, rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
		}
	}

	label := fmt.Sprintf("tile(%d,%d) y=%d", ix, iz, layer)
	drawLabel(img, label, 4, 12)

	f, err := os.Create(path)
	if err != nil {
		return errs.IO(path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return errs.IO(path, err)
	}
	return nil
}

func drawLabel(img *image.RGBA, text string, x, y int) {
	d := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{C: colorLabel},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
