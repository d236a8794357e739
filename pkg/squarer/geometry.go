package squarer

import (
	"fmt"
	"image"
)

// Geometry describes how one image is cropped and padded.
type Geometry struct {
	SrcWidth  int
	SrcHeight int
	Crop      image.Rectangle // relative to the source bounds
	Side      int             // width and height of the output
	PadTop    int             // negative when the crop is taller than Side
	PadBottom int
}

// PlanGeometry computes the crop box and vertical padding for a w x h image
// with margin pixels removed from both the left and right edges.
// No validation is done here; see Squarer.Plan.
func PlanGeometry(w, h, margin int) Geometry {
	side := w - 2*margin
	padTop := floorDiv(side-h, 2)
	return Geometry{
		SrcWidth:  w,
		SrcHeight: h,
		Crop:      image.Rect(margin, 0, w-margin, h),
		Side:      side,
		PadTop:    padTop,
		PadBottom: side - h - padTop,
	}
}

// Overflows reports whether the crop is taller than the square it goes into.
func (g Geometry) Overflows() bool {
	return g.PadTop < 0
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d -> crop %v -> %dx%d (pad top %d, bottom %d)",
		g.SrcWidth, g.SrcHeight, g.Crop, g.Side, g.Side, g.PadTop, g.PadBottom)
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
