package images

import "github.com/chewxy/math32"

// Box is a floating point box in center form, in pixels.
type Box struct {
	CX, CY, W, H float32
}

// Corners returns the top-left and bottom-right corners of b.
func (b Box) Corners() (x1, y1, x2, y2 float32) {
	return b.CX - b.W/2, b.CY - b.H/2, b.CX + b.W/2, b.CY + b.H/2
}

// Area returns the area of b, zero for degenerate boxes.
func (b Box) Area() float32 {
	return math32.Max(b.W, 0) * math32.Max(b.H, 0)
}

// IoU returns the Intersection over Union of two boxes:
//
//	IoU = area(a ∩ b) / area(a ∪ b)
//
// Disjoint or touching boxes yield 0, as does a zero union.
//
// Example:
//
//	a := Box{CX: 5, CY: 5, W: 10, H: 10}
//	b := Box{CX: 10, CY: 10, W: 10, H: 10}
//	IoU(a, b) // 25 / 175 ≈ 0.142857
func IoU(a, b Box) float32 {
	ax1, ay1, ax2, ay2 := a.Corners()
	bx1, by1, bx2, by2 := b.Corners()

	interW := math32.Min(ax2, bx2) - math32.Max(ax1, bx1)
	interH := math32.Min(ay2, by2) - math32.Max(ay1, by1)
	if interW <= 0 || interH <= 0 {
		return 0
	}
	inter := interW * interH

	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}
