package common

import (
	"fmt"
	"image"
)

// Detection is a labeled, scored object found in an image. Coordinates are
// integer pixels with a top-left origin.
type Detection struct {
	// X, Y is the top-left corner of the box.
	X, Y int
	// Width and Height are the box extents.
	Width, Height int
	// Label is the class name.
	Label string
	// Probability is the class probability in [0, 1]. It is the network's
	// float32 score widened to float64, so 0.9 reads back as
	// float64(float32(0.9)) == 0.8999999761581421.
	Probability float64
}

// Bounds converts the detection box to an image.Rectangle.
//
// Returns:
//   - image.Rectangle: (X, Y)-(X+Width, Y+Height).
func (d Detection) Bounds() image.Rectangle {
	return image.Rect(d.X, d.Y, d.X+d.Width, d.Y+d.Height)
}

// String formats the detection for logs.
//
// @example
// d := Detection{X: 40, Y: 30, Width: 20, Height: 40, Label: "dog", Probability: 0.9}
// fmt.Println(d) // Object dog (probability 0.900000): (40, 30) 20x40
func (d Detection) String() string {
	return fmt.Sprintf("Object %s (probability %f): (%d, %d) %dx%d",
		d.Label, d.Probability, d.X, d.Y, d.Width, d.Height)
}
