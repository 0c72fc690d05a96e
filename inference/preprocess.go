package inference

import (
	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-yolo/images"
)

// DefaultScaleFactor maps 8-bit channel values into [0, 1].
const DefaultScaleFactor = 1.0 / 255.0

// Preprocessor turns decoded images into the fixed-size scaled blob a
// detector network expects. It holds no per-call state.
type Preprocessor struct {
	// Interpolation is the resampling kernel used when resizing.
	Interpolation resize.InterpolationFunction
	// Order is the channel order of the output planes.
	Order images.ChannelOrder
}

// NewPreprocessor returns a bilinear, RGB-planar preprocessor, matching what
// darknet-trained YOLO networks are fed.
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{
		Interpolation: resize.Bilinear,
		Order:         images.OrderRGB,
	}
}

// Preprocess resizes img to width x height without preserving the aspect
// ratio and writes it as planar float32 multiplied by scale.
//
// Arguments:
//   - img: The decoded input image.
//   - width: The network input width.
//   - height: The network input height.
//   - scale: The factor applied to every 8-bit channel value.
//
// Returns:
//   - *tensor.Dense: A (1, 3, height, width) float32 blob.
//   - error: ErrInvalidImage for degenerate images.
//
// @example
// blob, err := NewPreprocessor().Preprocess(img, 416, 416, DefaultScaleFactor)
func (p *Preprocessor) Preprocess(img images.Image, width, height int, scale float64) (*tensor.Dense, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid network input size %dx%d", width, height)
	}

	resized := imaging.Clone(resize.Resize(uint(width), uint(height), img.NRGBA(), p.Interpolation))

	plane := width * height
	data := make([]float32, 3*plane)
	first, third := 0, 2
	if p.Order == images.OrderBGR {
		first, third = 2, 0
	}

	s := float32(scale)
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			o := resized.PixOffset(x, y)
			data[first*plane+i] = float32(resized.Pix[o+0]) * s
			data[1*plane+i] = float32(resized.Pix[o+1]) * s
			data[third*plane+i] = float32(resized.Pix[o+2]) * s
			i++
		}
	}

	return tensor.New(tensor.WithShape(1, 3, height, width), tensor.WithBacking(data)), nil
}
