// Package images - Decoded pixel buffers and box geometry for detection.
package images

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-yolo/common"
)

// ChannelOrder is the byte order of the three interleaved color channels.
type ChannelOrder int

const (
	// OrderRGB stores pixels as R, G, B.
	OrderRGB ChannelOrder = iota
	// OrderBGR stores pixels as B, G, R (OpenCV's native order).
	OrderBGR
)

// Channels is the number of interleaved channels in an Image.
const Channels = 3

func (o ChannelOrder) String() string {
	switch o {
	case OrderRGB:
		return "rgb"
	case OrderBGR:
		return "bgr"
	default:
		return fmt.Sprintf("order(%d)", int(o))
	}
}

// Image is a decoded 8-bit, 3-channel, row-major pixel buffer.
type Image struct {
	// Pix holds Width*Height*3 bytes.
	Pix []byte `json:"pix" yaml:"pix"`
	// The width of the image.
	Width int `json:"width" yaml:"width"`
	// The height of the image.
	Height int `json:"height" yaml:"height"`
	// Order is the channel order of Pix.
	Order ChannelOrder `json:"order" yaml:"order"`
}

// NewImage allocates a zeroed image of the given size.
func NewImage(width, height int, order ChannelOrder) Image {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return Image{
		Pix:    make([]byte, width*height*Channels),
		Width:  width,
		Height: height,
		Order:  order,
	}
}

// Validate reports ErrInvalidImage for empty or truncated buffers.
//
// Returns:
//   - error: nil when the image can be fed to a preprocessor.
func (img Image) Validate() error {
	if img.Width <= 0 || img.Height <= 0 {
		return errors.Wrapf(common.ErrInvalidImage, "dimensions %dx%d", img.Width, img.Height)
	}
	if img.Order != OrderRGB && img.Order != OrderBGR {
		return errors.Wrapf(common.ErrInvalidImage, "unsupported channel order %s", img.Order)
	}
	if want := img.Width * img.Height * Channels; len(img.Pix) < want {
		return errors.Wrapf(common.ErrInvalidImage, "buffer holds %d bytes, needs %d", len(img.Pix), want)
	}
	return nil
}

// RGB returns the pixel at (x, y) in R, G, B order regardless of storage order.
func (img Image) RGB(x, y int) (r, g, b uint8) {
	i := (y*img.Width + x) * Channels
	if img.Order == OrderBGR {
		return img.Pix[i+2], img.Pix[i+1], img.Pix[i]
	}
	return img.Pix[i], img.Pix[i+1], img.Pix[i+2]
}

// Set writes the pixel at (x, y) given R, G, B values.
func (img Image) Set(x, y int, r, g, b uint8) {
	i := (y*img.Width + x) * Channels
	if img.Order == OrderBGR {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2] = b, g, r
		return
	}
	img.Pix[i], img.Pix[i+1], img.Pix[i+2] = r, g, b
}

// NRGBA converts the buffer to an opaque *image.NRGBA.
func (img Image) NRGBA() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			r, g, b := img.RGB(x, y)
			o := dst.PixOffset(x, y)
			dst.Pix[o+0] = r
			dst.Pix[o+1] = g
			dst.Pix[o+2] = b
			dst.Pix[o+3] = 0xff
		}
	}
	return dst
}

// FromImage copies any image.Image into an RGB Image, dropping alpha.
//
// Arguments:
//   - src: The decoded source image.
//
// Returns:
//   - Image: The RGB buffer with origin moved to (0, 0).
func FromImage(src image.Image) Image {
	nrgba := imaging.Clone(src)
	w, h := nrgba.Bounds().Dx(), nrgba.Bounds().Dy()
	out := NewImage(w, h, OrderRGB)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := nrgba.PixOffset(x, y)
			out.Set(x, y, nrgba.Pix[o], nrgba.Pix[o+1], nrgba.Pix[o+2])
		}
	}
	return out
}
