package images

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-yolo/common"
)

func TestImageValidate(t *testing.T) {
	tests := []struct {
		name    string
		img     Image
		wantErr bool
	}{
		{"valid rgb", NewImage(4, 3, OrderRGB), false},
		{"valid bgr", NewImage(1, 1, OrderBGR), false},
		{"zero width", NewImage(0, 3, OrderRGB), true},
		{"negative size", Image{Width: -1, Height: 2}, true},
		{"truncated buffer", Image{Pix: make([]byte, 5), Width: 2, Height: 1, Order: OrderRGB}, true},
		{"unknown order", Image{Pix: make([]byte, 3), Width: 1, Height: 1, Order: ChannelOrder(9)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.img.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrInvalidImage)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestImageSetRGB(t *testing.T) {
	for _, order := range []ChannelOrder{OrderRGB, OrderBGR} {
		t.Run(order.String(), func(t *testing.T) {
			img := NewImage(2, 2, order)
			img.Set(1, 1, 10, 20, 30)

			r, g, b := img.RGB(1, 1)
			assert.Equal(t, []uint8{10, 20, 30}, []uint8{r, g, b})

			i := (1*2 + 1) * Channels
			if order == OrderBGR {
				assert.Equal(t, []byte{30, 20, 10}, img.Pix[i:i+3])
			} else {
				assert.Equal(t, []byte{10, 20, 30}, img.Pix[i:i+3])
			}

			c := img.NRGBA().NRGBAAt(1, 1)
			assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 0xff}, c)
		})
	}
}

func TestFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 8, 7))
	src.Set(6, 6, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	img := FromImage(src)
	require.NoError(t, img.Validate())
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, OrderRGB, img.Order)

	r, g, b := img.RGB(1, 1)
	assert.Equal(t, []uint8{200, 100, 50}, []uint8{r, g, b})
}
