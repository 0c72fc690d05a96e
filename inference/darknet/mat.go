package darknet

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-yolo/common"
	"github.com/nvr-ai/go-yolo/images"
)

// ImageFromMat copies an 8-bit, 3-channel BGR Mat (what gocv.IMRead and
// VideoCapture produce) into an images.Image.
//
// Arguments:
//   - mat: The source Mat. It is not closed.
//
// Returns:
//   - images.Image: A BGR image.
//   - error: ErrInvalidImage for empty or non CV_8UC3 Mats.
func ImageFromMat(mat gocv.Mat) (images.Image, error) {
	if mat.Empty() {
		return images.Image{}, errors.Wrap(common.ErrInvalidImage, "mat is empty")
	}
	if mat.Type() != gocv.MatTypeCV8UC3 {
		return images.Image{}, errors.Wrapf(common.ErrInvalidImage, "mat type %v is not CV_8UC3", mat.Type())
	}

	img := images.Image{
		Pix:    mat.ToBytes(),
		Width:  mat.Cols(),
		Height: mat.Rows(),
		Order:  images.OrderBGR,
	}
	return img, img.Validate()
}
