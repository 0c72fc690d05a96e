// Package inference - Forward-pass boundary to external inference engines.
package inference

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-yolo/common"
)

// Network runs a forward pass over a preprocessed blob.
//
// Implementations wrap native engine handles. A Network is owned by exactly
// one detector and is never called concurrently.
type Network interface {
	// Forward runs the network on an NCHW float32 blob and returns one output
	// per output layer. The returned tensors are plain Go memory; any native
	// buffers are released before Forward returns.
	Forward(blob *tensor.Dense) ([]OutputTensor, error)
	// Close releases the native handle.
	Close() error
}

// Loader loads a Network from a weights file and its config file.
type Loader func(modelPath, configPath string) (Network, error)

// OutputTensor is a row-major 2-D grid of float32, one row per anchor.
type OutputTensor struct {
	Rows int
	Cols int
	Data []float32
}

// NewOutputTensor wraps data as a rows x cols tensor.
//
// Arguments:
//   - rows: Number of anchors.
//   - cols: Values per anchor.
//   - data: Row-major backing slice, not copied.
//
// Returns:
//   - OutputTensor: The tensor.
func NewOutputTensor(rows, cols int, data []float32) OutputTensor {
	return OutputTensor{Rows: rows, Cols: cols, Data: data}
}

// Row returns row i without copying.
func (t OutputTensor) Row(i int) []float32 {
	return t.Data[i*t.Cols : (i+1)*t.Cols]
}

// Validate checks that the backing slice matches the declared shape.
func (t OutputTensor) Validate() error {
	if t.Rows < 0 || t.Cols < 0 {
		return errors.Wrapf(common.ErrDecode, "negative shape %dx%d", t.Rows, t.Cols)
	}
	if len(t.Data) != t.Rows*t.Cols {
		return errors.Wrapf(common.ErrDecode, "shape %dx%d needs %d values, got %d",
			t.Rows, t.Cols, t.Rows*t.Cols, len(t.Data))
	}
	return nil
}

// OutputFromShape copies data into a rows x cols tensor. Cols is the last
// dimension of shape and leading dimensions fold into rows, so a (1, 0, 85)
// output is a valid tensor with no rows.
//
// Arguments:
//   - shape: The engine's output shape.
//   - data: Row-major values; may be empty when a dimension is zero.
//
// Returns:
//   - OutputTensor: The tensor, backed by a copy of data.
//   - error: ErrDecode when the last dimension is missing or zero, or when
//     data is not a whole number of rows.
func OutputFromShape(shape []int, data []float32) (OutputTensor, error) {
	if len(shape) == 0 || shape[len(shape)-1] <= 0 {
		return OutputTensor{}, errors.Wrapf(common.ErrDecode, "output shape %v has no columns", shape)
	}
	cols := shape[len(shape)-1]
	if len(data)%cols != 0 {
		return OutputTensor{}, errors.Wrapf(common.ErrDecode, "%d values do not fill rows of %d", len(data), cols)
	}
	if len(data) == 0 {
		return NewOutputTensor(0, cols, nil), nil
	}
	backing := make([]float32, len(data))
	copy(backing, data)
	return NewOutputTensor(len(backing)/cols, cols, backing), nil
}

// BlobData returns the float32 backing of a blob together with its
// height and width, checking for an NCHW layout with batch 1 and 3 channels.
func BlobData(blob *tensor.Dense) (data []float32, height, width int, err error) {
	if blob == nil {
		return nil, 0, 0, errors.New("blob is nil")
	}
	shape := blob.Shape()
	if len(shape) != 4 || shape[0] != 1 || shape[1] != 3 {
		return nil, 0, 0, errors.Errorf("blob shape %v is not (1, 3, H, W)", shape)
	}
	data, ok := blob.Data().([]float32)
	if !ok {
		return nil, 0, 0, errors.Errorf("blob dtype %v is not float32", blob.Dtype())
	}
	return data, shape[2], shape[3], nil
}
