// Package darknet - OpenCV DNN adapter for darknet weights and cfg files.
package darknet

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gocv.io/x/gocv"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-yolo/common"
	"github.com/nvr-ai/go-yolo/inference"
)

// Config selects the OpenCV DNN backend and target device.
type Config struct {
	Backend gocv.NetBackendType
	Target  gocv.NetTargetType
}

// DefaultConfig returns the OpenCV backend on CPU.
func DefaultConfig() Config {
	return Config{
		Backend: gocv.NetBackendOpenCV,
		Target:  gocv.NetTargetCPU,
	}
}

// Network is a darknet network loaded through gocv.ReadNetFromDarknet.
type Network struct {
	net       gocv.Net
	outLayers []string
	logger    *zap.Logger
	closed    bool
}

var _ inference.Network = (*Network)(nil)

// NewLoader returns an inference.Loader that loads darknet networks.
//
// Arguments:
//   - cfg: Backend and target selection.
//   - logger: Logger for load events; nil disables logging.
//
// Returns:
//   - inference.Loader: The loader.
func NewLoader(cfg Config, logger *zap.Logger) inference.Loader {
	return func(modelPath, configPath string) (inference.Network, error) {
		return Load(modelPath, configPath, cfg, logger)
	}
}

// Load reads a darknet network and resolves its unconnected output layers.
//
// Arguments:
//   - modelPath: The .weights file.
//   - configPath: The .cfg file.
//   - cfg: Backend and target selection.
//   - logger: Logger for load events; nil disables logging.
//
// Returns:
//   - *Network: The loaded network.
//   - error: ErrModelLoad if OpenCV cannot load the files.
func Load(modelPath, configPath string, cfg Config, logger *zap.Logger) (*Network, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, p := range []string{modelPath, configPath} {
		if _, err := os.Stat(p); err != nil {
			return nil, errors.Wrapf(common.ErrModelLoad, "%v", err)
		}
	}

	net := gocv.ReadNetFromDarknet(configPath, modelPath)
	if net.Empty() {
		net.Close()
		return nil, errors.Wrapf(common.ErrModelLoad, "opencv rejected %s / %s", modelPath, configPath)
	}

	net.SetPreferableBackend(cfg.Backend)
	net.SetPreferableTarget(cfg.Target)

	var outLayers []string
	for _, id := range net.GetUnconnectedOutLayers() {
		layer := net.GetLayer(id)
		outLayers = append(outLayers, layer.GetName())
		layer.Close()
	}
	if len(outLayers) == 0 {
		net.Close()
		return nil, errors.Wrapf(common.ErrModelLoad, "%s has no output layers", configPath)
	}

	logger.Info("darknet network loaded",
		zap.String("model", modelPath),
		zap.String("config", configPath),
		zap.Strings("output_layers", outLayers),
	)

	return &Network{net: net, outLayers: outLayers, logger: logger}, nil
}

// OutputLayers returns the names of the layers Forward reads.
func (n *Network) OutputLayers() []string {
	return append([]string(nil), n.outLayers...)
}

// Forward copies blob into an OpenCV blob, runs every output layer and copies
// the results out. All Mats are closed before returning.
func (n *Network) Forward(blob *tensor.Dense) (outputs []inference.OutputTensor, err error) {
	data, height, width, err := inference.BlobData(blob)
	if err != nil {
		return nil, err
	}

	in := gocv.NewMatWithSizes([]int{1, 3, height, width}, gocv.MatTypeCV32F)
	defer func() { err = multierr.Append(err, in.Close()) }()

	ptr, err := in.DataPtrFloat32()
	if err != nil {
		return nil, errors.Wrap(err, "blob mat")
	}
	copy(ptr, data)

	n.net.SetInput(in, "")
	mats := n.net.ForwardLayers(n.outLayers)
	defer func() {
		for i := range mats {
			err = multierr.Append(err, mats[i].Close())
		}
		if err != nil {
			outputs = nil
		}
	}()

	outputs = make([]inference.OutputTensor, 0, len(mats))
	for i := range mats {
		out, cerr := toOutputTensor(&mats[i])
		if cerr != nil {
			return nil, errors.WithMessagef(cerr, "output layer %s", n.outLayers[i])
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

// toOutputTensor copies a float32 Mat into a rows x cols tensor. A Mat with
// a zero dimension yields a tensor with no rows.
func toOutputTensor(m *gocv.Mat) (inference.OutputTensor, error) {
	var data []float32
	if !m.Empty() {
		ptr, err := m.DataPtrFloat32()
		if err != nil {
			return inference.OutputTensor{}, err
		}
		data = ptr
	}
	return inference.OutputFromShape(m.Size(), data)
}

// Close releases the OpenCV network.
func (n *Network) Close() error {
	if n.closed {
		return nil
	}
	n.closed = true
	err := n.net.Close()
	n.logger.Info("darknet network closed")
	return err
}
