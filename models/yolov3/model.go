// Package yolov3 - Darknet YOLOv3/v4 grid detector strategy.
package yolov3

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-yolo/common"
	"github.com/nvr-ai/go-yolo/inference"
	"github.com/nvr-ai/go-yolo/models/model"
	"github.com/nvr-ai/go-yolo/models/postprocess"
	"github.com/nvr-ai/go-yolo/util"
)

const (
	// widthKey and heightKey name the input size in a darknet cfg [net] section.
	widthKey  = "width"
	heightKey = "height"
)

// YOLOv3 loads darknet-style YOLO networks and decodes their outputs.
type YOLOv3 struct {
	loader inference.Loader
}

var _ model.Strategy = (*YOLOv3)(nil)

// NewModel creates a new YOLOv3 strategy.
//
// Arguments:
//   - loader: Loads the network for InitializeModel, e.g. darknet.NewLoader.
//
// Returns:
//   - *YOLOv3: The strategy.
//   - error: Error if loader is nil.
func NewModel(loader inference.Loader) (*YOLOv3, error) {
	if loader == nil {
		return nil, errors.New("NewModel requires a loader")
	}
	return &YOLOv3{loader: loader}, nil
}

// Name returns ModelNameYOLOv3.
func (m *YOLOv3) Name() model.Name {
	return model.ModelNameYOLOv3
}

// InitializeModel reads the input size from the cfg file and loads the
// network. The scale factor is fixed at 1/255.
//
// Arguments:
//   - modelPath: The weights file.
//   - configPath: The darknet cfg file.
//
// Returns:
//   - *model.Handle: The loaded network and its config.
//   - error: ErrConfigMissing, ErrConfigParse or ErrModelLoad.
func (m *YOLOv3) InitializeModel(modelPath, configPath string) (*model.Handle, error) {
	lines, err := util.ReadConfigFile(configPath)
	if err != nil {
		return nil, err
	}

	width, err := util.ConfigScalar[int](lines, widthKey)
	if err != nil {
		return nil, err
	}
	if width <= 0 {
		return nil, &common.ConfigParseError{Key: widthKey, Value: strconv.Itoa(width)}
	}

	height, err := util.ConfigScalar[int](lines, heightKey)
	if err != nil {
		return nil, err
	}
	if height <= 0 {
		return nil, &common.ConfigParseError{Key: heightKey, Value: strconv.Itoa(height)}
	}

	net, err := m.loader(modelPath, configPath)
	if err != nil {
		if errors.Is(err, common.ErrModelLoad) {
			return nil, err
		}
		return nil, errors.Wrapf(common.ErrModelLoad, "%s: %v", modelPath, err)
	}

	return &model.Handle{
		Network: net,
		Config: model.ModelConfig{
			InputWidth:  width,
			InputHeight: height,
			ScaleFactor: inference.DefaultScaleFactor,
		},
	}, nil
}

// Decode implements model.Strategy.
func (m *YOLOv3) Decode(outputs []inference.OutputTensor, ctx model.DecodeContext) ([]postprocess.Candidate, error) {
	return Decode(outputs, ctx)
}
