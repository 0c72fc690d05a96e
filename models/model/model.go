// Package model - Detection strategy contract and per-model parameters.
package model

import (
	"github.com/nvr-ai/go-yolo/inference"
	"github.com/nvr-ai/go-yolo/models"
	"github.com/nvr-ai/go-yolo/models/postprocess"
)

// Name is the unique identifier of a model strategy.
type Name string

const (
	// ModelNameYOLOv3 is the darknet YOLOv3/v4 grid detector.
	ModelNameYOLOv3 Name = "yolov3"
)

// ModelConfig holds the scalar input parameters of a loaded model. It is
// produced once by InitializeModel and never mutated.
type ModelConfig struct {
	// InputWidth is the network input width in pixels.
	InputWidth int `json:"input_width" yaml:"input_width"`
	// InputHeight is the network input height in pixels.
	InputHeight int `json:"input_height" yaml:"input_height"`
	// ScaleFactor multiplies every 8-bit channel value.
	ScaleFactor float64 `json:"scale_factor" yaml:"scale_factor"`
}

// Handle is a loaded network together with its config.
type Handle struct {
	Network inference.Network
	Config  ModelConfig
}

// Close releases the network.
func (h *Handle) Close() error {
	if h == nil || h.Network == nil {
		return nil
	}
	err := h.Network.Close()
	h.Network = nil
	return err
}

// DecodeContext carries everything a decoder needs besides the raw outputs.
type DecodeContext struct {
	// ImageWidth and ImageHeight are the original image dimensions.
	ImageWidth, ImageHeight int
	// MinProbability is applied to both objectness and class probability.
	MinProbability float32
	// LabelsFilter, when non-nil, is the set of labels allowed through.
	LabelsFilter map[string]struct{}
	// Labels names the class indices.
	Labels models.LabelSet
}

// Strategy loads a model family and decodes its outputs.
type Strategy interface {
	// Name identifies the strategy in logs.
	Name() Name
	// InitializeModel reads the model config and loads the network.
	InitializeModel(modelPath, configPath string) (*Handle, error)
	// Decode turns raw outputs into candidates.
	Decode(outputs []inference.OutputTensor, ctx DecodeContext) ([]postprocess.Candidate, error)
}
