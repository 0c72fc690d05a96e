// Package detector - Single-image object detection over a grid detector strategy.
package detector

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/nvr-ai/go-yolo/common"
	"github.com/nvr-ai/go-yolo/images"
	"github.com/nvr-ai/go-yolo/inference"
	"github.com/nvr-ai/go-yolo/models"
	"github.com/nvr-ai/go-yolo/models/model"
	"github.com/nvr-ai/go-yolo/models/postprocess"
)

// State is the lifecycle state of a Detector.
type State int

const (
	// StateUninitialized is the state before a successful Initialize.
	StateUninitialized State = iota
	// StateReady accepts Detect calls.
	StateReady
	// StateReleased is terminal.
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateReleased:
		return "released"
	}
	return "unknown"
}

// DetectArgs are the per-call detection parameters.
type DetectArgs struct {
	// MinProbability is the threshold for both objectness and class probability,
	// and the NMS score threshold.
	MinProbability float32 `json:"min_probability" yaml:"min_probability"`
	// LabelsFilter restricts results to these labels. Nil means no filter; an
	// empty non-nil slice rejects everything.
	LabelsFilter []string `json:"labels_filter" yaml:"labels_filter"`
	// NMSThreshold is the IoU at or above which a lower-scored box is suppressed.
	NMSThreshold float32 `json:"nms_threshold" yaml:"nms_threshold"`
}

// DefaultDetectArgs returns {MinProbability: 0.3, LabelsFilter: nil, NMSThreshold: 0.3}.
func DefaultDetectArgs() DetectArgs {
	return DetectArgs{
		MinProbability: 0.3,
		NMSThreshold:   0.3,
	}
}

// Detector owns one loaded network and turns images into detections.
// All methods are safe to call from multiple goroutines; calls serialize.
type Detector struct {
	mu           sync.Mutex
	state        State
	strategy     model.Strategy
	handle       *model.Handle
	labels       models.LabelSet
	preprocessor *inference.Preprocessor
	logger       *zap.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger. Nil is ignored.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Detector) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithPreprocessor replaces the default bilinear RGB preprocessor. Nil is ignored.
func WithPreprocessor(p *inference.Preprocessor) Option {
	return func(d *Detector) {
		if p != nil {
			d.preprocessor = p
		}
	}
}

// New creates an uninitialized detector.
//
// Arguments:
//   - strategy: Loads the model and decodes its outputs.
//   - opts: Optional logger and preprocessor.
//
// Returns:
//   - *Detector: The detector.
//   - error: Error if strategy is nil.
func New(strategy model.Strategy, opts ...Option) (*Detector, error) {
	if strategy == nil {
		return nil, errors.New("detector requires a strategy")
	}
	d := &Detector{
		strategy:     strategy,
		preprocessor: inference.NewPreprocessor(),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With(zap.String("model", string(strategy.Name())))
	return d, nil
}

// Initialize loads the model and moves the detector to Ready. On failure the
// detector stays Uninitialized and may be initialized again.
//
// Arguments:
//   - modelPath: The weights or graph file.
//   - configPath: The model config file holding width and height.
//   - labels: Class names indexed by class id.
//
// Returns:
//   - error: ErrAlreadyInitialized, ErrReleased, ErrEmptyLabels, ErrConfigMissing,
//     ErrConfigParse or ErrModelLoad.
func (d *Detector) Initialize(modelPath, configPath string, labels []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case StateReady:
		return common.ErrAlreadyInitialized
	case StateReleased:
		return common.ErrReleased
	}
	if len(labels) == 0 {
		return common.ErrEmptyLabels
	}

	handle, err := d.strategy.InitializeModel(modelPath, configPath)
	if err != nil {
		return err
	}
	if handle == nil || handle.Network == nil {
		if cerr := handle.Close(); cerr != nil {
			d.logger.Warn("closing partial handle", zap.Error(cerr))
		}
		return errors.Wrap(common.ErrModelLoad, "strategy returned no network")
	}

	d.handle = handle
	d.labels = models.NewLabelSet(labels)
	d.state = StateReady

	d.logger.Info("detector initialized",
		zap.String("model_path", modelPath),
		zap.String("config_path", configPath),
		zap.Int("input_width", handle.Config.InputWidth),
		zap.Int("input_height", handle.Config.InputHeight),
		zap.Int("labels", d.labels.Len()),
	)
	return nil
}

// Detect runs the full pipeline on one image.
//
// Arguments:
//   - img: The decoded image.
//   - args: Thresholds and label filter.
//
// Returns:
//   - []common.Detection: Detections in descending confidence order.
//   - error: ErrNotInitialized, ErrReleased, ErrInvalidImage, ErrInference or ErrDecode.
func (d *Detector) Detect(img images.Image, args DetectArgs) ([]common.Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch d.state {
	case StateUninitialized:
		return nil, common.ErrNotInitialized
	case StateReleased:
		return nil, common.ErrReleased
	}
	if err := img.Validate(); err != nil {
		return nil, err
	}

	cfg := d.handle.Config
	blob, err := d.preprocessor.Preprocess(img, cfg.InputWidth, cfg.InputHeight, cfg.ScaleFactor)
	if err != nil {
		return nil, err
	}

	outputs, err := d.handle.Network.Forward(blob)
	if err != nil {
		return nil, errors.Wrapf(common.ErrInference, "%v", err)
	}

	var filter map[string]struct{}
	if args.LabelsFilter != nil {
		filter = lo.Keyify(args.LabelsFilter)
	}

	candidates, err := d.strategy.Decode(outputs, model.DecodeContext{
		ImageWidth:     img.Width,
		ImageHeight:    img.Height,
		MinProbability: args.MinProbability,
		LabelsFilter:   filter,
		Labels:         d.labels,
	})
	if err != nil {
		return nil, err
	}

	kept := postprocess.NMS(
		postprocess.Boxes(candidates),
		postprocess.Confidences(candidates),
		args.MinProbability,
		args.NMSThreshold,
	)

	d.logger.Debug("detect",
		zap.Int("outputs", len(outputs)),
		zap.Int("candidates", len(candidates)),
		zap.Int("kept", len(kept)),
		zap.Int("dropped", len(candidates)-len(kept)),
	)

	return postprocess.BuildDetections(candidates, kept, d.labels)
}

// Close releases the network and moves the detector to Released. Calling it
// again is a no-op.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == StateReleased {
		return nil
	}
	d.state = StateReleased
	err := d.handle.Close()
	d.handle = nil
	d.logger.Info("detector closed", zap.Error(err))
	return err
}

// State returns the current lifecycle state.
func (d *Detector) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Config returns the model config and whether the detector is Ready.
func (d *Detector) Config() (model.ModelConfig, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateReady {
		return model.ModelConfig{}, false
	}
	return d.handle.Config, true
}

// Labels returns a copy of the label names, or nil before Initialize.
func (d *Detector) Labels() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != StateReady {
		return nil
	}
	return d.labels.Names()
}
