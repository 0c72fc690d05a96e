package detector

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nvr-ai/go-yolo/inference"
	"github.com/nvr-ai/go-yolo/models/model"
)

// Builder assembles a Detector with a fluent API. The first error sticks and
// is returned by Build.
type Builder struct {
	strategy model.Strategy
	opts     []Option
	err      error
}

// NewBuilder creates a new detector builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithStrategy sets the model strategy.
//
// Arguments:
//   - strategy: The strategy, e.g. yolov3.NewModel(darknet.NewLoader(...)).
//
// Returns:
//   - *Builder: The builder.
func (b *Builder) WithStrategy(strategy model.Strategy) *Builder {
	if b.HasError() {
		return b
	}
	if strategy == nil {
		b.err = errors.New("strategy is nil")
		return b
	}
	b.strategy = strategy
	return b
}

// WithLogger sets the logger.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	if b.HasError() {
		return b
	}
	b.opts = append(b.opts, WithLogger(logger))
	return b
}

// WithPreprocessor sets the preprocessor.
func (b *Builder) WithPreprocessor(p *inference.Preprocessor) *Builder {
	if b.HasError() {
		return b
	}
	b.opts = append(b.opts, WithPreprocessor(p))
	return b
}

// HasError checks if the builder has errors.
func (b *Builder) HasError() bool {
	return b.err != nil
}

// Build builds an uninitialized detector.
//
// Returns:
//   - *Detector: The detector.
//   - error: The first error recorded, or a missing strategy.
func (b *Builder) Build() (*Detector, error) {
	if b.HasError() {
		return nil, b.err
	}
	if b.strategy == nil {
		return nil, errors.New("strategy not configured")
	}
	return New(b.strategy, b.opts...)
}

// MustBuild builds the detector and panics if there is an error.
func (b *Builder) MustBuild() *Detector {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}
