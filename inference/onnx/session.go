package onnx

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-yolo/common"
	"github.com/nvr-ai/go-yolo/inference"
)

// envMu serialises environment initialisation across loaders.
var envMu sync.Mutex

// Network is an onnxruntime session over a single-input YOLO graph.
type Network struct {
	session     *ort.DynamicAdvancedSession
	inputName   string
	outputNames []string
	logger      *zap.Logger
}

var _ inference.Network = (*Network)(nil)

// NewLoader returns an inference.Loader for ONNX graphs. The config path the
// loader receives is ignored; an ONNX file is self-describing.
func NewLoader(cfg Config, logger *zap.Logger) inference.Loader {
	return func(modelPath, _ string) (inference.Network, error) {
		return Load(modelPath, cfg, logger)
	}
}

// Load initialises the onnxruntime environment on first use and opens a
// session over modelPath.
//
// Arguments:
//   - modelPath: The .onnx file.
//   - cfg: Runtime configuration.
//   - logger: Logger for load events; nil disables logging.
//
// Returns:
//   - *Network: The session wrapper.
//   - error: ErrModelLoad on any runtime failure.
func Load(modelPath string, cfg Config, logger *zap.Logger) (*Network, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(common.ErrModelLoad, "%v", err)
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, errors.Wrapf(common.ErrModelLoad, "%v", err)
	}
	if err := initEnvironment(cfg.LibraryPath); err != nil {
		return nil, errors.Wrapf(common.ErrModelLoad, "onnxruntime environment: %v", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, errors.Wrapf(common.ErrModelLoad, "reading %s: %v", modelPath, err)
	}
	if len(inputs) != 1 {
		return nil, errors.Wrapf(common.ErrModelLoad, "%s has %d inputs, want 1", modelPath, len(inputs))
	}
	if len(outputs) == 0 {
		return nil, errors.Wrapf(common.ErrModelLoad, "%s has no outputs", modelPath)
	}
	outputNames := make([]string, len(outputs))
	for i, o := range outputs {
		outputNames[i] = o.Name
	}

	options, err := sessionOptions(cfg)
	if err != nil {
		return nil, errors.Wrapf(common.ErrModelLoad, "session options: %v", err)
	}
	defer options.Destroy()

	session, err := ort.NewDynamicAdvancedSession(modelPath, []string{inputs[0].Name}, outputNames, options)
	if err != nil {
		return nil, errors.Wrapf(common.ErrModelLoad, "creating session: %v", err)
	}

	logger.Info("onnx session created",
		zap.String("model", modelPath),
		zap.String("provider", string(cfg.Provider)),
		zap.String("input", inputs[0].Name),
		zap.Strings("outputs", outputNames),
	)

	return &Network{
		session:     session,
		inputName:   inputs[0].Name,
		outputNames: outputNames,
		logger:      logger,
	}, nil
}

func initEnvironment(libraryPath string) error {
	envMu.Lock()
	defer envMu.Unlock()
	if ort.IsInitialized() {
		return nil
	}
	ort.SetSharedLibraryPath(libraryPath)
	return ort.InitializeEnvironment()
}

func sessionOptions(cfg Config) (*ort.SessionOptions, error) {
	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, err
	}
	if cfg.IntraOpThreads > 0 {
		if err := options.SetIntraOpNumThreads(cfg.IntraOpThreads); err != nil {
			options.Destroy()
			return nil, err
		}
	}
	if cfg.InterOpThreads > 0 {
		if err := options.SetInterOpNumThreads(cfg.InterOpThreads); err != nil {
			options.Destroy()
			return nil, err
		}
	}

	switch cfg.Provider {
	case ProviderCUDA:
		cuda, err := ort.NewCUDAProviderOptions()
		if err != nil {
			options.Destroy()
			return nil, err
		}
		defer cuda.Destroy()
		if err := options.AppendExecutionProviderCUDA(cuda); err != nil {
			options.Destroy()
			return nil, err
		}
	case ProviderCoreML:
		if err := options.AppendExecutionProviderCoreML(0); err != nil {
			options.Destroy()
			return nil, err
		}
	}
	return options, nil
}

// Forward runs the session on a (1, 3, H, W) blob. Each output is flattened to
// rows x cols with cols taken from its last dimension.
func (n *Network) Forward(blob *tensor.Dense) (result []inference.OutputTensor, err error) {
	data, height, width, err := inference.BlobData(blob)
	if err != nil {
		return nil, err
	}

	input, err := ort.NewTensor(ort.NewShape(1, 3, int64(height), int64(width)), data)
	if err != nil {
		return nil, errors.Wrap(err, "input tensor")
	}
	defer func() { err = multierr.Append(err, input.Destroy()) }()

	outputs := make([]ort.Value, len(n.outputNames))
	if err := n.session.Run([]ort.Value{input}, outputs); err != nil {
		return nil, errors.Wrap(err, "session run")
	}
	defer func() {
		for _, o := range outputs {
			if o != nil {
				err = multierr.Append(err, o.Destroy())
			}
		}
		if err != nil {
			result = nil
		}
	}()

	result = make([]inference.OutputTensor, 0, len(outputs))
	for i, o := range outputs {
		t, ok := o.(*ort.Tensor[float32])
		if !ok {
			return nil, errors.Wrapf(common.ErrDecode, "output %s is not float32", n.outputNames[i])
		}
		out, terr := toOutputTensor(t.GetShape(), t.GetData())
		if terr != nil {
			return nil, errors.WithMessagef(terr, "output %s", n.outputNames[i])
		}
		result = append(result, out)
	}
	return result, nil
}

func toOutputTensor(shape ort.Shape, data []float32) (inference.OutputTensor, error) {
	dims := make([]int, len(shape))
	for i, d := range shape {
		dims[i] = int(d)
	}
	return inference.OutputFromShape(dims, data)
}

// Close destroys the session.
func (n *Network) Close() error {
	if n.session == nil {
		return nil
	}
	err := n.session.Destroy()
	n.session = nil
	n.logger.Info("onnx session destroyed")
	return err
}
