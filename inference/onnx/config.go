// Package onnx - onnxruntime adapter for YOLO networks exported to ONNX.
package onnx

import (
	"runtime"

	"github.com/pkg/errors"
)

// Provider names an onnxruntime execution provider.
type Provider string

const (
	// ProviderCPU runs on the default CPU provider.
	ProviderCPU Provider = "cpu"
	// ProviderCUDA runs on NVIDIA CUDA.
	ProviderCUDA Provider = "cuda"
	// ProviderCoreML runs on Apple CoreML.
	ProviderCoreML Provider = "coreml"
)

// Config configures the onnxruntime environment and sessions.
type Config struct {
	// LibraryPath is the onnxruntime shared library. Only the first session
	// created in a process applies it.
	LibraryPath string `json:"library_path" yaml:"library_path"`
	// Provider selects the execution provider.
	Provider Provider `json:"provider" yaml:"provider"`
	// IntraOpThreads is the thread count inside a single operator. Zero keeps
	// the runtime default.
	IntraOpThreads int `json:"intra_op_threads" yaml:"intra_op_threads"`
	// InterOpThreads is the thread count across operators. Zero keeps the
	// runtime default.
	InterOpThreads int `json:"inter_op_threads" yaml:"inter_op_threads"`
}

// DefaultConfig returns a CPU configuration using the platform library path.
func DefaultConfig() Config {
	return Config{
		LibraryPath: SharedLibPath(),
		Provider:    ProviderCPU,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.LibraryPath == "" {
		return errors.New("onnxruntime library path is empty")
	}
	switch c.Provider {
	case "", ProviderCPU, ProviderCUDA, ProviderCoreML:
	default:
		return errors.Errorf("unknown execution provider %q", c.Provider)
	}
	if c.IntraOpThreads < 0 || c.InterOpThreads < 0 {
		return errors.New("thread counts must not be negative")
	}
	return nil
}

// SharedLibPath returns the onnxruntime library bundled under third_party for
// the current platform, or "" when none is shipped for it.
func SharedLibPath() string {
	return sharedLibPath(runtime.GOOS, runtime.GOARCH)
}

func sharedLibPath(goos, goarch string) string {
	switch goos {
	case "windows":
		if goarch == "amd64" {
			return "third_party/onnxruntime.dll"
		}
	case "darwin":
		if goarch == "arm64" {
			return "third_party/onnxruntime_arm64.dylib"
		}
		if goarch == "amd64" {
			return "third_party/onnxruntime_amd64.dylib"
		}
	case "linux":
		if goarch == "arm64" {
			return "third_party/onnxruntime_arm64.so"
		}
		return "third_party/onnxruntime.so"
	}
	return ""
}
