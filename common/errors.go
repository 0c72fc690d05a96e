// Package common - Shared detection results and error taxonomy.
package common

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error taxonomy for the detector. Callers match with errors.Is; every error
// returned by this module wraps exactly one of these.
var (
	// ErrConfigMissing is returned when the config file is empty, unreadable or
	// does not contain the requested key.
	ErrConfigMissing = errors.New("config value missing")
	// ErrConfigParse is returned when a config value cannot be converted to the
	// requested scalar type.
	ErrConfigParse = errors.New("config value malformed")
	// ErrModelLoad is returned when the inference engine rejects the model or
	// config files.
	ErrModelLoad = errors.New("model load failed")
	// ErrNotInitialized is returned by Detect before Initialize succeeded.
	ErrNotInitialized = errors.New("detector not initialized")
	// ErrAlreadyInitialized is returned by a second Initialize.
	ErrAlreadyInitialized = errors.New("detector already initialized")
	// ErrReleased is returned by any call on a detector after Close.
	ErrReleased = errors.New("detector released")
	// ErrInvalidImage is returned for degenerate input images.
	ErrInvalidImage = errors.New("invalid image")
	// ErrDecode is returned when an output tensor does not match the label set.
	ErrDecode = errors.New("malformed output tensor")
	// ErrEmptyLabels is returned by Initialize when no labels were supplied.
	ErrEmptyLabels = errors.New("label set is empty")
	// ErrInference is returned when the forward pass fails.
	ErrInference = errors.New("inference failed")
)

// ConfigParseError describes a config value that could not be converted.
type ConfigParseError struct {
	// Key is the key that was looked up.
	Key string
	// Value is the raw right-hand side that failed to parse.
	Value string
	// Err is the underlying conversion error, if any.
	Err error
}

func (e *ConfigParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: key %q value %q: %v", ErrConfigParse, e.Key, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: key %q value %q", ErrConfigParse, e.Key, e.Value)
}

// Unwrap returns the underlying conversion error.
func (e *ConfigParseError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrConfigParse.
func (e *ConfigParseError) Is(target error) bool {
	return target == ErrConfigParse
}
