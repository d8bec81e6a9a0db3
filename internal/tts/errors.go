package tts

import (
	"errors"
	"fmt"
)

// ValidationError reports bad input to the pipeline: empty content, an
// unsupported option value, or text over a provider's limit. Never
// retried; the same input would fail the same way.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// ConfigurationError reports a deployment problem: a provider that is
// unknown, disabled, or has no registered driver. Never retried.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Reason
}

// ProviderError wraps a transport, auth or API failure from a vendor.
// Retryable; the vendor's own error text is preserved for diagnosis.
type ProviderError struct {
	Service string
	Err     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider: %v", e.Service, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// StorageError wraps a failure reading or writing an audio artifact.
// Retryable.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Retryable reports whether a generation failure may succeed on a later
// attempt. Validation and configuration failures are terminal; anything
// else (provider, storage, unexpected) is worth retrying.
func Retryable(err error) bool {
	var validation *ValidationError
	var configuration *ConfigurationError
	if errors.As(err, &validation) || errors.As(err, &configuration) {
		return false
	}
	return true
}
