package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrInvalidConfig     = errors.New("invalid config")
	ErrCryptoUnavailable = errors.New("encryption unavailable")
	ErrExecution         = errors.New("execution error")
	ErrAuthFailed        = errors.New("authentication failed")
	ErrNoSamples         = errors.New("no valid samples")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindInvalidConfig     ErrorKind = "invalid_config"
	KindCryptoUnavailable ErrorKind = "crypto_unavailable"
	KindExecution         ErrorKind = "execution"
	KindAuthFailed        ErrorKind = "auth_failed"
	KindNoSamples         ErrorKind = "no_samples"
)

var kindSentinels = map[ErrorKind]error{
	KindInvalidConfig:     ErrInvalidConfig,
	KindCryptoUnavailable: ErrCryptoUnavailable,
	KindExecution:         ErrExecution,
	KindAuthFailed:        ErrAuthFailed,
	KindNoSamples:         ErrNoSamples,
}

// OpError wraps an underlying error with operation context and a kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string // Optional: relevant file path
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is match the sentinel for the error's kind.
func (e *OpError) Is(target error) bool {
	if e == nil {
		return false
	}
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// IsKind helps callers classify errors without depending on other packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// ConfigError builds an invalid-config OpError.
func ConfigError(op string, err error) error {
	return &OpError{Op: op, Kind: KindInvalidConfig, Err: err}
}
