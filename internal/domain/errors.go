package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification.
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidConfig = errors.New("invalid config")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindAlreadyChosen        ErrorKind = "already_chosen_value"
	KindNotFound             ErrorKind = "not_found"
	KindLimitReached         ErrorKind = "limit_reached"
	KindPropertyNotOwned     ErrorKind = "property_not_owned"
	KindPropertyAlreadyOwned ErrorKind = "property_already_owned"
	KindNotAuthorized        ErrorKind = "not_authorized"
	KindNoPaymentNeeded      ErrorKind = "no_payment_needed"
	KindUnexpectedValue      ErrorKind = "unexpected_value"
	KindInvalidConfig        ErrorKind = "invalid_config"
	KindExecution            ErrorKind = "execution"
)

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

// Errorf builds an OpError whose message is formatted like fmt.Errorf.
func Errorf(op string, kind ErrorKind, format string, args ...any) error {
	return &OpError{
		Op:   op,
		Kind: kind,
		Err:  fmt.Errorf(format, args...),
	}
}

// IsKind helps callers classify errors without depending on infra packages.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

// KindOf returns the kind of the outermost OpError in the chain, or
// KindExecution when err carries none.
func KindOf(err error) ErrorKind {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return KindExecution
}
