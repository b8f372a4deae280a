package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Input validation errors
	ErrInvalidInput     = errors.New("invalid diagnostic input")
	ErrInvalidShape     = fmt.Errorf("%w: array shape", ErrInvalidInput)
	ErrTooFewIterations = fmt.Errorf("%w: need at least 2 iterations", ErrInvalidInput)
	ErrTooFewChains     = fmt.Errorf("%w: multi-chain diagnostics need at least 2 chains", ErrInvalidInput)
	ErrNonFinite        = fmt.Errorf("%w: non-finite draw", ErrInvalidInput)

	// Transform errors
	ErrInvalidTransform = errors.New("invalid transform hint")

	// Manifest errors
	ErrInvalidManifest = errors.New("invalid run manifest")
)

// Error constructors with context
func NewShapeError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidShape, reason)
}

func NewTransformError(hint string) error {
	return fmt.Errorf("%w: %q (want \"\", \"log\" or \"logit\")", ErrInvalidTransform, hint)
}

func NewNonFiniteError(chain, iteration int) error {
	return fmt.Errorf("%w at chain %d, iteration %d", ErrNonFinite, chain, iteration)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidManifest, field, reason)
}

// Error checking helpers
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

func IsShapeError(err error) bool {
	return errors.Is(err, ErrInvalidShape)
}

func IsTransformError(err error) bool {
	return errors.Is(err, ErrInvalidTransform)
}
