package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound  = errors.New("document not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrNoFiles           = errors.New("no files selected")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInfected          = errors.New("malware detected")
	ErrTemporary         = errors.New("temporary failure")
	ErrConflict          = errors.New("concurrent modification")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
