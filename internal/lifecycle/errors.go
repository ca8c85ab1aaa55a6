package lifecycle

import (
	"errors"
	"fmt"

	"interviewprep/internal/repositories"
)

var (
	// ErrInvalidTransition is returned when an action is not allowed in the
	// session's current state.
	ErrInvalidTransition = errors.New("invalid transition")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrValidation        = errors.New("validation failed")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTransition, fmt.Sprintf(format, args...))
}

// translate maps repository errors onto the lifecycle taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrSessionNotFound), errors.Is(err, repositories.ErrSlotNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, repositories.ErrInvalidSlots):
		return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	}
	return err
}
