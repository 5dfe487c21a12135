package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound marks a task or project id that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable marks a storage failure. Callers decide whether to
	// retry the outer request; repositories never retry on their own.
	ErrUnavailable = errors.New("storage unavailable")
)

// translate maps gorm errors onto the repository sentinels, keeping the
// underlying cause in the message.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}
