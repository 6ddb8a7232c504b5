package postgres

import (
	"fmt"

	"github.com/google/uuid"
)

// IsUUID reports an error wrapping ErrInvalidUUID when u is not a UUID.
func IsUUID(u string) error {
	if u == "" {
		return fmt.Errorf("%w: UUID cannot be empty", ErrInvalidUUID)
	}
	if _, err := uuid.Parse(u); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidUUID, err)
	}
	return nil
}

func IsValidUUID(u string) bool {
	return IsUUID(u) == nil
}

func NewUUID() string {
	return uuid.New().String()
}
