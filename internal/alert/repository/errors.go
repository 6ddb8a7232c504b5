package repository

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrLastSentConflict = errors.New("last notification time changed concurrently")
	ErrInvalidID        = errors.New("invalid id")
)
