package notifier

import "errors"

var (
	ErrNoRecipient = errors.New("notification has no recipient")
	ErrCircuitOpen = errors.New("sender circuit open")
)
