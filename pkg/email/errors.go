package email

import "errors"

var (
	ErrHostRequired      = errors.New("email: smtp host is required")
	ErrFromRequired      = errors.New("email: sender address is required")
	ErrRecipientRequired = errors.New("email: recipient is required")
	ErrEmptyBody         = errors.New("email: message has no body")
)
