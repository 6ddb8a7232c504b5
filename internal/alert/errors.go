package alert

import "errors"

var (
	ErrAlertNotFound      = errors.New("alert not found")
	ErrInvalidInput       = errors.New("invalid alert input")
	ErrStationRequired    = errors.New("station code is required")
	ErrRecipientRequired  = errors.New("user email is required")
	ErrUserRequired       = errors.New("user identifier is required")
	ErrEngineStopped      = errors.New("dispatch engine stopped")
	ErrEngineRunning      = errors.New("dispatch engine already running")
	ErrShutdownIncomplete = errors.New("shutdown deadline reached with work in flight")
)
