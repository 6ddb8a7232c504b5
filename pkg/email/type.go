package email

import "time"

// Security selects how the SMTP connection is secured.
type Security string

const (
	SecurityNone     Security = "none"
	SecurityStartTLS Security = "starttls"
	SecurityTLS      Security = "tls"
)

const (
	DefaultTimeout = 15 * time.Second
	DefaultPort    = 587
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	Security Security
	Timeout  time.Duration
	// InsecureSkipVerify disables certificate checks, for local relays only.
	InsecureSkipVerify bool
}

// Message is a single outbound mail with a plain-text and an HTML part.
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}
