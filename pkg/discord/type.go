package discord

import (
	"net/http"
	"time"

	"station-alert-srv/pkg/log"
)

// Config tunes the webhook client.
type Config struct {
	Timeout time.Duration
	// MaxAttempts bounds the number of POSTs per message, first try included.
	MaxAttempts int
	// RetryDelay is the linear backoff step: attempt n waits n*RetryDelay.
	RetryDelay      time.Duration
	DefaultUsername string
	// BaseURL overrides the webhook URL, used by tests.
	BaseURL string
}

type webhookInfo struct {
	id    string
	token string
}

type discordImpl struct {
	l       log.Logger
	webhook webhookInfo
	config  Config
	client  *http.Client
}

type MessageType string

const (
	MessageTypeInfo    MessageType = "info"
	MessageTypeSuccess MessageType = "success"
	MessageTypeWarning MessageType = "warning"
	MessageTypeError   MessageType = "error"
)

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedFooter struct {
	Text    string `json:"text"`
	IconURL string `json:"icon_url,omitempty"`
}

type Embed struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Color       int          `json:"color,omitempty"`
	Timestamp   string       `json:"timestamp,omitempty"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
	Fields      []EmbedField `json:"fields,omitempty"`
}

type WebhookPayload struct {
	Content  string  `json:"content,omitempty"`
	Username string  `json:"username,omitempty"`
	Embeds   []Embed `json:"embeds,omitempty"`
}

type MessageOptions struct {
	Type        MessageType
	Title       string
	Description string
	URL         string
	Fields      []EmbedField
	Footer      *EmbedFooter
	Username    string
	Timestamp   time.Time
}
