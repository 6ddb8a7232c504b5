package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"station-alert-srv/pkg/log"
)

var (
	errWebhookRequired = errors.New("discord: webhook URL is required")
	errInvalidWebhook  = errors.New("discord: webhook URL must be .../webhooks/{id}/{token}")
)

type IDiscord interface {
	SendMessage(ctx context.Context, content string) error
	SendEmbed(ctx context.Context, options MessageOptions) error
	SendWarning(ctx context.Context, title, description string) error
	Close() error
}

// DefaultConfig returns the default Discord config.
func DefaultConfig() Config {
	return Config{
		Timeout:         DefaultTimeout,
		MaxAttempts:     DefaultMaxAttempts,
		RetryDelay:      DefaultRetryDelay,
		DefaultUsername: DefaultUsername,
	}
}

func parseWebhookURL(webhookURL string) (id, token string, err error) {
	webhookURL = strings.TrimSpace(webhookURL)
	if !strings.HasPrefix(webhookURL, webhookURLPrefix) {
		return "", "", errInvalidWebhook
	}
	parts := strings.SplitN(strings.TrimPrefix(webhookURL, webhookURLPrefix), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errInvalidWebhook
	}
	return parts[0], parts[1], nil
}

// New builds a webhook client from a full Discord webhook URL.
func New(l log.Logger, webhookURL string, cfg Config) (IDiscord, error) {
	if webhookURL == "" {
		return nil, errWebhookRequired
	}
	id, token, err := parseWebhookURL(webhookURL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.DefaultUsername == "" {
		cfg.DefaultUsername = DefaultUsername
	}
	return &discordImpl{
		l:       l,
		webhook: webhookInfo{id: id, token: token},
		config:  cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
		},
	}, nil
}

func (d *discordImpl) webhookURL() string {
	if d.config.BaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(d.config.BaseURL, "/"), d.webhook.id, d.webhook.token)
	}
	return fmt.Sprintf(webhookURLTemplate, d.webhook.id, d.webhook.token)
}
