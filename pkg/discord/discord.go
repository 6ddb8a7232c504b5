package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

func (d *discordImpl) Close() error {
	if d.client != nil {
		d.client.CloseIdleConnections()
	}
	return nil
}

// sendWithRetry posts the payload up to MaxAttempts times, waiting
// attempt*RetryDelay between tries. A cancelled ctx stops the loop.
func (d *discordImpl) sendWithRetry(ctx context.Context, payload *WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= d.config.MaxAttempts; attempt++ {
		if attempt > 1 {
			wait := time.Duration(attempt-1) * d.config.RetryDelay
			if d.l != nil {
				d.l.Infof(ctx, "pkg.discord.sendWithRetry: retrying attempt %d/%d in %s", attempt, d.config.MaxAttempts, wait)
			}
			select {
			case <-ctx.Done():
				return fmt.Errorf("discord: %w (last error: %v)", ctx.Err(), lastErr)
			case <-time.After(wait):
			}
		}

		err := d.sendRequest(ctx, body)
		if err == nil {
			return nil
		}
		lastErr = err
		if d.l != nil {
			d.l.Warnf(ctx, "pkg.discord.sendWithRetry: attempt %d failed: %v", attempt, err)
		}
	}
	return fmt.Errorf("failed after %d attempts, last error: %w", d.config.MaxAttempts, lastErr)
}

func (d *discordImpl) sendRequest(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("discord webhook returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func validateEmbedLength(embed *Embed) error {
	total := len(embed.Title) + len(embed.Description)
	for _, f := range embed.Fields {
		total += len(f.Name) + len(f.Value)
	}
	if total > MaxEmbedLength {
		return fmt.Errorf("embed too long: %d characters (max: %d)", total, MaxEmbedLength)
	}
	return nil
}

func colorForType(msgType MessageType) int {
	switch msgType {
	case MessageTypeSuccess:
		return ColorSuccess
	case MessageTypeWarning:
		return ColorWarning
	case MessageTypeError:
		return ColorError
	default:
		return ColorInfo
	}
}

// Truncate shortens s to maxLen bytes, marking the cut with "...".
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func (d *discordImpl) SendMessage(ctx context.Context, content string) error {
	if len(content) > MaxMessageLength {
		return fmt.Errorf("message too long: %d characters (max: %d)", len(content), MaxMessageLength)
	}
	return d.sendWithRetry(ctx, &WebhookPayload{
		Content:  content,
		Username: d.config.DefaultUsername,
	})
}

func (d *discordImpl) SendEmbed(ctx context.Context, options MessageOptions) error {
	fields := make([]EmbedField, len(options.Fields))
	for i, f := range options.Fields {
		fields[i] = EmbedField{
			Name:   Truncate(f.Name, MaxTitleLen),
			Value:  Truncate(f.Value, MaxFieldValueLen),
			Inline: f.Inline,
		}
	}
	embed := &Embed{
		Title:       Truncate(options.Title, MaxTitleLen),
		Description: Truncate(options.Description, MaxDescriptionLen),
		URL:         options.URL,
		Color:       colorForType(options.Type),
		Fields:      fields,
		Footer:      options.Footer,
	}
	if !options.Timestamp.IsZero() {
		embed.Timestamp = options.Timestamp.Format(time.RFC3339)
	}
	if err := validateEmbedLength(embed); err != nil {
		return err
	}

	payload := &WebhookPayload{
		Embeds:   []Embed{*embed},
		Username: options.Username,
	}
	if payload.Username == "" {
		payload.Username = d.config.DefaultUsername
	}
	return d.sendWithRetry(ctx, payload)
}

func (d *discordImpl) SendWarning(ctx context.Context, title, description string) error {
	return d.SendEmbed(ctx, MessageOptions{
		Type:        MessageTypeWarning,
		Title:       title,
		Description: description,
		Timestamp:   time.Now(),
	})
}
