package notifier

import (
	"context"
	"strings"
	"time"

	"station-alert-srv/pkg/discord"
)

type discordReporter struct {
	d discord.IDiscord
}

// NewDiscordReporter posts operator reports as Discord embeds.
func NewDiscordReporter(d discord.IDiscord) Reporter {
	return &discordReporter{d: d}
}

func messageType(s Severity) discord.MessageType {
	switch Severity(strings.ToLower(string(s))) {
	case SeverityCritical:
		return discord.MessageTypeError
	case SeverityWarning:
		return discord.MessageTypeWarning
	default:
		return discord.MessageTypeInfo
	}
}

func buildField(f ReportField) discord.EmbedField {
	value := f.Value
	if value == "" {
		value = "N/A"
	}
	return discord.EmbedField{
		Name:   f.Name,
		Value:  discord.Truncate(value, discord.MaxFieldValueLen),
		Inline: f.Inline,
	}
}

func (r *discordReporter) Report(ctx context.Context, rep Report) error {
	fields := make([]discord.EmbedField, len(rep.Fields))
	for i, f := range rep.Fields {
		fields[i] = buildField(f)
	}
	return r.d.SendEmbed(ctx, discord.MessageOptions{
		Type:        messageType(rep.Severity),
		Title:       rep.Title,
		Description: rep.Description,
		Fields:      fields,
		Timestamp:   time.Now(),
	})
}

type nopReporter struct{}

// NopReporter drops every report. Used when no webhook is configured.
func NopReporter() Reporter { return nopReporter{} }

func (nopReporter) Report(context.Context, Report) error { return nil }
