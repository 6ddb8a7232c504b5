package notifier

import (
	"bytes"
	"fmt"
	"html/template"

	"station-alert-srv/internal/model"
	"station-alert-srv/pkg/email"
)

const subjectPrefix = "Vélib' alert - "

func kindLabel(kind model.AlertKind) string {
	switch kind {
	case model.KindBikesAvailable:
		return "bikes available"
	case model.KindDocksAvailable:
		return "free docks"
	case model.KindEBikesAvailable:
		return "e-bikes available"
	case model.KindMechanicalAvailable:
		return "mechanical bikes available"
	default:
		return string(kind)
	}
}

var htmlTemplate = template.Must(template.New("alert").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Vélib' alert</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f5f5f5; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background: #fff; border-radius: 8px; padding: 30px;">
    <h2 style="color: #1f2937;">Your Vélib' alert fired</h2>
    <div style="background-color: #f3f4f6; border-radius: 8px; padding: 20px;">
      <h3 style="margin: 0 0 15px 0;">Station {{.StationName}}</h3>
      <p><strong>Station code:</strong> {{.StationCode}}</p>
      <p><strong>Alert type:</strong> {{.Label}}</p>
      <p><strong>Threshold:</strong> {{.Threshold}}</p>
      <p><strong>Current value:</strong> {{.CurrentValue}}</p>
    </div>
    <p style="background-color: #dcfce7; border-left: 4px solid #22c55e; padding: 15px;">
      There are now {{.CurrentValue}} {{.Label}} at {{.StationName}}.
    </p>
    <p style="color: #6b7280; font-size: 12px;">You receive this e-mail because you set up a Vélib' alert.</p>
  </div>
</body>
</html>
`))

type messageData struct {
	Notification
	Label string
}

func stationDisplayName(n Notification) string {
	if n.StationName != "" {
		return n.StationName
	}
	return n.StationCode
}

// BuildMessage renders the e-mail for n.
func BuildMessage(n Notification) (email.Message, error) {
	data := messageData{Notification: n, Label: kindLabel(n.Kind)}
	data.StationName = stationDisplayName(n)

	var html bytes.Buffer
	if err := htmlTemplate.Execute(&html, data); err != nil {
		return email.Message{}, fmt.Errorf("render alert e-mail: %w", err)
	}

	text := fmt.Sprintf(
		"Your Vélib' alert fired.\n\nStation: %s (%s)\nAlert type: %s\nThreshold: %d\nCurrent value: %d\n\nThere are now %d %s at %s.\n",
		data.StationName, n.StationCode, data.Label, n.Threshold, n.CurrentValue,
		n.CurrentValue, data.Label, data.StationName,
	)

	return email.Message{
		To:       n.Recipient,
		Subject:  subjectPrefix + data.StationName,
		TextBody: text,
		HTMLBody: html.String(),
	}, nil
}
