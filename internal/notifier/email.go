package notifier

import (
	"context"

	"station-alert-srv/internal/model"
	"station-alert-srv/pkg/email"
)

type emailSender struct {
	mailer email.Sender
}

// NewEmailSender delivers notifications as e-mail through mailer.
func NewEmailSender(mailer email.Sender) Sender {
	return &emailSender{mailer: mailer}
}

func (s *emailSender) Send(ctx context.Context, n Notification) (model.DeliveryStatus, error) {
	if n.Recipient == "" {
		return model.StatusFailed, ErrNoRecipient
	}
	msg, err := BuildMessage(n)
	if err != nil {
		return model.StatusFailed, err
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return model.StatusFailed, err
	}
	return model.StatusSent, nil
}
