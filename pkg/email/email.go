package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"net/textproto"
	"strconv"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/google/uuid"
)

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type smtpSender struct {
	cfg Config
	now func() time.Time
}

// New validates cfg and returns an SMTP-backed Sender. Each Send opens its
// own connection.
func New(cfg Config) (Sender, error) {
	if cfg.Host == "" {
		return nil, ErrHostRequired
	}
	if cfg.From == "" {
		return nil, ErrFromRequired
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Security == "" {
		cfg.Security = SecurityStartTLS
	}
	return &smtpSender{cfg: cfg, now: time.Now}, nil
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrRecipientRequired
	}
	if msg.TextBody == "" && msg.HTMLBody == "" {
		return ErrEmptyBody
	}

	body, err := s.build(msg)
	if err != nil {
		return err
	}

	c, err := s.dial(ctx)
	if err != nil {
		return fmt.Errorf("email: dial %s: %w", s.cfg.Host, err)
	}
	defer c.Close()

	if s.cfg.Username != "" {
		auth := sasl.NewPlainClient("", s.cfg.Username, s.cfg.Password)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("email: auth: %w", err)
		}
	}
	if err := c.SendMail(s.cfg.From, []string{msg.To}, bytes.NewReader(body)); err != nil {
		return fmt.Errorf("email: send to %s: %w", msg.To, err)
	}
	return c.Quit()
}

func (s *smtpSender) dial(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	dialer := &net.Dialer{Timeout: s.cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(s.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	tlsCfg := &tls.Config{ServerName: s.cfg.Host, InsecureSkipVerify: s.cfg.InsecureSkipVerify}
	switch s.cfg.Security {
	case SecurityTLS:
		return smtp.NewClient(tls.Client(conn, tlsCfg)), nil
	case SecurityStartTLS:
		c, err := smtp.NewClientStartTLS(conn, tlsCfg)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return c, nil
	default:
		return smtp.NewClient(conn), nil
	}
}

func (s *smtpSender) build(msg Message) ([]byte, error) {
	from := mail.Address{Name: s.cfg.FromName, Address: s.cfg.From}
	to := mail.Address{Address: msg.To}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("From", from.String())
	header.Set("To", to.String())
	header.Set("Subject", mime.QEncoding.Encode("utf-8", msg.Subject))
	header.Set("Date", s.now().Format(time.RFC1123Z))
	header.Set("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), s.cfg.Host))
	header.Set("MIME-Version", "1.0")
	header.Set("Content-Type", "multipart/alternative; boundary="+mw.Boundary())

	var out bytes.Buffer
	for k, vs := range header {
		for _, v := range vs {
			fmt.Fprintf(&out, "%s: %s\r\n", k, v)
		}
	}
	out.WriteString("\r\n")

	parts := []struct {
		contentType string
		body        string
	}{
		{"text/plain; charset=utf-8", msg.TextBody},
		{"text/html; charset=utf-8", msg.HTMLBody},
	}
	for _, p := range parts {
		if p.body == "" {
			continue
		}
		w, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {p.contentType},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, err
		}
		qp := quotedprintable.NewWriter(w)
		if _, err := qp.Write([]byte(p.body)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	out.Write(buf.Bytes())
	return out.Bytes(), nil
}
