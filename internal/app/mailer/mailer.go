// Package mailer sends transactional email. Delivery is best-effort from
// the caller's perspective; the workflow notifier logs and swallows
// failures.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/campuslink/platform/internal/config"
	"github.com/campuslink/platform/pkg/logger"
)

// ErrRateLimited reports that the provider refused delivery due to rate
// limiting. Callers may distinguish it from other failures for logging.
var ErrRateLimited = errors.New("mail provider rate limited")

// Mailer delivers a plain-text message to a single recipient.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTP delivers mail through an SMTP relay with a bounded dial-and-send
// timeout.
type SMTP struct {
	host    string
	port    int
	from    string
	auth    smtp.Auth
	timeout time.Duration
}

// NewSMTP builds an SMTP mailer from configuration.
func NewSMTP(cfg config.MailConfig) *SMTP {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTP{
		host:    cfg.Host,
		port:    cfg.Port,
		from:    cfg.From,
		auth:    auth,
		timeout: time.Duration(cfg.TimeoutS) * time.Second,
	}
}

// Send delivers one message. SMTP 421/450/451 responses map to
// ErrRateLimited; everything else is returned as-is.
func (m *SMTP) Send(ctx context.Context, to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	deadline := time.Now().Add(m.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	conn, err := net.DialTimeout("tcp", addr, time.Until(deadline))
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	_ = conn.SetDeadline(deadline)

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return classify(fmt.Errorf("smtp handshake: %w", err))
	}
	defer client.Close()

	if m.auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(m.auth); err != nil {
				return classify(fmt.Errorf("smtp auth: %w", err))
			}
		}
	}

	if err := client.Mail(m.from); err != nil {
		return classify(fmt.Errorf("smtp mail from: %w", err))
	}
	if err := client.Rcpt(to); err != nil {
		return classify(fmt.Errorf("smtp rcpt to: %w", err))
	}

	w, err := client.Data()
	if err != nil {
		return classify(fmt.Errorf("smtp data: %w", err))
	}
	msg := buildMessage(m.from, to, subject, body)
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return classify(fmt.Errorf("smtp close: %w", err))
	}
	return client.Quit()
}

func buildMessage(from, to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return b.String()
}

func classify(err error) error {
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		switch tpErr.Code {
		case 421, 450, 451:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
	}
	return err
}

// Log is a mailer that only logs. It stands in when no SMTP relay is
// configured so the rest of the pipeline stays exercised.
type Log struct {
	log *logger.Logger
}

// NewLog builds a logging mailer.
func NewLog(log *logger.Logger) *Log {
	if log == nil {
		log = logger.NewDefault("mailer")
	}
	return &Log{log: log}
}

// Send logs the message and reports success.
func (m *Log) Send(_ context.Context, to, subject, _ string) error {
	m.log.WithField("to", to).WithField("subject", subject).Info("mail delivery skipped (no relay configured)")
	return nil
}
