package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"

	"perfreview/internal/domain/notifications"
	"perfreview/internal/platform/config"
)

const (
	dialTimeout     = 10 * time.Second
	implicitTLSPort = 465
)

// smtpMailer mirrors review notifications to the user's mailbox.
type smtpMailer struct {
	host     string
	addr     string
	user     string
	password string
	useTLS   bool
	now      func() time.Time
}

// New returns nil when email is disabled so notifications stay in-app only.
func New(cfg config.Config) notifications.Mailer {
	if !cfg.EmailEnabled || cfg.SMTPHost == "" {
		return nil
	}
	return &smtpMailer{
		host:     cfg.SMTPHost,
		addr:     net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		useTLS:   cfg.SMTPUseTLS,
		now:      time.Now,
	}
}

func (s *smtpMailer) Send(ctx context.Context, from, to, subject, body string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return nil
	}
	if deadline, ok := ctx.Deadline(); !ok || time.Until(deadline) > dialTimeout {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, dialTimeout)
		defer cancel()
	}

	client, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if s.user != "" {
		if err := client.Auth(smtp.PlainAuth("", s.user, s.password, s.host)); err != nil {
			return gerrors.Wrap(err, "smtp auth")
		}
	}
	if err := client.Mail(from); err != nil {
		return gerrors.Wrap(err, "smtp mail from")
	}
	if err := client.Rcpt(to); err != nil {
		return gerrors.Wrap(err, "smtp rcpt to")
	}
	w, err := client.Data()
	if err != nil {
		return gerrors.Wrap(err, "smtp data")
	}
	if _, err := w.Write(buildMessage(from, to, subject, body, s.now())); err != nil {
		_ = w.Close()
		return gerrors.Wrap(err, "smtp write")
	}
	if err := w.Close(); err != nil {
		return gerrors.Wrap(err, "smtp data close")
	}
	return client.Quit()
}

// dial connects with implicit TLS on port 465 and STARTTLS elsewhere when TLS
// is enabled.
func (s *smtpMailer) dial(ctx context.Context) (*smtp.Client, error) {
	tlsConfig := &tls.Config{ServerName: s.host, MinVersion: tls.VersionTLS12}
	implicit := s.useTLS && strings.HasSuffix(s.addr, ":"+strconv.Itoa(implicitTLSPort))

	var conn net.Conn
	var err error
	if implicit {
		conn, err = (&tls.Dialer{Config: tlsConfig}).DialContext(ctx, "tcp", s.addr)
	} else {
		conn, err = (&net.Dialer{}).DialContext(ctx, "tcp", s.addr)
	}
	if err != nil {
		return nil, gerrors.Wrap(err, "smtp dial")
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		_ = conn.Close()
		return nil, gerrors.Wrap(err, "smtp greeting")
	}
	if s.useTLS && !implicit {
		if err := client.StartTLS(tlsConfig); err != nil {
			_ = client.Close()
			return nil, gerrors.Wrap(err, "smtp starttls")
		}
	}
	return client, nil
}

// buildMessage renders a plain-text message. Non-ASCII subjects are
// Q-encoded and bare LFs in the body become CRLF.
func buildMessage(from, to, subject, body string, sentAt time.Time) []byte {
	var buf bytes.Buffer
	header := func(name, value string) {
		buf.WriteString(name)
		buf.WriteString(": ")
		buf.WriteString(value)
		buf.WriteString("\r\n")
	}
	header("From", from)
	header("To", to)
	header("Subject", mime.QEncoding.Encode("utf-8", subject))
	header("Date", sentAt.Format(time.RFC1123Z))
	header("Message-ID", "<"+uuid.NewString()+"@perfreview>")
	header("MIME-Version", "1.0")
	header("Content-Type", `text/plain; charset="UTF-8"`)
	buf.WriteString("\r\n")

	body = strings.ReplaceAll(body, "\r\n", "\n")
	buf.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return buf.Bytes()
}
