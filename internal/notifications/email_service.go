package notifications

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"fieldbook/internal/shared/config"
	"fieldbook/pkg/logger"
)

// Sender delivers one rendered notification
type Sender interface {
	Send(ctx context.Context, n *EmailNotification) error
}

// NewSender picks SMTP when it is configured and a log-only sender otherwise
func NewSender(cfg config.EmailConfig, log *logger.Logger) Sender {
	if cfg.Enabled() {
		return NewSMTPSender(cfg)
	}
	log.Warn("SMTP is not configured, notification emails will only be logged")
	return NewLogSender(log)
}

// SMTPSender sends multipart/alternative mail over STARTTLS
type SMTPSender struct {
	config    config.EmailConfig
	templates *emailTemplates
	timeout   time.Duration
}

func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{config: cfg, templates: loadTemplates(), timeout: 30 * time.Second}
}

func (s *SMTPSender) Send(ctx context.Context, n *EmailNotification) error {
	if n.RecipientEmail == "" {
		return fmt.Errorf("notification %s has no recipient", n.ID)
	}

	htmlBody, textBody, err := s.templates.render(n)
	if err != nil {
		return err
	}
	message := buildMessage(s.config.FromName, s.config.FromEmail, n.RecipientEmail, n.Subject, htmlBody, textBody)

	addr := net.JoinHostPort(s.config.SMTPHost, strconv.Itoa(s.config.SMTPPort))
	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	return s.sendWithSTARTTLS(ctx, addr, auth, n.RecipientEmail, message)
}

func (s *SMTPSender) sendWithSTARTTLS(ctx context.Context, addr string, auth smtp.Auth, to string, message []byte) error {
	dialer := net.Dialer{Timeout: s.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.config.SMTPHost)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open SMTP session: %w", err)
	}
	defer client.Quit()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err = client.StartTLS(&tls.Config{ServerName: s.config.SMTPHost}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}
	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}

// buildMessage creates a multipart/alternative message with text first
func buildMessage(fromName, fromEmail, to, subject, htmlBody, textBody string) []byte {
	boundary := "fieldbook_" + strconv.FormatInt(time.Now().UnixNano(), 10)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", fromName, fromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	if textBody != "" {
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, textBody)
	}
	if htmlBody != "" {
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, htmlBody)
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return []byte(b.String())
}

// LogSender renders the email and logs it instead of sending
type LogSender struct {
	log       *logger.Logger
	templates *emailTemplates
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log, templates: loadTemplates()}
}

func (s *LogSender) Send(ctx context.Context, n *EmailNotification) error {
	_, text, err := s.templates.render(n)
	if err != nil {
		return err
	}
	s.log.InfoContext(ctx, "Email notification (not sent, SMTP disabled)",
		"type", n.Type,
		"to", n.RecipientEmail,
		"subject", n.Subject,
		"body", text,
	)
	return nil
}
