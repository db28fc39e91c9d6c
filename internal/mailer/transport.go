package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"velvetvogue-be/internal/config"
	"velvetvogue-be/internal/logger"
)

// SMTPTransport delivers over a single STARTTLS SMTP session per message.
// It satisfies the queue's Sender contract: delivery outcome comes back as
// a (delivered, detail) pair rather than an error, so callers can persist
// the detail verbatim on failure.
type SMTPTransport struct {
	host     string
	port     string
	sender   string
	password string
	timeout  time.Duration
}

func NewSMTPTransport(cfg *config.Config) *SMTPTransport {
	return &SMTPTransport{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		sender:   cfg.SMTPEmail,
		password: cfg.SMTPPassword,
		timeout:  cfg.MailTimeout,
	}
}

func (t *SMTPTransport) Send(ctx context.Context, recipient, subject, htmlContent string) (bool, string) {
	err := t.deliver(ctx, recipient, subject, htmlContent)
	if err == nil {
		logger.FromCtx(ctx).Info("email delivered",
			zap.String("recipient", recipient),
			zap.String("subject", subject),
		)
		return true, "Sent successfully"
	}

	detail := classifySendError(err, t.host, t.port)
	logger.FromCtx(ctx).Warn("email delivery failed",
		zap.String("recipient", recipient),
		zap.String("detail", detail),
	)
	return false, detail
}

func (t *SMTPTransport) deliver(ctx context.Context, recipient, subject, htmlContent string) error {
	timeout := t.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until < timeout {
			timeout = until
		}
	}

	addr := net.JoinHostPort(t.host, t.port)
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return err
	}
	// One deadline covers the whole SMTP conversation.
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		conn.Close()
		return err
	}

	client, err := smtp.NewClient(conn, t.host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: t.host}); err != nil {
			return err
		}
	}

	auth := smtp.PlainAuth("", t.sender, t.password, t.host)
	if err := client.Auth(auth); err != nil {
		return err
	}

	if err := client.Mail(t.sender); err != nil {
		return err
	}
	if err := client.Rcpt(recipient); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	msg := buildMessage(t.sender, recipient, subject, htmlContent)
	if _, err := w.Write([]byte(msg)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildMessage(from, to, subject, htmlContent string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlContent)
	return b.String()
}

// classifySendError buckets transport failures into the categories the retry
// queue stores. The original error text is preserved inside the detail so
// operators can see the server's exact response.
func classifySendError(err error, host, port string) string {
	var proto *textproto.Error
	if errors.As(err, &proto) {
		if proto.Code == 535 || proto.Code == 534 || proto.Code == 530 {
			return fmt.Sprintf("SMTP Authentication failed - check email credentials: %v", err)
		}
		return fmt.Sprintf("SMTP Error: %v", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Sprintf("Connection timeout - server may be down: %v", err)
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return fmt.Sprintf("Connection refused to %s:%s: %v", host, port, err)
	}

	return fmt.Sprintf("Unexpected error: %v", err)
}
