package mailer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"velvetvogue-be/internal/logger"
	"velvetvogue-be/internal/mailqueue"
	"velvetvogue-be/internal/metrics"
	"velvetvogue-be/internal/order"
)

// Service is the outbound email entry point. A failed delivery is converted
// into a queue entry, never into an error the caller has to handle, so
// checkout can fire notifications without caring whether SMTP is up.
type Service interface {
	Send(ctx context.Context, recipient, subject, htmlContent, emailType string, orderID *uint) (bool, string)
	OrderCreated(ctx context.Context, o *order.Order)
	OrderDelivered(ctx context.Context, o *order.Order)
	RecentAttempts() []AttemptRecord
}

type dispatcher struct {
	transport  mailqueue.Sender
	queue      mailqueue.Service
	adminEmail string
	siteURL    string
	log        *attemptLog
	stats      *metrics.MailStats
}

func NewService(transport mailqueue.Sender, queue mailqueue.Service, adminEmail, siteURL string, stats *metrics.MailStats) Service {
	return &dispatcher{
		transport:  transport,
		queue:      queue,
		adminEmail: adminEmail,
		siteURL:    siteURL,
		log:        newAttemptLog(50),
		stats:      stats,
	}
}

func (d *dispatcher) Send(ctx context.Context, recipient, subject, htmlContent, emailType string, orderID *uint) (bool, string) {
	delivered, detail := d.transport.Send(ctx, recipient, subject, htmlContent)

	rec := AttemptRecord{
		EmailType: emailType,
		Recipient: recipient,
		OrderID:   orderID,
		Delivered: delivered,
		Detail:    detail,
		At:        time.Now(),
	}

	if delivered {
		if d.stats != nil {
			d.stats.Sent.Inc()
		}
		d.log.record(rec)
		return true, "Email sent successfully"
	}

	err := d.queue.Enqueue(ctx, mailqueue.EnqueueParams{
		EmailType:    emailType,
		Recipient:    recipient,
		Subject:      subject,
		HTMLContent:  htmlContent,
		OrderID:      orderID,
		ErrorMessage: detail,
	})
	if err != nil {
		if d.stats != nil {
			d.stats.Failed.Inc()
		}
		rec.Detail = fmt.Sprintf("%s (queue error: %v)", detail, err)
		d.log.record(rec)
		logger.FromCtx(ctx).Error("email could not be sent or queued",
			zap.String("recipient", recipient),
			zap.String("email_type", emailType),
			zap.Error(err),
		)
		return false, fmt.Sprintf("Critical error: could not send or queue email - %v", err)
	}

	if d.stats != nil {
		d.stats.Queued.Inc()
	}
	rec.Queued = true
	d.log.record(rec)
	return false, fmt.Sprintf("Email queued for retry. (%s)", detail)
}

// OrderCreated sends the customer receipt and, when an admin address is
// configured, the staff alert. Both are independent; one queuing does not
// stop the other.
func (d *dispatcher) OrderCreated(ctx context.Context, o *order.Order) {
	id := o.ID

	subject, html := BuildOrderConfirmation(o)
	d.Send(ctx, o.CustomerEmail, subject, html, TypeOrderConfirmation, &id)

	if d.adminEmail != "" {
		subject, html = BuildAdminNotification(o, d.siteURL)
		d.Send(ctx, d.adminEmail, subject, html, TypeAdminNotification, &id)
	}
}

func (d *dispatcher) OrderDelivered(ctx context.Context, o *order.Order) {
	id := o.ID
	subject, html := BuildDeliveryConfirmation(o)
	d.Send(ctx, o.CustomerEmail, subject, html, TypeDeliveryConfirmation, &id)
}

func (d *dispatcher) RecentAttempts() []AttemptRecord {
	return d.log.recent()
}
