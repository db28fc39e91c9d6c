package mailqueue

import (
	"context"
	"time"

	"velvetvogue-be/internal/logger"
	"velvetvogue-be/internal/metrics"

	"go.uber.org/zap"
)

// Sender is the raw transport attempt: delivered yes/no plus a diagnostic
// detail. It must never panic or block past its own timeout.
type Sender interface {
	Send(ctx context.Context, recipient, subject, htmlContent string) (bool, string)
}

type Service interface {
	Enqueue(ctx context.Context, params EnqueueParams) error
	Sweep(ctx context.Context, maxRetries *int) (SweepStats, error)
	Stats(ctx context.Context) (*QueueStats, error)
	List(ctx context.Context, limit int) ([]FailedEmail, error)
}

type service struct {
	repo        Repository
	sender      Sender
	baseDelay   time.Duration
	lease       time.Duration
	maxAttempts int
	stats       *metrics.MailStats
}

type Options struct {
	BaseDelay   time.Duration
	Lease       time.Duration
	MaxAttempts int
	Stats       *metrics.MailStats
}

func NewService(repo Repository, sender Sender, opts Options) Service {
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 5 * time.Minute
	}
	if opts.Lease <= 0 {
		opts.Lease = 15 * time.Minute
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.Stats == nil {
		opts.Stats = &metrics.MailStats{}
	}
	return &service{
		repo:        repo,
		sender:      sender,
		baseDelay:   opts.BaseDelay,
		lease:       opts.Lease,
		maxAttempts: opts.MaxAttempts,
		stats:       opts.Stats,
	}
}

// Enqueue records a failed delivery for later retry. A pending entry for the
// same (recipient, type, order) is updated in place instead of duplicated.
func (s *service) Enqueue(ctx context.Context, params EnqueueParams) error {
	if params.Recipient == "" {
		return ErrMissingRecipient
	}
	if params.EmailType == "" {
		return ErrMissingType
	}

	log := logger.FromCtx(ctx).With(
		zap.String("recipient", params.Recipient),
		zap.String("email_type", params.EmailType),
	)

	existing, err := s.repo.FindPending(ctx, params.Recipient, params.EmailType, params.OrderID)
	if err != nil {
		return err
	}

	if existing != nil {
		attempts := existing.Attempts + 1
		maxAttempts := existing.MaxAttempts
		if maxAttempts <= 0 {
			maxAttempts = s.maxAttempts
		}
		if attempts >= maxAttempts {
			// The row must reach terminal failed even when the limit is hit
			// through repeated enqueues rather than a sweep.
			if err := s.repo.MarkFailed(ctx, existing.ID, params.ErrorMessage); err != nil {
				return err
			}
			log.Warn("queued email reached attempt limit",
				zap.Uint("id", existing.ID),
				zap.Int("attempts", attempts),
			)
			s.stats.Failed.Inc()
			return nil
		}
		next := time.Now().Add(Backoff(s.baseDelay, attempts))
		if err := s.repo.UpdateRetry(ctx, existing.ID, attempts, params.ErrorMessage, next); err != nil {
			return err
		}
		log.Info("updated existing queued email",
			zap.Uint("id", existing.ID),
			zap.Int("attempts", attempts),
			zap.Time("next_attempt", next),
		)
		s.stats.Queued.Inc()
		return nil
	}

	now := time.Now()
	entry := &FailedEmail{
		EmailType:    params.EmailType,
		Recipient:    params.Recipient,
		Subject:      params.Subject,
		HTMLContent:  params.HTMLContent,
		OrderID:      params.OrderID,
		Attempts:     1,
		MaxAttempts:  s.maxAttempts,
		LastAttempt:  now,
		NextAttempt:  now.Add(Backoff(s.baseDelay, 1)),
		ErrorMessage: params.ErrorMessage,
		Status:       StatusPending,
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return err
	}

	log.Info("email queued for retry",
		zap.Uint("id", entry.ID),
		zap.Time("next_attempt", entry.NextAttempt),
	)
	s.stats.Queued.Inc()
	return nil
}

// Sweep processes every due entry once. maxRetries overrides the per-entry
// max_attempts when set; nil keeps each entry's own limit.
func (s *service) Sweep(ctx context.Context, maxRetries *int) (SweepStats, error) {
	var stats SweepStats
	log := logger.FromCtx(ctx)
	timer := metrics.StartTimer()

	now := time.Now()
	leaseCutoff := now.Add(-s.lease)

	due, err := s.repo.DueEntries(ctx, now, leaseCutoff)
	if err != nil {
		return stats, err
	}

	log.Info("sweep started", zap.Int("due", len(due)))

	for _, entry := range due {
		maxAttempts := entry.MaxAttempts
		if maxRetries != nil && *maxRetries > 0 {
			maxAttempts = *maxRetries
		}

		claimed, err := s.repo.ClaimSending(ctx, entry.ID, time.Now(), leaseCutoff)
		if err != nil {
			log.Error("failed to claim queue entry", zap.Uint("id", entry.ID), zap.Error(err))
			stats.Skipped++
			continue
		}
		if !claimed {
			// Another sweep got there first.
			stats.Skipped++
			continue
		}

		stats.Processed++
		entry.Attempts++ // mirror the claim's increment

		delivered, detail := s.sender.Send(ctx, entry.Recipient, entry.Subject, entry.HTMLContent)

		if delivered {
			if err := s.repo.Delete(ctx, entry.ID); err != nil {
				log.Error("failed to delete sent entry", zap.Uint("id", entry.ID), zap.Error(err))
			}
			stats.Sent++
			s.stats.Sent.Inc()
			log.Info("retry successful",
				zap.Uint("id", entry.ID),
				zap.String("recipient", entry.Recipient),
			)
			continue
		}

		if entry.Attempts >= maxAttempts {
			if err := s.repo.MarkFailed(ctx, entry.ID, detail); err != nil {
				log.Error("failed to mark entry failed", zap.Uint("id", entry.ID), zap.Error(err))
			}
			stats.PermanentFailures++
			s.stats.Failed.Inc()
			log.Error("email failed permanently",
				zap.Uint("id", entry.ID),
				zap.String("recipient", entry.Recipient),
				zap.Int("attempts", entry.Attempts),
			)
			continue
		}

		backoff := Backoff(s.baseDelay, entry.Attempts)
		next := time.Now().Add(backoff)
		if err := s.repo.Reschedule(ctx, entry.ID, detail, next); err != nil {
			log.Error("failed to reschedule entry", zap.Uint("id", entry.ID), zap.Error(err))
		}
		stats.Failed++
		log.Info("email rescheduled",
			zap.Uint("id", entry.ID),
			zap.Duration("backoff", backoff),
			zap.Time("next_attempt", next),
		)
	}

	log.Info("sweep finished",
		zap.Int("processed", stats.Processed),
		zap.Int("sent", stats.Sent),
		zap.Int("failed", stats.Failed),
		zap.Int("permanent_failures", stats.PermanentFailures),
		zap.Int("skipped", stats.Skipped),
		zap.Duration("duration", timer.Duration()),
	)
	return stats, nil
}

func (s *service) Stats(ctx context.Context) (*QueueStats, error) {
	return s.repo.Stats(ctx)
}

func (s *service) List(ctx context.Context, limit int) ([]FailedEmail, error) {
	return s.repo.List(ctx, limit)
}
