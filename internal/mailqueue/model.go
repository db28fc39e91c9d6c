package mailqueue

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusSending Status = "sending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

// FailedEmail is one durable retry-queue entry. Lifecycle:
// pending -> deleted on a successful send, pending -> pending (rescheduled)
// while attempts < max_attempts, pending -> failed once attempts reach
// max_attempts. "sending" only marks an in-flight attempt; entries stuck in
// it past the lease window become claimable again.
type FailedEmail struct {
	ID           uint
	EmailType    string
	Recipient    string
	Subject      string
	HTMLContent  string
	OrderID      *uint
	Attempts     int
	MaxAttempts  int
	LastAttempt  time.Time
	NextAttempt  time.Time
	ErrorMessage string
	Status       Status
	CreatedAt    time.Time
}

type EnqueueParams struct {
	EmailType    string
	Recipient    string
	Subject      string
	HTMLContent  string
	OrderID      *uint
	ErrorMessage string
}

// SweepStats aggregates one sweep pass.
type SweepStats struct {
	Processed         int `json:"processed"`
	Sent              int `json:"sent"`
	Failed            int `json:"failed"`
	PermanentFailures int `json:"permanent_failures"`
	Skipped           int `json:"skipped"`
}

// QueueStats is the observability snapshot exposed to the admin panel.
type QueueStats struct {
	Total         int        `json:"total"`
	Pending       int        `json:"pending"`
	Sending       int        `json:"sending"`
	Failed        int        `json:"failed"`
	OldestPending *time.Time `json:"oldest_pending,omitempty"`
}

// Backoff is the single retry schedule: base * 2^(attempts-1), so with the
// default 5 minute base the windows are 5m, 10m, 20m, 40m, 80m. Both the
// initial enqueue and every sweep reschedule use it.
func Backoff(base time.Duration, attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	return base << uint(attempts-1)
}
