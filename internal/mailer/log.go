package mailer

import (
	"sync"
	"time"
)

// AttemptRecord is one entry in the in-memory delivery log.
type AttemptRecord struct {
	EmailType string    `json:"email_type"`
	Recipient string    `json:"recipient"`
	OrderID   *uint     `json:"order_id,omitempty"`
	Delivered bool      `json:"delivered"`
	Queued    bool      `json:"queued"`
	Detail    string    `json:"detail"`
	At        time.Time `json:"at"`
}

// attemptLog keeps the most recent delivery attempts in a fixed-size ring.
// Oldest entries are overwritten once the ring is full.
type attemptLog struct {
	mu   sync.Mutex
	buf  []AttemptRecord
	next int
	full bool
}

func newAttemptLog(size int) *attemptLog {
	if size <= 0 {
		size = 50
	}
	return &attemptLog{buf: make([]AttemptRecord, size)}
}

func (l *attemptLog) record(r AttemptRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.buf[l.next] = r
	l.next = (l.next + 1) % len(l.buf)
	if l.next == 0 {
		l.full = true
	}
}

// recent returns the logged attempts newest first.
func (l *attemptLog) recent() []AttemptRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := l.next
	if l.full {
		n = len(l.buf)
	}

	out := make([]AttemptRecord, 0, n)
	for i := 0; i < n; i++ {
		idx := (l.next - 1 - i + len(l.buf)) % len(l.buf)
		out = append(out, l.buf[idx])
	}
	return out
}
