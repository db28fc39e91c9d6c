package mailqueue

import "errors"

var (
	ErrEntryNotFound    = errors.New("queue entry not found")
	ErrMissingRecipient = errors.New("recipient is required")
	ErrMissingType      = errors.New("email type is required")
)
