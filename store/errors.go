package store

import "errors"

var (
	// ErrNotFound means no invite matches the token or email.
	ErrNotFound = errors.New("invite not found")
	// ErrDuplicateToken means an invite with the same token already exists.
	// Tokens are derived with enough entropy that callers may simply
	// regenerate and retry once.
	ErrDuplicateToken = errors.New("duplicate invite token")
	// ErrAlreadyRedeemed means the invite was consumed earlier; used_at and
	// redeemed_by are set exactly once.
	ErrAlreadyRedeemed = errors.New("invite already redeemed")
)
