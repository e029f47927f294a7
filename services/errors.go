package services

import "errors"

var (
	// ErrInvalidEmail is returned before any side effect when the target
	// address fails syntactic validation.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrNoGroups is returned when group normalization leaves nothing to grant.
	ErrNoGroups = errors.New("no groups given")
	// ErrInvalidTimestamp is returned when a requested expiry or event date
	// cannot be parsed.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	// ErrAccountNotFound is returned when a redeemed invite points at an
	// account that no longer exists.
	ErrAccountNotFound = errors.New("account not found")
	// ErrUpstream wraps storage or group subsystem failures. The core does
	// not retry; recovery belongs to the caller.
	ErrUpstream = errors.New("upstream unavailable")
)
