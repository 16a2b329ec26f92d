package provider

import "errors"

// Provider error sentinels. The resolver matches on these with errors.Is to
// pick fallback behavior, so every failure path must wrap exactly one of them.
var (
	// ErrAuthExpired means the stored refresh credential was rejected and a
	// human needs to re-authenticate. Never retryable.
	ErrAuthExpired = errors.New("provider credential expired or revoked")

	// ErrUnavailable covers timeouts, connection failures and 5xx responses.
	// Retryable later; callers degrade to synthetic metrics meanwhile.
	ErrUnavailable = errors.New("provider unavailable")

	// ErrNoIdeas means the call succeeded but returned zero keyword ideas.
	ErrNoIdeas = errors.New("provider returned no keyword ideas")

	// ErrMisconfigured means required provider credentials are absent.
	// Operator error, not transient.
	ErrMisconfigured = errors.New("provider credentials not configured")
)
