package port

import "context"

// UnlockTokenPort converts the set of unlocked property ids to an opaque token and back.
type UnlockTokenPort interface {
	// Decode never fails; an invalid or expired token is an empty set.
	Decode(ctx context.Context, token string) []string
	Encode(ctx context.Context, ids []string) (string, error)
}
