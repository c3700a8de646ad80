package cache

import "context"

// IdempotencyGuard deduplicates externally-delivered events. Claim reports
// whether the caller is the first to see the given key; repeated claims
// within the retention window return false. A caller that claims a key but
// fails to process the event must Release it, otherwise the sender's retry
// would be suppressed until the retention window lapses.
type IdempotencyGuard interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
