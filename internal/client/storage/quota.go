package storage

import "context"

type quotaExemptKey struct{}

// WithoutQuota marks writes made under ctx as sync bookkeeping. Such writes
// record what the server already accepted and are never refused by the cache
// quota: only user-originated mutations are limited.
func WithoutQuota(ctx context.Context) context.Context {
	return context.WithValue(ctx, quotaExemptKey{}, true)
}

// QuotaExempt reports whether ctx was derived from WithoutQuota.
func QuotaExempt(ctx context.Context) bool {
	exempt, _ := ctx.Value(quotaExemptKey{}).(bool)
	return exempt
}
