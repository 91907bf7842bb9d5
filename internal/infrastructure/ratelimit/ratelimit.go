// Package ratelimit provides sliding-window request rate limiting with
// in-process and Redis-backed implementations.
package ratelimit

import "context"

// Result describes the outcome of a rate limit check
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
}

// Limiter checks whether a request identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}
