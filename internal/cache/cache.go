// Package cache holds the Redis-backed stores: the respondent payload cache,
// authoring drafts, the completion persistence queue and the statistics feed.
package cache

import "errors"

// ErrMiss is returned when a key is absent or expired.
var ErrMiss = errors.New("cache miss")
