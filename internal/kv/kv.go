// Package kv provides the narrow persistent key/value contract the engine
// stores its two JSON blobs under: one key for preferences, one for the
// owned-notification-ID sequence.
package kv

import "context"

// Store is the persistence boundary. Get returns ok=false when the key has
// never been written.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
