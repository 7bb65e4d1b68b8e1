package session

import (
	"context"
	"errors"
)

// Store is per-visitor key-value persistence. Implementations marshal
// values as JSON; semantics are last-write-wins within a request, nothing
// stronger. A session is identified by the browser-held token minted by
// the web layer.
type Store interface {
	// Get unmarshals the value stored under (sessionID, key) into out.
	// Returns ErrNoValue when nothing is stored there.
	Get(ctx context.Context, sessionID, key string, out interface{}) error
	Set(ctx context.Context, sessionID, key string, value interface{}) error
	Delete(ctx context.Context, sessionID, key string) error
}

var ErrNoValue = errors.New("no session value")
