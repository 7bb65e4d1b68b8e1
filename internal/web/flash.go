package web

import (
	"context"

	"github.com/lsnsvra/UPB-Pedia/internal/session"
)

const flashKey = "flashes"

// Flash is a one-shot message rendered on the next page view.
type Flash struct {
	Level   string `json:"level"` // success, error, info, warning
	Message string `json:"message"`
}

type flashStore struct {
	sessions session.Store
}

// Add queues a flash message. Storage failures are swallowed; losing a
// flash never fails the request that produced it.
func (f flashStore) Add(ctx context.Context, sessionID, level, message string) {
	var flashes []Flash
	_ = f.sessions.Get(ctx, sessionID, flashKey, &flashes)
	flashes = append(flashes, Flash{Level: level, Message: message})
	_ = f.sessions.Set(ctx, sessionID, flashKey, flashes)
}

// Pop returns the queued flashes and clears them.
func (f flashStore) Pop(ctx context.Context, sessionID string) []Flash {
	var flashes []Flash
	if err := f.sessions.Get(ctx, sessionID, flashKey, &flashes); err != nil {
		return nil
	}
	_ = f.sessions.Delete(ctx, sessionID, flashKey)
	return flashes
}
