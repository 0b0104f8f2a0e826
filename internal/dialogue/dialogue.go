// Package dialogue keeps the per-conversation state of the compose flow
// outside of any handler, so a conversation can resume on a later message,
// on another goroutine or after a restart.
package dialogue

import (
	"context"

	"github.com/pathakanu/remindbot/internal/model"
)

// State tags where a conversation is in the compose or delete flow.
type State string

const (
	StateIdle           State = "idle"
	StateAwaitingText   State = "awaiting_text"
	StateAwaitingTime   State = "awaiting_time"
	StateAwaitingDelete State = "awaiting_delete"
)

// Store persists conversation state keyed by owner id.
type Store interface {
	// Get returns the conversation, or an idle one when none is stored.
	Get(ctx context.Context, ownerID int64) (model.Conversation, error)
	// Save stores conv; saving an idle conversation clears it.
	Save(ctx context.Context, conv model.Conversation) error
	// Clear forgets any state for ownerID.
	Clear(ctx context.Context, ownerID int64) error
}

// StateOf returns the typed state of conv.
func StateOf(conv model.Conversation) State {
	if conv.State == "" {
		return StateIdle
	}
	return State(conv.State)
}

func idle(ownerID int64) model.Conversation {
	return model.Conversation{OwnerID: ownerID, State: string(StateIdle)}
}
