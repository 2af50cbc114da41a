package store

import (
	"context"
	"fmt"

	"github.com/roach88/statebind/internal/ir"
)

// Dispatch appends action to the journal. It satisfies actions.Store.
func (s *Store) Dispatch(action ir.Action) error {
	_, err := s.Append(context.Background(), action)
	return err
}

// Append writes action as the next record and returns it.
//
// The payload is serialized to canonical JSON per RFC 8785, so the stored
// text and the record ID are the same for equal actions at equal seq.
func (s *Store) Append(ctx context.Context, action ir.Action) (Record, error) {
	payloadJSON, err := marshalPayload(action.Payload)
	if err != nil {
		return Record{}, fmt.Errorf("append %s: %w", action.Type, err)
	}

	seq := s.clock.Next()
	id, err := ir.ActionID(s.sessionID, seq, action)
	if err != nil {
		return Record{}, fmt.Errorf("append %s: %w", action.Type, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO actions (id, session_id, seq, type, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, s.sessionID, seq, string(action.Type), payloadJSON)
	if err != nil {
		return Record{}, fmt.Errorf("append %s: %w", action.Type, err)
	}

	payload := action.Payload
	if payload == nil {
		payload = ir.Object{}
	}
	return Record{
		ID:        id,
		SessionID: s.sessionID,
		Seq:       seq,
		Type:      action.Type,
		Payload:   payload,
	}, nil
}
