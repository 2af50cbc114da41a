package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/statebind/internal/ir"
)

// ErrNotFound is returned when a record ID is not in the journal.
var ErrNotFound = errors.New("record not found")

// Record is one journaled action.
type Record struct {
	ID        string       `json:"id"`
	SessionID string       `json:"session_id"`
	Seq       int64        `json:"seq"`
	Type      ir.ActionRef `json:"type"`
	Payload   ir.Object    `json:"payload"`
}

// Records returns every record in journal order.
func (s *Store) Records(ctx context.Context) ([]Record, error) {
	return s.query(ctx, `
		SELECT id, session_id, seq, type, payload
		FROM actions
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
}

// SessionRecords returns the records written by one session.
func (s *Store) SessionRecords(ctx context.Context, sessionID string) ([]Record, error) {
	return s.query(ctx, `
		SELECT id, session_id, seq, type, payload
		FROM actions
		WHERE session_id = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, sessionID)
}

// RecordsOfType returns the records whose action type is typ.
func (s *Store) RecordsOfType(ctx context.Context, typ ir.ActionRef) ([]Record, error) {
	return s.query(ctx, `
		SELECT id, session_id, seq, type, payload
		FROM actions
		WHERE type = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, string(typ))
}

// ReadRecord returns the record with the given ID, or ErrNotFound.
func (s *Store) ReadRecord(ctx context.Context, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, seq, type, payload
		FROM actions
		WHERE id = ?
	`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("read record %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("read record %s: %w", id, err)
	}
	return rec, nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	if records == nil {
		records = []Record{}
	}

	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var rec Record
	var typ, payloadJSON string

	if err := row.Scan(&rec.ID, &rec.SessionID, &rec.Seq, &typ, &payloadJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan record: %w", err)
	}

	payload, err := unmarshalPayload(payloadJSON)
	if err != nil {
		return Record{}, err
	}
	rec.Type = ir.ActionRef(typ)
	rec.Payload = payload
	return rec, nil
}
