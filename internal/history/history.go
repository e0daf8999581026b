package history

// Package history provides append-only SQLite persistence for conversation
// messages, one conversation per portal user. Messages are immutable once
// persisted and ordered by strictly increasing created_at.

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrReplyToUnknown is returned when reply_to_id does not reference an
	// earlier message of the same conversation.
	ErrReplyToUnknown = errors.New("reply_to_id does not reference an earlier message in this conversation")
)

// Store persists conversation messages. It shares the workspace database.
type Store struct {
	db *sql.DB
}

// New prepares the messages table on the given database.
func New(db *sql.DB) (*Store, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS messages (
        id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        sender TEXT NOT NULL,
        content TEXT NOT NULL,
        created_at DATETIME NOT NULL,
        reply_to_id TEXT
    );`)
	if err != nil {
		return nil, fmt.Errorf("create messages table: %w", err)
	}
	return &Store{db: db}, nil
}

// Append persists a message at the end of the user's conversation and returns
// it with its id and created_at populated. The created_at stamp is bumped past
// the conversation's latest message when the clock would not move it forward.
func (s *Store) Append(ctx context.Context, msg Message) (Message, error) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	// Rows are only ever appended, so insertion order is conversation order;
	// the created_at stamp is kept strictly increasing to match.
	var last time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at FROM messages WHERE user_id = ? ORDER BY rowid DESC LIMIT 1;`,
		msg.UserID).Scan(&last)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// first message of the conversation
	case err != nil:
		return Message{}, fmt.Errorf("read conversation tail: %w", err)
	case !msg.CreatedAt.After(last):
		msg.CreatedAt = last.Add(time.Millisecond)
	}

	if msg.ReplyToID != "" {
		// Any already-persisted message of the conversation is earlier than
		// the one being appended.
		var n int
		err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM messages WHERE id = ? AND user_id = ?;`,
			msg.ReplyToID, msg.UserID).Scan(&n)
		if err != nil {
			return Message{}, fmt.Errorf("validate reply_to: %w", err)
		}
		if n == 0 {
			return Message{}, ErrReplyToUnknown
		}
	}

	var replyTo any
	if msg.ReplyToID != "" {
		replyTo = msg.ReplyToID
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO messages (id, user_id, sender, content, created_at, reply_to_id) VALUES (?,?,?,?,?,?);`,
		msg.ID, msg.UserID, msg.Sender, msg.Content, msg.CreatedAt, replyTo)
	if err != nil {
		return Message{}, fmt.Errorf("append message: %w", err)
	}
	return msg, nil
}

// List returns all messages of a user's conversation in chronological order.
func (s *Store) List(ctx context.Context, userID string) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, sender, content, created_at, COALESCE(reply_to_id, '') FROM messages WHERE user_id = ? ORDER BY rowid ASC;`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Sender, &m.Content, &m.CreatedAt, &m.ReplyToID); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
