package history

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "github.com/glebarez/go-sqlite"
	"github.com/stretchr/testify/require"
)

func openTestHistory(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "history.db")+"?_busy_timeout=10000&_fk=1")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s, err := New(db)
	require.NoError(t, err)
	return s
}

// TestRoundTrip_PreservesOrderAndReplyLinkage persists a short conversation
// and reloads it, checking order and reply_to survive exactly.
func TestRoundTrip_PreservesOrderAndReplyLinkage(t *testing.T) {
	s := openTestHistory(t)
	ctx := context.Background()

	first, err := s.Append(ctx, Message{UserID: "u1", Sender: SenderUser, Content: "Create a project called Spring Launch"})
	require.NoError(t, err)
	second, err := s.Append(ctx, Message{UserID: "u1", Sender: SenderAssistant, Content: "Done!", ReplyToID: first.ID})
	require.NoError(t, err)
	third, err := s.Append(ctx, Message{UserID: "u1", Sender: SenderUser, Content: "thanks"})
	require.NoError(t, err)

	msgs, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	require.Equal(t, []string{first.ID, second.ID, third.ID}, []string{msgs[0].ID, msgs[1].ID, msgs[2].ID})
	require.Equal(t, first.ID, msgs[1].ReplyToID)
	require.Empty(t, msgs[2].ReplyToID)
	require.True(t, msgs[0].CreatedAt.Before(msgs[1].CreatedAt))
	require.True(t, msgs[1].CreatedAt.Before(msgs[2].CreatedAt))
}

func TestAppend_RejectsReplyToOtherConversation(t *testing.T) {
	s := openTestHistory(t)
	ctx := context.Background()

	foreign, err := s.Append(ctx, Message{UserID: "u2", Sender: SenderUser, Content: "hi"})
	require.NoError(t, err)

	_, err = s.Append(ctx, Message{UserID: "u1", Sender: SenderAssistant, Content: "re", ReplyToID: foreign.ID})
	require.True(t, errors.Is(err, ErrReplyToUnknown))
}

func TestList_IsolatesConversations(t *testing.T) {
	s := openTestHistory(t)
	ctx := context.Background()

	_, err := s.Append(ctx, Message{UserID: "u1", Sender: SenderUser, Content: "a"})
	require.NoError(t, err)
	_, err = s.Append(ctx, Message{UserID: "u2", Sender: SenderUser, Content: "b"})
	require.NoError(t, err)

	msgs, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "a", msgs[0].Content)
}
