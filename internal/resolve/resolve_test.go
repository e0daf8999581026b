package resolve

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/workhub-io/assistant/internal/snapshot"
	"github.com/workhub-io/assistant/internal/store"
)

func testSnapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{
		Users: []store.User{
			{ID: "u1", FullName: "Ada Brown", Email: "ada@example.com"},
			{ID: "u2", FullName: "Luis Mora", Email: "luis@example.com"},
		},
		Projects: []store.Project{{ID: "p1", Name: "Spring Launch"}},
		Goals:    []store.Goal{{ID: "g1", Title: "Grow revenue"}},
		Articles: []store.Article{{ID: "a1", Title: "Banner specs"}},
	}
}

func TestUser_MatchesNameOrEmailCaseInsensitively(t *testing.T) {
	r := New(nil)
	snap := testSnapshot()

	id, ok := r.User(snap, "ada brown")
	require.True(t, ok)
	require.Equal(t, "u1", id)

	id, ok = r.User(snap, "LUIS@EXAMPLE.COM")
	require.True(t, ok)
	require.Equal(t, "u2", id)

	// Exact-match only: a near miss does not resolve.
	_, ok = r.User(snap, "Ada Browne")
	require.False(t, ok)
}

func TestUsers_ReportsMisses(t *testing.T) {
	r := New(nil)
	ids, missed := r.Users(testSnapshot(), []string{"Ada Brown", "Nobody Here"})
	require.Equal(t, []string{"u1"}, ids)
	require.Equal(t, []string{"Nobody Here"}, missed)
}

func TestProjectGoalArticle(t *testing.T) {
	r := New(nil)
	snap := testSnapshot()

	p, ok := r.Project(snap, " spring launch ")
	require.True(t, ok)
	require.Equal(t, "p1", p.ID)

	_, ok = r.Project(snap, "Winter Launch")
	require.False(t, ok)

	g, ok := r.Goal(snap, "grow revenue")
	require.True(t, ok)
	require.Equal(t, "g1", g.ID)

	a, ok := r.Article(snap, "banner SPECS")
	require.True(t, ok)
	require.Equal(t, "a1", a.ID)
}

func TestFolder_AutoProvisions(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "workspace.db"))
	require.NoError(t, err)
	defer s.Close()

	r := New(s)
	f1, err := r.Folder(context.Background(), "u1", "Launch Notes")
	require.NoError(t, err)
	f2, err := r.Folder(context.Background(), "u1", "launch notes")
	require.NoError(t, err)
	require.Equal(t, f1.ID, f2.ID)

	uncat, err := r.Folder(context.Background(), "u1", "")
	require.NoError(t, err)
	require.Equal(t, store.UncategorizedFolder, uncat.Name)
}
