package snapshot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/workhub-io/assistant/internal/store"
)

// mockReader lets each read be overridden independently.
type mockReader struct {
	projects func(ctx context.Context) ([]store.Project, error)
	users    func(ctx context.Context) ([]store.User, error)
	goals    func(ctx context.Context) ([]store.Goal, error)
	tags     func(ctx context.Context) ([]store.Tag, error)
	articles func(ctx context.Context) ([]store.Article, error)
	folders  func(ctx context.Context) ([]store.Folder, error)
}

func (m *mockReader) ListProjects(ctx context.Context) ([]store.Project, error) {
	if m.projects != nil {
		return m.projects(ctx)
	}
	return nil, nil
}
func (m *mockReader) ListUsers(ctx context.Context) ([]store.User, error) {
	if m.users != nil {
		return m.users(ctx)
	}
	return nil, nil
}
func (m *mockReader) ListGoals(ctx context.Context) ([]store.Goal, error) {
	if m.goals != nil {
		return m.goals(ctx)
	}
	return nil, nil
}
func (m *mockReader) ListTags(ctx context.Context) ([]store.Tag, error) {
	if m.tags != nil {
		return m.tags(ctx)
	}
	return nil, nil
}
func (m *mockReader) ListArticles(ctx context.Context) ([]store.Article, error) {
	if m.articles != nil {
		return m.articles(ctx)
	}
	return nil, nil
}
func (m *mockReader) ListFolders(ctx context.Context) ([]store.Folder, error) {
	if m.folders != nil {
		return m.folders(ctx)
	}
	return nil, nil
}

func TestBuild_SummarizesRelationsByName(t *testing.T) {
	reader := &mockReader{
		projects: func(context.Context) ([]store.Project, error) {
			return []store.Project{{
				ID: "p1", Name: "Spring Launch", Status: "active", Services: []string{"SEO"},
				Tasks: []store.Task{{ID: "t1", ProjectID: "p1", Title: "Design banner", Status: "open", AssigneeIDs: []string{"u1"}}},
			}}, nil
		},
		users: func(context.Context) ([]store.User, error) {
			return []store.User{{ID: "u1", FullName: "Ada Brown", Email: "ada@example.com"}}, nil
		},
		goals: func(context.Context) ([]store.Goal, error) {
			return []store.Goal{{ID: "g1", Title: "Grow revenue", Tags: []string{"q3"}}}, nil
		},
		folders: func(context.Context) ([]store.Folder, error) {
			return []store.Folder{{ID: "f1", Name: "Launch Notes"}}, nil
		},
		articles: func(context.Context) ([]store.Article, error) {
			return []store.Article{{ID: "a1", FolderID: "f1", Title: "Banner specs"}}, nil
		},
	}

	snap, err := NewBuilder(reader).Build(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.SummarizedProjects, 1)
	p := snap.SummarizedProjects[0]
	require.Equal(t, "Spring Launch", p.Name)
	require.Equal(t, 1, p.TaskCount)
	require.Equal(t, []string{"Ada Brown"}, p.Tasks[0].Assignees)

	require.Equal(t, []GoalSummary{{Title: "Grow revenue", Tags: []string{"q3"}}}, snap.SummarizedGoals)
	require.Equal(t, []ArticleSummary{{Title: "Banner specs", Folder: "Launch Notes"}}, snap.SummarizedArticles)
	require.Equal(t, []UserSummary{{FullName: "Ada Brown", Email: "ada@example.com"}}, snap.UserList)
	require.NotEmpty(t, snap.ServiceCatalog)
	require.NotEmpty(t, snap.IconCatalog)
}

// TestBuild_FailsFastOnAnyReadError checks there is no partial-context mode.
func TestBuild_FailsFastOnAnyReadError(t *testing.T) {
	boom := errors.New("db gone")
	reader := &mockReader{
		goals: func(context.Context) ([]store.Goal, error) { return nil, boom },
	}

	snap, err := NewBuilder(reader).Build(context.Background())
	require.Nil(t, snap)
	require.ErrorIs(t, err, boom)
}
