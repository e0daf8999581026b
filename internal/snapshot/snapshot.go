package snapshot

// Package snapshot builds the bounded workspace view handed to the language
// model on every turn. The snapshot is rebuilt per request and never cached
// across turns.

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/workhub-io/assistant/internal/store"
)

// Reader is the subset of the workspace store the builder needs.
type Reader interface {
	ListProjects(ctx context.Context) ([]store.Project, error)
	ListUsers(ctx context.Context) ([]store.User, error)
	ListGoals(ctx context.Context) ([]store.Goal, error)
	ListTags(ctx context.Context) ([]store.Tag, error)
	ListArticles(ctx context.Context) ([]store.Article, error)
	ListFolders(ctx context.Context) ([]store.Folder, error)
}

// Snapshot is the full workspace view plus the summarized projections that
// keep the model payload small. Summaries only carry fields present in the
// full snapshot.
type Snapshot struct {
	Projects       []store.Project
	Users          []store.User
	Goals          []store.Goal
	Tags           []store.Tag
	Articles       []store.Article
	Folders        []store.Folder
	ServiceCatalog []store.Service
	IconCatalog    []string

	SummarizedProjects []ProjectSummary
	SummarizedGoals    []GoalSummary
	SummarizedArticles []ArticleSummary
	UserList           []UserSummary
}

// ProjectSummary keeps the identifying fields and key relations the model
// needs to resolve references by name.
type ProjectSummary struct {
	Name      string        `json:"name"`
	Status    string        `json:"status"`
	Services  []string      `json:"services,omitempty"`
	TaskCount int           `json:"task_count"`
	Tasks     []TaskSummary `json:"tasks,omitempty"`
}

// TaskSummary is a task reduced to title, status and assignees.
type TaskSummary struct {
	Title     string   `json:"title"`
	Status    string   `json:"status"`
	Assignees []string `json:"assignees,omitempty"`
}

// GoalSummary is a goal reduced to title and tags.
type GoalSummary struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags,omitempty"`
}

// ArticleSummary is an article reduced to title and folder.
type ArticleSummary struct {
	Title  string `json:"title"`
	Folder string `json:"folder,omitempty"`
}

// UserSummary is a user reduced to name and email.
type UserSummary struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// Builder assembles snapshots from the workspace store.
type Builder struct {
	reader Reader
}

// NewBuilder creates a Builder over the given store.
func NewBuilder(reader Reader) *Builder {
	return &Builder{reader: reader}
}

// Build performs the independent reads in parallel and fails the whole build
// if any of them fails. There is no degraded or partial-context mode.
func (b *Builder) Build(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		ServiceCatalog: store.ServiceCatalog(),
		IconCatalog:    store.IconCatalog(),
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		snap.Projects, err = b.reader.ListProjects(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		snap.Users, err = b.reader.ListUsers(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		snap.Goals, err = b.reader.ListGoals(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		snap.Tags, err = b.reader.ListTags(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		snap.Articles, err = b.reader.ListArticles(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		snap.Folders, err = b.reader.ListFolders(egCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("build context snapshot: %w", err)
	}

	snap.summarize()
	return snap, nil
}

func (s *Snapshot) summarize() {
	userNames := map[string]string{}
	for _, u := range s.Users {
		userNames[u.ID] = u.FullName
		s.UserList = append(s.UserList, UserSummary{FullName: u.FullName, Email: u.Email})
	}

	for _, p := range s.Projects {
		ps := ProjectSummary{
			Name:      p.Name,
			Status:    p.Status,
			Services:  p.Services,
			TaskCount: len(p.Tasks),
		}
		for _, t := range p.Tasks {
			ts := TaskSummary{Title: t.Title, Status: t.Status}
			for _, uid := range t.AssigneeIDs {
				if name, ok := userNames[uid]; ok {
					ts.Assignees = append(ts.Assignees, name)
				}
			}
			ps.Tasks = append(ps.Tasks, ts)
		}
		s.SummarizedProjects = append(s.SummarizedProjects, ps)
	}

	for _, g := range s.Goals {
		s.SummarizedGoals = append(s.SummarizedGoals, GoalSummary{Title: g.Title, Tags: g.Tags})
	}

	folderNames := map[string]string{}
	for _, f := range s.Folders {
		folderNames[f.ID] = f.Name
	}
	for _, a := range s.Articles {
		s.SummarizedArticles = append(s.SummarizedArticles, ArticleSummary{Title: a.Title, Folder: folderNames[a.FolderID]})
	}
}
