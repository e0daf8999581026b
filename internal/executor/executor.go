package executor

// Package executor performs the writes behind each structured action. Every
// declared action kind has a dispatch entry; kinds without an implementation
// answer "not supported yet" instead of silently doing nothing.

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/workhub-io/assistant/internal/imagesearch"
	"github.com/workhub-io/assistant/internal/logger"
	"github.com/workhub-io/assistant/internal/protocol"
	"github.com/workhub-io/assistant/internal/resolve"
	"github.com/workhub-io/assistant/internal/snapshot"
	"github.com/workhub-io/assistant/internal/store"
)

// Cached-view keys reported in Result.Affected so the caller can invalidate
// exactly what changed.
const (
	ViewProjects  = "projects"
	ViewTasks     = "tasks"
	ViewGoals     = "goals"
	ViewKBArticle = "kb_articles"
	ViewKBFolders = "kb_folders"
)

// Result is the outcome of executing one action.
type Result struct {
	// Message is the human-readable confirmation (or friendly refusal).
	Message string
	// DeepLink points at the created or updated resource, when any.
	DeepLink string
	// Affected lists the cached view keys invalidated by the writes. Empty
	// when nothing was written.
	Affected []string
}

type handler func(ctx context.Context, userID string, req protocol.ActionRequest, snap *snapshot.Snapshot) (Result, error)

// Executor dispatches actions to their handlers.
type Executor struct {
	store    *store.Store
	resolver *resolve.Resolver
	images   imagesearch.Searcher
	handlers map[protocol.Kind]handler
}

// New creates an Executor. images may be nil to disable header image lookup.
func New(s *store.Store, r *resolve.Resolver, images imagesearch.Searcher) *Executor {
	e := &Executor{store: s, resolver: r, images: images}
	e.handlers = map[protocol.Kind]handler{
		protocol.KindCreateProject: e.createProject,
		protocol.KindCreateTask:    e.createTask,
		protocol.KindCreateGoal:    e.createGoal,
		protocol.KindCreateArticle: e.createArticle,
		protocol.KindAssignTask:    notSupported,
		protocol.KindUnassignTask:  notSupported,
		protocol.KindUpdateGoal:    notSupported,
		protocol.KindUpdateArticle: notSupported,
		protocol.KindDeleteArticle: notSupported,
		protocol.KindUpdateProject: notSupported,
	}
	return e
}

// Execute runs the handler for req.Action. Unknown kinds (which the
// classifier should have filtered) also get the not-supported result.
func (e *Executor) Execute(ctx context.Context, userID string, req protocol.ActionRequest, snap *snapshot.Snapshot) (Result, error) {
	h, ok := e.handlers[req.Action]
	if !ok {
		return notSupported(ctx, userID, req, snap)
	}
	return h(ctx, userID, req, snap)
}

func notSupported(_ context.Context, _ string, req protocol.ActionRequest, _ *snapshot.Snapshot) (Result, error) {
	logger.L.Info("action not supported", "action", req.Action)
	return Result{Message: "Sorry, that action isn't supported yet."}, nil
}

func (e *Executor) createProject(ctx context.Context, userID string, req protocol.ActionRequest, snap *snapshot.Snapshot) (Result, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Result{Message: "I need a name for the project before I can create it."}, nil
	}

	id := uuid.NewString()
	p := store.Project{
		ID:        id,
		Name:      name,
		Slug:      store.SlugifyOr(name, id),
		Budget:    req.Budget,
		OwnerID:   userID,
		Status:    "active",
		CreatedAt: store.Now(),
	}
	// The three writes below are sequential and not wrapped in a transaction;
	// a failure mid-way leaves the project row in place.
	if err := e.store.InsertProject(ctx, p); err != nil {
		return Result{}, fmt.Errorf("create project %q: %w", name, err)
	}

	if services := knownServices(req.Services); len(services) > 0 {
		if err := e.store.AttachProjectServices(ctx, p.ID, services); err != nil {
			return Result{}, fmt.Errorf("attach services to %q: %w", name, err)
		}
	}

	memberIDs, missed := e.resolver.Users(snap, req.Members)
	if len(memberIDs) > 0 {
		if err := e.store.AttachProjectMembers(ctx, p.ID, memberIDs); err != nil {
			return Result{}, fmt.Errorf("attach members to %q: %w", name, err)
		}
	}

	link := "/projects/" + p.Slug
	msg := fmt.Sprintf("Done! I've created the project %q. You can view it [here](%s).", name, link)
	if len(missed) > 0 {
		msg += fmt.Sprintf(" I couldn't find %s, so I left them off the project.", quoteList(missed))
	}
	return Result{Message: msg, DeepLink: link, Affected: []string{ViewProjects}}, nil
}

func (e *Executor) createTask(ctx context.Context, userID string, req protocol.ActionRequest, snap *snapshot.Snapshot) (Result, error) {
	project, ok := e.resolver.Project(snap, req.Project)
	if !ok {
		// Tasks are never attached to auto-created projects.
		return Result{Message: fmt.Sprintf("I couldn't find a project named %q.", strings.TrimSpace(req.Project))}, nil
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return Result{Message: "I need a title for the task before I can create it."}, nil
	}

	t := store.Task{
		ID:          uuid.NewString(),
		ProjectID:   project.ID,
		Title:       title,
		Description: req.Description,
		Status:      "open",
		CreatedAt:   store.Now(),
	}
	if err := e.store.InsertTask(ctx, t); err != nil {
		return Result{}, fmt.Errorf("create task %q: %w", title, err)
	}

	assigneeIDs, missed := e.resolver.Users(snap, req.Assignees)
	if len(assigneeIDs) > 0 {
		if err := e.store.AttachTaskAssignees(ctx, t.ID, assigneeIDs); err != nil {
			return Result{}, fmt.Errorf("assign task %q: %w", title, err)
		}
	}

	link := fmt.Sprintf("/projects/%s/tasks/%s", project.Slug, t.ID)
	msg := fmt.Sprintf("Done! I've added the task %q to %q. You can view it [here](%s).", title, project.Name, link)
	if len(missed) > 0 {
		msg += fmt.Sprintf(" I couldn't find %s, so I left the task unassigned for them.", quoteList(missed))
	}
	return Result{Message: msg, DeepLink: link, Affected: []string{ViewProjects, ViewTasks}}, nil
}

func (e *Executor) createGoal(ctx context.Context, userID string, req protocol.ActionRequest, snap *snapshot.Snapshot) (Result, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return Result{Message: "I need a title for the goal before I can create it."}, nil
	}

	id := uuid.NewString()
	g := store.Goal{
		ID:          id,
		Title:       title,
		Slug:        store.SlugifyOr(title, id),
		Description: req.Description,
		OwnerID:     userID,
		CreatedAt:   store.Now(),
	}
	// Goal plus tag links commit atomically in one store call.
	if err := e.store.CreateGoal(ctx, g, req.Tags); err != nil {
		return Result{}, fmt.Errorf("create goal %q: %w", title, err)
	}

	link := "/goals/" + g.Slug
	msg := fmt.Sprintf("Done! I've created the goal %q. You can view it [here](%s).", title, link)
	return Result{Message: msg, DeepLink: link, Affected: []string{ViewGoals}}, nil
}

func (e *Executor) createArticle(ctx context.Context, userID string, req protocol.ActionRequest, snap *snapshot.Snapshot) (Result, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return Result{Message: "I need a title for the article before I can save it."}, nil
	}

	folder, err := e.resolver.Folder(ctx, userID, req.Folder)
	if err != nil {
		return Result{}, fmt.Errorf("resolve folder for article %q: %w", title, err)
	}

	var headerURL string
	if e.images != nil {
		// Best effort: a missing header image never fails the article.
		headerURL, err = e.images.Search(ctx, title)
		if err != nil {
			logger.L.Warn("header image lookup failed", "title", title, "error", err)
			headerURL = ""
		}
	}

	id := uuid.NewString()
	a := store.Article{
		ID:             id,
		FolderID:       folder.ID,
		Title:          title,
		Slug:           store.SlugifyOr(title, id),
		Content:        req.Content,
		HeaderImageURL: headerURL,
		OwnerID:        userID,
		CreatedAt:      store.Now(),
	}
	if err := e.store.InsertArticle(ctx, a); err != nil {
		return Result{}, fmt.Errorf("create article %q: %w", title, err)
	}

	link := fmt.Sprintf("/kb/%s/%s", folder.Slug, a.Slug)
	msg := fmt.Sprintf("Done! I've saved the article %q in %q. You can view it [here](%s).", title, folder.Name, link)
	return Result{Message: msg, DeepLink: link, Affected: []string{ViewKBArticle, ViewKBFolders}}, nil
}

// knownServices filters requested services against the catalog, returning
// each matched canonical catalog name once.
func knownServices(requested []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, want := range requested {
		for _, svc := range store.ServiceCatalog() {
			if strings.EqualFold(svc.Name, strings.TrimSpace(want)) {
				if !seen[svc.Name] {
					seen[svc.Name] = true
					out = append(out, svc.Name)
				}
				break
			}
		}
	}
	return out
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
