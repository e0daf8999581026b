package store

// Package store provides SQLite-based persistence for the workspace entities
// the assistant reads and writes: projects, tasks, users, goals, tags,
// knowledge-base folders and articles. The schema is created on open.

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/glebarez/go-sqlite"
	"github.com/google/uuid"
)

// UncategorizedFolder is the well-known fallback folder for articles filed
// without a folder name.
const UncategorizedFolder = "Uncategorized"

// Store wraps the workspace database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    full_name TEXT NOT NULL,
    email TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    slug TEXT NOT NULL,
    budget INTEGER NOT NULL DEFAULT 0,
    owner_id TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'active',
    created_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS project_services (
    project_id TEXT NOT NULL,
    service TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS project_members (
    project_id TEXT NOT NULL,
    user_id TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tasks (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'open',
    created_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS task_assignees (
    task_id TEXT NOT NULL,
    user_id TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS goals (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    slug TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    owner_id TEXT NOT NULL,
    created_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS tags (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS goal_tags (
    goal_id TEXT NOT NULL,
    tag_id TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS folders (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL COLLATE NOCASE,
    slug TEXT NOT NULL,
    owner_id TEXT NOT NULL,
    UNIQUE (owner_id, name)
);
CREATE TABLE IF NOT EXISTS articles (
    id TEXT PRIMARY KEY,
    folder_id TEXT NOT NULL,
    title TEXT NOT NULL,
    slug TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    header_image_url TEXT NOT NULL DEFAULT '',
    owner_id TEXT NOT NULL,
    created_at DATETIME NOT NULL
);
`

// Open opens (creating if necessary) the workspace database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_busy_timeout=10000&_fk=1")
	if err != nil {
		return nil, fmt.Errorf("open workspace db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create workspace schema: %w", err)
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying handle so sibling packages (conversation history)
// can share the same database file.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListUsers returns every portal user.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, full_name, email FROM users ORDER BY full_name;`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.FullName, &u.Email); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// ListProjects returns every project with its services, members and tasks
// (including task assignees) preloaded.
func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, slug, budget, owner_id, status, created_at FROM projects ORDER BY created_at;`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	index := map[string]int{}
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Budget, &p.OwnerID, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		index[p.ID] = len(projects)
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	srows, err := s.db.QueryContext(ctx, `SELECT project_id, service FROM project_services;`)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var pid, svc string
		if err := srows.Scan(&pid, &svc); err != nil {
			return nil, err
		}
		if i, ok := index[pid]; ok {
			projects[i].Services = append(projects[i].Services, svc)
		}
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}

	mrows, err := s.db.QueryContext(ctx, `SELECT project_id, user_id FROM project_members;`)
	if err != nil {
		return nil, err
	}
	defer mrows.Close()
	for mrows.Next() {
		var pid, uid string
		if err := mrows.Scan(&pid, &uid); err != nil {
			return nil, err
		}
		if i, ok := index[pid]; ok {
			projects[i].MemberIDs = append(projects[i].MemberIDs, uid)
		}
	}
	if err := mrows.Err(); err != nil {
		return nil, err
	}

	tasks, err := s.listTasks(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if i, ok := index[t.ProjectID]; ok {
			projects[i].Tasks = append(projects[i].Tasks, t)
		}
	}
	return projects, nil
}

func (s *Store) listTasks(ctx context.Context) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, project_id, title, description, status, created_at FROM tasks ORDER BY created_at;`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	index := map[string]int{}
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		index[t.ID] = len(tasks)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	arows, err := s.db.QueryContext(ctx, `SELECT task_id, user_id FROM task_assignees;`)
	if err != nil {
		return nil, err
	}
	defer arows.Close()
	for arows.Next() {
		var tid, uid string
		if err := arows.Scan(&tid, &uid); err != nil {
			return nil, err
		}
		if i, ok := index[tid]; ok {
			tasks[i].AssigneeIDs = append(tasks[i].AssigneeIDs, uid)
		}
	}
	return tasks, arows.Err()
}

// ListGoals returns every goal with its tag names preloaded.
func (s *Store) ListGoals(ctx context.Context) ([]Goal, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, slug, description, owner_id, created_at FROM goals ORDER BY created_at;`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []Goal
	index := map[string]int{}
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.Title, &g.Slug, &g.Description, &g.OwnerID, &g.CreatedAt); err != nil {
			return nil, err
		}
		index[g.ID] = len(goals)
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	trows, err := s.db.QueryContext(ctx, `SELECT gt.goal_id, t.name FROM goal_tags gt JOIN tags t ON t.id = gt.tag_id;`)
	if err != nil {
		return nil, err
	}
	defer trows.Close()
	for trows.Next() {
		var gid, name string
		if err := trows.Scan(&gid, &name); err != nil {
			return nil, err
		}
		if i, ok := index[gid]; ok {
			goals[i].Tags = append(goals[i].Tags, name)
		}
	}
	return goals, trows.Err()
}

// ListTags returns every tag.
func (s *Store) ListTags(ctx context.Context) ([]Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM tags ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var out []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListFolders returns every knowledge-base folder.
func (s *Store) ListFolders(ctx context.Context) ([]Folder, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, slug, owner_id FROM folders ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var out []Folder
	for rows.Next() {
		var f Folder
		if err := rows.Scan(&f.ID, &f.Name, &f.Slug, &f.OwnerID); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ListArticles returns every knowledge-base article.
func (s *Store) ListArticles(ctx context.Context) ([]Article, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, folder_id, title, slug, content, header_image_url, owner_id, created_at FROM articles ORDER BY created_at;`)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var out []Article
	for rows.Next() {
		var a Article
		if err := rows.Scan(&a.ID, &a.FolderID, &a.Title, &a.Slug, &a.Content, &a.HeaderImageURL, &a.OwnerID, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// InsertUser inserts a portal user.
func (s *Store) InsertUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO users (id, full_name, email) VALUES (?,?,?);`, u.ID, u.FullName, u.Email)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// InsertProject inserts a project row. Services and members are attached
// separately; there is no enclosing transaction across the three writes.
func (s *Store) InsertProject(ctx context.Context, p Project) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, slug, budget, owner_id, status, created_at) VALUES (?,?,?,?,?,?,?);`,
		p.ID, p.Name, p.Slug, p.Budget, p.OwnerID, p.Status, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// AttachProjectServices links catalog services to a project.
func (s *Store) AttachProjectServices(ctx context.Context, projectID string, services []string) error {
	for _, svc := range services {
		if _, err := s.db.ExecContext(ctx, `INSERT INTO project_services (project_id, service) VALUES (?,?);`, projectID, svc); err != nil {
			return fmt.Errorf("attach service %q: %w", svc, err)
		}
	}
	return nil
}

// AttachProjectMembers links users to a project.
func (s *Store) AttachProjectMembers(ctx context.Context, projectID string, userIDs []string) error {
	for _, uid := range userIDs {
		if _, err := s.db.ExecContext(ctx, `INSERT INTO project_members (project_id, user_id) VALUES (?,?);`, projectID, uid); err != nil {
			return fmt.Errorf("attach member %q: %w", uid, err)
		}
	}
	return nil
}

// InsertTask inserts a task row.
func (s *Store) InsertTask(ctx context.Context, t Task) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, project_id, title, description, status, created_at) VALUES (?,?,?,?,?,?);`,
		t.ID, t.ProjectID, t.Title, t.Description, t.Status, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// AttachTaskAssignees links users to a task.
func (s *Store) AttachTaskAssignees(ctx context.Context, taskID string, userIDs []string) error {
	for _, uid := range userIDs {
		if _, err := s.db.ExecContext(ctx, `INSERT INTO task_assignees (task_id, user_id) VALUES (?,?);`, taskID, uid); err != nil {
			return fmt.Errorf("attach assignee %q: %w", uid, err)
		}
	}
	return nil
}

// CreateGoal creates the goal and links its tags in a single transaction.
// Tags are created on first use.
func (s *Store) CreateGoal(ctx context.Context, g Goal, tagNames []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin goal tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO goals (id, title, slug, description, owner_id, created_at) VALUES (?,?,?,?,?,?);`,
		g.ID, g.Title, g.Slug, g.Description, g.OwnerID, g.CreatedAt); err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	for _, name := range tagNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO tags (id, name) VALUES (?,?) ON CONFLICT(name) DO NOTHING;`, uuid.NewString(), name); err != nil {
			return fmt.Errorf("ensure tag %q: %w", name, err)
		}
		var tagID string
		if err := tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = ?;`, name).Scan(&tagID); err != nil {
			return fmt.Errorf("lookup tag %q: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO goal_tags (goal_id, tag_id) VALUES (?,?);`, g.ID, tagID); err != nil {
			return fmt.Errorf("link tag %q: %w", name, err)
		}
	}
	return tx.Commit()
}

// EnsureFolder returns the folder with the given name owned by ownerID,
// creating it when absent. An empty name resolves to the Uncategorized
// folder. The unique (owner_id, name) index makes concurrent duplicate
// attempts converge on a single row.
func (s *Store) EnsureFolder(ctx context.Context, ownerID, name string) (Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = UncategorizedFolder
	}
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO folders (id, name, slug, owner_id) VALUES (?,?,?,?) ON CONFLICT(owner_id, name) DO NOTHING;`,
		id, name, SlugifyOr(name, id), ownerID)
	if err != nil {
		return Folder{}, fmt.Errorf("ensure folder %q: %w", name, err)
	}
	var f Folder
	err = s.db.QueryRowContext(ctx,
		`SELECT id, name, slug, owner_id FROM folders WHERE owner_id = ? AND name = ?;`,
		ownerID, name).Scan(&f.ID, &f.Name, &f.Slug, &f.OwnerID)
	if err != nil {
		return Folder{}, fmt.Errorf("lookup folder %q: %w", name, err)
	}
	return f, nil
}

// InsertArticle inserts an article row.
func (s *Store) InsertArticle(ctx context.Context, a Article) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO articles (id, folder_id, title, slug, content, header_image_url, owner_id, created_at) VALUES (?,?,?,?,?,?,?,?);`,
		a.ID, a.FolderID, a.Title, a.Slug, a.Content, a.HeaderImageURL, a.OwnerID, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// CountTasks reports the number of task rows. Used by callers asserting that
// a failed action performed no writes.
func (s *Store) CountTasks(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks;`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Now returns the wall-clock time used for created_at stamps.
func Now() time.Time {
	return time.Now().UTC()
}
