package resolve

// Package resolve converts human-readable references (names, emails, titles)
// into store identifiers against the context snapshot. Matching is exact and
// case-insensitive; there is no fuzzy matching. A miss is reported as
// ok=false, never as an error, so callers can answer the user naturally.

import (
	"context"
	"strings"

	"github.com/workhub-io/assistant/internal/snapshot"
	"github.com/workhub-io/assistant/internal/store"
)

// FolderProvisioner is the single mutating dependency of resolution: folder
// lookup auto-creates the folder when absent, scoped to the acting user.
type FolderProvisioner interface {
	EnsureFolder(ctx context.Context, ownerID, name string) (store.Folder, error)
}

// Resolver resolves entity references for one pipeline invocation.
type Resolver struct {
	folders FolderProvisioner
}

// New creates a Resolver. folders may be nil when article actions are not in
// play (tests of the read-only paths).
func New(folders FolderProvisioner) *Resolver {
	return &Resolver{folders: folders}
}

// User matches ref against full name or email, case-insensitively.
func (r *Resolver) User(snap *snapshot.Snapshot, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	for _, u := range snap.Users {
		if strings.EqualFold(u.FullName, ref) || strings.EqualFold(u.Email, ref) {
			return u.ID, true
		}
	}
	return "", false
}

// Users resolves each reference independently, dropping misses, and reports
// the references that did not resolve.
func (r *Resolver) Users(snap *snapshot.Snapshot, refs []string) (ids []string, missed []string) {
	for _, ref := range refs {
		if id, ok := r.User(snap, ref); ok {
			ids = append(ids, id)
		} else {
			missed = append(missed, ref)
		}
	}
	return ids, missed
}

// Project matches ref against project names, case-insensitively.
func (r *Resolver) Project(snap *snapshot.Snapshot, ref string) (store.Project, bool) {
	ref = strings.TrimSpace(ref)
	for _, p := range snap.Projects {
		if strings.EqualFold(p.Name, ref) {
			return p, true
		}
	}
	return store.Project{}, false
}

// Goal matches ref against goal titles, case-insensitively.
func (r *Resolver) Goal(snap *snapshot.Snapshot, ref string) (store.Goal, bool) {
	ref = strings.TrimSpace(ref)
	for _, g := range snap.Goals {
		if strings.EqualFold(g.Title, ref) {
			return g, true
		}
	}
	return store.Goal{}, false
}

// Article matches ref against article titles, case-insensitively.
func (r *Resolver) Article(snap *snapshot.Snapshot, ref string) (store.Article, bool) {
	ref = strings.TrimSpace(ref)
	for _, a := range snap.Articles {
		if strings.EqualFold(a.Title, ref) {
			return a, true
		}
	}
	return store.Article{}, false
}

// Folder resolves a folder name for the acting user, creating it when absent.
// An empty name resolves to the well-known Uncategorized folder. The
// provisioning is idempotent under concurrent duplicate attempts.
func (r *Resolver) Folder(ctx context.Context, ownerID, name string) (store.Folder, error) {
	return r.folders.EnsureFolder(ctx, ownerID, name)
}
