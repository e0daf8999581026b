package store

import "time"

// User is a portal account the assistant can reference by name or email.
type User struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// Project is a client engagement with its tasks preloaded.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Budget    int64     `json:"budget"`
	OwnerID   string    `json:"owner_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Services  []string  `json:"services,omitempty"`
	MemberIDs []string  `json:"member_ids,omitempty"`
	Tasks     []Task    `json:"tasks,omitempty"`
}

// Task belongs to exactly one project.
type Task struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	AssigneeIDs []string  `json:"assignee_ids,omitempty"`
}

// Goal is a workspace objective with linked tags.
type Goal struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	Tags        []string  `json:"tags,omitempty"`
}

// Tag is a shared label linkable to goals.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Folder files knowledge-base articles, scoped to its owner.
type Folder struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	OwnerID string `json:"owner_id"`
}

// Article is a knowledge-base entry filed under a folder.
type Article struct {
	ID             string    `json:"id"`
	FolderID       string    `json:"folder_id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Content        string    `json:"content"`
	HeaderImageURL string    `json:"header_image_url,omitempty"`
	OwnerID        string    `json:"owner_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// Service is an entry of the static service catalog.
type Service struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
