package protocol

// Kind enumerates the closed action grammar. Every kind listed here is
// declared to the model; which kinds are executable is the executor's concern.
type Kind string

const (
	KindCreateProject Kind = "CREATE_PROJECT"
	KindCreateTask    Kind = "CREATE_TASK"
	KindAssignTask    Kind = "ASSIGN_TASK"
	KindUnassignTask  Kind = "UNASSIGN_TASK"
	KindCreateGoal    Kind = "CREATE_GOAL"
	KindUpdateGoal    Kind = "UPDATE_GOAL"
	KindCreateArticle Kind = "CREATE_ARTICLE"
	KindUpdateArticle Kind = "UPDATE_ARTICLE"
	KindDeleteArticle Kind = "DELETE_ARTICLE"
	KindUpdateProject Kind = "UPDATE_PROJECT"
)

// Kinds returns every declared action kind. The executor's dispatch table is
// tested against this list so a new kind without a handler fails the build's
// test run instead of falling through silently.
func Kinds() []Kind {
	return []Kind{
		KindCreateProject,
		KindCreateTask,
		KindAssignTask,
		KindUnassignTask,
		KindCreateGoal,
		KindUpdateGoal,
		KindCreateArticle,
		KindUpdateArticle,
		KindDeleteArticle,
		KindUpdateProject,
	}
}

// Known reports whether k is part of the declared grammar.
func Known(k Kind) bool {
	for _, kk := range Kinds() {
		if k == kk {
			return true
		}
	}
	return false
}

// ActionRequest is the structured request the model may emit instead of a
// natural-language answer. All references are human-readable names and
// titles, never store identifiers; resolution happens at execution time.
type ActionRequest struct {
	Action Kind `json:"action"`

	// CREATE_PROJECT / UPDATE_PROJECT
	Name     string   `json:"name,omitempty"`
	Budget   int64    `json:"budget,omitempty"`
	Services []string `json:"services,omitempty"`
	Members  []string `json:"members,omitempty"`

	// CREATE_TASK / ASSIGN_TASK / UNASSIGN_TASK
	Project   string   `json:"project,omitempty"`
	Assignees []string `json:"assignees,omitempty"`

	// CREATE_GOAL / UPDATE_GOAL
	Tags []string `json:"tags,omitempty"`

	// CREATE_ARTICLE / UPDATE_ARTICLE / DELETE_ARTICLE
	Folder  string `json:"folder,omitempty"`
	Content string `json:"content,omitempty"`

	// Shared title/description fields (tasks, goals, articles)
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}
