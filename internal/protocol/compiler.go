package protocol

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/workhub-io/assistant/internal/snapshot"
)

// actionGrammar enumerates every action kind with its exact field grammar, in
// the order of Kinds().
var actionGrammar = map[Kind]string{
	KindCreateProject: `{"action":"CREATE_PROJECT","name":"<project name>","budget":<number, optional>,"services":["<catalog service>", ...optional],"members":["<user full name or email>", ...optional]}`,
	KindCreateTask:    `{"action":"CREATE_TASK","project":"<existing project name>","title":"<task title>","description":"<optional>","assignees":["<user full name or email>", ...optional]}`,
	KindAssignTask:    `{"action":"ASSIGN_TASK","project":"<project name>","title":"<task title>","assignees":["<user full name or email>"]}`,
	KindUnassignTask:  `{"action":"UNASSIGN_TASK","project":"<project name>","title":"<task title>","assignees":["<user full name or email>"]}`,
	KindCreateGoal:    `{"action":"CREATE_GOAL","title":"<goal title>","description":"<optional>","tags":["<tag name>", ...optional]}`,
	KindUpdateGoal:    `{"action":"UPDATE_GOAL","title":"<existing goal title>","description":"<new description>","tags":["<tag name>", ...optional]}`,
	KindCreateArticle: `{"action":"CREATE_ARTICLE","title":"<article title>","content":"<article body>","folder":"<folder name, optional>"}`,
	KindUpdateArticle: `{"action":"UPDATE_ARTICLE","title":"<existing article title>","content":"<new body>"}`,
	KindDeleteArticle: `{"action":"DELETE_ARTICLE","title":"<existing article title>"}`,
	KindUpdateProject: `{"action":"UPDATE_PROJECT","name":"<existing project name>","budget":<number, optional>,"services":["<catalog service>", ...optional]}`,
}

// Compile builds the system instructions handed to the model: the action
// grammar, the confirmation meta-rules, and the summarized context snapshot
// embedded as JSON so the model can resolve references by name.
func Compile(assistantName string, snap *snapshot.Snapshot) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "You are %s, the workspace assistant of a project management portal. ", assistantName)
	b.WriteString("Answer the user's questions in plain language, or perform one of the actions below.\n\n")

	b.WriteString("To perform an action, reply with EXACTLY ONE JSON object and nothing else. The supported actions are:\n")
	for _, k := range Kinds() {
		b.WriteString(actionGrammar[k])
		b.WriteByte('\n')
	}

	b.WriteString(`
Rules:
- For CREATE_TASK requests, never emit the action immediately. First reply in natural language proposing the task title and the project it belongs to, and emit the CREATE_TASK JSON only after the user's next message confirms the proposal.
- Every other action may be emitted directly, unless the request is dangerously ambiguous (for example a deletion where the target is unclear). In that case ask a clarifying question in natural language instead of emitting an action.
- Reference projects, users, goals, articles and folders by the exact names listed in the workspace context below.
- If the user asks something no action covers, just answer in natural language.
`)

	ctxPayload := struct {
		Projects []snapshot.ProjectSummary `json:"projects"`
		Users    []snapshot.UserSummary    `json:"users"`
		Goals    []snapshot.GoalSummary    `json:"goals"`
		Articles []snapshot.ArticleSummary `json:"articles"`
		Services []string                  `json:"service_catalog"`
		Icons    []string                  `json:"icon_catalog"`
	}{
		Projects: snap.SummarizedProjects,
		Users:    snap.UserList,
		Goals:    snap.SummarizedGoals,
		Articles: snap.SummarizedArticles,
		Icons:    snap.IconCatalog,
	}
	for _, s := range snap.ServiceCatalog {
		ctxPayload.Services = append(ctxPayload.Services, s.Name)
	}

	encoded, err := json.Marshal(ctxPayload)
	if err != nil {
		return "", fmt.Errorf("encode context snapshot: %w", err)
	}
	b.WriteString("\nWorkspace context:\n")
	b.Write(encoded)

	return b.String(), nil
}
