package protocol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/workhub-io/assistant/internal/snapshot"
)

func TestClassify_PlainTextIsAnswer(t *testing.T) {
	out := Classify("Your Spring Launch project has 3 open tasks.")
	require.Equal(t, "Your Spring Launch project has 3 open tasks.", out.Answer)
	require.Nil(t, out.Action)
}

func TestClassify_KnownActionParses(t *testing.T) {
	out := Classify(`{"action":"CREATE_PROJECT","name":"Spring Launch","budget":5000000,"services":["SEO"]}`)
	require.NotNil(t, out.Action)
	require.Equal(t, KindCreateProject, out.Action.Action)
	require.Equal(t, "Spring Launch", out.Action.Name)
	require.EqualValues(t, 5000000, out.Action.Budget)
}

func TestClassify_StripsCodeFences(t *testing.T) {
	out := Classify("```json\n{\"action\":\"CREATE_GOAL\",\"title\":\"Grow revenue\"}\n```")
	require.NotNil(t, out.Action)
	require.Equal(t, KindCreateGoal, out.Action.Action)
}

// TestClassify_UnknownActionIsFlagged: JSON with an unrecognized action value
// must never be shown to the user as raw text.
func TestClassify_UnknownActionIsFlagged(t *testing.T) {
	out := Classify(`{"action":"DELETE_EVERYTHING","target":"all"}`)
	require.Empty(t, out.Answer)
	require.Nil(t, out.Action)
	require.Equal(t, Kind("DELETE_EVERYTHING"), out.UnknownAction)
}

func TestClassify_AlmostJSONIsAnswer(t *testing.T) {
	raw := "{this is not json, it's me being expressive}"
	out := Classify(raw)
	require.Equal(t, raw, out.Answer)
}

func TestCompile_EnumeratesGrammarAndContext(t *testing.T) {
	snap := &snapshot.Snapshot{
		SummarizedProjects: []snapshot.ProjectSummary{{Name: "Spring Launch", Status: "active"}},
		UserList:           []snapshot.UserSummary{{FullName: "Ada Brown", Email: "ada@example.com"}},
	}
	instructions, err := Compile("Wren", snap)
	require.NoError(t, err)

	for _, k := range Kinds() {
		require.Contains(t, instructions, string(k))
	}
	require.Contains(t, instructions, "Wren")
	require.Contains(t, instructions, "Spring Launch")
	require.Contains(t, instructions, "ada@example.com")
	// The two-phase confirmation rule must be stated.
	require.True(t, strings.Contains(instructions, "never emit the action immediately"))
}
