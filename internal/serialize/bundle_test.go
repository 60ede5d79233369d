package serialize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParse_PendingIsLastUserMessage tests that pending captures exactly the
// trailing user turn.
func TestParse_PendingIsLastUserMessage(t *testing.T) {
	b := Parse([]Message{
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "reply"},
		{Role: RoleUser, Content: "second"},
	})

	require.Equal(t, "second", b.Pending)
	require.NotContains(t, b.Context, "second")
	require.Contains(t, b.Context, "first")
}

// TestParse_Scenario tests the full serialization of a short conversation.
func TestParse_Scenario(t *testing.T) {
	b := Parse([]Message{
		{Role: RoleSystem, Content: "Be terse"},
		{Role: RoleUser, Content: "Hi"},
		{Role: RoleAssistant, Content: "Hello"},
		{Role: RoleUser, Content: "Bye?"},
	})

	require.Equal(t, "Bye?", b.Pending)
	require.Equal(t, 2, b.PairCount())

	lines := strings.Split(strings.TrimSuffix(b.Context, "\n"), "\n")
	require.Len(t, lines, 2)
	require.JSONEq(t, `{"question":"Be terse","answer":"OK"}`, lines[0])
	require.JSONEq(t, `{"question":"Hi","answer":"Hello"}`, lines[1])
}

// TestParse_PairCounts tests the context pair count across histories.
func TestParse_PairCounts(t *testing.T) {
	tests := []struct {
		name    string
		msgs    []Message
		pairs   int
		pending string
	}{
		{
			name:    "empty history",
			msgs:    nil,
			pairs:   0,
			pending: "",
		},
		{
			name:    "single user turn",
			msgs:    []Message{{Role: RoleUser, Content: "Hi"}},
			pairs:   0,
			pending: "Hi",
		},
		{
			name: "system plus user",
			msgs: []Message{
				{Role: RoleSystem, Content: "Be terse"},
				{Role: RoleUser, Content: "Hi"},
			},
			pairs:   1,
			pending: "Hi",
		},
		{
			name: "two full turns plus pending",
			msgs: []Message{
				{Role: RoleUser, Content: "a"},
				{Role: RoleAssistant, Content: "b"},
				{Role: RoleUser, Content: "c"},
				{Role: RoleAssistant, Content: "d"},
				{Role: RoleUser, Content: "e"},
			},
			pairs:   2,
			pending: "e",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Parse(tt.msgs)

			require.Equal(t, tt.pairs, b.PairCount())
			require.Equal(t, tt.pending, b.Pending)
		})
	}
}

// TestParse_NoUserTurn tests that a history without any question yields an
// empty pending text rather than an error.
func TestParse_NoUserTurn(t *testing.T) {
	b := Parse([]Message{{Role: RoleAssistant, Content: "unprompted"}})

	require.Empty(t, b.Pending)
	require.Empty(t, b.Context)
}

// TestParse_SystemPairsWithSentinel tests the synthetic OK answer for a
// system turn that is followed by a user question.
func TestParse_SystemPairsWithSentinel(t *testing.T) {
	b := Parse([]Message{
		{Role: RoleSystem, Content: "rules"},
		{Role: RoleUser, Content: "go"},
	})

	require.JSONEq(t, `{"question":"rules","answer":"OK"}`, strings.TrimSuffix(b.Context, "\n"))
}

// TestParse_EscapesSpecialCharacters tests that newlines and quotes in
// message content stay on a single serialized line.
func TestParse_EscapesSpecialCharacters(t *testing.T) {
	b := Parse([]Message{
		{Role: RoleUser, Content: "line one\nline \"two\""},
		{Role: RoleAssistant, Content: "ok\r\n"},
		{Role: RoleUser, Content: "next"},
	})

	require.Equal(t, 1, b.PairCount())
	require.Equal(t, 1, strings.Count(b.Context, "\n"))
	require.Contains(t, b.Context, `line one\nline \"two\"`)
}
