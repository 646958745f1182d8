package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugen/studio/internal/model"
)

func TestSplitArgs(t *testing.T) {
	cases := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"open test 4", []string{"open", "test", "4"}},
		{`create test "Cell biology" notes.pdf`, []string{"create", "test", "Cell biology", "notes.pdf"}},
		{`set title  two   spaces`, []string{"set", "title", "two", "spaces"}},
		{`set summary "say \"hi\""`, []string{"set", "summary", `say "hi"`}},
		{`set summary ""`, []string{"set", "summary", ""}},
	}
	for _, tc := range cases {
		got, err := splitArgs(tc.line)
		require.NoError(t, err, tc.line)
		assert.Equal(t, tc.want, got, tc.line)
	}

	_, err := splitArgs(`set title "open`)
	assert.ErrorIs(t, err, errUnclosedQuote)
}

func TestParseKind(t *testing.T) {
	k, ok := parseKind("Study")
	assert.True(t, ok)
	assert.Equal(t, model.MaterialKindStudyMaterial, k)

	_, ok = parseKind("quiz")
	assert.False(t, ok)
}

func TestSummaryCounts(t *testing.T) {
	assert.Equal(t, "2 assignments, 7 questions", summaryCounts(model.MaterialSummary{
		Type: model.MaterialKindTest, AssignmentsCount: 2, TotalQuestions: 7,
	}))
	assert.Equal(t, "10 terms", summaryCounts(model.MaterialSummary{
		Type: model.MaterialKindStudyMaterial, TermsCount: 10,
	}))
}
