package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/edugen/studio/internal/model"
)

func (a *app) printDocument() {
	if a.doc == nil {
		return
	}
	switch {
	case a.doc.Test() != nil:
		printTest(a, a.doc.Test())
	case a.doc.StudyMaterial() != nil:
		printStudyMaterial(a, a.doc.StudyMaterial())
	}
	if a.doc.Dirty() {
		fmt.Fprintln(a.out, "(unsaved changes)")
	}
}

func printTest(a *app, t *model.Test) {
	fmt.Fprintf(a.out, "\n%s  [test %d]\n", t.Title, t.ID)
	for ai, asg := range t.Assignments {
		fmt.Fprintf(a.out, "\n%d. %s  (%d/%d points)%s\n", ai+1, asg.Title, asg.PointsTotal(), asg.MaxPoints, unsaved(asg.ID))
		if asg.Description != "" {
			fmt.Fprintf(a.out, "   %s\n", asg.Description)
		}
		for qi, q := range asg.Questions {
			fmt.Fprintf(a.out, "   %d.%d [%s, %d pt] %s%s\n", ai+1, qi+1, q.Type, q.Points, q.Text, unsaved(q.ID))
			for oi, o := range q.Options {
				mark := " "
				if o.IsCorrect {
					mark = "x"
				}
				text := o.Text
				if q.Type == model.QuestionTypeMatching {
					left, right := model.SplitPair(o.Text)
					text = left + "  <->  " + right
				}
				fmt.Fprintf(a.out, "        %d) [%s] %s\n", oi+1, mark, text)
			}
			if len(q.Options) == 0 && q.CorrectAnswer != "" {
				fmt.Fprintf(a.out, "        answer: %s\n", q.CorrectAnswer)
			}
		}
	}
	fmt.Fprintln(a.out)
}

func printStudyMaterial(a *app, m *model.StudyMaterial) {
	fmt.Fprintf(a.out, "\n%s  [study material %d]\n\n%s\n\n", m.Title, m.ID, m.Summary)
	for i, term := range m.Terms {
		fmt.Fprintf(a.out, "%d. %s: %s\n", i+1, term.Name, term.Definition)
	}
	fmt.Fprintln(a.out)
}

func unsaved(id model.ID) string {
	if id.IsLocal() {
		return "  (new)"
	}
	return ""
}

func summaryCounts(m model.MaterialSummary) string {
	if m.Type == model.MaterialKindTest {
		return fmt.Sprintf("%d assignments, %d questions", m.AssignmentsCount, m.TotalQuestions)
	}
	return fmt.Sprintf("%d terms", m.TermsCount)
}

var errUnclosedQuote = errors.New("unclosed quote")

// splitArgs splits a command line on spaces. Double quotes group words;
// a backslash escapes the next character.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		escaped bool
		started bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
			started = true
		case r == '"':
			inQuote = !inQuote
			started = true
		case r == ' ' && !inQuote:
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, errUnclosedQuote
	}
	if started {
		args = append(args, cur.String())
	}
	return args, nil
}
