package editor

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugen/studio/internal/model"
)

// sequentialIDs returns an IDSource yielding local-1, local-2, ...
func sequentialIDs() IDSource {
	n := 0
	return func() model.ID {
		n++
		return model.LocalID(fmt.Sprintf("local-%d", n))
	}
}

func option(id int64, text string, correct bool, pos int) model.Option {
	return model.Option{ID: model.PersistedID(id), Text: text, IsCorrect: correct, Position: pos}
}

// sampleTest builds a test with two assignments:
//
//	10: questions 100 (mc, 2 pts), 101 (short answer, 3 pts)
//	11: question 110 (true/false, 1 pt)
func sampleTest() *model.Test {
	return &model.Test{
		ID:    1,
		Title: "Photosynthesis",
		Assignments: []model.Assignment{
			{
				ID:        model.PersistedID(10),
				Title:     "Basics",
				MaxPoints: 5,
				Position:  1,
				Questions: []model.Question{
					{
						ID: model.PersistedID(100), Text: "Where?", Type: model.QuestionTypeMultipleChoice,
						CorrectAnswer: "Leaves", Points: 2, Position: 1,
						Options: []model.Option{
							option(1000, "Roots", false, 1),
							option(1001, "Leaves", true, 2),
							option(1002, "Stem", false, 3),
							option(1003, "Flowers", false, 4),
						},
					},
					{
						ID: model.PersistedID(101), Text: "Explain.", Type: model.QuestionTypeShortAnswer,
						CorrectAnswer: "Light to sugar", Points: 3, Position: 2,
					},
				},
			},
			{
				ID:        model.PersistedID(11),
				Title:     "Advanced",
				MaxPoints: 1,
				Position:  2,
				Questions: []model.Question{
					{
						ID: model.PersistedID(110), Text: "Plants breathe.", Type: model.QuestionTypeTrueFalse,
						CorrectAnswer: "True", Points: 1, Position: 1,
						Options: []model.Option{
							option(1100, "True", true, 1),
							option(1101, "False", false, 2),
						},
					},
				},
			},
		},
	}
}

func assertContiguous(t *testing.T, doc *model.Test) {
	t.Helper()
	for i, a := range doc.Assignments {
		require.Equal(t, i+1, a.Position, "assignment %s position", a.ID)
		for j, q := range a.Questions {
			require.Equal(t, j+1, q.Position, "question %s position", q.ID)
		}
	}
}

func TestUpdateAssignment(t *testing.T) {
	e := NewTestEditor(sequentialIDs())
	doc := sampleTest()

	next := e.UpdateAssignment(doc, model.PersistedID(10), AssignmentTitle, "Fundamentals")
	require.NotSame(t, doc, next)
	assert.Equal(t, "Fundamentals", next.Assignments[0].Title)
	assert.Equal(t, "Basics", doc.Assignments[0].Title, "input must not be mutated")

	next = e.UpdateAssignment(doc, model.PersistedID(11), AssignmentMaxPoints, 40)
	assert.Equal(t, 40, next.Assignments[1].MaxPoints)
}

func TestOperationsOnUnknownTargetsAreNoOps(t *testing.T) {
	e := NewTestEditor(sequentialIDs())
	doc := sampleTest()
	missing := model.PersistedID(999)
	a, q, o := model.PersistedID(10), model.PersistedID(100), model.PersistedID(1000)

	cases := map[string]*model.Test{
		"assignment":            e.UpdateAssignment(doc, missing, AssignmentTitle, "x"),
		"assignment bad type":   e.UpdateAssignment(doc, a, AssignmentTitle, 42),
		"assignment bad field":  e.UpdateAssignment(doc, a, AssignmentField("position"), 3),
		"question":              e.UpdateQuestion(doc, a, missing, QuestionText, "x"),
		"question wrong parent": e.UpdateQuestion(doc, model.PersistedID(11), q, QuestionText, "x"),
		"question bad type":     e.UpdateQuestion(doc, a, q, QuestionTypeField, "essay"),
		"negative points":       e.UpdateQuestion(doc, a, q, QuestionPoints, -1),
		"option":                e.UpdateOption(doc, a, q, missing, OptionText, "x"),
		"option bad value":      e.UpdateOption(doc, a, q, o, OptionCorrect, "yes"),
		"move assignment":       e.MoveAssignmentUp(doc, missing),
		"move question":         e.MoveQuestionDown(doc, a, missing),
		"add question":          e.AddQuestion(doc, missing),
		"delete assignment":     e.DeleteAssignment(doc, missing),
		"delete question":       e.DeleteQuestion(doc, a, missing),
		"zero id":               e.UpdateAssignment(doc, model.ID{}, AssignmentTitle, "x"),
	}
	for name, got := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Same(t, doc, got)
		})
	}

	assert.Nil(t, e.AddAssignment(nil))
	assert.Nil(t, e.UpdateQuestion(nil, a, q, QuestionText, "x"))
	assert.Equal(t, sampleTest(), doc)
}

func TestUpdateQuestionPointsRecomputesMaxPoints(t *testing.T) {
	e := NewTestEditor(sequentialIDs())
	doc := sampleTest()

	next := e.UpdateQuestion(doc, model.PersistedID(10), model.PersistedID(100), QuestionPoints, 7)
	assert.Equal(t, 7, next.Assignments[0].Questions[0].Points)
	assert.Equal(t, 10, next.Assignments[0].MaxPoints)
	assert.Equal(t, 1, next.Assignments[1].MaxPoints, "other assignments keep their total")
	assert.Equal(t, 5, doc.Assignments[0].MaxPoints)
}

func TestUpdateQuestionTextDoesNotTouchMaxPoints(t *testing.T) {
	e := NewTestEditor(sequentialIDs())
	doc := sampleTest()
	doc.Assignments[0].MaxPoints = 50

	next := e.UpdateQuestion(doc, model.PersistedID(10), model.PersistedID(101), QuestionText, "Describe.")
	assert.Equal(t, "Describe.", next.Assignments[0].Questions[1].Text)
	assert.Equal(t, 50, next.Assignments[0].MaxPoints)
}

func TestQuestionTypeTransitions(t *testing.T) {
	a := model.PersistedID(10)

	t.Run("short answer to multiple choice creates four options", func(t *testing.T) {
		e := NewTestEditor(sequentialIDs())
		next := e.UpdateQuestion(sampleTest(), a, model.PersistedID(101), QuestionTypeField, model.QuestionTypeMultipleChoice)
		q := next.Assignments[0].Questions[1]
		require.Len(t, q.Options, 4)
		for i, o := range q.Options {
			assert.Equal(t, i+1, o.Position)
			assert.True(t, o.ID.IsLocal())
		}
		assert.Equal(t, "Option A", q.Options[0].Text)
		assert.Equal(t, "Option D", q.Options[3].Text)
	})

	t.Run("true false to multiple choice pads and preserves", func(t *testing.T) {
		e := NewTestEditor(sequentialIDs())
		next := e.UpdateQuestion(sampleTest(), model.PersistedID(11), model.PersistedID(110), QuestionTypeField, "multiple_choice")
		q := next.Assignments[1].Questions[0]
		require.Len(t, q.Options, 4)
		assert.Equal(t, option(1100, "True", true, 1), q.Options[0])
		assert.Equal(t, option(1101, "False", false, 2), q.Options[1])
		assert.Equal(t, "Option C", q.Options[2].Text)
		assert.Equal(t, "Option D", q.Options[3].Text)
	})

	t.Run("multiple choice never truncates", func(t *testing.T) {
		e := NewTestEditor(sequentialIDs())
		doc := sampleTest()
		doc.Assignments[0].Questions[0].Type = model.QuestionTypeMatching
		doc.Assignments[0].Questions[0].Options = append(doc.Assignments[0].Questions[0].Options, option(1004, "Seeds", false, 5))

		next := e.UpdateQuestion(doc, a, model.PersistedID(100), QuestionTypeField, model.QuestionTypeMultipleChoice)
		assert.Len(t, next.Assignments[0].Questions[0].Options, 5)
	})

	t.Run("to true false yields the canonical pair", func(t *testing.T) {
		e := NewTestEditor(sequentialIDs())
		next := e.UpdateQuestion(sampleTest(), a, model.PersistedID(100), QuestionTypeField, model.QuestionTypeTrueFalse)
		q := next.Assignments[0].Questions[0]
		require.Len(t, q.Options, 2)
		assert.Equal(t, TrueOptionText, q.Options[0].Text)
		assert.Equal(t, FalseOptionText, q.Options[1].Text)
		assert.Equal(t, []int{1, 2}, []int{q.Options[0].Position, q.Options[1].Position})
	})

	t.Run("to matching creates three pairs when fewer exist", func(t *testing.T) {
		e := NewTestEditor(sequentialIDs())
		next := e.UpdateQuestion(sampleTest(), model.PersistedID(11), model.PersistedID(110), QuestionTypeField, model.QuestionTypeMatching)
		q := next.Assignments[1].Questions[0]
		require.Len(t, q.Options, 3)
		for i, o := range q.Options {
			left, right := model.SplitPair(o.Text)
			assert.Equal(t, fmt.Sprintf("Item %d", i+1), left)
			assert.Equal(t, fmt.Sprintf("Match %d", i+1), right)
			assert.Equal(t, 1, strings.Count(o.Text, model.MatchingDelimiter))
		}
	})

	t.Run("to matching keeps three or more options", func(t *testing.T) {
		e := NewTestEditor(sequentialIDs())
		next := e.UpdateQuestion(sampleTest(), a, model.PersistedID(100), QuestionTypeField, model.QuestionTypeMatching)
		assert.Equal(t, sampleTest().Assignments[0].Questions[0].Options, next.Assignments[0].Questions[0].Options)
	})

	for _, qt := range []model.QuestionType{
		model.QuestionTypeShortAnswer, model.QuestionTypeLongAnswer, model.QuestionTypeFillInBlank,
	} {
		t.Run("to "+string(qt)+" clears options and answer", func(t *testing.T) {
			e := NewTestEditor(sequentialIDs())
			next := e.UpdateQuestion(sampleTest(), a, model.PersistedID(100), QuestionTypeField, qt)
			q := next.Assignments[0].Questions[0]
			assert.Equal(t, qt, q.Type)
			assert.Empty(t, q.Options)
			assert.Empty(t, q.CorrectAnswer)
		})
	}

	t.Run("same type is a no-op", func(t *testing.T) {
		e := NewTestEditor(sequentialIDs())
		doc := sampleTest()
		assert.Same(t, doc, e.UpdateQuestion(doc, a, model.PersistedID(101), QuestionTypeField, model.QuestionTypeShortAnswer))
	})
}

func TestOpenAnswerQuestionsSendAnEmptyOptionList(t *testing.T) {
	e := NewTestEditor(sequentialIDs())
	doc := e.AddQuestion(sampleTest(), model.PersistedID(10))
	added := doc.Assignments[0].Questions[len(doc.Assignments[0].Questions)-1]

	for _, qt := range []model.QuestionType{
		model.QuestionTypeShortAnswer, model.QuestionTypeLongAnswer, model.QuestionTypeFillInBlank,
	} {
		t.Run(string(qt), func(t *testing.T) {
			next := e.UpdateQuestion(doc, model.PersistedID(10), added.ID, QuestionTypeField, qt)
			q := next.Assignments[0].Questions[len(next.Assignments[0].Questions)-1]
			require.Equal(t, qt, q.Type)

			data, err := json.Marshal(q)
			require.NoError(t, err)
			assert.Contains(t, string(data), `"options":[]`)
			assert.NotContains(t, string(data), `"options":null`)

			// later edits copy the question and must keep the empty list
			next = e.UpdateQuestion(next, model.PersistedID(10), added.ID, QuestionPoints, 4)
			data, err = json.Marshal(next.Assignments[0].Questions[len(next.Assignments[0].Questions)-1])
			require.NoError(t, err)
			assert.Contains(t, string(data), `"options":[]`)
		})
	}
}

func TestUpdateOption(t *testing.T) {
	e := NewTestEditor(sequentialIDs())
	doc := sampleTest()
	a, q := model.PersistedID(10), model.PersistedID(100)

	next := e.UpdateOption(doc, a, q, model.PersistedID(1002), OptionText, "Stalk")
	next = e.UpdateOption(next, a, q, model.PersistedID(1002), OptionCorrect, true)

	got := next.Assignments[0].Questions[0].Options[2]
	assert.Equal(t, "Stalk", got.Text)
	assert.True(t, got.IsCorrect)
	assert.Equal(t, "Stem", doc.Assignments[0].Questions[0].Options[2].Text)
}

func TestMoveAssignment(t *testing.T) {
	e := NewTestEditor(sequentialIDs())
	doc := sampleTest()

	assert.Same(t, doc, e.MoveAssignmentUp(doc, model.PersistedID(10)), "first cannot move up")
	assert.Same(t, doc, e.MoveAssignmentDown(doc, model.PersistedID(11)), "last cannot move down")

	next := e.MoveAssignmentDown(doc, model.PersistedID(10))
	assert.Equal(t, model.PersistedID(11), next.Assignments[0].ID)
	assert.Equal(t, model.PersistedID(10), next.Assignments[1].ID)
	assertContiguous(t, next)

	back := e.MoveAssignmentUp(next, model.PersistedID(10))
	assert.Equal(t, doc, back)
}

func TestMoveQuestion(t *testing.T) {
	e := NewTestEditor(sequentialIDs())
	doc := sampleTest()
	a := model.PersistedID(10)

	assert.Same(t, doc, e.MoveQuestionUp(doc, a, model.PersistedID(100)))
	assert.Same(t, doc, e.MoveQuestionDown(doc, a, model.PersistedID(101)))

	next := e.MoveQuestionUp(doc, a, model.PersistedID(101))
	assert.Equal(t, model.PersistedID(101), next.Assignments[0].Questions[0].ID)
	assertContiguous(t, next)
}

func TestAddAssignment(t *testing.T) {
	e := NewTestEditor(sequentialIDs())
	next := e.AddAssignment(sampleTest())

	require.Len(t, next.Assignments, 3)
	added := next.Assignments[2]
	assert.Equal(t, model.LocalID("local-1"), added.ID)
	assert.Equal(t, "local-1", added.ClientRef)
	assert.Equal(t, 3, added.Position)
	assert.Equal(t, 0, added.MaxPoints)
	assert.Empty(t, added.Questions)
	assert.NotNil(t, added.Questions)
}

func TestAddQuestion(t *testing.T) {
	e := NewTestEditor(sequentialIDs())
	next := e.AddQuestion(sampleTest(), model.PersistedID(11))

	qs := next.Assignments[1].Questions
	require.Len(t, qs, 2)
	q := qs[1]
	assert.True(t, q.ID.IsLocal())
	assert.Equal(t, model.QuestionTypeMultipleChoice, q.Type)
	assert.Equal(t, 1, q.Points)
	assert.Equal(t, 2, q.Position)
	require.Len(t, q.Options, 4)
	seen := map[model.ID]bool{q.ID: true}
	for _, o := range q.Options {
		assert.False(t, seen[o.ID], "ids must be unique")
		seen[o.ID] = true
	}
}

func TestAddAndDeleteOption(t *testing.T) {
	e := NewTestEditor(sequentialIDs())
	a := model.PersistedID(10)

	next := e.AddOption(sampleTest(), a, model.PersistedID(100))
	opts := next.Assignments[0].Questions[0].Options
	require.Len(t, opts, 5)
	assert.Equal(t, "Option E", opts[4].Text)

	next = e.DeleteOption(next, a, model.PersistedID(100), model.PersistedID(1000))
	opts = next.Assignments[0].Questions[0].Options
	require.Len(t, opts, 4)
	for i, o := range opts {
		assert.Equal(t, i+1, o.Position)
	}

	doc := sampleTest()
	assert.Same(t, doc, e.AddOption(doc, model.PersistedID(11), model.PersistedID(110)), "true/false keeps its pair")
	assert.Same(t, doc, e.DeleteOption(doc, model.PersistedID(11), model.PersistedID(110), model.PersistedID(1100)))
	assert.Same(t, doc, e.AddOption(doc, a, model.PersistedID(101)), "short answer has no options")
}

func TestDeleteAssignmentRenumbers(t *testing.T) {
	e := NewTestEditor(sequentialIDs())
	doc := e.AddAssignment(sampleTest())

	next := e.DeleteAssignment(doc, model.PersistedID(10))
	require.Len(t, next.Assignments, 2)
	assert.Equal(t, model.PersistedID(11), next.Assignments[0].ID)
	assertContiguous(t, next)
}

func TestDeleteQuestionRecomputesMaxPoints(t *testing.T) {
	e := NewTestEditor(sequentialIDs())
	next := e.DeleteQuestion(sampleTest(), model.PersistedID(10), model.PersistedID(100))

	a := next.Assignments[0]
	require.Len(t, a.Questions, 1)
	assert.Equal(t, 3, a.MaxPoints)
	assert.Equal(t, 1, a.Questions[0].Position)
}

func TestDeleteOnlyQuestion(t *testing.T) {
	e := NewTestEditor(sequentialIDs())
	doc := &model.Test{
		ID: 1,
		Assignments: []model.Assignment{{
			ID: model.PersistedID(1), MaxPoints: 0, Position: 1,
			Questions: []model.Question{{
				ID: model.PersistedID(2), Type: model.QuestionTypeShortAnswer, Points: 5, Position: 1,
			}},
		}},
	}

	next := e.DeleteQuestion(doc, model.PersistedID(1), model.PersistedID(2))
	assert.Empty(t, next.Assignments[0].Questions)
	assert.Equal(t, 0, next.Assignments[0].MaxPoints)
}

func TestAppendQuestions(t *testing.T) {
	e := NewTestEditor(sequentialIDs())
	generated := []model.Question{
		{ID: model.PersistedID(500), Text: "G1", Type: model.QuestionTypeShortAnswer, Points: 4, Position: 7},
		{ID: model.PersistedID(501), Text: "G2", Type: model.QuestionTypeFillInBlank, Points: 6, Position: 8},
	}

	next := e.AppendQuestions(sampleTest(), model.PersistedID(11), generated)
	a := next.Assignments[1]
	require.Len(t, a.Questions, 3)
	assert.Equal(t, 11, a.MaxPoints)
	assertContiguous(t, next)

	doc := sampleTest()
	assert.Same(t, doc, e.AppendQuestions(doc, model.PersistedID(11), nil))
}

func TestPositionsStayContiguousUnderRandomEdits(t *testing.T) {
	e := NewTestEditor(sequentialIDs())
	rng := rand.New(rand.NewSource(7))
	doc := sampleTest()

	pickAssignment := func() model.ID {
		if len(doc.Assignments) == 0 {
			return model.PersistedID(404)
		}
		return doc.Assignments[rng.Intn(len(doc.Assignments))].ID
	}
	pickQuestion := func(aID model.ID) model.ID {
		a, ok := FindAssignment(doc, aID)
		if !ok || len(a.Questions) == 0 {
			return model.PersistedID(404)
		}
		return a.Questions[rng.Intn(len(a.Questions))].ID
	}

	for step := 0; step < 500; step++ {
		aID := pickAssignment()
		switch rng.Intn(9) {
		case 0:
			doc = e.AddAssignment(doc)
		case 1:
			doc = e.AddQuestion(doc, aID)
		case 2:
			doc = e.DeleteAssignment(doc, aID)
		case 3:
			doc = e.DeleteQuestion(doc, aID, pickQuestion(aID))
		case 4:
			doc = e.MoveAssignmentUp(doc, aID)
		case 5:
			doc = e.MoveAssignmentDown(doc, aID)
		case 6:
			doc = e.MoveQuestionUp(doc, aID, pickQuestion(aID))
		case 7:
			doc = e.MoveQuestionDown(doc, aID, pickQuestion(aID))
		case 8:
			doc = e.UpdateQuestion(doc, aID, pickQuestion(aID), QuestionPoints, rng.Intn(10))
		}
		assertContiguous(t, doc)
	}
}

func TestMaxPointsFollowsPointEditsAndDeletions(t *testing.T) {
	e := NewTestEditor(sequentialIDs())
	rng := rand.New(rand.NewSource(11))
	a := model.PersistedID(10)
	doc := sampleTest()
	for i := 0; i < 5; i++ {
		doc = e.AddQuestion(doc, a)
	}

	for len(doc.Assignments[0].Questions) > 0 {
		qs := doc.Assignments[0].Questions
		q := qs[rng.Intn(len(qs))].ID
		if rng.Intn(3) == 0 {
			doc = e.DeleteQuestion(doc, a, q)
		} else {
			doc = e.UpdateQuestion(doc, a, q, QuestionPoints, rng.Intn(20))
		}
		assert.Equal(t, doc.Assignments[0].PointsTotal(), doc.Assignments[0].MaxPoints)
	}
	assert.Equal(t, 0, doc.Assignments[0].MaxPoints)
}

func TestSortByPosition(t *testing.T) {
	doc := sampleTest()
	doc.Assignments[0], doc.Assignments[1] = doc.Assignments[1], doc.Assignments[0]
	opts := doc.Assignments[1].Questions[0].Options
	opts[0], opts[3] = opts[3], opts[0]

	SortByPosition(doc)
	assert.Equal(t, sampleTest(), doc)
}
