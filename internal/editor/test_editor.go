// Package editor implements the in-memory edit operations on test and
// study-material documents.
//
// Every operation takes the current document and returns the next one. The
// input is never mutated: when an operation applies, the result is a fresh
// deep copy; when it does not (unknown identifier, boundary move, value of
// the wrong type) the input pointer is returned as is.
package editor

import (
	"fmt"

	"github.com/edugen/studio/internal/model"
)

// Placeholder content for locally created entities.
const (
	NewAssignmentTitle       = "New assignment"
	NewAssignmentDescription = "Assignment description"
	NewQuestionText          = "Question text"
	TrueOptionText           = "True"
	FalseOptionText          = "False"
)

const (
	multipleChoiceOptions = 4
	minMatchingPairs      = 3
)

// AssignmentField names an editable assignment field.
type AssignmentField string

const (
	AssignmentTitle       AssignmentField = "title"
	AssignmentDescription AssignmentField = "description"
	AssignmentMaxPoints   AssignmentField = "max_points"
)

// QuestionField names an editable question field.
type QuestionField string

const (
	QuestionText          QuestionField = "question_text"
	QuestionTypeField     QuestionField = "question_type"
	QuestionCorrectAnswer QuestionField = "correct_answer"
	QuestionPoints        QuestionField = "points"
)

// OptionField names an editable option field.
type OptionField string

const (
	OptionText    OptionField = "option_text"
	OptionCorrect OptionField = "is_correct"
)

// TestEditor applies edits to test documents. Entities it creates get
// provisional identifiers from its IDSource.
type TestEditor struct {
	newID IDSource
}

// NewTestEditor creates a TestEditor. A nil source uses NewLocalID.
func NewTestEditor(ids IDSource) *TestEditor {
	if ids == nil {
		ids = NewLocalID
	}
	return &TestEditor{newID: ids}
}

// UpdateAssignment replaces one field of one assignment.
func (e *TestEditor) UpdateAssignment(t *model.Test, assignmentID model.ID, field AssignmentField, value interface{}) *model.Test {
	return editAssignment(t, assignmentID, func(a *model.Assignment) bool {
		switch field {
		case AssignmentTitle, AssignmentDescription:
			s, ok := value.(string)
			if !ok {
				return false
			}
			if field == AssignmentTitle {
				a.Title = s
			} else {
				a.Description = s
			}
		case AssignmentMaxPoints:
			n, ok := asInt(value)
			if !ok || n < 0 {
				return false
			}
			a.MaxPoints = n
		default:
			return false
		}
		return true
	})
}

// UpdateQuestion replaces one field of one question. Changing the type runs
// the option transition policy; changing the points recomputes the owning
// assignment's maximum points.
func (e *TestEditor) UpdateQuestion(t *model.Test, assignmentID, questionID model.ID, field QuestionField, value interface{}) *model.Test {
	return editQuestion(t, assignmentID, questionID, func(a *model.Assignment, q *model.Question) bool {
		switch field {
		case QuestionText, QuestionCorrectAnswer:
			s, ok := value.(string)
			if !ok {
				return false
			}
			if field == QuestionText {
				q.Text = s
			} else {
				q.CorrectAnswer = s
			}
		case QuestionTypeField:
			next, ok := asQuestionType(value)
			if !ok || next == q.Type {
				return false
			}
			e.retype(q, next)
		case QuestionPoints:
			n, ok := asInt(value)
			if !ok || n < 0 {
				return false
			}
			q.Points = n
			a.MaxPoints = a.PointsTotal()
		default:
			return false
		}
		return true
	})
}

// retype switches q to next and reshapes its options.
func (e *TestEditor) retype(q *model.Question, next model.QuestionType) {
	q.Type = next

	switch next {
	case model.QuestionTypeTrueFalse:
		q.Options = []model.Option{
			{ID: e.newID(), Text: TrueOptionText, Position: 1},
			{ID: e.newID(), Text: FalseOptionText, Position: 2},
		}
	case model.QuestionTypeMultipleChoice:
		for len(q.Options) < multipleChoiceOptions {
			q.Options = append(q.Options, e.choiceOption(len(q.Options)))
		}
		renumberOptions(q.Options)
	case model.QuestionTypeMatching:
		if len(q.Options) < minMatchingPairs {
			q.Options = make([]model.Option, 0, minMatchingPairs)
			for i := 0; i < minMatchingPairs; i++ {
				q.Options = append(q.Options, e.matchingOption(i))
			}
		}
		renumberOptions(q.Options)
	default:
		q.Options = []model.Option{}
		q.CorrectAnswer = ""
	}
}

// UpdateOption replaces one field of one option.
func (e *TestEditor) UpdateOption(t *model.Test, assignmentID, questionID, optionID model.ID, field OptionField, value interface{}) *model.Test {
	return editQuestion(t, assignmentID, questionID, func(_ *model.Assignment, q *model.Question) bool {
		i := indexOfOption(q.Options, optionID)
		if i < 0 {
			return false
		}
		switch field {
		case OptionText:
			s, ok := value.(string)
			if !ok {
				return false
			}
			q.Options[i].Text = s
		case OptionCorrect:
			b, ok := value.(bool)
			if !ok {
				return false
			}
			q.Options[i].IsCorrect = b
		default:
			return false
		}
		return true
	})
}

// MoveAssignmentUp swaps the assignment with its predecessor.
func (e *TestEditor) MoveAssignmentUp(t *model.Test, assignmentID model.ID) *model.Test {
	return moveAssignment(t, assignmentID, -1)
}

// MoveAssignmentDown swaps the assignment with its successor.
func (e *TestEditor) MoveAssignmentDown(t *model.Test, assignmentID model.ID) *model.Test {
	return moveAssignment(t, assignmentID, 1)
}

// MoveQuestionUp swaps the question with its predecessor in the assignment.
func (e *TestEditor) MoveQuestionUp(t *model.Test, assignmentID, questionID model.ID) *model.Test {
	return moveQuestion(t, assignmentID, questionID, -1)
}

// MoveQuestionDown swaps the question with its successor in the assignment.
func (e *TestEditor) MoveQuestionDown(t *model.Test, assignmentID, questionID model.ID) *model.Test {
	return moveQuestion(t, assignmentID, questionID, 1)
}

// AddAssignment appends an empty assignment with a provisional identifier.
// The identifier's token doubles as the assignment's correlation token.
func (e *TestEditor) AddAssignment(t *model.Test) *model.Test {
	if t == nil {
		return nil
	}
	out := t.Clone()
	id := e.newID()
	ref, _ := id.Local()
	out.Assignments = append(out.Assignments, model.Assignment{
		ID:          id,
		ClientRef:   ref,
		Title:       NewAssignmentTitle,
		Description: NewAssignmentDescription,
		MaxPoints:   0,
		Position:    len(out.Assignments) + 1,
		Questions:   []model.Question{},
	})
	return out
}

// AddQuestion appends a one-point multiple choice question with four
// placeholder options.
func (e *TestEditor) AddQuestion(t *model.Test, assignmentID model.ID) *model.Test {
	return editAssignment(t, assignmentID, func(a *model.Assignment) bool {
		q := model.Question{
			ID:       e.newID(),
			Text:     NewQuestionText,
			Type:     model.QuestionTypeMultipleChoice,
			Points:   1,
			Position: len(a.Questions) + 1,
			Options:  make([]model.Option, 0, multipleChoiceOptions),
		}
		for i := 0; i < multipleChoiceOptions; i++ {
			q.Options = append(q.Options, e.choiceOption(i))
		}
		a.Questions = append(a.Questions, q)
		return true
	})
}

// AddOption appends a placeholder option to a multiple choice or matching
// question. True/false questions keep their canonical pair.
func (e *TestEditor) AddOption(t *model.Test, assignmentID, questionID model.ID) *model.Test {
	return editQuestion(t, assignmentID, questionID, func(_ *model.Assignment, q *model.Question) bool {
		switch q.Type {
		case model.QuestionTypeMultipleChoice:
			q.Options = append(q.Options, e.choiceOption(len(q.Options)))
		case model.QuestionTypeMatching:
			q.Options = append(q.Options, e.matchingOption(len(q.Options)))
		default:
			return false
		}
		renumberOptions(q.Options)
		return true
	})
}

// DeleteOption removes an option from a multiple choice or matching question.
func (e *TestEditor) DeleteOption(t *model.Test, assignmentID, questionID, optionID model.ID) *model.Test {
	return editQuestion(t, assignmentID, questionID, func(_ *model.Assignment, q *model.Question) bool {
		if q.Type == model.QuestionTypeTrueFalse {
			return false
		}
		i := indexOfOption(q.Options, optionID)
		if i < 0 {
			return false
		}
		q.Options = append(q.Options[:i], q.Options[i+1:]...)
		renumberOptions(q.Options)
		return true
	})
}

// DeleteAssignment removes an assignment and renumbers the rest.
// Callers confirm with the user before calling.
func (e *TestEditor) DeleteAssignment(t *model.Test, assignmentID model.ID) *model.Test {
	if t == nil {
		return nil
	}
	i := indexOfAssignment(t.Assignments, assignmentID)
	if i < 0 {
		return t
	}
	out := t.Clone()
	out.Assignments = append(out.Assignments[:i], out.Assignments[i+1:]...)
	renumberAssignments(out.Assignments)
	return out
}

// DeleteQuestion removes a question, renumbers its siblings and recomputes
// the assignment's maximum points. Callers confirm with the user before
// calling.
func (e *TestEditor) DeleteQuestion(t *model.Test, assignmentID, questionID model.ID) *model.Test {
	return editAssignment(t, assignmentID, func(a *model.Assignment) bool {
		i := indexOfQuestion(a.Questions, questionID)
		if i < 0 {
			return false
		}
		a.Questions = append(a.Questions[:i], a.Questions[i+1:]...)
		renumberQuestions(a.Questions)
		a.MaxPoints = a.PointsTotal()
		return true
	})
}

// AppendQuestions adds questions to the end of an assignment, renumbers
// them after the existing ones and recomputes the maximum points.
func (e *TestEditor) AppendQuestions(t *model.Test, assignmentID model.ID, questions []model.Question) *model.Test {
	if len(questions) == 0 {
		return t
	}
	return editAssignment(t, assignmentID, func(a *model.Assignment) bool {
		for _, q := range questions {
			a.Questions = append(a.Questions, q.Clone())
		}
		renumberQuestions(a.Questions)
		a.MaxPoints = a.PointsTotal()
		return true
	})
}

func (e *TestEditor) choiceOption(index int) model.Option {
	return model.Option{
		ID:       e.newID(),
		Text:     fmt.Sprintf("Option %c", 'A'+rune(index%26)),
		Position: index + 1,
	}
}

func (e *TestEditor) matchingOption(index int) model.Option {
	n := index + 1
	return model.Option{
		ID:        e.newID(),
		Text:      model.JoinPair(fmt.Sprintf("Item %d", n), fmt.Sprintf("Match %d", n)),
		IsCorrect: true,
		Position:  n,
	}
}

// FindAssignment returns the assignment with the given identifier.
func FindAssignment(t *model.Test, assignmentID model.ID) (model.Assignment, bool) {
	if t == nil {
		return model.Assignment{}, false
	}
	i := indexOfAssignment(t.Assignments, assignmentID)
	if i < 0 {
		return model.Assignment{}, false
	}
	return t.Assignments[i], true
}

// FindQuestion returns a question of an assignment.
func FindQuestion(t *model.Test, assignmentID, questionID model.ID) (model.Question, bool) {
	a, ok := FindAssignment(t, assignmentID)
	if !ok {
		return model.Question{}, false
	}
	i := indexOfQuestion(a.Questions, questionID)
	if i < 0 {
		return model.Question{}, false
	}
	return a.Questions[i], true
}

func editAssignment(t *model.Test, assignmentID model.ID, fn func(a *model.Assignment) bool) *model.Test {
	if t == nil {
		return nil
	}
	i := indexOfAssignment(t.Assignments, assignmentID)
	if i < 0 {
		return t
	}
	out := t.Clone()
	if !fn(&out.Assignments[i]) {
		return t
	}
	return out
}

func editQuestion(t *model.Test, assignmentID, questionID model.ID, fn func(a *model.Assignment, q *model.Question) bool) *model.Test {
	return editAssignment(t, assignmentID, func(a *model.Assignment) bool {
		j := indexOfQuestion(a.Questions, questionID)
		if j < 0 {
			return false
		}
		return fn(a, &a.Questions[j])
	})
}

func moveAssignment(t *model.Test, assignmentID model.ID, delta int) *model.Test {
	if t == nil {
		return nil
	}
	i := indexOfAssignment(t.Assignments, assignmentID)
	j := i + delta
	if i < 0 || j < 0 || j >= len(t.Assignments) {
		return t
	}
	out := t.Clone()
	out.Assignments[i], out.Assignments[j] = out.Assignments[j], out.Assignments[i]
	renumberAssignments(out.Assignments)
	return out
}

func moveQuestion(t *model.Test, assignmentID, questionID model.ID, delta int) *model.Test {
	return editAssignment(t, assignmentID, func(a *model.Assignment) bool {
		i := indexOfQuestion(a.Questions, questionID)
		j := i + delta
		if i < 0 || j < 0 || j >= len(a.Questions) {
			return false
		}
		a.Questions[i], a.Questions[j] = a.Questions[j], a.Questions[i]
		renumberQuestions(a.Questions)
		return true
	})
}

func indexOfAssignment(as []model.Assignment, id model.ID) int {
	if id.IsZero() {
		return -1
	}
	for i := range as {
		if as[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfQuestion(qs []model.Question, id model.ID) int {
	if id.IsZero() {
		return -1
	}
	for i := range qs {
		if qs[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfOption(opts []model.Option, id model.ID) int {
	if id.IsZero() {
		return -1
	}
	for i := range opts {
		if opts[i].ID == id {
			return i
		}
	}
	return -1
}

func renumberAssignments(as []model.Assignment) {
	for i := range as {
		as[i].Position = i + 1
	}
}

func renumberQuestions(qs []model.Question) {
	for i := range qs {
		qs[i].Position = i + 1
	}
}

func renumberOptions(opts []model.Option) {
	for i := range opts {
		opts[i].Position = i + 1
	}
}

func asInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func asQuestionType(v interface{}) (model.QuestionType, bool) {
	var qt model.QuestionType
	switch s := v.(type) {
	case model.QuestionType:
		qt = s
	case string:
		qt = model.QuestionType(s)
	default:
		return "", false
	}
	return qt, qt.Valid()
}
