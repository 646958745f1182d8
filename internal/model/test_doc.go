package model

import "strings"

// QuestionType tags how a question is answered.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeShortAnswer    QuestionType = "short_answer"
	QuestionTypeLongAnswer     QuestionType = "long_answer"
	QuestionTypeTrueFalse      QuestionType = "true_false"
	QuestionTypeMatching       QuestionType = "matching"
	QuestionTypeFillInBlank    QuestionType = "fill_in_blank"
)

// QuestionTypes lists every supported type in display order.
var QuestionTypes = []QuestionType{
	QuestionTypeMultipleChoice,
	QuestionTypeShortAnswer,
	QuestionTypeLongAnswer,
	QuestionTypeTrueFalse,
	QuestionTypeMatching,
	QuestionTypeFillInBlank,
}

// Valid reports whether t is one of the supported types.
func (t QuestionType) Valid() bool {
	for _, known := range QuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// HasOptions reports whether questions of this type carry Options.
func (t QuestionType) HasOptions() bool {
	switch t {
	case QuestionTypeMultipleChoice, QuestionTypeTrueFalse, QuestionTypeMatching:
		return true
	default:
		return false
	}
}

// MatchingDelimiter separates the left and right halves of a matching pair
// stored in Option.Text.
const MatchingDelimiter = "|"

// SplitPair splits a matching option into its left and right halves.
// Text without a delimiter is returned as the left half.
func SplitPair(text string) (left, right string) {
	left, right, _ = strings.Cut(text, MatchingDelimiter)
	return left, right
}

// JoinPair encodes a matching pair as option text.
func JoinPair(left, right string) string {
	return left + MatchingDelimiter + right
}

// Option is one answer choice of a question.
type Option struct {
	ID        ID     `json:"id"`
	Text      string `json:"option_text"`
	IsCorrect bool   `json:"is_correct"`
	Position  int    `json:"order_number"`
}

// Question is one question within an assignment.
type Question struct {
	ID            ID           `json:"id"`
	Text          string       `json:"question_text"`
	Type          QuestionType `json:"question_type"`
	CorrectAnswer string       `json:"correct_answer"`
	Points        int          `json:"points"`
	Position      int          `json:"order_number"`
	Options       []Option     `json:"options"`
}

// Assignment is a titled group of questions with its own point total.
type Assignment struct {
	ID ID `json:"id"`
	// ClientRef is the correlation token of an assignment created locally.
	// Backends that echo it let the client find the assignment after a
	// reload without comparing titles.
	ClientRef   string     `json:"client_ref,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	MaxPoints   int        `json:"max_points"`
	Position    int        `json:"order_number"`
	Questions   []Question `json:"questions"`
}

// Test is a test document.
type Test struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	CreatedAt   string       `json:"created_at"`
	Assignments []Assignment `json:"assignments"`
}

// Clone returns a deep copy of the question.
func (q Question) Clone() Question {
	if q.Options != nil {
		options := make([]Option, len(q.Options))
		copy(options, q.Options)
		q.Options = options
	}
	return q
}

// Clone returns a deep copy of the assignment.
func (a Assignment) Clone() Assignment {
	if a.Questions != nil {
		questions := make([]Question, len(a.Questions))
		for i, q := range a.Questions {
			questions[i] = q.Clone()
		}
		a.Questions = questions
	}
	return a
}

// Clone returns a deep copy of the test. A nil test clones to nil.
func (t *Test) Clone() *Test {
	if t == nil {
		return nil
	}
	out := *t
	if t.Assignments != nil {
		out.Assignments = make([]Assignment, len(t.Assignments))
		for i, a := range t.Assignments {
			out.Assignments[i] = a.Clone()
		}
	}
	return &out
}

// PointsTotal sums the points of the assignment's questions.
func (a Assignment) PointsTotal() int {
	total := 0
	for _, q := range a.Questions {
		total += q.Points
	}
	return total
}

// LocalIDs reports whether any assignment, question or option in the test
// still carries a provisional identifier.
func (t *Test) LocalIDs() bool {
	if t == nil {
		return false
	}
	for _, a := range t.Assignments {
		if a.ID.IsLocal() {
			return true
		}
		for _, q := range a.Questions {
			if q.ID.IsLocal() {
				return true
			}
			for _, o := range q.Options {
				if o.ID.IsLocal() {
					return true
				}
			}
		}
	}
	return false
}
