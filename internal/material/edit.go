package material

import (
	"github.com/edugen/studio/internal/editor"
	"github.com/edugen/studio/internal/model"
)

// Edit methods return whether the document changed. They never fail: an
// unknown identifier, a study-material session or a deleted material all
// leave the document as it is.

func (s *Session) applyTest(edit func(*model.Test) *model.Test) bool {
	if s.test == nil {
		return false
	}
	next := edit(s.test)
	if next == s.test {
		return false
	}
	s.test, s.dirty = next, true
	return true
}

func (s *Session) applyStudy(edit func(*model.StudyMaterial) *model.StudyMaterial) bool {
	if s.study == nil {
		return false
	}
	next := edit(s.study)
	if next == s.study {
		return false
	}
	s.study, s.dirty = next, true
	return true
}

// UpdateAssignment replaces one field of an assignment.
func (s *Session) UpdateAssignment(assignmentID model.ID, field editor.AssignmentField, value interface{}) bool {
	return s.applyTest(func(t *model.Test) *model.Test {
		return s.tests.UpdateAssignment(t, assignmentID, field, value)
	})
}

// UpdateQuestion replaces one field of a question.
func (s *Session) UpdateQuestion(assignmentID, questionID model.ID, field editor.QuestionField, value interface{}) bool {
	return s.applyTest(func(t *model.Test) *model.Test {
		return s.tests.UpdateQuestion(t, assignmentID, questionID, field, value)
	})
}

// UpdateOption replaces one field of an option.
func (s *Session) UpdateOption(assignmentID, questionID, optionID model.ID, field editor.OptionField, value interface{}) bool {
	return s.applyTest(func(t *model.Test) *model.Test {
		return s.tests.UpdateOption(t, assignmentID, questionID, optionID, field, value)
	})
}

// MoveAssignmentUp swaps an assignment with the one before it.
func (s *Session) MoveAssignmentUp(assignmentID model.ID) bool {
	return s.applyTest(func(t *model.Test) *model.Test { return s.tests.MoveAssignmentUp(t, assignmentID) })
}

// MoveAssignmentDown swaps an assignment with the one after it.
func (s *Session) MoveAssignmentDown(assignmentID model.ID) bool {
	return s.applyTest(func(t *model.Test) *model.Test { return s.tests.MoveAssignmentDown(t, assignmentID) })
}

// MoveQuestionUp swaps a question with the one before it.
func (s *Session) MoveQuestionUp(assignmentID, questionID model.ID) bool {
	return s.applyTest(func(t *model.Test) *model.Test { return s.tests.MoveQuestionUp(t, assignmentID, questionID) })
}

// MoveQuestionDown swaps a question with the one after it.
func (s *Session) MoveQuestionDown(assignmentID, questionID model.ID) bool {
	return s.applyTest(func(t *model.Test) *model.Test { return s.tests.MoveQuestionDown(t, assignmentID, questionID) })
}

// AddAssignment appends an assignment and returns its provisional id.
func (s *Session) AddAssignment() (model.ID, bool) {
	if !s.applyTest(s.tests.AddAssignment) {
		return model.ID{}, false
	}
	as := s.test.Assignments
	return as[len(as)-1].ID, true
}

// AddQuestion appends a question to an assignment and returns its
// provisional id.
func (s *Session) AddQuestion(assignmentID model.ID) (model.ID, bool) {
	if !s.applyTest(func(t *model.Test) *model.Test { return s.tests.AddQuestion(t, assignmentID) }) {
		return model.ID{}, false
	}
	a, _ := editor.FindAssignment(s.test, assignmentID)
	return a.Questions[len(a.Questions)-1].ID, true
}

// AddOption appends a placeholder option to a question.
func (s *Session) AddOption(assignmentID, questionID model.ID) bool {
	return s.applyTest(func(t *model.Test) *model.Test { return s.tests.AddOption(t, assignmentID, questionID) })
}

// DeleteOption removes an option from a question.
func (s *Session) DeleteOption(assignmentID, questionID, optionID model.ID) bool {
	return s.applyTest(func(t *model.Test) *model.Test {
		return s.tests.DeleteOption(t, assignmentID, questionID, optionID)
	})
}

// DeleteAssignment removes an assignment after the user confirms.
func (s *Session) DeleteAssignment(assignmentID model.ID) bool {
	a, ok := editor.FindAssignment(s.test, assignmentID)
	if !ok || !s.confirm.Confirm("Delete assignment \""+a.Title+"\"?") {
		return false
	}
	return s.applyTest(func(t *model.Test) *model.Test { return s.tests.DeleteAssignment(t, assignmentID) })
}

// DeleteQuestion removes a question after the user confirms.
func (s *Session) DeleteQuestion(assignmentID, questionID model.ID) bool {
	if _, ok := editor.FindQuestion(s.test, assignmentID, questionID); !ok {
		return false
	}
	if !s.confirm.Confirm("Delete this question?") {
		return false
	}
	return s.applyTest(func(t *model.Test) *model.Test { return s.tests.DeleteQuestion(t, assignmentID, questionID) })
}

// UpdateStudyField replaces the title or the summary.
func (s *Session) UpdateStudyField(field editor.StudyField, value string) bool {
	return s.applyStudy(func(m *model.StudyMaterial) *model.StudyMaterial {
		return editor.UpdateStudyField(m, field, value)
	})
}

// UpdateTerm replaces the name or definition of the term at index.
func (s *Session) UpdateTerm(index int, field editor.TermField, value string) bool {
	return s.applyStudy(func(m *model.StudyMaterial) *model.StudyMaterial {
		return editor.UpdateTerm(m, index, field, value)
	})
}

// AddTerm appends a placeholder term.
func (s *Session) AddTerm() bool {
	return s.applyStudy(editor.AddTerm)
}

// DeleteTerm removes the term at index after the user confirms.
func (s *Session) DeleteTerm(index int) bool {
	if s.study == nil || index < 0 || index >= len(s.study.Terms) {
		return false
	}
	if !s.confirm.Confirm("Delete term \"" + s.study.Terms[index].Name + "\"?") {
		return false
	}
	return s.applyStudy(func(m *model.StudyMaterial) *model.StudyMaterial { return editor.DeleteTerm(m, index) })
}
