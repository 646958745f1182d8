package material

import (
	"context"
	"fmt"

	"github.com/edugen/studio/internal/editor"
	"github.com/edugen/studio/internal/model"
	"github.com/edugen/studio/internal/validator"
)

// Bounds on how many questions one augmentation may request.
const (
	MinAugmentQuestions = 1
	MaxAugmentQuestions = 20
)

// Augment asks the backend for count more questions for an assignment and
// appends them, recomputing its maximum points.
//
// An assignment that has not been saved yet has no backend id, so the
// document is saved and reloaded first and the assignment is found again
// in the reloaded copy. Nothing is appended if the backend fails.
func (s *Session) Augment(ctx context.Context, assignmentID model.ID, count int, difficulty model.Difficulty) ([]model.Question, error) {
	if s.kind != model.MaterialKindTest {
		return nil, ErrWrongKind
	}
	if s.test == nil {
		return nil, ErrNoDocument
	}
	if count < MinAugmentQuestions || count > MaxAugmentQuestions {
		return nil, validator.Field("num_questions",
			fmt.Sprintf("num_questions must be between %d and %d", MinAugmentQuestions, MaxAugmentQuestions))
	}
	switch difficulty {
	case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
	default:
		return nil, validator.Field("difficulty", "difficulty must be one of [easy medium hard]")
	}

	a, ok := editor.FindAssignment(s.test, assignmentID)
	if !ok {
		return nil, ErrAssignmentNotFound
	}

	if a.ID.IsLocal() {
		if err := s.Save(ctx); err != nil {
			return nil, err
		}
		saved, ok := matchSaved(s.test, a)
		if !ok {
			return nil, ErrAssignmentNotMatched
		}
		s.log.Debug().
			Str("local_id", a.ID.String()).
			Str("assignment_id", saved.ID.String()).
			Msg("Matched saved assignment")
		a = saved
	}

	backendID, _ := a.ID.Persisted()
	req := model.GenerateQuestionsRequest{
		AssignmentID:          backendID,
		AssignmentTitle:       a.Title,
		AssignmentDescription: a.Description,
		NumQuestions:          count,
		Difficulty:            difficulty,
	}
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	questions, err := s.api.GenerateQuestions(ctx, s.id, req)
	if err != nil {
		return nil, fmt.Errorf("generate questions for assignment %d: %w", backendID, err)
	}

	s.test = s.tests.AppendQuestions(s.test, a.ID, questions)
	s.log.Info().Int64("assignment_id", backendID).Int("count", len(questions)).Msg("Questions generated")
	return questions, nil
}

// matchSaved finds the reloaded counterpart of a locally created
// assignment: by correlation token when the backend echoes it, else by
// title and description. Among several title matches the one at the same
// position wins.
func matchSaved(t *model.Test, local model.Assignment) (model.Assignment, bool) {
	ref := local.ClientRef
	if ref == "" {
		ref, _ = local.ID.Local()
	}
	for _, a := range t.Assignments {
		if a.ClientRef != "" && a.ClientRef == ref && !a.ID.IsLocal() {
			return a, true
		}
	}

	var candidates []model.Assignment
	for _, a := range t.Assignments {
		if a.Title == local.Title && a.Description == local.Description && !a.ID.IsLocal() {
			candidates = append(candidates, a)
		}
	}
	switch len(candidates) {
	case 0:
		return model.Assignment{}, false
	case 1:
		return candidates[0], true
	}
	for _, a := range candidates {
		if a.Position == local.Position {
			return a, true
		}
	}
	return candidates[0], true
}
