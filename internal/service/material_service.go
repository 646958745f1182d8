package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/edugen/studio/internal/model"
	"github.com/edugen/studio/internal/repository"
	"github.com/rs/zerolog"
)

// Material errors.
var (
	ErrMaterialNotFound   = errors.New("material not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrEmptyContent       = errors.New("content cannot be empty")
	ErrInvalidQuestion    = errors.New("invalid question")
)

// Default generation parameters, applied when a request leaves them out.
const (
	DefaultNumQuestions = 10
	DefaultDifficulty   = model.DifficultyMedium
)

// TestUpdate is the body of a test save. A nil Assignments keeps the
// stored tree.
type TestUpdate struct {
	Title       string             `json:"title"`
	Assignments []model.Assignment `json:"assignments"`
}

// StudyMaterialUpdate is the body of a study-material save. A nil Content
// keeps the stored body.
type StudyMaterialUpdate struct {
	Title   string              `json:"title"`
	Content *model.StudyContent `json:"content"`
}

// MaterialService manages the tests and study materials of each user.
type MaterialService struct {
	repo *repository.MaterialRepository
	gen  Generator
	log  zerolog.Logger
}

// NewMaterialService creates a new MaterialService.
func NewMaterialService(repo *repository.MaterialRepository, gen Generator, log zerolog.Logger) *MaterialService {
	return &MaterialService{
		repo: repo,
		gen:  gen,
		log:  log.With().Str("component", "material_service").Logger(),
	}
}

func (s *MaterialService) List(ctx context.Context, owner int64) ([]model.MaterialSummary, error) {
	return s.repo.List(ctx, owner)
}

func (s *MaterialService) GetTest(ctx context.Context, owner, id int64) (*model.Test, error) {
	t, err := s.repo.GetTest(ctx, owner, id)
	return t, notFound(err)
}

func (s *MaterialService) GetStudyMaterial(ctx context.Context, owner, id int64) (*model.StudyMaterial, error) {
	m, err := s.repo.GetStudyMaterial(ctx, owner, id)
	return m, notFound(err)
}

// SaveTest replaces the title and the whole assignment tree of a test.
func (s *MaterialService) SaveTest(ctx context.Context, owner, id int64, u TestUpdate) (*model.Test, error) {
	for _, a := range u.Assignments {
		for _, q := range a.Questions {
			if !q.Type.Valid() {
				return nil, fmt.Errorf("%w: question type %q", ErrInvalidQuestion, q.Type)
			}
		}
	}

	t, err := s.repo.ReplaceTest(ctx, owner, id, strings.TrimSpace(u.Title), u.Assignments)
	if err != nil {
		return nil, notFound(err)
	}
	s.log.Info().Int64("test_id", id).Int("assignments", len(t.Assignments)).Msg("Test saved")
	return t, nil
}

// SaveStudyMaterial replaces the title and body of a study material.
func (s *MaterialService) SaveStudyMaterial(ctx context.Context, owner, id int64, u StudyMaterialUpdate) (*model.StudyMaterial, error) {
	m, err := s.repo.ReplaceStudyMaterial(ctx, owner, id, strings.TrimSpace(u.Title), u.Content)
	if err != nil {
		return nil, notFound(err)
	}
	s.log.Info().Int64("study_material_id", id).Msg("Study material saved")
	return m, nil
}

func (s *MaterialService) Delete(ctx context.Context, owner int64, kind model.MaterialKind, id int64) error {
	return notFound(s.repo.Delete(ctx, owner, kind, id))
}

// Generate creates a material from source text and returns its id.
func (s *MaterialService) Generate(ctx context.Context, owner int64, req model.GenerateRequest, content string) (int64, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return 0, ErrEmptyContent
	}
	title := strings.TrimSpace(req.Title)

	switch req.MaterialType {
	case model.MaterialKindTest:
		n := req.NumQuestions
		if n == 0 {
			n = DefaultNumQuestions
		}
		difficulty := req.Difficulty
		if difficulty == "" {
			difficulty = DefaultDifficulty
		}

		assignments, err := s.gen.GenerateTest(ctx, content, n, difficulty)
		if err != nil {
			return 0, fmt.Errorf("generate test: %w", err)
		}
		id, err := s.repo.CreateTest(ctx, owner, title, assignments)
		if err != nil {
			return 0, fmt.Errorf("store test: %w", err)
		}
		s.log.Info().Int64("test_id", id).Int("questions", n).Str("difficulty", string(difficulty)).Msg("Test generated")
		return id, nil

	case model.MaterialKindStudyMaterial:
		body, err := s.gen.GenerateStudyMaterial(ctx, content)
		if err != nil {
			return 0, fmt.Errorf("generate study material: %w", err)
		}
		id, err := s.repo.CreateStudyMaterial(ctx, owner, title, body)
		if err != nil {
			return 0, fmt.Errorf("store study material: %w", err)
		}
		s.log.Info().Int64("study_material_id", id).Msg("Study material generated")
		return id, nil

	default:
		return 0, fmt.Errorf("unknown material type %q", req.MaterialType)
	}
}

// GenerateQuestions writes more questions for an assignment of a test,
// stores them after the existing ones and returns them.
func (s *MaterialService) GenerateQuestions(ctx context.Context, owner, testID int64, req model.GenerateQuestionsRequest) ([]model.Question, error) {
	ok, err := s.repo.HasAssignment(ctx, owner, testID, req.AssignmentID)
	if err != nil {
		return nil, notFound(err)
	}
	if !ok {
		return nil, ErrAssignmentNotFound
	}

	brief := "Assignment: " + req.AssignmentTitle + "\n"
	if req.AssignmentDescription != "" {
		brief += "Description: " + req.AssignmentDescription + "\n"
	}

	qs, err := s.gen.GenerateQuestions(ctx, brief, req.NumQuestions, req.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	created, err := s.repo.AppendQuestions(ctx, owner, testID, req.AssignmentID, qs)
	if err != nil {
		return nil, notFound(err)
	}
	s.log.Info().
		Int64("test_id", testID).
		Int64("assignment_id", req.AssignmentID).
		Int("count", len(created)).
		Msg("Questions generated")
	return created, nil
}

func notFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMaterialNotFound
	}
	return err
}
