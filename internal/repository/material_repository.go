package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/edugen/studio/internal/model"
)

// timeLayout is how creation times are rendered on the wire.
const timeLayout = "2006-01-02T15:04:05.000000"

type testRecord struct {
	owner     int64
	createdAt time.Time
	doc       *model.Test
}

type studyRecord struct {
	owner     int64
	createdAt time.Time
	doc       *model.StudyMaterial
}

// MaterialRepository is an in-memory store of tests and study materials.
// Tests and study materials are numbered independently, so a material is
// addressed by kind and id together.
//
// Replacing a test's assignments gives every assignment, question and
// option a fresh id, the way a relational backend re-inserts the tree.
type MaterialRepository struct {
	mu          sync.RWMutex
	tests       map[int64]*testRecord
	studies     map[int64]*studyRecord
	nextTestID  int64
	nextStudyID int64
	nextRowID   int64
	now         func() time.Time
}

func NewMaterialRepository() *MaterialRepository {
	return &MaterialRepository{
		tests:   make(map[int64]*testRecord),
		studies: make(map[int64]*studyRecord),
		now:     time.Now,
	}
}

// CreateTest stores a new test and returns its id.
func (r *MaterialRepository) CreateTest(ctx context.Context, owner int64, title string, assignments []model.Assignment) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextTestID++
	now := r.now().UTC()
	doc := &model.Test{
		ID:          r.nextTestID,
		Title:       title,
		CreatedAt:   now.Format(timeLayout),
		Assignments: r.insertAssignments(assignments),
	}
	r.tests[doc.ID] = &testRecord{owner: owner, createdAt: now, doc: doc}
	return doc.ID, nil
}

// CreateStudyMaterial stores a new study material and returns its id.
func (r *MaterialRepository) CreateStudyMaterial(ctx context.Context, owner int64, title string, content model.StudyContent) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextStudyID++
	now := r.now().UTC()
	doc := &model.StudyMaterial{
		ID:        r.nextStudyID,
		Title:     title,
		CreatedAt: now.Format(timeLayout),
		Summary:   content.Summary,
		Terms:     append([]model.Term{}, content.Terms...),
	}
	r.studies[doc.ID] = &studyRecord{owner: owner, createdAt: now, doc: doc}
	return doc.ID, nil
}

// List returns the owner's materials, newest first.
func (r *MaterialRepository) List(ctx context.Context, owner int64) ([]model.MaterialSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type row struct {
		summary   model.MaterialSummary
		createdAt time.Time
	}
	rows := make([]row, 0, len(r.tests)+len(r.studies))

	for _, rec := range r.tests {
		if rec.owner != owner {
			continue
		}
		s := model.MaterialSummary{
			ID:               rec.doc.ID,
			Title:            rec.doc.Title,
			Type:             model.MaterialKindTest,
			CreatedAt:        rec.doc.CreatedAt,
			AssignmentsCount: len(rec.doc.Assignments),
		}
		for _, a := range rec.doc.Assignments {
			s.TotalQuestions += len(a.Questions)
		}
		rows = append(rows, row{s, rec.createdAt})
	}
	for _, rec := range r.studies {
		if rec.owner != owner {
			continue
		}
		rows = append(rows, row{model.MaterialSummary{
			ID:         rec.doc.ID,
			Title:      rec.doc.Title,
			Type:       model.MaterialKindStudyMaterial,
			CreatedAt:  rec.doc.CreatedAt,
			TermsCount: len(rec.doc.Terms),
		}, rec.createdAt})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].createdAt.Equal(rows[j].createdAt) {
			return rows[i].createdAt.After(rows[j].createdAt)
		}
		return rows[i].summary.ID > rows[j].summary.ID
	})

	out := make([]model.MaterialSummary, len(rows))
	for i, rw := range rows {
		out[i] = rw.summary
	}
	return out, nil
}

// GetTest returns a copy of the owner's test.
func (r *MaterialRepository) GetTest(ctx context.Context, owner, id int64) (*model.Test, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.tests[id]
	if !ok || rec.owner != owner {
		return nil, ErrNotFound
	}
	return rec.doc.Clone(), nil
}

// GetStudyMaterial returns a copy of the owner's study material.
func (r *MaterialRepository) GetStudyMaterial(ctx context.Context, owner, id int64) (*model.StudyMaterial, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.studies[id]
	if !ok || rec.owner != owner {
		return nil, ErrNotFound
	}
	return rec.doc.Clone(), nil
}

// ReplaceTest sets a new title (when not empty) and, when assignments is
// not nil, replaces the whole assignment tree.
func (r *MaterialRepository) ReplaceTest(ctx context.Context, owner, id int64, title string, assignments []model.Assignment) (*model.Test, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.tests[id]
	if !ok || rec.owner != owner {
		return nil, ErrNotFound
	}
	if title != "" {
		rec.doc.Title = title
	}
	if assignments != nil {
		rec.doc.Assignments = r.insertAssignments(assignments)
	}
	return rec.doc.Clone(), nil
}

// ReplaceStudyMaterial sets a new title (when not empty) and, when content
// is not nil, a new body.
func (r *MaterialRepository) ReplaceStudyMaterial(ctx context.Context, owner, id int64, title string, content *model.StudyContent) (*model.StudyMaterial, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.studies[id]
	if !ok || rec.owner != owner {
		return nil, ErrNotFound
	}
	if title != "" {
		rec.doc.Title = title
	}
	if content != nil {
		rec.doc.Summary = content.Summary
		rec.doc.Terms = append([]model.Term{}, content.Terms...)
	}
	return rec.doc.Clone(), nil
}

// Delete removes a material with everything in it.
func (r *MaterialRepository) Delete(ctx context.Context, owner int64, kind model.MaterialKind, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch kind {
	case model.MaterialKindTest:
		rec, ok := r.tests[id]
		if !ok || rec.owner != owner {
			return ErrNotFound
		}
		delete(r.tests, id)
	case model.MaterialKindStudyMaterial:
		rec, ok := r.studies[id]
		if !ok || rec.owner != owner {
			return ErrNotFound
		}
		delete(r.studies, id)
	default:
		return ErrNotFound
	}
	return nil
}

// HasAssignment reports whether the owner's test contains the assignment.
func (r *MaterialRepository) HasAssignment(ctx context.Context, owner, testID, assignmentID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.tests[testID]
	if !ok || rec.owner != owner {
		return false, ErrNotFound
	}
	return indexOfAssignment(rec.doc, assignmentID) >= 0, nil
}

// AppendQuestions stores questions at the end of an assignment, numbered
// after its current highest position, and returns them with their new ids.
// The assignment's maximum points are left to the editor that saves it.
func (r *MaterialRepository) AppendQuestions(ctx context.Context, owner, testID, assignmentID int64, questions []model.Question) ([]model.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.tests[testID]
	if !ok || rec.owner != owner {
		return nil, ErrNotFound
	}
	i := indexOfAssignment(rec.doc, assignmentID)
	if i < 0 {
		return nil, ErrNotFound
	}
	a := &rec.doc.Assignments[i]

	maxPos := 0
	for _, q := range a.Questions {
		if q.Position > maxPos {
			maxPos = q.Position
		}
	}

	created := make([]model.Question, len(questions))
	for qi, q := range questions {
		q = r.insertQuestion(q, maxPos+qi+1)
		a.Questions = append(a.Questions, q)
		created[qi] = q.Clone()
	}
	return created, nil
}

func indexOfAssignment(doc *model.Test, id int64) int {
	for i, a := range doc.Assignments {
		if n, ok := a.ID.Persisted(); ok && n == id {
			return i
		}
	}
	return -1
}

// insertAssignments copies the tree and numbers every row. Positions sent
// by the client are kept; missing ones default to the list order.
func (r *MaterialRepository) insertAssignments(in []model.Assignment) []model.Assignment {
	out := make([]model.Assignment, len(in))
	for ai, a := range in {
		r.nextRowID++
		stored := model.Assignment{
			ID:          model.PersistedID(r.nextRowID),
			ClientRef:   a.ClientRef,
			Title:       a.Title,
			Description: a.Description,
			MaxPoints:   a.MaxPoints,
			Position:    orDefault(a.Position, ai+1),
			Questions:   make([]model.Question, len(a.Questions)),
		}
		for qi, q := range a.Questions {
			stored.Questions[qi] = r.insertQuestion(q, orDefault(q.Position, qi+1))
		}
		out[ai] = stored
	}
	return out
}

func (r *MaterialRepository) insertQuestion(q model.Question, position int) model.Question {
	r.nextRowID++
	stored := model.Question{
		ID:            model.PersistedID(r.nextRowID),
		Text:          q.Text,
		Type:          q.Type,
		CorrectAnswer: q.CorrectAnswer,
		Points:        q.Points,
		Position:      position,
		Options:       make([]model.Option, len(q.Options)),
	}
	for oi, o := range q.Options {
		r.nextRowID++
		stored.Options[oi] = model.Option{
			ID:        model.PersistedID(r.nextRowID),
			Text:      o.Text,
			IsCorrect: o.IsCorrect,
			Position:  orDefault(o.Position, oi+1),
		}
	}
	return stored
}

func orDefault(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
