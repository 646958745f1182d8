// Package material holds the one document a user has open and keeps it in
// step with the backend.
//
// Edits are applied in memory through the editor package and reach the
// backend only on Save, which sends the whole document and then reloads it
// so provisional identifiers are replaced by the backend's own.
package material

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/edugen/studio/internal/client"
	"github.com/edugen/studio/internal/editor"
	"github.com/edugen/studio/internal/model"
	"github.com/rs/zerolog"
)

// Sentinel errors returned by Session.
var (
	ErrNoDocument           = errors.New("no document is open")
	ErrWrongKind            = errors.New("operation does not apply to this kind of material")
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrAssignmentNotMatched = errors.New("saved assignment could not be found after reload")
	ErrCancelled            = errors.New("cancelled by user")
)

// API is the part of the backend client a Session needs.
type API interface {
	GetTest(ctx context.Context, id int64) (*model.Test, error)
	GetStudyMaterial(ctx context.Context, id int64) (*model.StudyMaterial, error)
	SaveTest(ctx context.Context, t *model.Test) error
	SaveStudyMaterial(ctx context.Context, m *model.StudyMaterial) error
	DeleteMaterial(ctx context.Context, kind model.MaterialKind, id int64) error
	GenerateQuestions(ctx context.Context, testID int64, req model.GenerateQuestionsRequest) ([]model.Question, error)
	Export(ctx context.Context, r client.ExportRequest, w io.Writer) (client.Download, error)
}

// Confirmer asks the user to approve a destructive operation.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Deny is the default Confirmer; it declines everything.
var Deny = ConfirmFunc(func(string) bool { return false })

// Option configures a Session.
type Option func(*Session)

// WithConfirmer sets who approves deletions.
func WithConfirmer(c Confirmer) Option {
	return func(s *Session) { s.confirm = c }
}

// WithIDSource sets how provisional identifiers are minted.
func WithIDSource(ids editor.IDSource) Option {
	return func(s *Session) { s.tests = editor.NewTestEditor(ids) }
}

// WithLogger sets the session logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// Session is one open material. It is meant to be driven from a single
// goroutine and is not safe for concurrent use.
type Session struct {
	api     API
	kind    model.MaterialKind
	id      int64
	tests   *editor.TestEditor
	confirm Confirmer
	log     zerolog.Logger

	test  *model.Test
	study *model.StudyMaterial
	dirty bool
}

// Open fetches material id of the given kind and returns a session on it.
func Open(ctx context.Context, api API, kind model.MaterialKind, id int64, opts ...Option) (*Session, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrWrongKind, kind)
	}

	s := &Session{
		api:     api,
		kind:    kind,
		id:      id,
		tests:   editor.NewTestEditor(nil),
		confirm: Deny,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("material_type", string(kind)).Int64("material_id", id).Logger()

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Kind returns the kind of the open material.
func (s *Session) Kind() model.MaterialKind { return s.kind }

// ID returns the backend id of the open material.
func (s *Session) ID() int64 { return s.id }

// Test returns the current test document, or nil for a study material.
// The value must be treated as read-only.
func (s *Session) Test() *model.Test { return s.test }

// StudyMaterial returns the current study material, or nil for a test.
// The value must be treated as read-only.
func (s *Session) StudyMaterial() *model.StudyMaterial { return s.study }

// Dirty reports whether there are edits that have not been saved.
func (s *Session) Dirty() bool { return s.dirty }

// Reload replaces the in-memory document with the backend's copy. On
// failure the document is left as it was.
func (s *Session) Reload(ctx context.Context) error {
	switch s.kind {
	case model.MaterialKindTest:
		t, err := s.api.GetTest(ctx, s.id)
		if err != nil {
			return fmt.Errorf("load test %d: %w", s.id, err)
		}
		editor.SortByPosition(t)
		s.test = t
	case model.MaterialKindStudyMaterial:
		m, err := s.api.GetStudyMaterial(ctx, s.id)
		if err != nil {
			return fmt.Errorf("load study material %d: %w", s.id, err)
		}
		s.study = m
	}
	s.dirty = false
	return nil
}

// Save sends the whole document and reloads it. If either step fails the
// in-memory document is untouched and the error is returned.
func (s *Session) Save(ctx context.Context) error {
	var err error
	switch s.kind {
	case model.MaterialKindTest:
		if s.test == nil {
			return ErrNoDocument
		}
		err = s.api.SaveTest(ctx, s.test)
	case model.MaterialKindStudyMaterial:
		if s.study == nil {
			return ErrNoDocument
		}
		err = s.api.SaveStudyMaterial(ctx, s.study)
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("Save failed")
		return fmt.Errorf("save %s %d: %w", s.kind, s.id, err)
	}

	if err := s.Reload(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Reload after save failed")
		return err
	}
	s.log.Info().Msg("Material saved")
	return nil
}

// Delete removes the whole material from the backend once the user
// confirms. Afterwards the session holds no document.
func (s *Session) Delete(ctx context.Context) error {
	if s.test == nil && s.study == nil {
		return ErrNoDocument
	}
	if !s.confirm.Confirm("Delete this material?") {
		return ErrCancelled
	}
	if err := s.api.DeleteMaterial(ctx, s.kind, s.id); err != nil {
		return fmt.Errorf("delete %s %d: %w", s.kind, s.id, err)
	}
	s.test, s.study, s.dirty = nil, nil, false
	s.log.Info().Msg("Material deleted")
	return nil
}

// Export streams the saved document, rendered as format, into w.
// includeAnswers only affects tests.
func (s *Session) Export(ctx context.Context, format model.ExportFormat, includeAnswers bool, w io.Writer) (client.Download, error) {
	if s.test == nil && s.study == nil {
		return client.Download{}, ErrNoDocument
	}
	d, err := s.api.Export(ctx, client.ExportRequest{
		ID:             s.id,
		Kind:           s.kind,
		Format:         format,
		IncludeAnswers: includeAnswers && s.kind == model.MaterialKindTest,
	}, w)
	if err != nil {
		return d, fmt.Errorf("export %s %d: %w", s.kind, s.id, err)
	}
	return d, nil
}
