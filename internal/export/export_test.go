package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugen/studio/internal/model"
	"github.com/edugen/studio/internal/upload"
)

func sampleTest() *model.Test {
	return &model.Test{
		ID:        7,
		Title:     "Cell biology",
		CreatedAt: "2026-03-14T09:30:00.000000",
		Assignments: []model.Assignment{{
			ID:        model.PersistedID(1),
			Title:     "Basics",
			MaxPoints: 13,
			Questions: []model.Question{
				{
					ID: model.PersistedID(1), Text: "Which organelle makes energy?",
					Type: model.QuestionTypeMultipleChoice, Points: 5,
					Options: []model.Option{
						{Text: "Nucleus"},
						{Text: "Mitochondrion", IsCorrect: true},
					},
				},
				{
					ID: model.PersistedID(2), Text: "Name the cell wall polymer.",
					Type: model.QuestionTypeShortAnswer, Points: 5, CorrectAnswer: "Cellulose",
				},
				{
					ID: model.PersistedID(3), Text: "Match the parts.",
					Type: model.QuestionTypeMatching, Points: 3,
					Options: []model.Option{{Text: model.JoinPair("Ribosome", "Protein synthesis")}},
				},
			},
		}},
	}
}

func texts(blocks []block, kind blockKind) []string {
	var out []string
	for _, b := range blocks {
		if b.kind == kind {
			out = append(out, b.text)
		}
	}
	return out
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "Cell_biology_with_answers.pdf", TestFilename("Cell biology", model.ExportPDF, true))
	assert.Equal(t, "Cell_biology_student_version.docx", TestFilename("Cell biology", model.ExportDOCX, false))
	assert.Equal(t, "Plants_study_material.pdf", StudyMaterialFilename("Plants", model.ExportPDF))
	assert.Equal(t, "material_student_version.pdf", TestFilename("  ", model.ExportPDF, false))
	assert.Equal(t, "ab_study_material.docx", StudyMaterialFilename("a/b", model.ExportDOCX))
}

func TestLayoutWithAnswers(t *testing.T) {
	blocks := layoutTest(sampleTest(), true)

	assert.Equal(t, []string{"Assignment 1: Basics"}, texts(blocks, blockHeading))
	assert.Equal(t, []string{"B. Mitochondrion (correct)"}, texts(blocks, blockCorrectOption))
	assert.Equal(t, []string{"A. Nucleus"}, texts(blocks, blockOption))
	assert.Equal(t, []string{"Answer: Cellulose"}, texts(blocks, blockAnswer))
	assert.Empty(t, texts(blocks, blockAnswerLine))
	assert.Contains(t, texts(blocks, blockText), "Created: March 14, 2026")

	var pairs []block
	for _, b := range blocks {
		if b.kind == blockPair {
			pairs = append(pairs, b)
		}
	}
	require.Len(t, pairs, 1)
	assert.Equal(t, "1. Ribosome", pairs[0].left)
	assert.Equal(t, "1. Protein synthesis", pairs[0].right)
}

func TestLayoutStudentVersion(t *testing.T) {
	blocks := layoutTest(sampleTest(), false)

	assert.Empty(t, texts(blocks, blockCorrectOption))
	assert.Empty(t, texts(blocks, blockAnswer))
	assert.Len(t, texts(blocks, blockAnswerLine), 1)
	assert.Contains(t, texts(blocks, blockOption), "B. Mitochondrion")
	assert.Contains(t, texts(blocks, blockText)[1], "Instructions:")
}

func TestDOCX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Test(&buf, model.ExportDOCX, sampleTest(), false))

	text, err := upload.ExtractText(&upload.File{Name: "out.docx", ContentType: ContentTypeDOCX, Data: buf.Bytes()})
	require.NoError(t, err)
	assert.Contains(t, text, "Cell biology")
	assert.Contains(t, text, "Assignment 1: Basics")
	assert.Contains(t, text, "Protein synthesis")
	assert.NotContains(t, text, "Cellulose")
}

func TestStudyMaterialDOCX(t *testing.T) {
	m := &model.StudyMaterial{
		Title:   "Plants & light",
		Summary: "Plants turn light into sugar.",
		Terms:   []model.Term{{Name: "Chlorophyll", Definition: "Green pigment"}},
	}

	var buf bytes.Buffer
	require.NoError(t, StudyMaterial(&buf, model.ExportDOCX, m))

	text, err := upload.ExtractText(&upload.File{Name: "out.docx", Data: buf.Bytes()})
	require.NoError(t, err)
	assert.Contains(t, text, "Plants & light")
	assert.Contains(t, text, "Key terms")
	assert.Contains(t, text, "Chlorophyll")
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Test(&buf, model.ExportPDF, sampleTest(), true))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	text, err := upload.ExtractText(&upload.File{Name: "out.pdf", ContentType: ContentTypePDF, Data: buf.Bytes()})
	require.NoError(t, err)
	assert.Contains(t, text, "Mitochondrion")
}

func TestUnknownFormat(t *testing.T) {
	err := Test(&bytes.Buffer{}, model.ExportFormat("odt"), sampleTest(), true)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
