// Package export renders tests and study materials as PDF or DOCX files.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/edugen/studio/internal/model"
)

// Content types of the rendered files.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ErrUnknownFormat is returned for formats other than pdf and docx.
var ErrUnknownFormat = errors.New("unknown export format")

// ContentType returns the MIME type of a format.
func ContentType(format model.ExportFormat) string {
	if format == model.ExportDOCX {
		return ContentTypeDOCX
	}
	return ContentTypePDF
}

// TestFilename names an exported test after its title.
func TestFilename(title string, format model.ExportFormat, includeAnswers bool) string {
	suffix := "_student_version"
	if includeAnswers {
		suffix = "_with_answers"
	}
	return baseName(title) + suffix + "." + string(format)
}

// StudyMaterialFilename names an exported study material after its title.
func StudyMaterialFilename(title string, format model.ExportFormat) string {
	return baseName(title) + "_study_material." + string(format)
}

func baseName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ' ':
			return '_'
		case '/', '\\', '"', ':', '*', '?', '<', '>', '|':
			return -1
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		name = "material"
	}
	return name
}

// Test writes t into w. Without answers the file is a student version
// with space to write in.
func Test(w io.Writer, format model.ExportFormat, t *model.Test, includeAnswers bool) error {
	return render(w, format, layoutTest(t, includeAnswers))
}

// StudyMaterial writes m into w.
func StudyMaterial(w io.Writer, format model.ExportFormat, m *model.StudyMaterial) error {
	return render(w, format, layoutStudyMaterial(m))
}

func render(w io.Writer, format model.ExportFormat, blocks []block) error {
	switch format {
	case model.ExportPDF:
		return renderPDF(w, blocks)
	case model.ExportDOCX:
		return renderDOCX(w, blocks)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// blockKind is one kind of line in a rendered document. Both renderers
// draw the same sequence of blocks.
type blockKind int

const (
	blockTitle blockKind = iota
	blockHeading
	blockText
	blockNote
	blockQuestion
	blockOption
	blockCorrectOption
	blockAnswer
	blockAnswerLine
	blockPairHeader
	blockPair
)

type block struct {
	kind        blockKind
	text        string
	left, right string
}

// answerLine is the blank a student writes on.
var answerLine = strings.Repeat("_", 70)

func layoutTest(t *model.Test, includeAnswers bool) []block {
	blocks := []block{{kind: blockTitle, text: t.Title}}
	if created := formatDate(t.CreatedAt); created != "" {
		blocks = append(blocks, block{kind: blockText, text: "Created: " + created})
	}
	if !includeAnswers {
		blocks = append(blocks, block{kind: blockText, text: "Instructions: Answer all questions. Write your answers clearly."})
	}

	for ai, a := range t.Assignments {
		blocks = append(blocks,
			block{kind: blockHeading, text: fmt.Sprintf("Assignment %d: %s", ai+1, a.Title)},
			block{kind: blockNote, text: fmt.Sprintf("Maximum points: %d", a.MaxPoints)},
		)

		for qi, q := range a.Questions {
			blocks = append(blocks,
				block{kind: blockQuestion, text: fmt.Sprintf("Question %d (%d points)", qi+1, q.Points)},
				block{kind: blockText, text: q.Text},
			)
			blocks = append(blocks, layoutOptions(q, includeAnswers)...)

			if includeAnswers && len(q.Options) == 0 && q.Type != model.QuestionTypeMatching {
				blocks = append(blocks, block{kind: blockAnswer, text: "Answer: " + q.CorrectAnswer})
			}
			if !includeAnswers {
				switch q.Type {
				case model.QuestionTypeShortAnswer, model.QuestionTypeFillInBlank:
					blocks = append(blocks, block{kind: blockAnswerLine, text: answerLine})
				case model.QuestionTypeLongAnswer:
					for i := 0; i < 4; i++ {
						blocks = append(blocks, block{kind: blockAnswerLine, text: answerLine})
					}
				}
			}
		}
	}
	return blocks
}

func layoutOptions(q model.Question, includeAnswers bool) []block {
	if len(q.Options) == 0 {
		return nil
	}

	var blocks []block
	if q.Type == model.QuestionTypeMatching {
		blocks = append(blocks, block{kind: blockPairHeader, left: "Left side", right: "Right side"})
		for i, o := range q.Options {
			left, right := model.SplitPair(o.Text)
			blocks = append(blocks, block{
				kind:  blockPair,
				left:  fmt.Sprintf("%d. %s", i+1, left),
				right: fmt.Sprintf("%d. %s", i+1, right),
			})
		}
		if !includeAnswers {
			blocks = append(blocks, block{kind: blockNote, text: "Draw lines to match the items in the left column with the right column."})
		}
		return blocks
	}

	for i, o := range q.Options {
		text := fmt.Sprintf("%c. %s", 'A'+rune(i%26), o.Text)
		if includeAnswers && o.IsCorrect {
			blocks = append(blocks, block{kind: blockCorrectOption, text: text + " (correct)"})
			continue
		}
		blocks = append(blocks, block{kind: blockOption, text: text})
	}
	return blocks
}

func layoutStudyMaterial(m *model.StudyMaterial) []block {
	blocks := []block{{kind: blockTitle, text: m.Title}}
	if created := formatDate(m.CreatedAt); created != "" {
		blocks = append(blocks, block{kind: blockText, text: "Created: " + created})
	}
	if m.Summary != "" {
		blocks = append(blocks,
			block{kind: blockHeading, text: "Summary"},
			block{kind: blockText, text: m.Summary},
		)
	}
	if len(m.Terms) > 0 {
		blocks = append(blocks, block{kind: blockHeading, text: "Key terms"})
		for i, term := range m.Terms {
			blocks = append(blocks,
				block{kind: blockQuestion, text: fmt.Sprintf("%d. %s", i+1, term.Name)},
				block{kind: blockOption, text: term.Definition},
			)
		}
	}
	return blocks
}

// formatDate renders a stored timestamp as "January 2, 2006". Unknown
// layouts are dropped.
func formatDate(s string) string {
	for _, layout := range []string{"2006-01-02T15:04:05.999999", time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("January 2, 2006")
		}
	}
	return ""
}
