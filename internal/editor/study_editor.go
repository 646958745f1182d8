package editor

import "github.com/edugen/studio/internal/model"

// Placeholder content for a new term.
const (
	NewTermName       = "New term"
	NewTermDefinition = "Definition of the new term"
)

// StudyField names an editable study-material field.
type StudyField string

const (
	StudyTitle   StudyField = "title"
	StudySummary StudyField = "summary"
)

// TermField names an editable term field.
type TermField string

const (
	TermName       TermField = "name"
	TermDefinition TermField = "definition"
)

// UpdateStudyField replaces the title or the summary.
func UpdateStudyField(m *model.StudyMaterial, field StudyField, value string) *model.StudyMaterial {
	if m == nil {
		return nil
	}
	out := m.Clone()
	switch field {
	case StudyTitle:
		out.Title = value
	case StudySummary:
		out.Summary = value
	default:
		return m
	}
	return out
}

// UpdateTerm replaces one field of the term at index.
func UpdateTerm(m *model.StudyMaterial, index int, field TermField, value string) *model.StudyMaterial {
	if m == nil || index < 0 || index >= len(m.Terms) {
		return m
	}
	out := m.Clone()
	switch field {
	case TermName:
		out.Terms[index].Name = value
	case TermDefinition:
		out.Terms[index].Definition = value
	default:
		return m
	}
	return out
}

// AddTerm appends a placeholder term.
func AddTerm(m *model.StudyMaterial) *model.StudyMaterial {
	if m == nil {
		return nil
	}
	out := m.Clone()
	out.Terms = append(out.Terms, model.Term{Name: NewTermName, Definition: NewTermDefinition})
	return out
}

// DeleteTerm removes the term at index. Callers confirm with the user
// before calling.
func DeleteTerm(m *model.StudyMaterial, index int) *model.StudyMaterial {
	if m == nil || index < 0 || index >= len(m.Terms) {
		return m
	}
	out := m.Clone()
	out.Terms = append(out.Terms[:index], out.Terms[index+1:]...)
	return out
}
