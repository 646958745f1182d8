package model

// Term is a glossary entry of a study material.
type Term struct {
	Name       string `json:"name"`
	Definition string `json:"definition"`
}

// StudyMaterial is a study-material document.
type StudyMaterial struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
	Summary   string `json:"summary"`
	Terms     []Term `json:"terms"`
}

// StudyContent is the stored and transmitted body of a study material.
type StudyContent struct {
	Summary string `json:"summary"`
	Terms   []Term `json:"terms"`
}

// Content returns the body of the material in its wire shape.
func (m *StudyMaterial) Content() StudyContent {
	terms := m.Terms
	if terms == nil {
		terms = []Term{}
	}
	return StudyContent{Summary: m.Summary, Terms: terms}
}

// Clone returns a deep copy of the material. A nil material clones to nil.
func (m *StudyMaterial) Clone() *StudyMaterial {
	if m == nil {
		return nil
	}
	out := *m
	if m.Terms != nil {
		out.Terms = make([]Term, len(m.Terms))
		copy(out.Terms, m.Terms)
	}
	return &out
}
