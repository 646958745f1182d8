package model

// MaterialKind distinguishes the two document kinds.
type MaterialKind string

const (
	MaterialKindTest          MaterialKind = "test"
	MaterialKindStudyMaterial MaterialKind = "study_material"
)

// Valid reports whether k is a known kind.
func (k MaterialKind) Valid() bool {
	return k == MaterialKindTest || k == MaterialKindStudyMaterial
}

// Difficulty is the requested difficulty of generated questions.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ExportFormat is a downloadable document format.
type ExportFormat string

const (
	ExportPDF  ExportFormat = "pdf"
	ExportDOCX ExportFormat = "docx"
)

// MaterialSummary is one row of the materials list.
type MaterialSummary struct {
	ID               int64        `json:"id"`
	Title            string       `json:"title"`
	Type             MaterialKind `json:"type"`
	CreatedAt        string       `json:"created_at"`
	AssignmentsCount int          `json:"assignments_count,omitempty"`
	TotalQuestions   int          `json:"total_questions,omitempty"`
	TermsCount       int          `json:"terms_count,omitempty"`
}

// User is the authenticated account.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}
