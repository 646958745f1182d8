package model

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the payload for POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6"`
}

// RegisterForm is what a user fills in to register; the confirmation never
// leaves the client.
type RegisterForm struct {
	Email           string `json:"email" binding:"required,email,max=255"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

// Request returns the payload sent to the backend.
func (f RegisterForm) Request() RegisterRequest {
	return RegisterRequest{Email: f.Email, Password: f.Password}
}

// GenerateRequest is the form of POST /api/generate. Exactly one of
// Content or an uploaded file supplies the source text.
type GenerateRequest struct {
	MaterialType MaterialKind `form:"material_type" json:"material_type" binding:"required,oneof=test study_material"`
	Title        string       `form:"title" json:"title" binding:"required,max=255"`
	Content      string       `form:"content" json:"content"`
	NumQuestions int          `form:"num_questions" json:"num_questions" binding:"omitempty,min=1,max=50"`
	Difficulty   Difficulty   `form:"difficulty" json:"difficulty" binding:"omitempty,oneof=easy medium hard"`
}

// GenerateQuestionsRequest is the payload of
// POST /api/materials/:id/generate-questions.
type GenerateQuestionsRequest struct {
	AssignmentID          int64      `json:"assignment_id" binding:"required,gt=0"`
	AssignmentTitle       string     `json:"assignment_title" binding:"max=255"`
	AssignmentDescription string     `json:"assignment_description"`
	NumQuestions          int        `json:"num_questions" binding:"min=1,max=20"`
	Difficulty            Difficulty `json:"difficulty" binding:"required,oneof=easy medium hard"`
}
