package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrNotAuthenticated   ErrCode = "NOT_AUTHENTICATED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrEmailTaken         ErrCode = "EMAIL_TAKEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation          ErrCode = "VALIDATION_ERROR"
	ErrInvalidID           ErrCode = "INVALID_ID"
	ErrInvalidPayload      ErrCode = "INVALID_PAYLOAD"
	ErrInvalidMaterialType ErrCode = "INVALID_MATERIAL_TYPE"
	ErrInvalidFormat       ErrCode = "INVALID_EXPORT_FORMAT"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound           ErrCode = "NOT_FOUND"
	ErrAssignmentNotFound ErrCode = "ASSIGNMENT_NOT_FOUND"

	// ─── Generation ────────────────────────────────────────────────────
	ErrContentRequired ErrCode = "CONTENT_REQUIRED"
	ErrEmptyContent    ErrCode = "EMPTY_CONTENT"
	ErrGeneration      ErrCode = "GENERATION_FAILED"

	// ─── Upload ────────────────────────────────────────────────────────
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"
	ErrFileUnreadable  ErrCode = "FILE_UNREADABLE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrExport   ErrCode = "EXPORT_FAILED"
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrNotAuthenticated:
		return "Not authenticated."
	case ErrTokenInvalid:
		return "Session is invalid or has expired. Please sign in again."
	case ErrEmailTaken:
		return "An account with this email already exists."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Check the submitted fields."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request body."
	case ErrInvalidMaterialType:
		return `type parameter required ("test" or "study_material").`
	case ErrInvalidFormat:
		return `Export format must be "pdf" or "docx".`

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Material not found."
	case ErrAssignmentNotFound:
		return "Assignment not found."

	// ─── Generation ────────────────────────────────────────────────────
	case ErrContentRequired:
		return "Either content or file is required."
	case ErrEmptyContent:
		return "Content cannot be empty."
	case ErrGeneration:
		return "Failed to generate material."

	// ─── Upload ────────────────────────────────────────────────────────
	case ErrUnsupportedFile:
		return "File type not allowed. Allowed: .docx, .pdf, .txt."
	case ErrFileTooLarge:
		return "File is too large."
	case ErrFileUnreadable:
		return "Failed to extract text from file."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrExport:
		return "Failed to export material."
	case ErrInternal:
		return "Internal server error."
	default:
		return "Unknown error."
	}
}
