package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound      ErrCode = "NOT_FOUND"
	ErrDraftNotFound ErrCode = "DRAFT_NOT_FOUND"

	// ─── Authoring ─────────────────────────────────────────────────────
	ErrQuestionNotFound  ErrCode = "QUESTION_NOT_FOUND"
	ErrOptionNotFound    ErrCode = "OPTION_NOT_FOUND"
	ErrLastOption        ErrCode = "LAST_OPTION"
	ErrNotChoiceQuestion ErrCode = "NOT_CHOICE_QUESTION"
	ErrNotTextQuestion   ErrCode = "NOT_TEXT_QUESTION"
	ErrUnknownType       ErrCode = "UNKNOWN_QUESTION_TYPE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal    ErrCode = "INTERNAL_ERROR"
	ErrUnavailable ErrCode = "SERVICE_UNAVAILABLE"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrDraftNotFound:
		return "Draft not found or expired."

	// ─── Authoring ─────────────────────────────────────────────────────
	case ErrQuestionNotFound:
		return "Question not found in this draft."
	case ErrOptionNotFound:
		return "Option not found in this question."
	case ErrLastOption:
		return "A choice question must keep at least one option."
	case ErrNotChoiceQuestion:
		return "Only choice questions have options."
	case ErrNotTextQuestion:
		return "Only text questions have a free-text answer."
	case ErrUnknownType:
		return "Unknown question type."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	case ErrUnavailable:
		return "Service is temporarily unavailable."
	default:
		return "An unexpected error occurred."
	}
}
