package domain

// APIError is the standardized JSON error body returned by the HTTP layer
type APIError struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

// Error types for the APIError body
const (
	ErrorTypeValidation   = "validation_error"
	ErrorTypeNotFound     = "not_found"
	ErrorTypeBadRequest   = "bad_request"
	ErrorTypeConflict     = "conflict"
	ErrorTypeUnauthorized = "unauthorized"
	ErrorTypeForbidden    = "forbidden"
	ErrorTypeInternal     = "internal_error"
)

// ValidationMessages maps validator tags to fallback messages for tags the
// handler layer does not special-case.
var ValidationMessages = map[string]string{
	"required": "This field is required",
	"max":      "Exceeds maximum value or length",
	"min":      "Below minimum value or length",
	"uuid":     "Must be a valid UUID",
	"oneof":    "Must be one of the allowed values",
	"gte":      "Must be greater than or equal to minimum value",
	"datetime": "Must match the expected date format",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}
