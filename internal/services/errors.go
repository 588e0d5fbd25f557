package services

// FieldError is a validation failure scoped to a single input field.
// Handlers surface it verbatim; every other service error is reported
// to the caller as a generic message.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}
