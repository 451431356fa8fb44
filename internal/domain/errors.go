package domain

// ValidationError reports input rejected on the client before any request
// reaches the planning service.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
