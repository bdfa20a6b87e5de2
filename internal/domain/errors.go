package domain

// ValidationError signals a missing or malformed field in a request body.
// Handlers surface it as a 400 with the message verbatim.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }
