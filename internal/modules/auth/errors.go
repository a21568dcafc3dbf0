package auth

// RejectedError carries the backend's own refusal message (wrong password,
// duplicate email, ...) so the form can show it verbatim.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return "authentication rejected"
	}
	return e.Message
}
