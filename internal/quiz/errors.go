package quiz

// ParseError is returned when neither the JSON nor the text-block strategy
// recovers at least one well-formed question.
type ParseError struct {
	// Reason is an internal description of the last failure, not shown to users.
	Reason string
}

const parseErrorMessage = "Could not parse the quiz from the generated text. Please try generating it again."

func (e *ParseError) Error() string { return parseErrorMessage }

// Detail returns the message together with the internal reason, for logs.
func (e *ParseError) Detail() string {
	if e.Reason == "" {
		return parseErrorMessage
	}
	return parseErrorMessage + " (" + e.Reason + ")"
}
