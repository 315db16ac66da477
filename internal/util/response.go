package util

type Envelope map[string]any

func Error(message string) Envelope {
	return Envelope{"error": message}
}

// ErrorDetails is an error envelope that also lists individual problems.
func ErrorDetails(message string, details []string) Envelope {
	return Envelope{"error": message, "details": details}
}
