package service

import "fmt"

// ValidationError reports a submission that cannot be stored as given.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is %s", e.Field, e.Reason)
}
