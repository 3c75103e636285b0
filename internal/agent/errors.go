package agent

import "fmt"

// InvalidInputError represents a profile that cannot be analyzed.
// It is raised before any network call is made.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid profile input: %s", e.Reason)
}
