// Package keywords persists the reference keyword set used for section scoring.
package keywords

import "fmt"

// LoadError represents an error reading, parsing, or validating a keyword file
type LoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("keyword load error: %s (%s): %v", e.Message, e.Path, e.Cause)
	}
	return fmt.Sprintf("keyword load error: %s (%s)", e.Message, e.Path)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
