// Package ingestion converts uploaded resume files into plain text.
package ingestion

import "fmt"

// UnsupportedTypeError is returned for documents whose MIME type cannot be read.
type UnsupportedTypeError struct {
	MIME string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.MIME)
}

// ExtractionError represents a failure to read text out of a document.
type ExtractionError struct {
	MIME    string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error (%s): %s: %v", e.MIME, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error (%s): %s", e.MIME, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
