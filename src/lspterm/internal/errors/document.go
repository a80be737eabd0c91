package errors

import (
	"fmt"

	"github.com/uber/lspterm/src/lspterm/entity"
)

// ExpectedFileFoundDirectoryError indicates that a directory was given where a file path was required.
type ExpectedFileFoundDirectoryError struct {
	Path string
}

// Error is an implementation of the error interface.
func (e *ExpectedFileFoundDirectoryError) Error() string {
	return "expected a path to file, found a directory. (to open a directory pass it as first argument)"
}

// DocumentIDNotFoundError indicates that a document id does not refer to an open document.
type DocumentIDNotFoundError struct {
	ID entity.DocumentID
}

// Error is an implementation of the error interface.
func (e *DocumentIDNotFoundError) Error() string {
	return fmt.Sprintf("document %d not found", e.ID)
}
