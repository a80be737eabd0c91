package errors

import (
	"fmt"

	"github.com/uber/lspterm/src/lspterm/entity"
)

// InvariantError indicates a message shape that the event loop treats as impossible.
type InvariantError struct {
	Source string
	Detail string
}

// Error is an implementation of the error interface.
func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: invariant violated: %s", e.Source, e.Detail)
}

// PanicError carries a panic recovered off the event loop goroutine.
type PanicError struct {
	Source string
	Value  interface{}
}

// Error is an implementation of the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: panic: %v", e.Source, e.Value)
}

// ServerNotFoundError indicates that a language server id is not registered.
type ServerNotFoundError struct {
	ID entity.ServerID
}

// Error is an implementation of the error interface.
func (e *ServerNotFoundError) Error() string {
	return fmt.Sprintf("language server %d not found", e.ID)
}

// UnsupportedRequestError indicates a reverse request from a debug adapter that is not handled.
type UnsupportedRequestError struct {
	Command string
}

// Error is an implementation of the error interface.
func (e *UnsupportedRequestError) Error() string {
	return fmt.Sprintf("unsupported request %q", e.Command)
}

// ReplyNotPendingError indicates an attempt to answer a call that is not awaiting a reply.
type ReplyNotPendingError struct {
	ServerID entity.ServerID
	CallID   string
}

// Error is an implementation of the error interface.
func (e *ReplyNotPendingError) Error() string {
	return fmt.Sprintf("no pending call %s for language server %d", e.CallID, e.ServerID)
}
