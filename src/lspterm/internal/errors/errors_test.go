package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{
			name: "expected file found directory",
			err:  &ExpectedFileFoundDirectoryError{Path: "/tmp"},
		},
		{
			name: "document id not found",
			err:  &DocumentIDNotFoundError{ID: 3},
		},
		{
			name: "invariant",
			err:  &InvariantError{Source: "lsp", Detail: "unexpected call"},
		},
		{
			name: "panic",
			err:  &PanicError{Source: "job", Value: "index out of range"},
		},
		{
			name: "server not found",
			err:  &ServerNotFoundError{ID: 1},
		},
		{
			name: "unsupported request",
			err:  &UnsupportedRequestError{Command: "runInTerminal"},
		},
		{
			name: "reply not pending",
			err:  &ReplyNotPendingError{ServerID: 1, CallID: "7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.err)
			assert.True(t, len(tt.err.Error()) > 0)
		})
	}
}

func TestExpectedFileFoundDirectoryMessage(t *testing.T) {
	err := &ExpectedFileFoundDirectoryError{Path: "some_dir"}
	assert.Equal(t, "expected a path to file, found a directory. (to open a directory pass it as first argument)", err.Error())
}

func TestIsFatal(t *testing.T) {
	assert.True(t, IsFatal(&InvariantError{Source: "dap", Detail: "response"}))
	assert.True(t, IsFatal(fmt.Errorf("wrapped: %w", &InvariantError{})))
	assert.True(t, IsFatal(fmt.Errorf("job: %w", &PanicError{Source: "job", Value: 1})))
	assert.Equal(t, "job: panic: nil map", (&PanicError{Source: "job", Value: "nil map"}).Error())
	assert.False(t, IsFatal(New("not fatal")))
	assert.False(t, IsFatal(&UnsupportedRequestError{Command: "runInTerminal"}))
}
