package mapper

import (
	"github.com/google/go-dap"
	"github.com/uber/lspterm/src/lspterm/entity"
)

// StackFrameToEntity maps a debug adapter stack frame to the editor's stack pointer.
func StackFrameToEntity(frame dap.StackFrame) *entity.StackFrame {
	sf := &entity.StackFrame{
		ID:     frame.Id,
		Name:   frame.Name,
		Line:   frame.Line,
		Column: frame.Column,
	}
	if frame.Source != nil {
		sf.Path = frame.Source.Path
	}
	return sf
}
