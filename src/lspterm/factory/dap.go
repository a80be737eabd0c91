package factory

import (
	"github.com/google/go-dap"
)

// StoppedEvent returns a DAP "stopped" event.
func StoppedEvent(body dap.StoppedEventBody) *dap.StoppedEvent {
	return &dap.StoppedEvent{
		Event: dap.Event{ProtocolMessage: dap.ProtocolMessage{Seq: 1, Type: "event"}, Event: "stopped"},
		Body:  body,
	}
}

// OutputEvent returns a DAP "output" event.
func OutputEvent(category, output string) *dap.OutputEvent {
	return &dap.OutputEvent{
		Event: dap.Event{ProtocolMessage: dap.ProtocolMessage{Seq: 1, Type: "event"}, Event: "output"},
		Body:  dap.OutputEventBody{Category: category, Output: output},
	}
}

// InitializedEvent returns a DAP "initialized" event.
func InitializedEvent() *dap.InitializedEvent {
	return &dap.InitializedEvent{
		Event: dap.Event{ProtocolMessage: dap.ProtocolMessage{Seq: 1, Type: "event"}, Event: "initialized"},
	}
}

// StackFrame returns a DAP stack frame located in the given file.
func StackFrame(id int, path string, line int) dap.StackFrame {
	return dap.StackFrame{
		Id:     id,
		Name:   "main",
		Source: &dap.Source{Name: path, Path: path},
		Line:   line,
		Column: 1,
	}
}
