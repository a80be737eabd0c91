package entity

// StackFrame is the subset of a debug adapter stack frame the editor keeps.
type StackFrame struct {
	ID     int
	Name   string
	Path   string
	Line   int
	Column int
}

// DebuggerState is the editor's view of the attached debug adapter.
type DebuggerState struct {
	IsRunning    bool
	StackPointer *StackFrame
}
