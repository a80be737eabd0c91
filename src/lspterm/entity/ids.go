package entity

// ServerID identifies a running language server. The zero value means no server.
type ServerID uint32

// DocumentID identifies an open document. The zero value means no document.
type DocumentID uint32

// ViewID identifies a view onto a document.
type ViewID uint32

// Action is the placement policy used when opening a document.
type Action int

const (
	// ActionLoad opens the document without changing the focused view.
	ActionLoad Action = iota
	// ActionReplace shows the document in the focused view.
	ActionReplace
	// ActionVerticalSplit shows the document in a new view to the right.
	ActionVerticalSplit
	// ActionHorizontalSplit shows the document in a new view below.
	ActionHorizontalSplit
)

func (a Action) String() string {
	switch a {
	case ActionLoad:
		return "load"
	case ActionReplace:
		return "replace"
	case ActionVerticalSplit:
		return "vsplit"
	case ActionHorizontalSplit:
		return "hsplit"
	default:
		return "unknown"
	}
}
