package entity

// Severity is the importance of a diagnostic. The zero value means the server did not say.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityError
	SeverityWarning
	SeverityInfo
	SeverityHint
)

// Diagnostic is a diagnostic whose range is expressed in byte offsets into the document text.
type Diagnostic struct {
	Start    int
	End      int
	Line     int
	Message  string
	Severity Severity
	Source   string
}

// Document is an open text document.
type Document struct {
	ID         DocumentID
	Path       string
	Text       string
	LanguageID string
	Version    int32
	// LanguageServer is the server bound to this document, zero if none.
	LanguageServer ServerID
	Diagnostics    []Diagnostic
}

// Scratch reports whether the document has no backing path.
func (d *Document) Scratch() bool {
	return d.Path == ""
}

// View is a window onto a document.
type View struct {
	ID       ViewID
	Document DocumentID
	Split    Action
	Offset   int
}

// Status is the single status line message.
type Status struct {
	Message string
	IsError bool
}
