package entity

// ProgressPhase is the lifecycle stage of a work done progress token.
type ProgressPhase int

const (
	ProgressBegin ProgressPhase = iota
	ProgressReport
	ProgressEnd
)

func (p ProgressPhase) String() string {
	switch p {
	case ProgressBegin:
		return "begin"
	case ProgressReport:
		return "report"
	case ProgressEnd:
		return "end"
	default:
		return "unknown"
	}
}

// ProgressUpdate is one incoming $/progress value. Nil fields were absent on the wire.
type ProgressUpdate struct {
	Phase      ProgressPhase
	Title      *string
	Message    *string
	Percentage *uint32
}

// ProgressEntry is the accumulated state of a progress token for one server.
type ProgressEntry struct {
	ServerID   ServerID
	Token      string
	Phase      ProgressPhase
	Title      *string
	Message    *string
	Percentage *uint32
}
