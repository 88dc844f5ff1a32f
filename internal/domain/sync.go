package domain

import "time"

// Phase is the reconciliation state of one geometry object
type Phase int

const (
	PhaseUnlinked Phase = iota
	PhaseLinked
	PhaseTextAhead
	PhaseGeometryAhead
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PhaseUnlinked:
		return "unlinked"
	case PhaseLinked:
		return "linked"
	case PhaseTextAhead:
		return "text-ahead"
	case PhaseGeometryAhead:
		return "geometry-ahead"
	default:
		return "unknown"
	}
}

// Outcome is what a reconciliation step did
type Outcome int

const (
	OutcomeUnchanged Outcome = iota
	OutcomeGeometryToText
	OutcomeTextToGeometry
)

// String returns the string representation of an outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeGeometryToText:
		return "geometry->text"
	case OutcomeTextToGeometry:
		return "text->geometry"
	default:
		return "unknown"
	}
}

// ObjectStatus is a read-only view of one tracked object
type ObjectStatus struct {
	Object      string
	ObjectID    string
	Path        string
	Phase       Phase
	VertexCount int
	FaceCount   int
	LastError   string
}

// HistoryEntry is one undo/redo text snapshot
type HistoryEntry struct {
	ShortName string
	Text      string
}

// TickStats holds statistics from one watcher tick
type TickStats struct {
	EventsDrained   int
	GeometryApplied int
	TextApplied     int
	Linked          int
	OrphansRemoved  int
	Failures        int
	Deferred        bool
	Duration        time.Duration
}
