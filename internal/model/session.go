package model

import "time"

// FlowState is the position of a conversation in the intake sequence.
type FlowState int

const (
	StateEntry FlowState = iota
	StateName
	StateEmail
	StatePhone
	StatePosition
	StateSource
	StateAwaitFile
	StateComplete
	StateCancelled
)

func (s FlowState) String() string {
	switch s {
	case StateEntry:
		return "ENTRY"
	case StateName:
		return "NAME"
	case StateEmail:
		return "EMAIL"
	case StatePhone:
		return "PHONE"
	case StatePosition:
		return "POSITION"
	case StateSource:
		return "SOURCE"
	case StateAwaitFile:
		return "AWAIT_FILE"
	case StateComplete:
		return "COMPLETE"
	case StateCancelled:
		return "CANCELLED"
	}
	return "UNKNOWN"
}

// Terminal reports whether the state ends the conversation.
func (s FlowState) Terminal() bool {
	return s == StateComplete || s == StateCancelled
}

// CandidateFields holds the five answers collected during the intake flow.
// A fixed struct rather than a map: the field set is closed.
type CandidateFields struct {
	Name     string
	Email    string
	Phone    string
	Position string
	Source   string
}

// Session is the in-memory conversation state for one user identity.
// At most one session exists per identity; a new entry replaces it.
type Session struct {
	Identity  int64
	Username  string
	FullName  string
	State     FlowState
	Fields    CandidateFields
	StartedAt time.Time
}
