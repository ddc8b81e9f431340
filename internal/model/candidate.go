package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CandidateRecord is the finalized output of one completed intake session
// plus artifact metadata. Immutable once constructed; consumed once by
// the dispatch fan-out.
type CandidateRecord struct {
	ID          uuid.UUID
	SubmittedAt time.Time
	Fields      CandidateFields
	FileName    string
	FileLink    string
	Category    string
	Submitter   string
}

// SubmitterHandle renders the record's submitter reference the way the log
// store expects it: a t.me link when the username is known, the raw numeric
// identity otherwise.
func SubmitterHandle(identity int64, username string) string {
	if username != "" {
		return "t.me/" + username
	}
	return fmt.Sprintf("%d", identity)
}
