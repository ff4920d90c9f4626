// Package leadstatus holds the review workflow shared by candidatures and
// contact requests.
package leadstatus

import (
	"errors"
	"strings"
)

// Status is the back-office review state of a submitted lead.
type Status string

const (
	New      Status = "NEW"
	Treated  Status = "TREATED"
	Archived Status = "ARCHIVED"
)

var (
	ErrInvalid    = errors.New("invalid status")
	ErrTransition = errors.New("invalid status transition")
)

// Parse normalizes raw and rejects unknown values.
func Parse(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case New, Treated, Archived:
		return s, nil
	default:
		return "", ErrInvalid
	}
}

// CanTransition reports whether from may move to to. Re-applying the
// current status is allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	switch from {
	case New:
		return to == Treated || to == Archived
	case Treated:
		return to == Archived
	default:
		return false
	}
}
