package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CallEntry is one logged sales call, stored as an element of the lead's
// call_history JSONB array.
type CallEntry struct {
	Date     string    `json:"date"`
	Status   string    `json:"status"`
	Rating   string    `json:"rating,omitempty"`
	CallType string    `json:"call_type,omitempty"`
	Note     string    `json:"note,omitempty"`
	UserID   uuid.UUID `json:"user_id"`
}

// NoteEntry is one logged note, stored as an element of the lead's
// note_history JSONB array.
type NoteEntry struct {
	Date            string    `json:"date"`
	NoteType        string    `json:"noteType,omitempty"`
	Text            string    `json:"text"`
	FollowUpDate    string    `json:"followUpDate,omitempty"`
	EnteredByUserID uuid.UUID `json:"enteredByUserId"`
}

// NewCallEntry stamps a call entry with the current date.
func NewCallEntry(status, rating, callType, note string, userID uuid.UUID) CallEntry {
	return CallEntry{
		Date:     time.Now().UTC().Format("2006-01-02"),
		Status:   status,
		Rating:   rating,
		CallType: callType,
		Note:     note,
		UserID:   userID,
	}
}

// LastCallSummary renders a one-line summary of the most recent call for the
// nearby-leads picker, e.g. "2026-03-14 • Call Back (Warm)".
func LastCallSummary(history []CallEntry) string {
	if len(history) == 0 {
		return ""
	}

	last := history[len(history)-1]
	summary := last.Date
	if last.Status != "" {
		if summary != "" {
			summary += " • "
		}
		summary += last.Status
	}
	if last.Rating != "" {
		summary += fmt.Sprintf(" (%s)", last.Rating)
	}
	return summary
}
