package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestLastCallSummary(t *testing.T) {
	userID := uuid.New()

	cases := []struct {
		name     string
		history  []CallEntry
		expected string
	}{
		{"empty history", nil, ""},
		{
			"full entry",
			[]CallEntry{{Date: "2026-03-14", Status: "Call Back", Rating: "Warm", UserID: userID}},
			"2026-03-14 • Call Back (Warm)",
		},
		{
			"no rating",
			[]CallEntry{{Date: "2026-03-14", Status: "Not Interested", UserID: userID}},
			"2026-03-14 • Not Interested",
		},
		{
			"uses the final entry",
			[]CallEntry{
				{Date: "2026-01-02", Status: "New Contact", Rating: "Cold", UserID: userID},
				{Date: "2026-02-20", Status: "Placed", Rating: "Hot", UserID: userID},
			},
			"2026-02-20 • Placed (Hot)",
		},
		{
			"status only",
			[]CallEntry{{Status: "Call Back", UserID: userID}},
			"Call Back",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := LastCallSummary(tc.history); got != tc.expected {
				t.Errorf("LastCallSummary() = %q, expected %q", got, tc.expected)
			}
		})
	}
}
