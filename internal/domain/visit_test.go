package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVisitStatusValid(t *testing.T) {
	for _, status := range []VisitStatus{VisitPending, VisitActive, VisitCompleted, VisitCancelled, VisitIssue} {
		assert.True(t, status.Valid(), "expected %s to be valid", status)
	}

	assert.False(t, VisitStatus("expired").Valid())
	assert.False(t, VisitStatus("").Valid())
}

func TestVisitStatusCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    VisitStatus
		to      VisitStatus
		allowed bool
	}{
		{"check-in", VisitPending, VisitActive, true},
		{"cancel", VisitPending, VisitCancelled, true},
		{"check-out", VisitActive, VisitCompleted, true},
		{"report issue", VisitActive, VisitIssue, true},
		{"resolve issue", VisitIssue, VisitCompleted, true},
		{"skip check-in", VisitPending, VisitCompleted, false},
		{"cancel after check-in", VisitActive, VisitCancelled, false},
		{"double check-in", VisitActive, VisitActive, false},
		{"issue on pending", VisitPending, VisitIssue, false},
		{"cancel an issue", VisitIssue, VisitCancelled, false},
		{"revive cancelled", VisitCancelled, VisitActive, false},
		{"revive completed", VisitCompleted, VisitActive, false},
		{"reopen completed", VisitCompleted, VisitIssue, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))
		})
	}
}

func TestVisitStatusTerminal(t *testing.T) {
	assert.True(t, VisitCompleted.Terminal())
	assert.True(t, VisitCancelled.Terminal())
	assert.False(t, VisitPending.Terminal())
	assert.False(t, VisitActive.Terminal())
	assert.False(t, VisitIssue.Terminal())
}

func TestVisitStatusLabel(t *testing.T) {
	assert.Equal(t, "expected", VisitPending.Label())
	assert.Equal(t, "Checked In", VisitActive.Label())
	assert.Equal(t, "Checked Out", VisitCompleted.Label())
	assert.Equal(t, "issue", VisitIssue.Label())
	assert.Equal(t, "cancelled", VisitCancelled.Label())
}

func TestFormatVisitDuration(t *testing.T) {
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		checkOut time.Time
		want     string
	}{
		{"forty-seven minutes", base.Add(47 * time.Minute), "0h 47m"},
		{"two hours five minutes", base.Add(125 * time.Minute), "2h 5m"},
		{"exact hours", base.Add(3 * time.Hour), "3h 0m"},
		{"zero", base, "0h 0m"},
		{"sub-minute is floored", base.Add(59 * time.Second), "0h 0m"},
		{"seconds do not round up", base.Add(1*time.Hour + 59*time.Second), "1h 0m"},
		{"negative clamps to zero", base.Add(-30 * time.Minute), "0h 0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatVisitDuration(base, tt.checkOut))
		})
	}
}
