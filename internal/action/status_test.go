package action

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"pending to approved", StatusPending, StatusApproved, true},
		{"pending to denied", StatusPending, StatusDenied, true},
		{"pending to executed skips approval", StatusPending, StatusExecuted, false},
		{"approved to executed", StatusApproved, StatusExecuted, true},
		{"approved to failed", StatusApproved, StatusFailed, true},
		{"approved back to pending", StatusApproved, StatusPending, false},
		{"denied to approved", StatusDenied, StatusApproved, false},
		{"executed to failed", StatusExecuted, StatusFailed, false},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"executed to cancelled", StatusExecuted, StatusCancelled, true},
		{"unknown source", Status("bogus"), StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestAction_Transition(t *testing.T) {
	created := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	a := Action{Status: StatusPending, CreatedAt: created, UpdatedAt: created}

	later := created.Add(time.Hour)
	require.NoError(t, a.Transition(StatusApproved, later))
	assert.Equal(t, StatusApproved, a.Status)
	assert.Equal(t, later, a.UpdatedAt)
	assert.Equal(t, created, a.CreatedAt)

	err := a.Transition(StatusDenied, later.Add(time.Hour))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Equal(t, StatusApproved, a.Status, "failed transition must not change status")
	assert.Equal(t, later, a.UpdatedAt)
}

func TestValidators(t *testing.T) {
	for _, typ := range Types {
		assert.True(t, typ.Valid(), typ)
	}
	assert.False(t, Type("meeting").Valid())

	assert.True(t, PriorityUrgent.Valid())
	assert.False(t, Priority("critical").Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, Status("").Valid())
}
