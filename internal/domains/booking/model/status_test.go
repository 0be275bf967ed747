package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"quickserve/internal/domains/booking/model"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{name: "pending to confirmed", from: model.StatusPending, to: model.StatusConfirmed, allowed: true},
		{name: "pending to cancelled", from: model.StatusPending, to: model.StatusCancelled, allowed: true},
		{name: "pending to in progress", from: model.StatusPending, to: model.StatusInProgress, allowed: false},
		{name: "pending to completed", from: model.StatusPending, to: model.StatusCompleted, allowed: false},
		{name: "confirmed to in progress", from: model.StatusConfirmed, to: model.StatusInProgress, allowed: true},
		{name: "confirmed to completed", from: model.StatusConfirmed, to: model.StatusCompleted, allowed: true},
		{name: "confirmed to cancelled", from: model.StatusConfirmed, to: model.StatusCancelled, allowed: true},
		{name: "confirmed to pending", from: model.StatusConfirmed, to: model.StatusPending, allowed: false},
		{name: "in progress to completed", from: model.StatusInProgress, to: model.StatusCompleted, allowed: true},
		{name: "in progress to cancelled", from: model.StatusInProgress, to: model.StatusCancelled, allowed: true},
		{name: "in progress to confirmed", from: model.StatusInProgress, to: model.StatusConfirmed, allowed: false},
		{name: "completed is terminal", from: model.StatusCompleted, to: model.StatusCancelled, allowed: false},
		{name: "cancelled is terminal", from: model.StatusCancelled, to: model.StatusPending, allowed: false},
		{name: "cancelled to cancelled", from: model.StatusCancelled, to: model.StatusCancelled, allowed: false},
		{name: "same status is not a transition", from: model.StatusConfirmed, to: model.StatusConfirmed, allowed: false},
		{name: "unknown from", from: "UNKNOWN", to: model.StatusConfirmed, allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, model.CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, model.IsTerminal(model.StatusPending))
	assert.False(t, model.IsTerminal(model.StatusConfirmed))
	assert.False(t, model.IsTerminal(model.StatusInProgress))
	assert.True(t, model.IsTerminal(model.StatusCompleted))
	assert.True(t, model.IsTerminal(model.StatusCancelled))
}

func TestIsValidStatus(t *testing.T) {
	assert.True(t, model.IsValidStatus(model.StatusPending))
	assert.True(t, model.IsValidStatus(model.StatusCancelled))
	assert.False(t, model.IsValidStatus("pending"))
	assert.False(t, model.IsValidStatus(""))
}
