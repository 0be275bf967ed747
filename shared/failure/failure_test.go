package failure_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"quickserve/shared/failure"
)

func TestFailure_Codes(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "not found", err: failure.NotFound("booking not found"), wantCode: http.StatusNotFound},
		{name: "bad request", err: failure.BadRequestFromString("rating must be between 1 and 5"), wantCode: http.StatusBadRequest},
		{name: "conflict", err: failure.Conflict("booking already reviewed"), wantCode: http.StatusConflict},
		{name: "forbidden", err: failure.Forbidden("not your booking"), wantCode: http.StatusForbidden},
		{name: "unauthorized", err: failure.Unauthorized("missing token"), wantCode: http.StatusUnauthorized},
		{name: "plain error defaults to 500", err: errors.New("boom"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, failure.GetCode(tt.err))
		})
	}
}

func TestFailure_InvalidTransition(t *testing.T) {
	err := failure.InvalidTransition("COMPLETED", "CONFIRMED")

	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	assert.Contains(t, err.Error(), "COMPLETED")
	assert.Contains(t, err.Error(), "CONFIRMED")
}
