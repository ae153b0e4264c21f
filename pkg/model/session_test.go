package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionStatusComplete(t *testing.T) {
	tests := []struct {
		name     string
		status   SessionStatus
		complete bool
	}{
		{
			name:     "all items accounted for",
			status:   SessionStatus{Status: StatusInfo{Code: StatusInProgress}, TotalCount: 5, SuccessCount: 3, FailureCount: 2},
			complete: true,
		},
		{
			name:     "items still pending",
			status:   SessionStatus{Status: StatusInfo{Code: StatusInProgress}, TotalCount: 5, SuccessCount: 3, FailureCount: 1},
			complete: false,
		},
		{
			name:     "no items registered yet",
			status:   SessionStatus{Status: StatusInfo{Code: StatusInProgress}, TotalCount: 0},
			complete: false,
		},
		{
			name:     "terminal status overrides counts",
			status:   SessionStatus{Status: StatusInfo{Code: StatusSessionClosed}, TotalCount: 5, SuccessCount: 1},
			complete: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.complete, tt.status.Complete())
		})
	}
}

func TestStatusInfoClassification(t *testing.T) {
	assert.True(t, StatusInfo{Code: StatusInProgress}.InProgress())
	assert.False(t, StatusInfo{Code: StatusInProgress}.Terminal())

	assert.True(t, StatusInfo{Code: StatusSuccess}.Succeeded())
	assert.True(t, StatusInfo{Code: StatusSuccess}.Terminal())

	failure := StatusInfo{Code: 440}
	assert.True(t, failure.Terminal())
	assert.False(t, failure.Succeeded())
}
