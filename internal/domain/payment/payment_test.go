package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/nail-scheduler/internal/httperr"
)

func TestFromProvider(t *testing.T) {
	cases := map[string]Status{
		"approved":     StatusCompleted,
		"APPROVED ":    StatusCompleted,
		"pending":      StatusProcessing,
		"in_process":   StatusProcessing,
		"authorized":   StatusProcessing,
		"rejected":     StatusFailed,
		"cancelled":    StatusCancelled,
		"refunded":     StatusRefunded,
		"charged_back": StatusRefunded,
		"whatever":     StatusProcessing,
	}

	for in, want := range cases {
		assert.Equal(t, want, FromProvider(in), in)
	}
}

func TestCanMove(t *testing.T) {
	assert.True(t, CanMove(StatusPending, StatusCompleted))
	assert.True(t, CanMove(StatusProcessing, StatusFailed))
	assert.True(t, CanMove(StatusCompleted, StatusRefunded))

	assert.False(t, CanMove(StatusCompleted, StatusCompleted))
	assert.False(t, CanMove(StatusCompleted, StatusProcessing))
	assert.False(t, CanMove(StatusFailed, StatusCompleted))
	assert.False(t, CanMove(StatusRefunded, StatusCompleted))
}

func TestMethods(t *testing.T) {
	assert.True(t, IsManual(MethodCash))
	assert.True(t, IsManual(MethodPixManual))
	assert.False(t, IsManual(MethodOnline))
	assert.True(t, ValidMethod(MethodOnline))
	assert.False(t, ValidMethod("boleto"))
}

func TestCanRefund(t *testing.T) {
	assert.NoError(t, CanRefund(StatusCompleted))
	assert.True(t, httperr.IsBusiness(CanRefund(StatusPending), CodeNotRefundable))
}
