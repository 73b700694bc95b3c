package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusCancelled))
	assert.True(t, CanTransition(StatusPending, StatusConfirmed))
	assert.True(t, CanTransition(StatusConfirmed, StatusShipped))
	assert.True(t, CanTransition(StatusShipped, StatusCompleted))

	// terminal states go nowhere
	for _, to := range []Status{StatusPending, StatusConfirmed, StatusShipped, StatusCompleted, StatusCancelled} {
		assert.False(t, CanTransition(StatusCancelled, to))
		assert.False(t, CanTransition(StatusCompleted, to))
	}

	assert.False(t, CanTransition(StatusConfirmed, StatusCancelled))
	assert.False(t, CanTransition(StatusShipped, StatusCancelled))
	assert.False(t, CanTransition(Status("weird"), StatusCancelled))
}
