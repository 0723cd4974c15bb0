package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelWrapping(t *testing.T) {
	err := Wrap(ErrInvalidRecurrence, "parse R/abc/P1D")
	require.Error(t, err)
	assert.True(t, Is(err, ErrInvalidRecurrence))
	assert.False(t, Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "R/abc/P1D")
}

func TestIsNotFoundError(t *testing.T) {
	assert.False(t, IsNotFoundError(nil))
	assert.False(t, IsNotFoundError(New("boom")))
	assert.True(t, IsNotFoundError(NewNotFoundError("job %s", "etl.nightly")))
}

func TestIsInvalidRecurrenceError(t *testing.T) {
	assert.False(t, IsInvalidRecurrenceError(nil))
	assert.True(t, IsInvalidRecurrenceError(Wrapf(ErrInvalidRecurrence, "field missing in %q", "R0")))
}
