package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParametersAreFixedAndOrdered(t *testing.T) {
	params := Parameters()
	assert.Len(t, params, 15)
	assert.Equal(t, "Knowledge of the subject", params[0])
	assert.Equal(t, "Impartial (teaching all students alike)", params[14])

	seen := map[string]struct{}{}
	for i, p := range params {
		_, dup := seen[p]
		assert.False(t, dup, "duplicate parameter %q", p)
		seen[p] = struct{}{}

		idx, ok := IndexOf(p)
		assert.True(t, ok)
		assert.Equal(t, i, idx)
		assert.True(t, IsValidParameter(p))
	}
}

func TestParametersReturnsCopy(t *testing.T) {
	params := Parameters()
	params[0] = "mutated"
	assert.Equal(t, "Knowledge of the subject", Parameters()[0])
}

func TestUnknownParameter(t *testing.T) {
	assert.False(t, IsValidParameter("knowledge of the subject"))
	_, ok := IndexOf("Attendance")
	assert.False(t, ok)
}

func TestIsValidRating(t *testing.T) {
	assert.False(t, IsValidRating(0))
	assert.True(t, IsValidRating(1))
	assert.True(t, IsValidRating(10))
	assert.False(t, IsValidRating(11))
}
