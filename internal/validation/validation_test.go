package validation_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Keoroanthony/go-storefront/internal/validation"
)

func TestErrors(t *testing.T) {
	ve := validation.Errors{}
	assert.NoError(t, ve.Err())

	ve.Add("rating", "out of range")
	ve.Add("content", "too short")
	ve.Add("content", "too vague")

	err := ve.Err()
	assert.EqualError(t, err, "validation failed: content: too short; too vague, rating: out of range")
	assert.Equal(t, "too short", ve.First("content"))
	assert.Empty(t, ve.First("name"))

	got, ok := validation.As(fmt.Errorf("wrapped: %w", err))
	assert.True(t, ok)
	assert.Equal(t, ve, got)

	_, ok = validation.As(fmt.Errorf("plain"))
	assert.False(t, ok)
}
