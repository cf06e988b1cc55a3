package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("submit: %w", &ValidationError{Fields: []string{"purpose", "nature"}})

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrInvalidAmount))
	assert.EqualError(t, err, "submit: invalid payment form: [purpose nature]")

	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
	assert.Equal(t, []string{"purpose", "nature"}, validationErr.Fields)
}

func TestReviewError(t *testing.T) {
	scenario, ok := FindReviewScenario("api-general")
	assert.True(t, ok)

	err := error(&ReviewError{Scenario: scenario})

	assert.Contains(t, err.Error(), ReviewFailedSnackbar)
	assert.False(t, errors.Is(err, ErrValidation))
}
