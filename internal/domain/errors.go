package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrUnsupportedCurrency  = errors.New("invalid payer currency: must be USD or USDT")
	ErrReceiptNotFound      = errors.New("receipt not found")
	ErrTransitionNotAllowed = errors.New("transition not allowed in current prototype state")
	ErrValidation           = errors.New("invalid payment form")
)

// ValidationError lists the form fields that failed validation.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid payment form: %v", e.Fields)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ReviewError is returned when a payment submission hits a simulated review failure
type ReviewError struct {
	Scenario ReviewScenario
}

func (e *ReviewError) Error() string {
	return fmt.Sprintf("%s: %s", e.Scenario.Snackbar, e.Scenario.Title)
}
