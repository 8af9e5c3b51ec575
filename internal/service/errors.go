package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrDealNotFound is returned when a deal is not found
	ErrDealNotFound = errors.New("deal not found")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")

	// ErrLeadAlreadyConverted is returned when a lead has already been converted into a deal
	ErrLeadAlreadyConverted = errors.New("lead already converted")

	// ErrInvalidStage is returned when a stage is not one of the pipeline stages
	ErrInvalidStage = errors.New("invalid deal stage")

	// ErrDealNotInCollection is returned when a stage move targets a deal the board does not hold
	ErrDealNotInCollection = errors.New("deal not in collection")
)

// ValidationError lists the failing fields of a rejected request.
// It matches ErrInvalidInput with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates an empty validation error
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a failing field
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = message
}

// HasErrors reports whether any field failed
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Conversion steps, used as StepError prefixes
const (
	StepUpload             = "Upload"
	StepAccountCreation    = "Account creation"
	StepContactCreation    = "Contact creation"
	StepDealCreation       = "Deal creation"
	StepSalesOrderCreation = "Sales order creation"
)

// StepError reports which conversion step failed
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
