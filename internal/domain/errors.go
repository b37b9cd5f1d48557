package domain

import (
	"errors"
	"fmt"
)

// InvalidInputError reports a distance the calculator refuses to price.
type InvalidInputError struct {
	Field string
	Value float64
	Msg   string
}

func (e InvalidInputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Msg
	}
	return fmt.Sprintf("invalid input: %s=%v: %s", e.Field, e.Value, e.Msg)
}

// ConfigurationError reports a pricing configuration that violates its invariants.
type ConfigurationError struct {
	Field string
	Msg   string
}

func (e ConfigurationError) Error() string {
	if e.Field == "" {
		return "configuration error: " + e.Msg
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Msg)
}

type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	switch {
	case e.Field != "" && e.Msg != "":
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Field != "":
		return fmt.Sprintf("invalid %s", e.Field)
	default:
		return "validation error"
	}
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e NotFoundError) Error() string {
	switch {
	case e.Resource != "" && e.ID != "":
		return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
	case e.Resource != "":
		return e.Resource + " not found"
	default:
		return "not found"
	}
}

func IsInvalidInput(err error) bool {
	var target InvalidInputError
	return errors.As(err, &target)
}

func IsConfiguration(err error) bool {
	var target ConfigurationError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}
