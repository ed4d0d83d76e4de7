package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// DatasetError reports input that could not be turned into a trip table.
// Row is 1-based over data rows; 0 means the problem is not row specific.
type DatasetError struct {
	Source string
	Row    int
	Column string
	Msg    string
	Err    error
}

func (e DatasetError) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = "malformed dataset"
	}
	switch {
	case e.Row > 0 && e.Column != "":
		return fmt.Sprintf("dataset %s: row %d column %s: %s", e.Source, e.Row, e.Column, msg)
	case e.Column != "":
		return fmt.Sprintf("dataset %s: column %s: %s", e.Source, e.Column, msg)
	default:
		return fmt.Sprintf("dataset %s: %s", e.Source, msg)
	}
}

func (e DatasetError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsDataset(err error) bool {
	var target DatasetError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
