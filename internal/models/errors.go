package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is matched by every ValidationErrors value
var ErrValidation = errors.New("validation failed")

// ValidationErrors collects field-level problems found before a request is sent
type ValidationErrors []ErrorDetail

// Add appends a field issue and returns the extended list
func (v ValidationErrors) Add(field, issue string) ValidationErrors {
	return append(v, ErrorDetail{Field: field, Issue: issue})
}

// OrNil returns nil when nothing was collected, so callers can `return errs.OrNil()`
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, detail := range v {
		parts = append(parts, fmt.Sprintf("%s %s", detail.Field, detail.Issue))
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

// Details exposes the issues for error responses
func (v ValidationErrors) Details() []ErrorDetail {
	return []ErrorDetail(v)
}
