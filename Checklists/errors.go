package Checklists

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a missing template, field, instance or row item.
	ErrNotFound = errors.New("record not found")

	// ErrReadOnlyField marks a write to the descriptive-override field.
	ErrReadOnlyField = errors.New("field is read-only")

	// ErrInstanceLocked marks any write against a locked instance.
	ErrInstanceLocked = errors.New("checklist instance is locked")
)

// ParseError means the raw value does not conform to the field kind's
// syntax. No partial write happens.
type ParseError struct {
	Field string
	Cause string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Cause)
}

// DomainRuleError means the value parsed fine but violates a business
// rule, e.g. the core temperature range. Kept distinct from ParseError
// so the API can render a different message.
type DomainRuleError struct {
	Field string
	Rule  string
}

func (e *DomainRuleError) Error() string {
	return fmt.Sprintf("%s violates rule: %s", e.Field, e.Rule)
}
