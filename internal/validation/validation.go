// Package validation collects per-endpoint field checks into a single
// structured error that the HTTP layer renders as a 400 response.
//
//	var c validation.Checklist
//	c.Required("name", req.Name != nil)
//	c.NotBlank("name", deref(req.Name))
//	if err := c.Err(); err != nil {
//	    return err
//	}
package validation

import (
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// FieldError describes one missing or invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a validation failure. It matches common.ErrorValidation.
type Error struct {
	Message string
	Fields  []FieldError
}

// New builds an Error with an explicit message.
func New(message string, fields ...FieldError) *Error {
	return &Error{Message: message, Fields: fields}
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *Error) Is(target error) bool {
	return target == common.ErrorValidation
}

// Checklist accumulates field errors. The zero value is ready to use.
type Checklist struct {
	fields []FieldError
}

// Required records field as missing when present is false.
func (c *Checklist) Required(field string, present bool) {
	if !present {
		c.Add(field, "is required")
	}
}

// NotBlank records field as invalid when value is empty after trimming.
// A field already reported for the same name is not reported twice.
func (c *Checklist) NotBlank(field, value string) {
	if strings.TrimSpace(value) == "" && !c.Has(field) {
		c.Add(field, "must not be empty")
	}
}

// Check records message for field when ok is false.
func (c *Checklist) Check(ok bool, field, message string) {
	if !ok {
		c.Add(field, message)
	}
}

func (c *Checklist) Add(field, message string) {
	c.fields = append(c.fields, FieldError{Field: field, Message: message})
}

func (c *Checklist) Has(field string) bool {
	for _, f := range c.fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Err returns nil when every check passed, or an *Error listing the failures.
func (c *Checklist) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	out := make([]FieldError, len(c.fields))
	copy(out, c.fields)
	return &Error{Fields: out}
}
