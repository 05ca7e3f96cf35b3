package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/companion/errors"
)

// FieldError is one rejected field, reported under details.fields.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Checker collects field errors for rules struct tags cannot express:
// path ids, raw JSON documents and byte limits. The zero value is ready.
//
//	err := validation.Check().
//	    JSON("preferences", raw).
//	    MaxBytes("preferences", len(raw), 16<<10).
//	    Err()
type Checker struct {
	fields []FieldError
}

// Check starts a new Checker.
func Check() *Checker { return &Checker{} }

// Fail records message against field.
func (c *Checker) Fail(field, message string) *Checker {
	c.fields = append(c.fields, FieldError{Field: field, Message: message})
	return c
}

// UUID requires value to be a canonical UUID.
func (c *Checker) UUID(field, value string) *Checker {
	if strings.TrimSpace(value) == "" {
		return c.Fail(field, "is required")
	}
	if _, err := uuid.Parse(value); err != nil {
		return c.Fail(field, "must be a valid UUID")
	}
	return c
}

// JSON requires raw to be a single well-formed JSON value.
func (c *Checker) JSON(field string, raw []byte) *Checker {
	if !json.Valid(raw) {
		return c.Fail(field, "must be valid JSON")
	}
	return c
}

// MaxBytes rejects sizes above limit. A limit of zero or less disables the check.
func (c *Checker) MaxBytes(field string, size, limit int) *Checker {
	if limit > 0 && size > limit {
		return c.Fail(field, fmt.Sprintf("must be at most %d bytes", limit))
	}
	return c
}

// Fields returns the collected errors.
func (c *Checker) Fields() []FieldError { return c.fields }

// Err returns nil when every check passed, otherwise an INVALID_INPUT
// AppError listing each field.
func (c *Checker) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	messages := make([]string, len(c.fields))
	for i, f := range c.fields {
		messages[i] = f.Field + ": " + f.Message
	}
	return errors.Validation(strings.Join(messages, "; ")).WithDetail("fields", c.fields)
}
