// Package validation wraps a shared go-playground validator.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Error lists every failed field of one struct
type Error struct {
	Fields []FieldError
}

// FieldError is a single failed rule
type FieldError struct {
	Field string
	Tag   string
	Param string
}

func (e FieldError) String() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s is required", e.Field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", e.Field, e.Param)
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", e.Field, e.Param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field, e.Param)
	case "len":
		return fmt.Sprintf("%s must have length %s", e.Field, e.Param)
	case "datetime":
		return fmt.Sprintf("%s must match %s", e.Field, e.Param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", e.Field, e.Param)
	default:
		return fmt.Sprintf("%s failed %s", e.Field, e.Tag)
	}
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}
	return strings.Join(msgs, "; ")
}

// Struct validates v against its `validate` tags
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	out := &Error{Fields: make([]FieldError, len(verrs))}
	for i, fe := range verrs {
		out.Fields[i] = FieldError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()}
	}
	return out
}
