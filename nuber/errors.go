package nuber

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotLoggedIn = errors.New("nuber: not logged in")

// APIError is an ok: false result reported by the server.
type APIError struct {
	Operation string
	Message   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

type FieldError struct {
	Field   string
	Message string
}

// FormError holds the messages of every invalid field, in field order.
type FormError struct {
	Fields []FieldError
}

func (e *FormError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Message)
	}
	return strings.Join(messages, ", ")
}

// Message returns the message of field, or "" when the field is valid.
func (e *FormError) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

func apiError(operation string, ok bool, message *string) error {
	if ok {
		return nil
	}
	err := &APIError{Operation: operation}
	if message != nil {
		err.Message = *message
	}
	return err
}
