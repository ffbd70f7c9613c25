package nuber

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/vvakame/typeddoc/gql"
)

type CreateAccountForm struct {
	Email    string       `validate:"required,email"`
	Password string       `validate:"required"`
	Role     gql.UserRole `validate:"omitempty,userrole"`
}

type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// EditProfileForm leaves a field unchanged when it is empty.
type EditProfileForm struct {
	Email    string `validate:"omitempty,email"`
	Password string
}

// keyed by field and tag
var formMessages = map[string]string{
	"Email.required":    "Email is required",
	"Email.email":       "Please enter a valid email",
	"Password.required": "Password is required",
	"Role.userrole":     "Please select a role",
}

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("userrole", func(fl validator.FieldLevel) bool {
		role, ok := fl.Field().Interface().(gql.UserRole)
		return ok && role.IsValid()
	})
	if err != nil {
		panic(err)
	}
	return v
}

func (s *Service) validateForm(form interface{}) error {
	err := s.validate.Struct(form)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	formErr := &FormError{}
	for _, verr := range verrs {
		message, ok := formMessages[verr.Field()+"."+verr.Tag()]
		if !ok {
			message = fmt.Sprintf("%s is invalid", verr.Field())
		}
		formErr.Fields = append(formErr.Fields, FieldError{Field: verr.Field(), Message: message})
	}
	return formErr
}
