package contacts

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Input is the public contact form payload.
type Input struct {
	Name    string `json:"name" validate:"min=2"`
	Email   string `json:"email" validate:"email"`
	Message string `json:"message" validate:"min=10"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

var fieldMessages = map[string]string{
	"name":    "Nom requis",
	"email":   "Email invalide",
	"message": "Message trop court",
}

// Validate trims in and reports every invalid field.
func Validate(in *Input) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Message = strings.TrimSpace(in.Message)

	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Issues = append(verr.Issues, Issue{Field: fe.Field(), Message: fieldMessages[fe.Field()]})
	}
	return verr
}
