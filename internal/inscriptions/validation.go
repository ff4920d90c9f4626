package inscriptions

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Input is the public inscription form payload.
type Input struct {
	Name        string `json:"name" validate:"min=2,max=100"`
	Email       string `json:"email" validate:"email"`
	Phone       string `json:"phone" validate:"min=10,phone"`
	Message     string `json:"message" validate:"min=10,max=1000"`
	FormationID string `json:"formationId" validate:"required"`
}

var phonePattern = regexp.MustCompile(`^[\d\s+()-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// fieldMessages is keyed by field then failed tag; "" is the fallback.
var fieldMessages = map[string]map[string]string{
	"name": {
		"":    "Le nom doit contenir au moins 2 caractères",
		"max": "Le nom ne peut pas dépasser 100 caractères",
	},
	"email": {"": "Adresse email invalide"},
	"phone": {
		"":      "Le numéro de téléphone doit contenir au moins 10 caractères",
		"phone": "Le numéro de téléphone ne peut contenir que des chiffres et caractères +()-",
	},
	"message": {
		"":    "Le message doit contenir au moins 10 caractères",
		"max": "Le message ne peut pas dépasser 1000 caractères",
	},
	"formationId": {"": "Formation requise"},
}

func messageFor(field, tag string) string {
	msgs := fieldMessages[field]
	if m, ok := msgs[tag]; ok {
		return m
	}
	return msgs[""]
}

// Validate trims in and reports every invalid field.
func Validate(in *Input) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Message = strings.TrimSpace(in.Message)
	in.FormationID = strings.TrimSpace(in.FormationID)

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
		verr.Issues = append(verr.Issues, Issue{Field: fe.Field(), Message: messageFor(fe.Field(), fe.Tag())})
	}
	return verr
}
