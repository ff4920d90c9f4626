package candidatures

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"cozetik-backend/internal/filestore"
)

// DefaultMotivationMinLength is the minimum motivation length in characters.
const DefaultMotivationMinLength = 500

// Submission is the raw intake form after multipart parsing.
type Submission struct {
	Civility          string `form:"civility" validate:"omitempty,oneof=M Mme Autre"`
	FirstName         string `form:"firstName" validate:"required"`
	LastName          string `form:"lastName" validate:"required"`
	BirthDate         string `form:"birthDate" validate:"required,birthdate"`
	Email             string `form:"email" validate:"required,email"`
	Phone             string `form:"phone" validate:"required,phone"`
	Address           string `form:"address"`
	PostalCode        string `form:"postalCode"`
	City              string `form:"city"`
	CategoryFormation string `form:"categoryFormation" validate:"required"`
	Formation         string `form:"formation" validate:"required"`
	EducationLevel    string `form:"educationLevel"`
	CurrentSituation  string `form:"currentSituation"`
	StartDate         string `form:"startDate"`
	Motivation        string `form:"motivation"`
	AcceptPrivacy     bool   `form:"acceptPrivacy"`
	AcceptNewsletter  bool   `form:"acceptNewsletter"`

	CV            *filestore.File `form:"-" validate:"-"`
	CoverLetter   *filestore.File `form:"-" validate:"-"`
	OtherDocument *filestore.File `form:"-" validate:"-"`
}

var birthDateLayouts = []string{"02/01/2006", "2006-01-02"}

// ParseBirthDate accepts DD/MM/YYYY and YYYY-MM-DD and rejects impossible
// calendar dates such as 31/02/2024.
func ParseBirthDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid birth date %q", raw)
}

func validPhone(raw string) bool {
	digits := 0
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == ' ' || r == '.' || r == '-':
		default:
			return false
		}
	}
	return digits >= 10
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return validPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("birthdate", func(fl validator.FieldLevel) bool {
		_, err := ParseBirthDate(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate trims sub in place and checks it in a fixed order: missing
// fields, formats, birth date, motivation length, privacy consent, résumé.
// It returns the parsed birth date on success.
func Validate(sub *Submission, minMotivation int) (time.Time, error) {
	if minMotivation <= 0 {
		minMotivation = DefaultMotivationMinLength
	}
	sub.normalize()

	if err := validate.Struct(sub); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return time.Time{}, err
		}
		return time.Time{}, classify(fieldErrs)
	}

	birthDate, err := ParseBirthDate(sub.BirthDate)
	if err != nil {
		return time.Time{}, &Error{Kind: KindInvalidBirthDate, Fields: []string{"birthDate"}, Message: "Date de naissance invalide"}
	}
	if utf8.RuneCountInString(sub.Motivation) < minMotivation {
		return time.Time{}, &Error{
			Kind:    KindMotivationTooShort,
			Fields:  []string{"motivation"},
			Message: fmt.Sprintf("La motivation doit contenir au moins %d caractères", minMotivation),
		}
	}
	if !sub.AcceptPrivacy {
		return time.Time{}, &Error{Kind: KindPrivacyNotAccepted, Fields: []string{"acceptPrivacy"}, Message: "Vous devez accepter la politique de confidentialité"}
	}
	if sub.CV == nil || sub.CV.Size == 0 {
		return time.Time{}, &Error{Kind: KindResumeRequired, Fields: []string{"cv"}, Message: "Le CV est obligatoire"}
	}
	return birthDate, nil
}

// tag priority decides which failure is reported when several fields fail.
var tagKinds = []struct {
	tag     string
	kind    Kind
	message string
}{
	{"required", KindMissingField, "Tous les champs obligatoires doivent être remplis"},
	{"email", KindInvalidEmail, "Adresse email invalide"},
	{"phone", KindInvalidPhone, "Numéro de téléphone invalide"},
	{"oneof", KindInvalidCivility, "Civilité invalide"},
	{"birthdate", KindInvalidBirthDate, "Date de naissance invalide"},
}

func classify(fieldErrs validator.ValidationErrors) *Error {
	for _, tk := range tagKinds {
		var fields []string
		for _, fe := range fieldErrs {
			if fe.Tag() == tk.tag {
				fields = append(fields, fe.Field())
			}
		}
		if len(fields) > 0 {
			return &Error{Kind: tk.kind, Fields: fields, Message: tk.message}
		}
	}
	fe := fieldErrs[0]
	return &Error{Kind: KindMissingField, Fields: []string{fe.Field()}, Message: "Champ invalide : " + fe.Field()}
}

func (s *Submission) normalize() {
	for _, p := range []*string{
		&s.Civility, &s.FirstName, &s.LastName, &s.BirthDate, &s.Email, &s.Phone,
		&s.Address, &s.PostalCode, &s.City, &s.CategoryFormation, &s.Formation,
		&s.EducationLevel, &s.CurrentSituation, &s.StartDate, &s.Motivation,
	} {
		*p = strings.TrimSpace(*p)
	}
	s.Email = strings.ToLower(s.Email)
}
