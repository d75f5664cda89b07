package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// phone numbers arrive in free form; accept digits with optional +,
	// spaces, dashes and parens, 7-15 digits total
	digitRe := regexp.MustCompile(`[0-9]`)
	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return false
		}
		cleaned := strings.Map(func(r rune) rune {
			switch r {
			case ' ', '-', '(', ')':
				return -1
			}
			return r
		}, value)
		if strings.HasPrefix(cleaned, "+") {
			cleaned = cleaned[1:]
		}
		n := len(digitRe.FindAllString(cleaned, -1))
		return n >= 7 && n <= 15 && n == len(cleaned)
	})

	return &Validator{v: v}
}

func (v *Validator) Struct(s any) error {
	return v.v.Struct(s)
}

// Fields returns the failing field names, lowercased, for inline messages.
func (v *Validator) Fields(err error) []string {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(ve))
	for _, fe := range ve {
		out = append(out, strings.ToLower(fe.Field()))
	}
	return out
}
