// Package validation builds the shared request validator and turns its
// failures into field-tagged messages.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	appErrors "github.com/noah-isme/helpdesk-presence-api/pkg/errors"
	"github.com/noah-isme/helpdesk-presence-api/pkg/localtime"
)

var catalogCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Validator wraps validator.Validate with an English translator.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New registers the custom tags used by request DTOs.
func New() (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})

	if err := validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return localtime.ValidClock(fl.Field().String())
	}); err != nil {
		return nil, err
	}
	if err := validate.RegisterValidation("catalogcode", func(fl validator.FieldLevel) bool {
		return catalogCodePattern.MatchString(fl.Field().String())
	}); err != nil {
		return nil, err
	}

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}
	custom := map[string]string{
		"hhmm":        "{0} must be a 24-hour time in HH:mm format",
		"catalogcode": "{0} may only contain letters, digits, '-' and '_'",
		"datetime":    "{0} must be a date in YYYY-MM-DD format",
		"timezone":    "{0} must be a valid IANA timezone",
	}
	for tag, text := range custom {
		tag, text := tag, text
		err := validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			msg, err := ut.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		})
		if err != nil {
			return nil, err
		}
	}

	return &Validator{validate: validate, translator: trans}, nil
}

// MustNew is New for process wiring and tests.
func MustNew() *Validator {
	v, err := New()
	if err != nil {
		panic(err)
	}
	return v
}

// Engine exposes the underlying validator.
func (v *Validator) Engine() *validator.Validate {
	return v.validate
}

// Struct validates s and returns every failure as a *errors.ValidationFailure.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid validation target")
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]appErrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, appErrors.FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: fe.Translate(v.translator),
		})
	}
	return appErrors.NewValidationFailure(fields)
}

// fieldPath drops the root struct name: "PlanDayRequest.segments[0].from" -> "segments[0].from".
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}
