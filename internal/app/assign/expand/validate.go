package expand

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// ErrNothingToCreate is returned when a selection would expand to zero
// records.
var ErrNothingToCreate = errors.New("nothing to create")

// FieldError is a validation failure on one input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors lists every field that blocks expansion.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field failed validation.
func (v ValidationErrors) Has(field string) bool {
	for _, f := range v {
		if f.Field == field {
			return true
		}
	}
	return false
}

const notPastTag = "notpast"

type draftValidator struct {
	v     *validator.Validate
	trans ut.Translator
}

func newValidator(now func() time.Time) *draftValidator {
	v := validator.New()

	english := en.New()
	trans, _ := ut.New(english, english).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	// Report JSON names, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(notPastTag, func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return !t.Before(startOfDay(now()))
	})
	_ = v.RegisterTranslation(notPastTag, trans,
		func(ut.Translator) error { return nil },
		func(ut.Translator, validator.FieldError) string { return "must not be in the past" })

	return &draftValidator{v: v, trans: trans}
}

// startOfDay is midnight UTC of now's UTC calendar day. A due date on the
// current UTC day is not in the past, whatever zone it was written in.
func startOfDay(now time.Time) time.Time {
	n := now.UTC()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.UTC)
}

// check validates s and appends its field errors to errs.
func (d *draftValidator) check(s any, errs ValidationErrors) ValidationErrors {
	err := d.v.Struct(s)
	if err == nil {
		return errs
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return append(errs, FieldError{Field: "draft", Message: err.Error()})
	}
	for _, fe := range verrs {
		errs = append(errs, FieldError{Field: fe.Field(), Message: fe.Translate(d.trans)})
	}
	return errs
}
