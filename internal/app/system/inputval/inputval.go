// Package inputval holds the form schemas checked before any backend call.
//
// Failures are reported per field, keyed by the field's form name, with
// English messages suitable for inline display.
package inputval

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Errors maps a form field name to its message.
type Errors map[string]string

// Has reports whether field failed.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// First returns one message, preferring the given field order.
func (e Errors) First(order ...string) string {
	for _, f := range order {
		if msg, ok := e[f]; ok {
			return msg
		}
	}
	for _, msg := range e {
		return msg
	}
	return ""
}

var (
	requiredTag  = "required"
	requiredText = "{0} is required"

	phoneTag   = "phone"
	phoneText  = "Invalid phone number"
	phoneRegex = regexp.MustCompile(`^\+?[0-9 ()\-]{6,20}$`)

	emailTag  = "strictemail"
	emailText = "Please enter a valid email address"

	codeTag   = "coursecode"
	codeText  = "Invalid course code"
	codeRegex = regexp.MustCompile(`^[A-Za-z]{2,8}[0-9]{2,5}[A-Za-z]?$`)

	rangeTag  = "gtefield"
	rangeText = "{0} must not be less than the minimum"
)

var (
	once     sync.Once
	validate *validator.Validate
	trans    ut.Translator
)

func setup() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, trans)

	// Report form names, not Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation(phoneTag, func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = validate.RegisterValidation(emailTag, func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	})
	_ = validate.RegisterValidation(codeTag, func(fl validator.FieldLevel) bool {
		return codeRegex.MatchString(strings.TrimSpace(fl.Field().String()))
	})

	registerTranslation(requiredTag, requiredText, true)
	registerTranslation(phoneTag, phoneText, false)
	registerTranslation(emailTag, emailText, false)
	registerTranslation(codeTag, codeText, false)
	registerTranslation(rangeTag, rangeText, true)
}

func registerTranslation(tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, label(fe.Field()))
			return s
		},
	)
}

// label turns a form name ("first_name") into display text ("First name").
func label(field string) string {
	s := strings.ReplaceAll(field, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Struct validates v and returns nil when it passes.
func Struct(v any) Errors {
	once.Do(setup)
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{"_": err.Error()}
	}
	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = fe.Translate(trans)
	}
	return out
}
