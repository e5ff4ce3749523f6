package core

import (
	"reflect"
	"regexp"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// Translator is the application-wide error message translator.
	// Set by InitValidators.
	Translator ut.Translator

	// custom validation tags & texts
	clockTimeTag   = "clocktime"
	clockTimeText  = "must be a valid time of day (HH:MM or HH:MM:SS)"
	clockTimeRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

	timeFormatTag  = "timeformat"
	timeFormatText = "must be one of '12hr' or '24hr'"

	requiredTag  = "required"
	requiredText = "this field is required"
)

// Time format values accepted by the notifier.
const (
	TimeFormat12Hr = "12hr"
	TimeFormat24Hr = "24hr"
)

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	Translator = translator
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(clockTimeTag, clockTimeValidation)
	RegisterCustomTranslation(validate, translator, clockTimeTag, clockTimeText)

	_ = validate.RegisterValidation(timeFormatTag, timeFormatValidation)
	RegisterCustomTranslation(validate, translator, timeFormatTag, timeFormatText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// Custom Global Validators

// clockTimeValidation allows wall-clock times of day, seconds optional.
func clockTimeValidation(fl validator.FieldLevel) bool {
	return clockTimeRegex.MatchString(fl.Field().String())
}

func timeFormatValidation(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case TimeFormat12Hr, TimeFormat24Hr:
		return true
	}
	return false
}
