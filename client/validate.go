package client

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var validate *validator.Validate
var translator ut.Translator

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	var ok bool
	translator, ok = ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		panic("client: failed to get 'en' translator")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})
}

// validateOptions checks the assembled options before dispatch, returning
// an error wrapping [ErrInvalidOptions] and a [FieldErrors] on failure.
func validateOptions(opts *RequestOptions) error {
	if opts == nil {
		return fmt.Errorf("%w: options must not be nil", ErrInvalidOptions)
	}

	err := validate.Struct(opts)
	if err == nil {
		return nil
	}

	var verrors validator.ValidationErrors
	if !errors.As(err, &verrors) {
		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	fields := make(FieldErrors, 0, len(verrors))
	for _, verror := range verrors {
		fields = append(fields, FieldError{
			Field: verror.Field(),
			Err:   customErrForTag(verror.Tag(), verror),
		})
	}

	return fmt.Errorf("%w: %w", ErrInvalidOptions, fields)
}

func customErrForTag(tag string, verror validator.FieldError) string {
	switch tag {
	case "required":
		return "This field is required"
	default:
		return verror.Translate(translator)
	}
}
