// Package schema holds the validation rules for mutation payloads. The
// functions here are pure: they either accept a payload or return the full
// list of field violations, never touching the store or provider.
package schema

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rotaops/rota-backend/internal/apperr"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report paths by json name so handlers can echo them to forms as-is.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterStructValidation(accountUpdateRules, AccountUpdate{})

	return v
}

// run validates payload and translates violations into field errors using
// the given path+tag message table.
func run(payload any, messages map[string]string) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.Upstream, "validator", err)
	}

	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		path := fieldPath(fe)
		fields = append(fields, apperr.FieldError{
			Path:    path,
			Message: messageFor(messages, path, fe.Tag()),
		})
	}
	return apperr.Invalid(fields)
}

// fieldPath strips the struct name from the namespace, leaving e.g.
// "assignees[0]" or "currentPassword".
func fieldPath(fe validator.FieldError) string {
	path := fe.Namespace()
	if i := strings.Index(path, "."); i >= 0 {
		path = path[i+1:]
	}
	return path
}

func messageFor(messages map[string]string, path, tag string) string {
	base := path
	if i := strings.Index(base, "["); i >= 0 {
		base = base[:i]
	}
	if msg, ok := messages[base+"/"+tag]; ok {
		return msg
	}
	return "Invalid value."
}

func set(p *string) bool {
	return p != nil && *p != ""
}
