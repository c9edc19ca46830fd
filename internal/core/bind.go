// AngelaMos | 2026
// bind.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// NewValidator returns a validator that reports fields by their JSON names.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return sf.Name
		}
		return name
	})
	return v
}

// Bind decodes a JSON body into dst and validates it. The returned error is
// always an *AppError ready for JSONError.
func Bind(r *http.Request, v *validator.Validate, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}

	if err := v.Struct(dst); err != nil {
		return NewAppError(
			fmt.Errorf("%w: %w", ErrInvalidInput, err),
			FormatValidationError(err),
			http.StatusBadRequest,
			"VALIDATION_ERROR",
		)
	}

	return nil
}

// PathID returns the URL parameter key when it is a well-formed id.
func PathID(r *http.Request, key string) (string, bool) {
	id := chi.URLParam(r, key)
	if uuid.Validate(id) != nil {
		return "", false
	}
	return id, true
}

func decodeError(err error) *AppError {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.Is(err, io.EOF):
		return ValidationError("request body is required")
	case errors.As(err, &syntaxErr):
		return ValidationError("invalid JSON in request body")
	case errors.As(err, &typeErr):
		return ValidationError(fmt.Sprintf(
			"%s must be of type %s", typeErr.Field, typeErr.Type.String()))
	default:
		return ValidationError("invalid request body")
	}
}

// FormatValidationError flattens validator errors into one readable line.
func FormatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldPath(fe)+" "+ruleMessage(fe.Tag(), fe.Param()))
	}

	return strings.Join(msgs, ", ")
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func ruleMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	case "uuid":
		return "must be a valid id"
	default:
		if param != "" {
			return fmt.Sprintf("failed %s validation (%s)", rule, param)
		}
		return "failed " + rule + " validation"
	}
}
