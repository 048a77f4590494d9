// Package request reads and validates incoming HTTP requests.
//
// Every handler follows the same steps: decode the JSON body, validate it
// against its validate:"..." tags, parse path and query parameters. The
// helpers here return *apperrors.Error values so that the handler can pass
// any failure straight to response.WriteError.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/aanand-mishra/gestao-alunos/internal/apperrors"
)

// maxBodyBytes caps request bodies; the largest valid payload is well
// under 1 KiB.
const maxBodyBytes = 1 << 20

// validate is built once: validator caches struct metadata, so sharing a
// single instance is both allowed and faster than validator.New() per call.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name ("cursoId"), not the Go name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// A whitespace-only value counts as missing.
	_ = v.RegisterValidation("notblank", validators.NotBlank)

	return v
}

// DecodeJSON decodes the body of r into dst and validates it.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return apperrors.BadRequest("Corpo da requisição vazio")
	}
	if err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return apperrors.BadRequest("Valor inválido para o campo %s", typeErr.Field)
		}
		return apperrors.BadRequest("JSON malformado: %s", err.Error())
	}

	return Validate(dst)
}

// Validate checks v against its validate tags and collects one detail
// message per failing field.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("request.Validate: %w", err)
	}

	details := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		details = append(details, fieldMessage(fe))
	}
	return apperrors.Validation(details)
}

// fieldMessage turns one validator.FieldError into "campo: mensagem".
func fieldMessage(fe validator.FieldError) string {
	var msg string

	switch fe.ActualTag() {
	case "required", "notblank":
		msg = "é obrigatório"
	case "email":
		msg = "deve ser um email válido"
	case "min":
		if fe.Kind() == reflect.String {
			msg = fmt.Sprintf("deve ter no mínimo %s caracteres", fe.Param())
		} else {
			msg = fmt.Sprintf("deve ser no mínimo %s", fe.Param())
		}
	case "max":
		if fe.Kind() == reflect.String {
			msg = fmt.Sprintf("deve ter no máximo %s caracteres", fe.Param())
		} else {
			msg = fmt.Sprintf("deve ser no máximo %s", fe.Param())
		}
	default:
		msg = "é inválido"
	}

	return fmt.Sprintf("%s: %s", fe.Field(), msg)
}

// PathID parses the {id} path segment.
func PathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.BadRequest("ID inválido: %q", raw)
	}
	return id, nil
}

// OptionalQuery parses the query parameter name with parse. It returns
// nil when the parameter is absent or empty.
func OptionalQuery[T any](r *http.Request, name string, parse func(string) (T, error)) (*T, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}

	v, err := parse(raw)
	if err != nil {
		return nil, apperrors.BadRequest("Parâmetro %s inválido: %q", name, raw)
	}
	return &v, nil
}

// Int64 and friends adapt strconv to OptionalQuery.
func Int64(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }

func Int(s string) (int, error) { return strconv.Atoi(s) }

// Float64 rejects NaN and the infinities, which ParseFloat accepts.
func Float64(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return f, nil
}
