package validation

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/kavya1280/JK-Insights/internal/auth"
	apierrors "github.com/kavya1280/JK-Insights/internal/errors"
	"github.com/kavya1280/JK-Insights/internal/insights"
)

// Validator checks structs by their validate tags and reports fields by
// their JSON names
type Validator struct {
	v *validator.Validate
}

// New creates a validator with the insight, role, status and filename
// rules registered
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("insight", isInsight)
	_ = v.RegisterValidation("role", isRole)
	_ = v.RegisterValidation("userstatus", isStatus)
	_ = v.RegisterValidation("filename", isFilename)
	return &Validator{v: v}
}

// Struct validates s. Failures come back as a VALIDATION_FAILED APIError
// listing every rejected field.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.InvalidRequestWithError(err)
	}
	out := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, apierrors.ValidationError{Field: fe.Field(), Message: message(fe)})
	}
	return apierrors.NewValidationErrors(out)
}

// Decode reads a JSON body into dst and validates it. An empty body is
// allowed when allowEmpty is set and leaves dst untouched.
func (v *Validator) Decode(r *http.Request, dst any, allowEmpty bool) error {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			return apierrors.InvalidRequestWithError(err)
		}
	}
	return v.Struct(dst)
}

// QueryInt reads an optional integer query parameter within [lo, hi]
func QueryInt(r *http.Request, param string, lo, hi, def int) (int, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fieldError(param, fmt.Sprintf("%s must be a valid integer", param))
	}
	if n < lo || n > hi {
		return 0, fieldError(param, fmt.Sprintf("%s must be between %d and %d", param, lo, hi))
	}
	return n, nil
}

// QueryEnum reads an optional query parameter restricted to allowed
func QueryEnum(r *http.Request, param string, allowed []string, def string) (string, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return def, nil
	}
	for _, a := range allowed {
		if strings.EqualFold(raw, a) {
			return a, nil
		}
	}
	return "", fieldError(param, fmt.Sprintf("%s must be one of: %s", param, strings.Join(allowed, ", ")))
}

func fieldError(field, msg string) error {
	return apierrors.NewValidationErrors([]apierrors.ValidationError{{Field: field, Message: msg}})
}

func message(fe validator.FieldError) string {
	field, param := fe.Field(), fe.Param()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "insight":
		return fmt.Sprintf("%s contains an unknown insight id", field)
	case "role":
		return fmt.Sprintf("%s must be one of: admin, uploader, reviewer, viewer", field)
	case "userstatus":
		return fmt.Sprintf("%s must be Active or Inactive", field)
	case "filename":
		return fmt.Sprintf("%s must be a plain file name", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func isInsight(fl validator.FieldLevel) bool {
	_, ok := insights.Lookup(fl.Field().String())
	return ok
}

func isRole(fl validator.FieldLevel) bool {
	_, err := auth.ParseRole(fl.Field().String())
	return err == nil
}

func isStatus(fl validator.FieldLevel) bool {
	_, err := auth.ParseStatus(fl.Field().String())
	return err == nil
}

// isFilename rejects anything that could leave its directory
func isFilename(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if name == "" || len(name) > 255 {
		return false
	}
	return !strings.Contains(name, "..") && !strings.ContainsAny(name, `/\`)
}
