package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ValidationError describes one rejected request field.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"pair"`
	Message string                 `json:"message,omitempty" example:"pair is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json/query names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// ReadAndValidateRequest binds the query string or body into req, fills
// `default` tags and runs `validate` tags. It returns nil or a
// []ValidationError suitable for BadRequestResponse.
func ReadAndValidateRequest(c echo.Context, req interface{}) interface{} {
	if err := c.Bind(req); err != nil {
		return bindErrors(err)
	}
	if err := defaults.Set(req); err != nil {
		return bindErrors(err)
	}
	if err := validate.StructCtx(c.Request().Context(), req); err != nil {
		return toValidationErrors(err)
	}
	return nil
}

// ValidateStruct does the same for a value that did not come from an HTTP
// request, such as a decoded websocket message.
func ValidateStruct(v interface{}) interface{} {
	if err := defaults.Set(v); err != nil {
		return bindErrors(err)
	}
	if err := validate.Struct(v); err != nil {
		return toValidationErrors(err)
	}
	return nil
}

func bindErrors(err error) []ValidationError {
	msg := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg = fmt.Sprint(he.Message)
	}
	return []ValidationError{{Code: "ERR_BIND", Message: msg}}
}

func toValidationErrors(err error) []ValidationError {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return bindErrors(err)
	}
	out := make([]ValidationError, 0, len(ves))
	for _, fe := range ves {
		out = append(out, fieldError(fe))
	}
	return out
}

func fieldError(fe validator.FieldError) ValidationError {
	ns := fe.Namespace()
	ve := ValidationError{
		Code:  "ERR_" + strings.ToUpper(fe.Tag()),
		Field: ns[strings.Index(ns, ".")+1:],
	}
	field, param := fe.Field(), fe.Param()
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		ve.Message = field + " is required"
	case "len":
		ve.Message = fmt.Sprintf("%s must be exactly %s characters", field, param)
		ve.Params = map[string]interface{}{"length": param}
	case "datetime":
		ve.Message = fmt.Sprintf("%s must be a date in the format %s", field, param)
		ve.Params = map[string]interface{}{"layout": param}
	case "min":
		ve.Message = fmt.Sprintf("%s must be at least %s%s", field, param, unit)
		ve.Params = map[string]interface{}{"min": param}
	case "max":
		ve.Message = fmt.Sprintf("%s must be at most %s%s", field, param, unit)
		ve.Params = map[string]interface{}{"max": param}
	case "gt", "gte", "lt", "lte":
		ve.Message = fmt.Sprintf("%s must be %s %s", field, comparisons[fe.Tag()], param)
		ve.Params = map[string]interface{}{"value": param}
	case "oneof", "eq":
		options := strings.Fields(param)
		ve.Message = fmt.Sprintf("%s must be one of: %s", field, strings.Join(options, ", "))
		ve.Params = map[string]interface{}{"options": options}
	default:
		ve.Message = fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
	return ve
}

var comparisons = map[string]string{
	"gt":  "greater than",
	"gte": "greater than or equal to",
	"lt":  "less than",
	"lte": "less than or equal to",
}
