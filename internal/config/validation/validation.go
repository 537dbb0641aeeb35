package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/AliOraei78/MusicLibrarySystem/internal/utils/errcode"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type ValidationError struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func (v *ValidationError) Error() string {
	return v.Message
}

type Validation struct {
	Validator *validator.Validate
}

func NewValidation() *Validation {
	return &Validation{
		Validator: validator.New(),
	}
}

// ParseAndValidate decodes the request body into out and validates it.
func (v *Validation) ParseAndValidate(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return errcode.ErrBadRequest
	}
	return v.Validate(out)
}

func (v *Validation) Validate(data interface{}) error {
	val := v.Validator.Struct(data)
	if val == nil {
		return nil
	}

	validationErrors, ok := val.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("unexpected validation error: %w", val)
	}

	errors := make(map[string][]string)
	structType := reflect.TypeOf(data)
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}

	for _, err := range validationErrors {
		jsonTag := fieldName(structType, err)

		message := ""
		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", jsonTag)
		case "min":
			message = fmt.Sprintf("%s must be at least %s", jsonTag, err.Param())
		case "max":
			message = fmt.Sprintf("%s must not exceed %s", jsonTag, err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", jsonTag, err.Param())
		case "gte":
			message = fmt.Sprintf("%s must be at least %s", jsonTag, err.Param())
		case "lte":
			message = fmt.Sprintf("%s must be at most %s", jsonTag, err.Param())
		case "alpha":
			message = fmt.Sprintf("%s must contain only alphabetic characters", jsonTag)
		default:
			message = fmt.Sprintf("%s is invalid (%s)", jsonTag, err.Tag())
		}

		// Append multiple messages for the same jsonTag
		errors[jsonTag] = append(errors[jsonTag], message)
	}

	return &ValidationError{
		Message: "Validation failed",
		Errors:  errors,
	}
}

// fieldName resolves the JSON name of the failing field. Errors inside slices
// (tracks[1].title) keep their namespace so the element is identifiable.
func fieldName(structType reflect.Type, err validator.FieldError) string {
	ns := err.StructNamespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if strings.Contains(ns, ".") {
		return strings.ToLower(ns)
	}

	if structType.Kind() == reflect.Struct {
		if field, ok := structType.FieldByName(err.StructField()); ok {
			if tag := strings.Split(field.Tag.Get("json"), ",")[0]; tag != "" {
				return tag
			}
		}
	}
	return strings.ToLower(err.StructField()) // Fallback to lowercase field name
}
