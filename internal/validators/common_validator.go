package validators

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"routebook/internal/models"
)

var validate *validator.Validate

var travelModePattern = regexp.MustCompile(`^[a-z][a-z_-]{0,15}$`)

func init() {
	validate = validator.New()

	// Report fields by their JSON (or form) names.
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})

	validate.RegisterValidation("address", validateAddress)
	validate.RegisterValidation("travel_mode", validateTravelMode)
	validate.RegisterValidation("position", validatePosition)
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// Fields maps each failing field to its first message.
func (v ValidationErrors) Fields() map[string]string {
	fields := make(map[string]string, len(v))
	for _, err := range v {
		if _, ok := fields[err.Field]; !ok {
			fields[err.Field] = err.Message
		}
	}
	return fields
}

// ValidateStruct validates a struct and returns detailed errors
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err != nil {
		fieldErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return ValidationErrors{{Field: "request", Message: err.Error()}}
		}
		for _, err := range fieldErrors {
			validationErrors = append(validationErrors, ValidationError{
				Field:   fieldPath(err),
				Tag:     err.Tag(),
				Value:   fmt.Sprintf("%v", err.Value()),
				Message: getErrorMessage(err),
			})
		}
	}

	return validationErrors
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(err validator.FieldError) string {
	namespace := err.Namespace()
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return err.Field()
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
	case "address":
		return "Address must not be blank"
	case "travel_mode":
		return "Travel mode must be a short lowercase name such as car, foot or bike"
	case "position":
		return "Invalid GPS coordinates"
	case "datetime":
		return fmt.Sprintf("%s must be a date in %s format", err.Field(), err.Param())
	default:
		return fmt.Sprintf("Validation failed for %s", err.Field())
	}
}

func validateAddress(fl validator.FieldLevel) bool {
	address := strings.TrimSpace(fl.Field().String())
	if address == "" {
		return false
	}
	for _, r := range address {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// validateTravelMode accepts unknown modes as long as they look like a mode name.
func validateTravelMode(fl validator.FieldLevel) bool {
	mode := strings.TrimSpace(fl.Field().String())
	if mode == "" {
		return true
	}
	return travelModePattern.MatchString(mode)
}

func validatePosition(fl validator.FieldLevel) bool {
	position, ok := fl.Field().Interface().(models.Position)
	if !ok {
		return false
	}
	return position.Coordinate().Validate() == nil
}
