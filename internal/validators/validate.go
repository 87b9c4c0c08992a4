package validators

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

func NewValidator() *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("strong_password", strongPasswordValidation)
	validate.RegisterAlias("not_empty", "required")
	return validate
}

func strongPasswordValidation(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

func ParseValidationError(errors validator.ValidationErrors) map[string]string {
	fieldErrors := make(map[string]string)
	for _, err := range errors {
		fieldErrors[getFieldName(err)] = msgForFieldError(err)
	}
	return fieldErrors
}

// msgForFieldError gets the message for the given validation error (tag).
func msgForFieldError(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "This field is required"
	case "not_empty":
		return "This field cannot be empty"
	case "eth_addr":
		return "Invalid account address provided"
	case "strong_password":
		return fmt.Sprintf("Password is too weak. It must contain at least %d characters, including uppercase and lowercase letters, digits and special characters", MinPasswordLength)
	default:
		return "Invalid value"
	}
}

func getFieldName(fieldError validator.FieldError) string {
	// Ex.: structName.FieldName -> fieldName
	namespace := strings.Split(fieldError.StructNamespace(), ".")
	return lcFirst(namespace[len(namespace)-1])
}

// lcFirst lowers the case of the first letter of the given string.
//
//	Example: Address -> address
func lcFirst(str string) string {
	for index, letter := range str {
		return string(unicode.ToLower(letter)) + str[index+1:]
	}
	return ""
}
