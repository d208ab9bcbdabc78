package feed

import (
	"fmt"
	"strings"

	"sitefeed/internal/domain/updates"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := updates.RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}

func validateStruct(s any) error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	return nil
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: review text is empty", ErrValidation)
	}
	return nil
}
