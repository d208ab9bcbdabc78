package updates

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// RegisterValidations adds the feed's custom tags to v:
//
//	notblank     string is not empty or whitespace only
//	sectiontype  string is a known SectionType
//
// The API server and the client core share it so both reject the same input.
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("notblank", notBlank); err != nil {
		return err
	}
	return v.RegisterValidation("sectiontype", func(fl validator.FieldLevel) bool {
		return SectionType(fl.Field().String()).Valid()
	})
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
