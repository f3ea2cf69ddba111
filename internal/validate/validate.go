package validate

// This package adds struct and field validation as a thin wrapper around the go-playground/validator package.
//
// e.g. internal/config/config.go
//   type Config struct {
//       Mode    string `yaml:"mode" validate:"required,infusion_mode"`
//       Locale  string `yaml:"locale" validate:"required,bcp47_language_tag"`
//       ...
//   }
//
// Besides the built-in tags (oneof, hexcolor, bcp47_language_tag, ...) it
// registers infusion_mode, which accepts every name infusion.ParseMode does.

import (
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/goutte-app/goutte/internal/infusion"
)

// TagInfusionMode validates a string field as an infusion mode name.
const TagInfusionMode = "infusion_mode"

// validatorInstance is a shared validator for the application.
// It is initialized once and reused to avoid repeated allocations.
//
//nolint:gochecknoglobals // Shared validator singleton.
var (
	validatorOnce sync.Once
	validatorInst *validator.Validate
)

// get returns a process-wide singleton of the validator.
func get() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
		// Registration only fails for empty tags or nil funcs.
		_ = validatorInst.RegisterValidation(TagInfusionMode, func(fl validator.FieldLevel) bool {
			_, err := infusion.ParseMode(fl.Field().String())
			return err == nil
		})
	})
	return validatorInst
}

// Struct validates a struct using the shared validator instance.
func Struct(v any) error {
	return get().Struct(v)
}
