package validation

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
)

// Custom rule tags
const (
	// DurationTag accepts anything time.ParseDuration accepts
	DurationTag = "duration"
	// ByteSizeTag accepts positive human sizes such as "10MB" or "512KiB"
	ByteSizeTag = "bytesize"
)

// New returns a validator with the custom rules registered
func New() *validator.Validate {
	v := validator.New()
	// Registration only fails for empty tags or nil funcs
	_ = v.RegisterValidation(DurationTag, validateDuration)
	_ = v.RegisterValidation(ByteSizeTag, validateByteSize)
	return v
}

func validateDuration(fl validator.FieldLevel) bool {
	_, err := time.ParseDuration(strings.TrimSpace(fl.Field().String()))
	return err == nil
}

func validateByteSize(fl validator.FieldLevel) bool {
	n, err := humanize.ParseBytes(fl.Field().String())
	return err == nil && n > 0
}

// FormatError turns the first validator failure into a readable message
func FormatError(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	e := verrs[0]
	switch e.Tag() {
	case "required":
		return e.Namespace() + " is required"
	case "oneof":
		return e.Namespace() + " must be one of: " + e.Param()
	case "min":
		return e.Namespace() + " must have at least " + e.Param() + " element(s)"
	case DurationTag:
		return e.Namespace() + " must be a duration such as 10s"
	case ByteSizeTag:
		return e.Namespace() + " must be a size such as 10MB"
	default:
		return e.Namespace() + " failed on \"" + e.Tag() + "\""
	}
}
