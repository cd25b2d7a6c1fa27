package marine

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// StationTag is the validator tag for station identifiers.
const StationTag = "station"

// Station identifiers use the permissive profile everywhere: one or more ASCII
// letters, digits, '_' or '-', no length bound.
var stationPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

var validate = NewValidator()

// NewValidator returns a validator with the station tag registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation(StationTag, func(fl validator.FieldLevel) bool {
		return stationPattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidStation reports whether id is an acceptable station identifier.
func ValidStation(id string) bool {
	return validate.Var(id, "required,"+StationTag) == nil
}

// ValidateStation returns a validation error for rejected identifiers.
func ValidateStation(id string) error {
	if !ValidStation(id) {
		return NewValidationError(id)
	}
	return nil
}

// StationKey folds a station identifier for cache lookups.
func StationKey(id string) string {
	return strings.ToLower(id)
}
