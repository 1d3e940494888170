package person

import (
	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"

	"github.com/iota-uz/person-directory/pkg/constants"
	"github.com/iota-uz/person-directory/pkg/serrors"
)

// CreateDTO is the creation input. Values are kept verbatim; only presence of
// last_name and phone_number is checked.
type CreateDTO struct {
	LastName    string `json:"last_name" form:"last_name" validate:"required"`
	PhoneNumber string `json:"phone_number" form:"phone_number" validate:"required"`
	Location    string `json:"location" form:"location"`
}

// Ok reports whether the DTO passes validation; on failure the map holds one
// English message per offending field, keyed by its json name.
func (d *CreateDTO) Ok() (serrors.ValidationErrors, bool) {
	err := constants.Validate.Struct(d)
	if err == nil {
		return serrors.ValidationErrors{}, true
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return serrors.ValidationErrors{"": err.Error()}, false
	}
	return serrors.FromValidator(verrs, constants.Translator), false
}

func (d *CreateDTO) ToEntity() Person {
	return New(d.LastName, d.PhoneNumber, d.Location)
}
