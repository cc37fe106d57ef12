package models

import (
	"fmt"

	"github.com/dmitrijs2005/useraccounts/internal/common"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// reservedFields are managed by the server and are never taken from a body.
var reservedFields = map[string]struct{}{
	"id":                  {},
	"_id":                 {},
	"email":               {},
	"password":            {},
	"salt":                {},
	"active":              {},
	"session":             {},
	"session_create_time": {},
	"created_at":          {},
}

// UserBody is a create/update request body.
type UserBody struct {
	Email    string
	Password string
	Profile  map[string]any
}

// ParseUserBody splits a decoded JSON document into the known fields and the
// free-form profile, then validates it.
func ParseUserBody(doc map[string]any) (*UserBody, error) {
	b := &UserBody{Profile: make(map[string]any)}

	for k, v := range doc {
		switch k {
		case "email":
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: email: must be a string", common.ErrorValidation)
			}
			b.Email = s
		case "password":
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("%w: password: must be a string", common.ErrorValidation)
			}
			b.Password = s
		default:
			if _, reserved := reservedFields[k]; reserved {
				continue
			}
			b.Profile[k] = v
		}
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the body against the user schema.
func (b *UserBody) Validate() error {
	err := validation.ValidateStruct(b,
		validation.Field(&b.Email, validation.Required, is.Email, validation.Length(3, 254)),
		validation.Field(&b.Password, validation.Required, validation.Length(6, 128)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}
	return nil
}
