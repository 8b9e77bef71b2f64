package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/mr-tron/base58"
)

// IsValidAddress returns is an address a base58 encoded 32 byte public key
func IsValidAddress(address string) bool {
	raw, err := base58.Decode(address)
	if err != nil {
		return false
	}
	return len(raw) == 32
}

// AddressRule registers the `address` validation tag
func AddressRule(fl validator.FieldLevel) bool {
	return IsValidAddress(fl.Field().String())
}

func NewCustomValidator(v *validator.Validate) echo.Validator {
	v.RegisterValidation("address", AddressRule)
	return &CustomValidator{v}
}

type CustomValidator struct {
	validator *validator.Validate
}

func (v *CustomValidator) Validate(i interface{}) error {
	if err := v.validator.Struct(i); err != nil {
		return err
	}
	return nil
}
