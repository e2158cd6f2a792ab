package api

import (
	"github.com/go-playground/validator/v10"

	"github.com/j-veylop/vahan-dashboard-tui/internal/models"
)

// Validator adapts validator/v10 to echo.Validator.
type Validator struct {
	validate *validator.Validate
}

// NewValidator returns a Validator with the vehicletype and vehicleseries
// rules registered.
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("vehicletype", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseVehicleType(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("vehicleseries", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseVehicleSeries(fl.Field().String())
		return ok
	})
	return &Validator{validate: v}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}
