package courier

import (
	"github.com/go-playground/validator/v10"

	"github.com/pedidosgs/backend/core"
)

// Courier is a shipping provider assignable to orders. Deactivating one
// keeps existing order assignments intact.
type Courier struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type NewCourier struct {
	Name string `json:"name" validate:"required"`
}

func (nc *NewCourier) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	return validate.Struct(nc)
}
