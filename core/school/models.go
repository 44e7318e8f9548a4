package school

import (
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/pedidosgs/backend/core"
	"github.com/pedidosgs/backend/core/user"
)

// School is the customer profile owned by exactly one school-role user.
// Profile and package-destination fields were added after launch and are
// nullable for pre-existing rows.
type School struct {
	ID      int         `json:"id"`
	Name    string      `json:"name"`
	City    null.String `json:"city"`
	Grade   null.String `json:"grade"`
	Contact null.String `json:"contact"`
	Phone   null.String `json:"phone"`

	Address      null.String `json:"address"`
	Neighborhood null.String `json:"neighborhood"`
	PostalCode   null.String `json:"postal_code"`
	State        null.String `json:"state"`
	References   null.String `json:"references"`

	// package-delivery destination
	DestName         null.String `json:"dest_name"`
	DestPhone        null.String `json:"dest_phone"`
	DestPostalCode   null.String `json:"dest_postal_code"`
	DestNeighborhood null.String `json:"dest_neighborhood"`
	DestAddress      null.String `json:"dest_address"`
	DestEmail        null.String `json:"dest_email"`

	UserID        int      `json:"user_id"`
	SalespersonID null.Int `json:"salesperson_id"`
}

// UpdateProfile carries the full editable profile; every field is stored
// trimmed, empty values included.
type UpdateProfile struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Grade   string `json:"grade"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`

	Address      string `json:"address"`
	Neighborhood string `json:"neighborhood"`
	PostalCode   string `json:"postal_code"`
	State        string `json:"state"`
	References   string `json:"references"`

	DestName         string `json:"dest_name"`
	DestPhone        string `json:"dest_phone"`
	DestPostalCode   string `json:"dest_postal_code"`
	DestNeighborhood string `json:"dest_neighborhood"`
	DestAddress      string `json:"dest_address"`
	DestEmail        string `json:"dest_email"`
}

func (up *UpdateProfile) Clean() {
	up.Name = core.CleanString(up.Name)
	up.City = core.CleanString(up.City)
	up.Grade = core.CleanString(up.Grade)
	up.Contact = core.CleanString(up.Contact)
	up.Phone = core.CleanString(up.Phone)
	up.Address = core.CleanString(up.Address)
	up.Neighborhood = core.CleanString(up.Neighborhood)
	up.PostalCode = core.CleanString(up.PostalCode)
	up.State = core.CleanString(up.State)
	up.References = core.CleanString(up.References)
	up.DestName = core.CleanString(up.DestName)
	up.DestPhone = core.CleanString(up.DestPhone)
	up.DestPostalCode = core.CleanString(up.DestPostalCode)
	up.DestNeighborhood = core.CleanString(up.DestNeighborhood)
	up.DestAddress = core.CleanString(up.DestAddress)
	up.DestEmail = core.CleanString(up.DestEmail, true /* lower */)
}

// EditAccount is the admin-side edit of a school account; empty fields keep
// the current values.
type EditAccount struct {
	Name    string `json:"name"`
	Email   string `json:"email" validate:"omitempty,email"`
	City    string `json:"city"`
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
}

func (ea *EditAccount) Validate(validate *validator.Validate) error {
	ea.Name = core.CleanString(ea.Name)
	ea.Email = core.CleanString(ea.Email, true /* lower */)
	ea.City = core.CleanString(ea.City)
	ea.Contact = core.CleanString(ea.Contact)
	ea.Phone = core.CleanString(ea.Phone)
	return validate.Struct(ea)
}

// Account joins a school-role user with its owned profile for admin
// listings; the profile may be missing for rejected signups mid-delete.
type Account struct {
	User       user.User   `json:"user"`
	SchoolID   null.Int    `json:"school_id"`
	SchoolName null.String `json:"school_name"`
	City       null.String `json:"city"`
}

// Summary is a school with its order count, for the salesperson dashboard.
type Summary struct {
	School
	OrdersCount int `json:"orders_count"`
}
