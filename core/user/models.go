package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/pedidosgs/backend/core"
)

// Roles
const (
	RoleAdmin       = "admin"
	RoleSalesperson = "salesperson"
	RoleSchool      = "school"
)

var AllRoles = []string{RoleAdmin, RoleSalesperson, RoleSchool}

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword compares pwd against the stored hash in constant time.
func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool       { return u.Role == RoleAdmin }
func (u *User) IsSalesperson() bool { return u.Role == RoleSalesperson }
func (u *User) IsSchool() bool      { return u.Role == RoleSchool }

// NewUser contains information needed to register a new school account.
type NewUser struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc ServiceInterface) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckEmailUniqueness(nu.Email)
}

// ResetToken is a single-use password-reset token persisted alongside the
// user it was issued for.
type ResetToken struct {
	ID        int       `json:"-"`
	UserID    int       `json:"-"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"-"` // UTC
	CreatedAt time.Time `json:"-"` // UTC
}

func (t ResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

type ConfirmPasswordReset struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

func (cr *ConfirmPasswordReset) Validate(validate *validator.Validate) error {
	return validate.Struct(cr)
}
