package user

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/pedidosgs/backend/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is not active")
	ErrTokenInvalid       = errors.New("invalid or expired token")
)

type (
	Repository interface {
		CheckEmailUniqueness(email string, excludedUsers ...User) error
		CreateUser(usr User) (User, error)
		GetUserByID(id int) (User, error)
		GetUserByEmail(email string) (User, error)
		QueryUsersByRole(role string, isActive *bool) ([]User, error)
		CountUsersByRole(role string) (int, error)
		UpdateUser(usr User, isActive *bool) (User, error)
		SetUserPassword(id int, hash []byte) error
		DeleteUsersByID(ids ...int) error

		CreateResetToken(tok ResetToken) (ResetToken, error)
		GetResetToken(token string) (ResetToken, error)
		DeleteResetToken(id int) error
	}

	ServiceInterface interface {
		CheckEmailUniqueness(email string, excludedUsers ...User) error
		Authenticate(email, pwd string) (User, error)
		Register(nu NewUser) (User, error)
		GetByID(id int) (User, error)
		GetByEmail(email string) (User, error)
		SetActive(id int, active bool) error
		RequestPasswordReset(email string) error
		CheckResetToken(token string) (ResetToken, error)
		ConfirmPasswordReset(token, newPwd string) error
	}

	Service struct {
		repo   Repository
		mailer core.EmailService
		conf   *core.Config
		log    core.Logger
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, mailer core.EmailService, conf *core.Config, log core.Logger) *Service {
	return &Service{repo: repo, mailer: mailer, conf: conf, log: log}
}

func (svc *Service) CheckEmailUniqueness(email string, excludedUsers ...User) error {
	if err := svc.repo.CheckEmailUniqueness(email, excludedUsers...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

// Authenticate verifies the credential pair and ensures the account is
// active. It only succeeds when the password hash matches and is_active is
// set; the failure kind distinguishes the two.
func (svc *Service) Authenticate(email, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrInvalidCredentials
	}
	if !usr.IsActive {
		return User{}, ErrAccountInactive
	}
	return usr, nil
}

// Register creates a school account pending admin activation.
func (svc *Service) Register(nu NewUser) (User, error) {
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      RoleSchool,
		IsActive:  false,
		CreatedAt: time.Now().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(usr)
}

func (svc *Service) GetByID(id int) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}

func (svc *Service) SetActive(id int, active bool) error {
	usr, err := svc.repo.GetUserByID(id)
	if err != nil {
		return err
	}
	_, err = svc.repo.UpdateUser(usr, &active)
	return err
}

// RequestPasswordReset issues a single-use reset token for a school account
// and mails the reset link. ErrNotFound is returned for unknown or
// non-school emails; callers must not leak it to the client.
func (svc *Service) RequestPasswordReset(email string) error {
	usr, err := svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	if !usr.IsSchool() {
		return ErrNotFound
	}

	token, err := makeToken()
	if err != nil {
		return err
	}
	now := nowFunc().UTC()
	tok := ResetToken{
		UserID:    usr.ID,
		Token:     token,
		ExpiresAt: now.Add(svc.conf.PasswordResetTimeoutDelta),
		CreatedAt: now,
	}
	if _, err = svc.repo.CreateResetToken(tok); err != nil {
		return errors.Wrap(err, "persisting reset token")
	}

	svc.mailer.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Password reset",
		Body: fmt.Sprintf(
			"Follow this link to reset your password:\n\n%s/reset/%s\n\nThe link expires in %v.",
			svc.conf.FrontendBaseURL, token, svc.conf.PasswordResetTimeoutDelta,
		),
	})
	return nil
}

// CheckResetToken reports whether a token row exists and has not expired.
func (svc *Service) CheckResetToken(token string) (ResetToken, error) {
	tok, err := svc.repo.GetResetToken(token)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return ResetToken{}, ErrTokenInvalid
		}
		return ResetToken{}, errors.Wrap(err, "finding reset token")
	}
	if tok.Expired(nowFunc().UTC()) {
		return ResetToken{}, ErrTokenInvalid
	}
	return tok, nil
}

// ConfirmPasswordReset rehashes the target user's password and burns the
// token. A redeemed or expired token fails with ErrTokenInvalid.
func (svc *Service) ConfirmPasswordReset(token, newPwd string) error {
	tok, err := svc.CheckResetToken(token)
	if err != nil {
		return err
	}

	usr, err := svc.repo.GetUserByID(tok.UserID)
	if err != nil {
		return errors.Wrap(err, "finding token user")
	}
	if err = usr.SetPassword(newPwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	if err = svc.repo.SetUserPassword(usr.ID, usr.PasswordHash); err != nil {
		return errors.Wrap(err, "updating password")
	}
	return svc.repo.DeleteResetToken(tok.ID)
}
