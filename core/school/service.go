package school

import (
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/pedidosgs/backend/core"
	"github.com/pedidosgs/backend/core/user"
)

var ErrNotFound = errors.New("school not found")

type (
	Repository interface {
		CreateSchool(sch School) (School, error)
		GetSchoolByID(id int) (School, error)
		GetSchoolByUserID(userID int) (School, error)
		QueryAccounts(isActive *bool) ([]Account, error)
		QuerySchoolsBySalesperson(salespersonID int) ([]Summary, error)
		UpdateSchoolProfile(userID int, up UpdateProfile) error
		UpdateSchoolContact(id int, name, city, contact, phone string) error
		SetSchoolSalesperson(id int, salespersonID null.Int) error
		CountSchools() (int, error)
	}

	ServiceInterface interface {
		CreateForUser(userID int, name string) (School, error)
		GetByID(id int) (School, error)
		GetByUserID(userID int) (School, error)
		UpdateProfile(userID int, up UpdateProfile) error
		PendingAccounts() ([]Account, error)
		ActiveAccounts() ([]Account, error)
		Accounts() ([]Account, error)
		Approve(userID int) error
		Reject(userID int) error
		Edit(schoolID int, ea EditAccount) error
		ToggleActive(schoolID int) (bool, error)
		Delete(schoolID int) error
		AssignSalesperson(schoolID, salespersonID int) error
		AssignedTo(salespersonID int) ([]Summary, error)
	}

	Service struct {
		repo  Repository
		users user.Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, users user.Repository) *Service {
	return &Service{repo: repo, users: users}
}

// CreateForUser creates the empty profile owned by a freshly signed-up
// school account.
func (svc *Service) CreateForUser(userID int, name string) (School, error) {
	return svc.repo.CreateSchool(School{Name: name, UserID: userID})
}

func (svc *Service) GetByID(id int) (School, error) {
	return svc.repo.GetSchoolByID(id)
}

func (svc *Service) GetByUserID(userID int) (School, error) {
	return svc.repo.GetSchoolByUserID(userID)
}

func (svc *Service) UpdateProfile(userID int, up UpdateProfile) error {
	up.Clean()
	return svc.repo.UpdateSchoolProfile(userID, up)
}

func (svc *Service) PendingAccounts() ([]Account, error) {
	inactive := false
	return svc.repo.QueryAccounts(&inactive)
}

func (svc *Service) ActiveAccounts() ([]Account, error) {
	active := true
	return svc.repo.QueryAccounts(&active)
}

func (svc *Service) Accounts() ([]Account, error) {
	return svc.repo.QueryAccounts(nil)
}

// Approve activates a pending school account.
func (svc *Service) Approve(userID int) error {
	usr, err := svc.users.GetUserByID(userID)
	if err != nil {
		return err
	}
	if !usr.IsSchool() {
		return user.ErrNotFound
	}
	active := true
	_, err = svc.users.UpdateUser(usr, &active)
	return err
}

// Reject deletes a pending account; the owned profile goes with it
// (cascade on users.id).
func (svc *Service) Reject(userID int) error {
	usr, err := svc.users.GetUserByID(userID)
	if err != nil {
		return err
	}
	if !usr.IsSchool() {
		return user.ErrNotFound
	}
	return svc.users.DeleteUsersByID(userID)
}

// Edit updates the profile row and, when the email changed, the owning user
// after an email-uniqueness check. Empty fields keep current values.
func (svc *Service) Edit(schoolID int, ea EditAccount) error {
	sch, err := svc.repo.GetSchoolByID(schoolID)
	if err != nil {
		return err
	}
	usr, err := svc.users.GetUserByID(sch.UserID)
	if err != nil {
		return errors.Wrap(err, "finding owning user")
	}

	name := ea.Name
	if name == "" {
		name = sch.Name
	}
	city := ea.City
	if city == "" {
		city = sch.City.String
	}
	contact := ea.Contact
	if contact == "" {
		contact = sch.Contact.String
	}
	phone := ea.Phone
	if phone == "" {
		phone = sch.Phone.String
	}
	if err = svc.repo.UpdateSchoolContact(schoolID, name, city, contact, phone); err != nil {
		return err
	}

	email := ea.Email
	if email == "" {
		email = usr.Email
	}
	if err = svc.users.CheckEmailUniqueness(email, usr); err != nil {
		if err == user.ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	usr.Name = name
	usr.Email = email
	_, err = svc.users.UpdateUser(usr, nil)
	return err
}

func (svc *Service) ToggleActive(schoolID int) (bool, error) {
	sch, err := svc.repo.GetSchoolByID(schoolID)
	if err != nil {
		return false, err
	}
	usr, err := svc.users.GetUserByID(sch.UserID)
	if err != nil {
		return false, errors.Wrap(err, "finding owning user")
	}
	active := !usr.IsActive
	if _, err = svc.users.UpdateUser(usr, &active); err != nil {
		return false, err
	}
	return active, nil
}

// Delete removes the owning user; schools and orders cascade.
func (svc *Service) Delete(schoolID int) error {
	sch, err := svc.repo.GetSchoolByID(schoolID)
	if err != nil {
		return err
	}
	return svc.users.DeleteUsersByID(sch.UserID)
}

func (svc *Service) AssignSalesperson(schoolID, salespersonID int) error {
	if _, err := svc.repo.GetSchoolByID(schoolID); err != nil {
		return err
	}
	return svc.repo.SetSchoolSalesperson(schoolID, null.IntFrom(salespersonID))
}

func (svc *Service) AssignedTo(salespersonID int) ([]Summary, error) {
	return svc.repo.QuerySchoolsBySalesperson(salespersonID)
}
