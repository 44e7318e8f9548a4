package school_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedidosgs/backend/core"
	"github.com/pedidosgs/backend/core/school"
	"github.com/pedidosgs/backend/core/user"
	dummydb "github.com/pedidosgs/backend/storage/database/dummy"
)

func setup(t *testing.T) (*school.Service, user.Repository) {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)

	usrRepo := dummydb.NewUserRepository(db)
	svc := school.NewService(dummydb.NewSchoolRepository(db), usrRepo)
	return svc, usrRepo
}

func createAccount(t *testing.T, svc *school.Service, usrRepo user.Repository, name, email string, isActive bool) (user.User, school.School) {
	t.Helper()
	usr, err := usrRepo.CreateUser(user.User{
		Name:      name,
		Email:     email,
		Role:      user.RoleSchool,
		IsActive:  isActive,
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	sch, err := svc.CreateForUser(usr.ID, usr.Name)
	require.NoError(t, err)
	return usr, sch
}

func TestService_Approve(t *testing.T) {
	svc, usrRepo := setup(t)
	usr, _ := createAccount(t, svc, usrRepo, "Colegio Norte", "norte@school.test", false)

	t.Run("activates the account", func(t *testing.T) {
		require.NoError(t, svc.Approve(usr.ID))

		got, err := usrRepo.GetUserByID(usr.ID)
		require.NoError(t, err)
		assert.True(t, got.IsActive)
	})

	t.Run("unknown user", func(t *testing.T) {
		assert.Equal(t, user.ErrNotFound, errors.Cause(svc.Approve(999)))
	})

	t.Run("non-school account", func(t *testing.T) {
		adm, err := usrRepo.CreateUser(user.User{Name: "Admin", Email: "admin@demo.local", Role: user.RoleAdmin, IsActive: true, CreatedAt: time.Now().UTC()})
		require.NoError(t, err)
		assert.Equal(t, user.ErrNotFound, errors.Cause(svc.Approve(adm.ID)))
	})
}

func TestService_Reject(t *testing.T) {
	svc, usrRepo := setup(t)
	usr, sch := createAccount(t, svc, usrRepo, "Colegio Norte", "norte@school.test", false)

	require.NoError(t, svc.Reject(usr.ID))

	_, err := usrRepo.GetUserByID(usr.ID)
	assert.Equal(t, user.ErrNotFound, errors.Cause(err))
	_, err = svc.GetByID(sch.ID)
	assert.Equal(t, school.ErrNotFound, errors.Cause(err), "profile must go with the rejected user")
}

func TestService_Edit(t *testing.T) {
	svc, usrRepo := setup(t)
	usr, sch := createAccount(t, svc, usrRepo, "Colegio Norte", "norte@school.test", true)
	require.NoError(t, svc.UpdateProfile(usr.ID, school.UpdateProfile{Name: "Colegio Norte", City: "Monterrey", Contact: "Ana", Phone: "5550001"}))

	t.Run("empty fields keep current values", func(t *testing.T) {
		require.NoError(t, svc.Edit(sch.ID, school.EditAccount{Contact: "Luis"}))

		got, err := svc.GetByID(sch.ID)
		require.NoError(t, err)
		assert.Equal(t, "Colegio Norte", got.Name)
		assert.Equal(t, "Monterrey", got.City.String)
		assert.Equal(t, "Luis", got.Contact.String)
		assert.Equal(t, "5550001", got.Phone.String)
	})

	t.Run("email change propagates to the user", func(t *testing.T) {
		require.NoError(t, svc.Edit(sch.ID, school.EditAccount{Email: "nuevo@school.test"}))

		got, err := usrRepo.GetUserByID(usr.ID)
		require.NoError(t, err)
		assert.Equal(t, "nuevo@school.test", got.Email)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		createAccount(t, svc, usrRepo, "Colegio Sur", "sur@school.test", true)

		err := svc.Edit(sch.ID, school.EditAccount{Email: "sur@school.test"})
		var vErr *core.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "email", vErr.Fields[0].Field)
	})

	t.Run("unknown school", func(t *testing.T) {
		assert.Equal(t, school.ErrNotFound, errors.Cause(svc.Edit(999, school.EditAccount{})))
	})
}

func TestService_ToggleActive(t *testing.T) {
	svc, usrRepo := setup(t)
	usr, sch := createAccount(t, svc, usrRepo, "Colegio Norte", "norte@school.test", true)

	active, err := svc.ToggleActive(sch.ID)
	require.NoError(t, err)
	assert.False(t, active)

	got, err := usrRepo.GetUserByID(usr.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	active, err = svc.ToggleActive(sch.ID)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestService_Delete(t *testing.T) {
	svc, usrRepo := setup(t)
	usr, sch := createAccount(t, svc, usrRepo, "Colegio Norte", "norte@school.test", true)

	require.NoError(t, svc.Delete(sch.ID))

	_, err := usrRepo.GetUserByID(usr.ID)
	assert.Equal(t, user.ErrNotFound, errors.Cause(err))
	_, err = svc.GetByID(sch.ID)
	assert.Equal(t, school.ErrNotFound, errors.Cause(err))
}

func TestService_AssignSalesperson(t *testing.T) {
	svc, usrRepo := setup(t)
	_, sch := createAccount(t, svc, usrRepo, "Colegio Norte", "norte@school.test", true)

	sales, err := usrRepo.CreateUser(user.User{Name: "Sales", Email: "sales@test", Role: user.RoleSalesperson, IsActive: true, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	require.NoError(t, svc.AssignSalesperson(sch.ID, sales.ID))

	got, err := svc.GetByID(sch.ID)
	require.NoError(t, err)
	assert.True(t, got.SalespersonID.Valid)
	assert.Equal(t, sales.ID, got.SalespersonID.Int)

	assigned, err := svc.AssignedTo(sales.ID)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, sch.ID, assigned[0].ID)
}

func TestService_Accounts(t *testing.T) {
	svc, usrRepo := setup(t)
	createAccount(t, svc, usrRepo, "Colegio Norte", "norte@school.test", true)
	createAccount(t, svc, usrRepo, "Colegio Sur", "sur@school.test", false)

	pending, err := svc.PendingAccounts()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "sur@school.test", pending[0].User.Email)

	active, err := svc.ActiveAccounts()
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "norte@school.test", active[0].User.Email)

	all, err := svc.Accounts()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
