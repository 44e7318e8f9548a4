package order_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedidosgs/backend/core/courier"
	"github.com/pedidosgs/backend/core/order"
	"github.com/pedidosgs/backend/core/school"
	"github.com/pedidosgs/backend/core/user"
	dummydb "github.com/pedidosgs/backend/storage/database/dummy"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type fakeRenderer struct {
	doc []byte
	err error
}

func (r fakeRenderer) RenderOrder(order.Detail) ([]byte, error) { return r.doc, r.err }

type fixture struct {
	svc      *order.Service
	usrRepo  user.Repository
	schRepo  school.Repository
	ordRepo  order.Repository
	crrRepo  courier.Repository
	schoolID int
	userID   int
}

func setup(t *testing.T, render order.DocumentRenderer) *fixture {
	t.Helper()
	db, err := dummydb.Open()
	require.NoError(t, err)

	f := &fixture{
		usrRepo: dummydb.NewUserRepository(db),
		schRepo: dummydb.NewSchoolRepository(db),
		ordRepo: dummydb.NewOrderRepository(db),
		crrRepo: dummydb.NewCourierRepository(db),
	}
	f.svc = order.NewService(f.ordRepo, f.schRepo, f.usrRepo, render, nopLogger{})

	usr := user.User{Name: "Colegio Norte", Email: "norte@school.test", Role: user.RoleSchool, IsActive: true, CreatedAt: time.Now().UTC()}
	usr, err = f.usrRepo.CreateUser(usr)
	require.NoError(t, err)
	f.userID = usr.ID

	sch, err := f.schRepo.CreateSchool(school.School{Name: usr.Name, UserID: usr.ID})
	require.NoError(t, err)
	f.schoolID = sch.ID
	return f
}

func TestService_Create(t *testing.T) {
	f := setup(t, nil)

	t.Run("no linked school", func(t *testing.T) {
		_, err := f.svc.Create(999, order.NewOrder{})
		assert.Equal(t, order.ErrNoLinkedSchool, errors.Cause(err))
	})

	t.Run("parses rosters and starts as New", func(t *testing.T) {
		ord, err := f.svc.Create(f.userID, order.NewOrder{
			City:            "  Monterrey ",
			Grade:           "3A",
			GirlNames:       []string{" Ana ", "", "Maria"},
			GirlHairColors:  []string{"brown", "black", "blond"},
			BoyNames:        []string{"Luis"},
			BoyHairColors:   []string{"black"},
			SockColorGirls:  "white",
			EmbroideryCount: "3",
			DeliveryDates:   []string{"2026-09-10"},
			DeliveryMode:    order.DeliveryPickup,
		})
		require.NoError(t, err)

		assert.Equal(t, f.schoolID, ord.SchoolID)
		assert.Equal(t, "Monterrey", ord.City)
		assert.Equal(t, order.StatusNew, ord.Status)
		assert.Equal(t, []order.RosterEntry{{Name: "Ana", HairColor: "brown"}, {Name: "Maria", HairColor: "blond"}}, ord.Girls)
		assert.Equal(t, []order.RosterEntry{{Name: "Luis", HairColor: "black"}}, ord.Boys)
		assert.Equal(t, 3, ord.EmbroideryCount)
		assert.True(t, ord.SockColorGirls.Valid)
		assert.False(t, ord.BowColor.Valid)
		assert.False(t, ord.CourierID.Valid)
	})

	t.Run("junk embroidery count defaults to zero", func(t *testing.T) {
		ord, err := f.svc.Create(f.userID, order.NewOrder{EmbroideryCount: "lots"})
		require.NoError(t, err)
		assert.Equal(t, 0, ord.EmbroideryCount)
	})

	t.Run("girls only home delivery", func(t *testing.T) {
		ord, err := f.svc.Create(f.userID, order.NewOrder{
			GirlNames:       []string{"Ana", "Maria"},
			GirlHairColors:  []string{"brown", "black"},
			DeliveryMode:    order.DeliveryHome,
			EmbroideryCount: "abc",
		})
		require.NoError(t, err)

		assert.Len(t, ord.Girls, 2)
		assert.Empty(t, ord.Boys)
		assert.Equal(t, order.DeliveryHome, ord.DeliveryMode)
		assert.Equal(t, 0, ord.EmbroideryCount)
		assert.Equal(t, order.StatusNew, ord.Status)
	})
}

func TestService_SetStatus(t *testing.T) {
	f := setup(t, nil)
	ord, err := f.svc.Create(f.userID, order.NewOrder{})
	require.NoError(t, err)

	t.Run("not found", func(t *testing.T) {
		assert.Equal(t, order.ErrNotFound, errors.Cause(f.svc.SetStatus(999, order.StatusShipped)))
	})

	t.Run("overwrites without transition checks", func(t *testing.T) {
		// straight from New to Delivered and back again
		require.NoError(t, f.svc.SetStatus(ord.ID, order.StatusDelivered))
		d, err := f.svc.GetDetail(ord.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusDelivered, d.Status)

		require.NoError(t, f.svc.SetStatus(ord.ID, order.StatusUnderReview))
		d, err = f.svc.GetDetail(ord.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusUnderReview, d.Status)
	})

	t.Run("arbitrary values are stored as-is", func(t *testing.T) {
		require.NoError(t, f.svc.SetStatus(ord.ID, "Lost At Sea"))
		d, err := f.svc.GetDetail(ord.ID)
		require.NoError(t, err)
		assert.Equal(t, "Lost At Sea", d.Status)
	})

	t.Run("blank defaults to New", func(t *testing.T) {
		require.NoError(t, f.svc.SetStatus(ord.ID, "   "))
		d, err := f.svc.GetDetail(ord.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusNew, d.Status)
	})
}

func TestService_AssignCourier(t *testing.T) {
	f := setup(t, nil)
	ord, err := f.svc.Create(f.userID, order.NewOrder{})
	require.NoError(t, err)

	crr, err := f.crrRepo.CreateCourier(courier.Courier{Name: "Estafeta", Active: false})
	require.NoError(t, err)

	t.Run("not found", func(t *testing.T) {
		assert.Equal(t, order.ErrNotFound, errors.Cause(f.svc.AssignCourier(999, crr.ID)))
	})

	t.Run("inactive courier is still assignable", func(t *testing.T) {
		require.NoError(t, f.svc.AssignCourier(ord.ID, crr.ID))
		d, err := f.svc.GetDetail(ord.ID)
		require.NoError(t, err)
		assert.True(t, d.CourierID.Valid)
		assert.Equal(t, crr.ID, d.CourierID.Int)
	})
}

func TestService_Dashboard(t *testing.T) {
	f := setup(t, nil)
	for i := 0; i < 3; i++ {
		_, err := f.svc.Create(f.userID, order.NewOrder{})
		require.NoError(t, err)
	}
	_, err := f.usrRepo.CreateUser(user.User{Name: "Sales", Email: "sales@test", Role: user.RoleSalesperson, IsActive: true, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	stats, err := f.svc.Dashboard()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Orders)
	assert.Equal(t, 1, stats.Schools)
	assert.Equal(t, 1, stats.Salespeople)
	assert.Len(t, stats.Recent, 3)
}

func TestService_Export(t *testing.T) {
	t.Run("renders", func(t *testing.T) {
		f := setup(t, fakeRenderer{doc: []byte("%PDF-1.3")})
		ord, err := f.svc.Create(f.userID, order.NewOrder{})
		require.NoError(t, err)

		doc, err := f.svc.Export(ord.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.3"), doc)
	})

	t.Run("no renderer degrades", func(t *testing.T) {
		f := setup(t, nil)
		ord, err := f.svc.Create(f.userID, order.NewOrder{})
		require.NoError(t, err)

		_, err = f.svc.Export(ord.ID)
		assert.Equal(t, order.ErrExportDegraded, errors.Cause(err))
	})

	t.Run("renderer failure degrades", func(t *testing.T) {
		f := setup(t, fakeRenderer{err: errors.New("font missing")})
		ord, err := f.svc.Create(f.userID, order.NewOrder{})
		require.NoError(t, err)

		_, err = f.svc.Export(ord.ID)
		assert.Equal(t, order.ErrExportDegraded, errors.Cause(err))
	})

	t.Run("not found", func(t *testing.T) {
		f := setup(t, nil)
		_, err := f.svc.Export(999)
		assert.Equal(t, order.ErrNotFound, errors.Cause(err))
	})
}
