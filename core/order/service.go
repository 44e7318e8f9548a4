package order

import (
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/pedidosgs/backend/core"
	"github.com/pedidosgs/backend/core/school"
	"github.com/pedidosgs/backend/core/user"
)

var (
	// errors
	ErrNotFound       = errors.New("order not found")
	ErrNoLinkedSchool = errors.New("account is not linked to a school")
	ErrExportDegraded = errors.New("document renderer unavailable")
)

type (
	Repository interface {
		CreateOrder(ord Order) (Order, error)
		GetOrderDetail(id int) (Detail, error)
		QueryOrders() ([]Summary, error)
		QueryRecentOrders(limit int) ([]Summary, error)
		QueryOrdersBySchool(schoolID int) ([]Summary, error)
		SetOrderStatus(id int, status string) error
		SetOrderCourier(id int, courierID null.Int) error
		CountOrders() (int, error)
	}

	// DocumentRenderer renders the fixed-layout export document of one
	// order. Implementations live outside core.
	DocumentRenderer interface {
		RenderOrder(d Detail) ([]byte, error)
	}

	ServiceInterface interface {
		Create(userID int, no NewOrder) (Order, error)
		GetDetail(id int) (Detail, error)
		QueryAll() ([]Summary, error)
		QueryBySchoolUser(userID int) ([]Summary, error)
		SetStatus(id int, status string) error
		AssignCourier(id, courierID int) error
		Dashboard() (Stats, error)
		Export(id int) ([]byte, error)
	}

	Service struct {
		repo    Repository
		schools school.Repository
		users   user.Repository
		render  DocumentRenderer
		log     core.Logger
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, schools school.Repository, users user.Repository, render DocumentRenderer, log core.Logger) *Service {
	return &Service{repo: repo, schools: schools, users: users, render: render, log: log}
}

// Create validates that the calling session maps to exactly one school,
// parses the rosters and stores the order with status New.
func (svc *Service) Create(userID int, no NewOrder) (Order, error) {
	sch, err := svc.schools.GetSchoolByUserID(userID)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return Order{}, ErrNoLinkedSchool
		}
		return Order{}, errors.Wrap(err, "finding caller's school")
	}

	no.Clean()
	ord := Order{
		SchoolID:        sch.ID,
		City:            no.City,
		Grade:           no.Grade,
		Girls:           ParseRoster(no.GirlNames, no.GirlHairColors),
		Boys:            ParseRoster(no.BoyNames, no.BoyHairColors),
		SockColorGirls:  null.NewString(no.SockColorGirls, no.SockColorGirls != ""),
		ShoeColorGirls:  null.NewString(no.ShoeColorGirls, no.ShoeColorGirls != ""),
		ShoeColorBoys:   null.NewString(no.ShoeColorBoys, no.ShoeColorBoys != ""),
		BowColor:        null.NewString(no.BowColor, no.BowColor != ""),
		TrouserColor:    null.NewString(no.TrouserColor, no.TrouserColor != ""),
		EmbroideryCount: ParseCount(no.EmbroideryCount),
		DeliveryDates:   no.DeliveryDates,
		DeliveryMode:    no.DeliveryMode,
		Comment:         no.Comment,
		Status:          StatusNew,
		CreatedAt:       time.Now().UTC(),
	}
	return svc.repo.CreateOrder(ord)
}

func (svc *Service) GetDetail(id int) (Detail, error) {
	return svc.repo.GetOrderDetail(id)
}

func (svc *Service) QueryAll() ([]Summary, error) {
	return svc.repo.QueryOrders()
}

func (svc *Service) QueryBySchoolUser(userID int) ([]Summary, error) {
	sch, err := svc.schools.GetSchoolByUserID(userID)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return nil, ErrNoLinkedSchool
		}
		return nil, errors.Wrap(err, "finding caller's school")
	}
	return svc.repo.QueryOrdersBySchool(sch.ID)
}

// SetStatus overwrites the status unconditionally; a missing value defaults
// to New. The value is deliberately not checked against the status set.
func (svc *Service) SetStatus(id int, status string) error {
	status = core.CleanString(status)
	if status == "" {
		status = StatusNew
	}
	if _, err := svc.repo.GetOrderDetail(id); err != nil {
		return err
	}
	return svc.repo.SetOrderStatus(id, status)
}

// AssignCourier overwrites the courier reference unconditionally; the
// courier's active flag is deliberately not checked.
func (svc *Service) AssignCourier(id, courierID int) error {
	if _, err := svc.repo.GetOrderDetail(id); err != nil {
		return err
	}
	return svc.repo.SetOrderCourier(id, null.IntFrom(courierID))
}

func (svc *Service) Dashboard() (Stats, error) {
	var stats Stats
	var err error
	if stats.Orders, err = svc.repo.CountOrders(); err != nil {
		return Stats{}, errors.Wrap(err, "counting orders")
	}
	if stats.Schools, err = svc.schools.CountSchools(); err != nil {
		return Stats{}, errors.Wrap(err, "counting schools")
	}
	if stats.Salespeople, err = svc.users.CountUsersByRole(user.RoleSalesperson); err != nil {
		return Stats{}, errors.Wrap(err, "counting salespeople")
	}
	if stats.Recent, err = svc.repo.QueryRecentOrders(10); err != nil {
		return Stats{}, errors.Wrap(err, "querying recent orders")
	}
	return stats, nil
}

// Export renders the order document. ErrExportDegraded signals the
// non-fatal fallback to the print-friendly view.
func (svc *Service) Export(id int) ([]byte, error) {
	d, err := svc.repo.GetOrderDetail(id)
	if err != nil {
		return nil, err
	}
	if svc.render == nil {
		return nil, ErrExportDegraded
	}
	doc, err := svc.render.RenderOrder(d)
	if err != nil {
		svc.log.Error("rendering order document", err)
		return nil, ErrExportDegraded
	}
	return doc, nil
}
