package courier

import "github.com/pkg/errors"

var ErrNotFound = errors.New("courier not found")

type (
	Repository interface {
		CreateCourier(c Courier) (Courier, error)
		GetCourierByID(id int) (Courier, error)
		// QueryCouriers returns all couriers, or only active ones.
		QueryCouriers(activeOnly bool) ([]Courier, error)
		SetCourierActive(id int, active bool) error
	}

	ServiceInterface interface {
		Create(nc NewCourier) (Courier, error)
		QueryAll() ([]Courier, error)
		QueryActive() ([]Courier, error)
		SetActive(id int, active bool) error
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(nc NewCourier) (Courier, error) {
	return svc.repo.CreateCourier(Courier{Name: nc.Name, Active: true})
}

func (svc *Service) QueryAll() ([]Courier, error) {
	return svc.repo.QueryCouriers(false)
}

func (svc *Service) QueryActive() ([]Courier, error) {
	return svc.repo.QueryCouriers(true)
}

func (svc *Service) SetActive(id int, active bool) error {
	if _, err := svc.repo.GetCourierByID(id); err != nil {
		return err
	}
	return svc.repo.SetCourierActive(id, active)
}
