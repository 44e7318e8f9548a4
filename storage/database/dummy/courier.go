package dummydb

import (
	"sort"

	"github.com/pedidosgs/backend/core/courier"
)

type courierRepository struct {
	db *DB
}

var _ courier.Repository = (*courierRepository)(nil)

func NewCourierRepository(db *DB) *courierRepository {
	return &courierRepository{db: db}
}

func (repo *courierRepository) CreateCourier(c courier.Courier) (courier.Courier, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.courierPK++
	c.ID = repo.db.courierPK
	repo.db.couriers[c.ID] = &c
	return c, nil
}

func (repo *courierRepository) GetCourierByID(id int) (courier.Courier, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if c, ok := repo.db.couriers[id]; ok {
		return *c, nil
	}
	return courier.Courier{}, courier.ErrNotFound
}

func (repo *courierRepository) QueryCouriers(activeOnly bool) ([]courier.Courier, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	couriers := make([]courier.Courier, 0)
	for _, c := range repo.db.couriers {
		if activeOnly && !c.Active {
			continue
		}
		couriers = append(couriers, *c)
	}
	sort.Slice(couriers, func(i, j int) bool {
		if couriers[i].Active != couriers[j].Active {
			return couriers[i].Active
		}
		return couriers[i].Name < couriers[j].Name
	})
	return couriers, nil
}

func (repo *courierRepository) SetCourierActive(id int, active bool) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	c, ok := repo.db.couriers[id]
	if !ok {
		return courier.ErrNotFound
	}
	c.Active = active
	return nil
}
