package dummydb

import (
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/pedidosgs/backend/core/order"
)

type orderRepository struct {
	db *DB
}

var _ order.Repository = (*orderRepository)(nil)

func NewOrderRepository(db *DB) *orderRepository {
	return &orderRepository{db: db}
}

func (repo *orderRepository) CreateOrder(ord order.Order) (order.Order, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.orderPK++
	ord.ID = repo.db.orderPK
	repo.db.orders[ord.ID] = &ord
	return ord, nil
}

func (repo *orderRepository) GetOrderDetail(id int) (order.Detail, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	ord, ok := repo.db.orders[id]
	if !ok {
		return order.Detail{}, order.ErrNotFound
	}
	sch, ok := repo.db.schools[ord.SchoolID]
	if !ok {
		return order.Detail{}, order.ErrNotFound
	}

	d := order.Detail{
		Order: *ord,

		SchoolName:  sch.Name,
		SchoolCity:  sch.City,
		SchoolGrade: sch.Grade,
		Contact:     sch.Contact,
		Phone:       sch.Phone,

		Address:      sch.Address,
		Neighborhood: sch.Neighborhood,
		PostalCode:   sch.PostalCode,
		State:        sch.State,
		References:   sch.References,

		DestName:         sch.DestName,
		DestPhone:        sch.DestPhone,
		DestPostalCode:   sch.DestPostalCode,
		DestNeighborhood: sch.DestNeighborhood,
		DestAddress:      sch.DestAddress,
		DestEmail:        sch.DestEmail,

		SchoolUserID:  sch.UserID,
		SalespersonID: sch.SalespersonID,
	}
	if ord.CourierID.Valid {
		if c, ok := repo.db.couriers[ord.CourierID.Int]; ok {
			d.CourierName = null.StringFrom(c.Name)
		}
	}
	return d, nil
}

func (repo *orderRepository) summary(ord order.Order) order.Summary {
	s := order.Summary{Order: ord}
	if sch, ok := repo.db.schools[ord.SchoolID]; ok {
		s.SchoolName = sch.Name
		s.SchoolCity = sch.City
	}
	if ord.CourierID.Valid {
		if c, ok := repo.db.couriers[ord.CourierID.Int]; ok {
			s.CourierName = null.StringFrom(c.Name)
		}
	}
	return s
}

func (repo *orderRepository) query(filter func(order.Order) bool) []order.Summary {
	summaries := make([]order.Summary, 0)
	for _, ord := range repo.db.orders {
		if filter == nil || filter(*ord) {
			summaries = append(summaries, repo.summary(*ord))
		}
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries
}

func (repo *orderRepository) QueryOrders() ([]order.Summary, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	return repo.query(nil), nil
}

func (repo *orderRepository) QueryRecentOrders(limit int) ([]order.Summary, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	summaries := repo.query(nil)
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

func (repo *orderRepository) QueryOrdersBySchool(schoolID int) ([]order.Summary, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	return repo.query(func(ord order.Order) bool { return ord.SchoolID == schoolID }), nil
}

func (repo *orderRepository) SetOrderStatus(id int, status string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	ord, ok := repo.db.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	ord.Status = status
	return nil
}

func (repo *orderRepository) SetOrderCourier(id int, courierID null.Int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	ord, ok := repo.db.orders[id]
	if !ok {
		return order.ErrNotFound
	}
	ord.CourierID = courierID
	return nil
}

func (repo *orderRepository) CountOrders() (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	return len(repo.db.orders), nil
}
