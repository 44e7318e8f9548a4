// Package dummydb provides in-memory repository implementations for tests.
package dummydb

import (
	"sync"

	"github.com/pedidosgs/backend/core/courier"
	"github.com/pedidosgs/backend/core/order"
	"github.com/pedidosgs/backend/core/school"
	"github.com/pedidosgs/backend/core/user"
)

type DB struct {
	mu sync.RWMutex

	users    map[int]*user.User
	schools  map[int]*school.School
	orders   map[int]*order.Order
	couriers map[int]*courier.Courier
	resets   map[int]*user.ResetToken

	userPK    int
	schoolPK  int
	orderPK   int
	courierPK int
	resetPK   int
}

func Open() (*DB, error) {
	return &DB{
		users:    make(map[int]*user.User),
		schools:  make(map[int]*school.School),
		orders:   make(map[int]*order.Order),
		couriers: make(map[int]*courier.Courier),
		resets:   make(map[int]*user.ResetToken),
	}, nil
}
