package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/pedidosgs/backend/core/courier"
)

type courierRepository struct {
	db *sqlx.DB
}

var _ courier.Repository = (*courierRepository)(nil)

func NewCourierRepository(db *sqlx.DB) *courierRepository {
	return &courierRepository{db: db}
}

type courierRow struct {
	ID     int    `db:"id"`
	Name   string `db:"name"`
	Active bool   `db:"active"`
}

func (r courierRow) toCore() courier.Courier {
	return courier.Courier{ID: r.ID, Name: r.Name, Active: r.Active}
}

func (repo *courierRepository) CreateCourier(c courier.Courier) (courier.Courier, error) {
	res, err := repo.db.Exec(`INSERT INTO couriers(name, active) VALUES(?, ?)`, c.Name, c.Active)
	if err != nil {
		return courier.Courier{}, errors.Wrap(err, "inserting courier")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return courier.Courier{}, errors.Wrap(err, "reading inserted courier id")
	}
	c.ID = int(id)
	return c, nil
}

func (repo *courierRepository) GetCourierByID(id int) (courier.Courier, error) {
	var row courierRow
	if err := repo.db.Get(&row, `SELECT * FROM couriers WHERE id = ?`, id); err != nil {
		if err == sql.ErrNoRows {
			return courier.Courier{}, courier.ErrNotFound
		}
		return courier.Courier{}, errors.Wrap(err, "querying courier")
	}
	return row.toCore(), nil
}

func (repo *courierRepository) QueryCouriers(activeOnly bool) ([]courier.Courier, error) {
	q := `SELECT * FROM couriers ORDER BY active DESC, name`
	if activeOnly {
		q = `SELECT * FROM couriers WHERE active = 1 ORDER BY name`
	}

	var rows []courierRow
	if err := repo.db.Select(&rows, q); err != nil {
		return nil, errors.Wrap(err, "querying couriers")
	}
	couriers := make([]courier.Courier, 0, len(rows))
	for _, row := range rows {
		couriers = append(couriers, row.toCore())
	}
	return couriers, nil
}

func (repo *courierRepository) SetCourierActive(id int, active bool) error {
	_, err := repo.db.Exec(`UPDATE couriers SET active = ? WHERE id = ?`, active, id)
	return errors.Wrap(err, "updating courier")
}
