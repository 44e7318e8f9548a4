package database

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/pedidosgs/backend/core/order"
)

type orderRepository struct {
	db *sqlx.DB
}

var _ order.Repository = (*orderRepository)(nil)

func NewOrderRepository(db *sqlx.DB) *orderRepository {
	return &orderRepository{db: db}
}

// orderRow maps the orders table; rosters and delivery dates are JSON text
// at this boundary only.
type orderRow struct {
	ID       int `db:"id"`
	SchoolID int `db:"school_id"`

	City  null.String `db:"city"`
	Grade null.String `db:"grade"`

	GirlsJSON null.String `db:"girls_json"`
	BoysJSON  null.String `db:"boys_json"`

	SockColorGirls null.String `db:"sock_color_girls"`
	ShoeColorGirls null.String `db:"shoe_color_girls"`
	ShoeColorBoys  null.String `db:"shoe_color_boys"`
	BowColor       null.String `db:"bow_color"`
	TrouserColor   null.String `db:"trouser_color"`

	EmbroideryCount null.Int    `db:"embroidery_count"`
	DeliveryDates   null.String `db:"delivery_dates"`
	DeliveryMode    null.String `db:"delivery_mode"`

	Comment   null.String `db:"comment"`
	Status    string      `db:"status"`
	CourierID null.Int    `db:"courier_id"`
	CreatedAt string      `db:"created_at"`
}

// parseRosterJSON is tolerant: missing or malformed JSON yields an empty
// roster rather than an error.
func parseRosterJSON(js null.String) []order.RosterEntry {
	entries := []order.RosterEntry{}
	if js.Valid {
		_ = json.Unmarshal([]byte(js.String), &entries)
	}
	return entries
}

func parseDatesJSON(js null.String) []string {
	dates := []string{}
	if js.Valid {
		_ = json.Unmarshal([]byte(js.String), &dates)
	}
	return dates
}

func (r orderRow) toCore() order.Order {
	createdAt, _ := time.Parse(time.RFC3339, r.CreatedAt)
	return order.Order{
		ID:       r.ID,
		SchoolID: r.SchoolID,

		City:  r.City.String,
		Grade: r.Grade.String,

		Girls: parseRosterJSON(r.GirlsJSON),
		Boys:  parseRosterJSON(r.BoysJSON),

		SockColorGirls: r.SockColorGirls,
		ShoeColorGirls: r.ShoeColorGirls,
		ShoeColorBoys:  r.ShoeColorBoys,
		BowColor:       r.BowColor,
		TrouserColor:   r.TrouserColor,

		EmbroideryCount: r.EmbroideryCount.Int,
		DeliveryDates:   parseDatesJSON(r.DeliveryDates),
		DeliveryMode:    r.DeliveryMode.String,

		Comment:   r.Comment.String,
		Status:    r.Status,
		CourierID: r.CourierID,
		CreatedAt: createdAt,
	}
}

func (repo *orderRepository) CreateOrder(ord order.Order) (order.Order, error) {
	girls, err := json.Marshal(ord.Girls)
	if err != nil {
		return order.Order{}, errors.Wrap(err, "serializing girls roster")
	}
	boys, err := json.Marshal(ord.Boys)
	if err != nil {
		return order.Order{}, errors.Wrap(err, "serializing boys roster")
	}
	dates, err := json.Marshal(ord.DeliveryDates)
	if err != nil {
		return order.Order{}, errors.Wrap(err, "serializing delivery dates")
	}

	res, err := repo.db.Exec(
		`INSERT INTO orders(
			school_id, city, grade, girls_json, boys_json, comment, status, courier_id, created_at,
			sock_color_girls, shoe_color_girls, shoe_color_boys, bow_color, trouser_color,
			embroidery_count, delivery_dates, delivery_mode)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ord.SchoolID, ord.City, ord.Grade, string(girls), string(boys), ord.Comment, ord.Status,
		ord.CourierID, ord.CreatedAt.Format(time.RFC3339),
		ord.SockColorGirls, ord.ShoeColorGirls, ord.ShoeColorBoys, ord.BowColor, ord.TrouserColor,
		ord.EmbroideryCount, string(dates), ord.DeliveryMode,
	)
	if err != nil {
		return order.Order{}, errors.Wrap(err, "inserting order")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return order.Order{}, errors.Wrap(err, "reading inserted order id")
	}
	ord.ID = int(id)
	return ord, nil
}

type detailRow struct {
	orderRow

	SchoolName  string      `db:"school_name"`
	SchoolCity  null.String `db:"school_city"`
	SchoolGrade null.String `db:"school_grade"`
	Contact     null.String `db:"contact"`
	Phone       null.String `db:"phone"`

	Address        null.String `db:"address"`
	Neighborhood   null.String `db:"neighborhood"`
	PostalCode     null.String `db:"postal_code"`
	State          null.String `db:"state"`
	ReferenceNotes null.String `db:"reference_notes"`

	DestName         null.String `db:"dest_name"`
	DestPhone        null.String `db:"dest_phone"`
	DestPostalCode   null.String `db:"dest_postal_code"`
	DestNeighborhood null.String `db:"dest_neighborhood"`
	DestAddress      null.String `db:"dest_address"`
	DestEmail        null.String `db:"dest_email"`

	CourierName null.String `db:"courier_name"`

	SchoolUserID  int      `db:"school_user_id"`
	SalespersonID null.Int `db:"salesperson_id"`
}

func (repo *orderRepository) GetOrderDetail(id int) (order.Detail, error) {
	q := `
		SELECT o.*,
			s.name AS school_name, s.city AS school_city, s.grade AS school_grade, s.contact, s.phone,
			s.address, s.neighborhood, s.postal_code, s.state, s.reference_notes,
			s.dest_name, s.dest_phone, s.dest_postal_code, s.dest_neighborhood, s.dest_address, s.dest_email,
			s.user_id AS school_user_id, s.salesperson_id,
			c.name AS courier_name
		FROM orders o
		JOIN schools s ON s.id = o.school_id
		LEFT JOIN couriers c ON c.id = o.courier_id
		WHERE o.id = ?`

	var row detailRow
	if err := repo.db.Get(&row, q, id); err != nil {
		if err == sql.ErrNoRows {
			return order.Detail{}, order.ErrNotFound
		}
		return order.Detail{}, errors.Wrap(err, "querying order detail")
	}
	return order.Detail{
		Order: row.orderRow.toCore(),

		SchoolName:  row.SchoolName,
		SchoolCity:  row.SchoolCity,
		SchoolGrade: row.SchoolGrade,
		Contact:     row.Contact,
		Phone:       row.Phone,

		Address:      row.Address,
		Neighborhood: row.Neighborhood,
		PostalCode:   row.PostalCode,
		State:        row.State,
		References:   row.ReferenceNotes,

		DestName:         row.DestName,
		DestPhone:        row.DestPhone,
		DestPostalCode:   row.DestPostalCode,
		DestNeighborhood: row.DestNeighborhood,
		DestAddress:      row.DestAddress,
		DestEmail:        row.DestEmail,

		CourierName: row.CourierName,

		SchoolUserID:  row.SchoolUserID,
		SalespersonID: row.SalespersonID,
	}, nil
}

type listRow struct {
	orderRow
	SchoolName  string      `db:"school_name"`
	SchoolCity  null.String `db:"school_city"`
	CourierName null.String `db:"courier_name"`
}

func (repo *orderRepository) queryOrders(q string, args ...interface{}) ([]order.Summary, error) {
	var rows []listRow
	if err := repo.db.Select(&rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying orders")
	}
	summaries := make([]order.Summary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, order.Summary{
			Order:       row.orderRow.toCore(),
			SchoolName:  row.SchoolName,
			SchoolCity:  row.SchoolCity,
			CourierName: row.CourierName,
		})
	}
	return summaries, nil
}

const orderListQuery = `
	SELECT o.*, s.name AS school_name, s.city AS school_city, c.name AS courier_name
	FROM orders o
	JOIN schools s ON s.id = o.school_id
	LEFT JOIN couriers c ON c.id = o.courier_id`

func (repo *orderRepository) QueryOrders() ([]order.Summary, error) {
	return repo.queryOrders(orderListQuery + ` ORDER BY o.created_at DESC`)
}

func (repo *orderRepository) QueryRecentOrders(limit int) ([]order.Summary, error) {
	return repo.queryOrders(orderListQuery+` ORDER BY o.created_at DESC LIMIT ?`, limit)
}

func (repo *orderRepository) QueryOrdersBySchool(schoolID int) ([]order.Summary, error) {
	return repo.queryOrders(orderListQuery+` WHERE o.school_id = ? ORDER BY o.created_at DESC`, schoolID)
}

func (repo *orderRepository) SetOrderStatus(id int, status string) error {
	_, err := repo.db.Exec(`UPDATE orders SET status = ? WHERE id = ?`, status, id)
	return errors.Wrap(err, "updating order status")
}

func (repo *orderRepository) SetOrderCourier(id int, courierID null.Int) error {
	_, err := repo.db.Exec(`UPDATE orders SET courier_id = ? WHERE id = ?`, courierID, id)
	return errors.Wrap(err, "updating order courier")
}

func (repo *orderRepository) CountOrders() (int, error) {
	var count int
	if err := repo.db.Get(&count, `SELECT COUNT(*) FROM orders`); err != nil {
		return 0, errors.Wrap(err, "counting orders")
	}
	return count, nil
}
