package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/pedidosgs/backend/core/school"
	"github.com/pedidosgs/backend/core/user"
)

type schoolRepository struct {
	db *sqlx.DB
}

var _ school.Repository = (*schoolRepository)(nil)

func NewSchoolRepository(db *sqlx.DB) *schoolRepository {
	return &schoolRepository{db: db}
}

type schoolRow struct {
	ID      int         `db:"id"`
	Name    string      `db:"name"`
	City    null.String `db:"city"`
	Grade   null.String `db:"grade"`
	Contact null.String `db:"contact"`
	Phone   null.String `db:"phone"`

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

	UserID        int      `db:"user_id"`
	SalespersonID null.Int `db:"salesperson_id"`
}

func (r schoolRow) toCore() school.School {
	return school.School{
		ID:      r.ID,
		Name:    r.Name,
		City:    r.City,
		Grade:   r.Grade,
		Contact: r.Contact,
		Phone:   r.Phone,

		Address:      r.Address,
		Neighborhood: r.Neighborhood,
		PostalCode:   r.PostalCode,
		State:        r.State,
		References:   r.ReferenceNotes,

		DestName:         r.DestName,
		DestPhone:        r.DestPhone,
		DestPostalCode:   r.DestPostalCode,
		DestNeighborhood: r.DestNeighborhood,
		DestAddress:      r.DestAddress,
		DestEmail:        r.DestEmail,

		UserID:        r.UserID,
		SalespersonID: r.SalespersonID,
	}
}

func (repo *schoolRepository) CreateSchool(sch school.School) (school.School, error) {
	res, err := repo.db.Exec(
		`INSERT INTO schools(name, user_id, salesperson_id) VALUES(?, ?, ?)`,
		sch.Name, sch.UserID, sch.SalespersonID,
	)
	if err != nil {
		return school.School{}, errors.Wrap(err, "inserting school")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return school.School{}, errors.Wrap(err, "reading inserted school id")
	}
	sch.ID = int(id)
	return sch, nil
}

func (repo *schoolRepository) getSchool(q string, args ...interface{}) (school.School, error) {
	var row schoolRow
	if err := repo.db.Get(&row, q, args...); err != nil {
		if err == sql.ErrNoRows {
			return school.School{}, school.ErrNotFound
		}
		return school.School{}, errors.Wrap(err, "querying school")
	}
	return row.toCore(), nil
}

func (repo *schoolRepository) GetSchoolByID(id int) (school.School, error) {
	return repo.getSchool(`SELECT * FROM schools WHERE id = ?`, id)
}

func (repo *schoolRepository) GetSchoolByUserID(userID int) (school.School, error) {
	return repo.getSchool(`SELECT * FROM schools WHERE user_id = ?`, userID)
}

type accountRow struct {
	userRow
	SchoolID   null.Int    `db:"school_id"`
	SchoolName null.String `db:"school_name"`
	City       null.String `db:"city"`
}

func (repo *schoolRepository) QueryAccounts(isActive *bool) ([]school.Account, error) {
	q := `
		SELECT u.*, s.id AS school_id, s.name AS school_name, s.city AS city
		FROM users u
		LEFT JOIN schools s ON s.user_id = u.id
		WHERE u.role = ?`
	args := []interface{}{user.RoleSchool}
	if isActive != nil {
		q += ` AND u.is_active = ?`
		args = append(args, *isActive)
	}
	q += ` ORDER BY u.id DESC`

	var rows []accountRow
	if err := repo.db.Select(&rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying school accounts")
	}
	accounts := make([]school.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, school.Account{
			User:       row.userRow.toCore(),
			SchoolID:   row.SchoolID,
			SchoolName: row.SchoolName,
			City:       row.City,
		})
	}
	return accounts, nil
}

type summaryRow struct {
	schoolRow
	OrdersCount int `db:"orders_count"`
}

func (repo *schoolRepository) QuerySchoolsBySalesperson(salespersonID int) ([]school.Summary, error) {
	q := `
		SELECT s.*, (SELECT COUNT(1) FROM orders o WHERE o.school_id = s.id) AS orders_count
		FROM schools s
		WHERE s.salesperson_id = ?
		ORDER BY s.name`

	var rows []summaryRow
	if err := repo.db.Select(&rows, q, salespersonID); err != nil {
		return nil, errors.Wrap(err, "querying schools by salesperson")
	}
	summaries := make([]school.Summary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, school.Summary{School: row.schoolRow.toCore(), OrdersCount: row.OrdersCount})
	}
	return summaries, nil
}

func (repo *schoolRepository) UpdateSchoolProfile(userID int, up school.UpdateProfile) error {
	res, err := repo.db.Exec(
		`UPDATE schools SET
			name = ?, city = ?, grade = ?, contact = ?, phone = ?,
			address = ?, neighborhood = ?, postal_code = ?, state = ?, reference_notes = ?,
			dest_name = ?, dest_phone = ?, dest_postal_code = ?, dest_neighborhood = ?, dest_address = ?, dest_email = ?
		 WHERE user_id = ?`,
		up.Name, up.City, up.Grade, up.Contact, up.Phone,
		up.Address, up.Neighborhood, up.PostalCode, up.State, up.References,
		up.DestName, up.DestPhone, up.DestPostalCode, up.DestNeighborhood, up.DestAddress, up.DestEmail,
		userID,
	)
	if err != nil {
		return errors.Wrap(err, "updating school profile")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return school.ErrNotFound
	}
	return nil
}

func (repo *schoolRepository) UpdateSchoolContact(id int, name, city, contact, phone string) error {
	_, err := repo.db.Exec(
		`UPDATE schools SET name = ?, city = ?, contact = ?, phone = ? WHERE id = ?`,
		name, city, contact, phone, id,
	)
	return errors.Wrap(err, "updating school contact")
}

func (repo *schoolRepository) SetSchoolSalesperson(id int, salespersonID null.Int) error {
	_, err := repo.db.Exec(`UPDATE schools SET salesperson_id = ? WHERE id = ?`, salespersonID, id)
	return errors.Wrap(err, "updating school salesperson")
}

func (repo *schoolRepository) CountSchools() (int, error) {
	var count int
	if err := repo.db.Get(&count, `SELECT COUNT(*) FROM schools`); err != nil {
		return 0, errors.Wrap(err, "counting schools")
	}
	return count, nil
}
