package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/pedidosgs/backend/core"
	"github.com/pedidosgs/backend/core/order"
	"github.com/pedidosgs/backend/core/user"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash BLOB NOT NULL,
	role TEXT NOT NULL,
	is_active INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS schools (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL DEFAULT '',
	city TEXT,
	grade TEXT,
	contact TEXT,
	phone TEXT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	salesperson_id INTEGER REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS couriers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	school_id INTEGER NOT NULL REFERENCES schools(id) ON DELETE CASCADE,
	city TEXT,
	grade TEXT,
	girls_json TEXT,
	boys_json TEXT,
	comment TEXT,
	status TEXT NOT NULL DEFAULT 'New',
	courier_id INTEGER REFERENCES couriers(id),
	created_at TEXT NOT NULL
);
`

const resetTableSchema = `
CREATE TABLE IF NOT EXISTS password_resets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	token TEXT NOT NULL UNIQUE,
	expires_at TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`

type column struct {
	name  string
	ctype string
}

// Additive-only migrations: profile and package-destination fields on
// schools, garment/delivery fields on orders. Columns are only ever added,
// never dropped or renamed; existing rows keep NULL in new columns.
var (
	schoolColumns = []column{
		{"address", "TEXT"},
		{"neighborhood", "TEXT"},
		{"postal_code", "TEXT"},
		{"state", "TEXT"},
		{"reference_notes", "TEXT"},
		{"dest_name", "TEXT"},
		{"dest_phone", "TEXT"},
		{"dest_postal_code", "TEXT"},
		{"dest_neighborhood", "TEXT"},
		{"dest_address", "TEXT"},
		{"dest_email", "TEXT"},
	}

	orderColumns = []column{
		{"sock_color_girls", "TEXT"},
		{"shoe_color_girls", "TEXT"},
		{"shoe_color_boys", "TEXT"},
		{"bow_color", "TEXT"},
		{"trouser_color", "TEXT"},
		{"embroidery_count", "INTEGER"},
		{"delivery_dates", "TEXT"}, // JSON list
		{"delivery_mode", "TEXT"},  // pickup | home-delivery
	}
)

// EnsureInitialized creates the schema on first run (plus demo seed data)
// and applies additive column migrations on every run. Safe to run
// repeatedly.
func EnsureInitialized(db *sqlx.DB, log core.Logger) error {
	if _, err := db.Exec(schema); err != nil {
		return errors.Wrap(err, "creating tables")
	}

	if err := migrateColumns(db, "schools", schoolColumns); err != nil {
		return err
	}
	if err := migrateColumns(db, "orders", orderColumns); err != nil {
		return err
	}

	// non-critical: the table usually exists already
	if _, err := db.Exec(resetTableSchema); err != nil {
		log.Warn("ensuring password_resets table", err)
	}

	var users int
	if err := db.Get(&users, `SELECT COUNT(*) FROM users`); err != nil {
		return errors.Wrap(err, "counting users")
	}
	if users == 0 {
		if err := seed(db); err != nil {
			return errors.Wrap(err, "seeding demo data")
		}
	}
	return nil
}

func migrateColumns(db *sqlx.DB, table string, cols []column) error {
	for _, col := range cols {
		has, err := tableHasColumn(db, table, col.name)
		if err != nil {
			return err
		}
		if has {
			continue
		}
		q := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, col.name, col.ctype)
		if _, err = db.Exec(q); err != nil {
			return errors.Wrapf(err, "adding column %s.%s", table, col.name)
		}
	}
	return nil
}

func tableHasColumn(db *sqlx.DB, table, name string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, errors.Wrapf(err, "inspecting table %s", table)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			cid        int
			colName    string
			ctype      string
			notNull    int
			dfltValue  interface{}
			primaryKey int
		)
		if err = rows.Scan(&cid, &colName, &ctype, &notNull, &dfltValue, &primaryKey); err != nil {
			return false, errors.Wrapf(err, "inspecting table %s", table)
		}
		if colName == name {
			return true, nil
		}
	}
	return false, errors.Wrapf(rows.Err(), "inspecting table %s", table)
}

// seed populates one demo account of each role, two couriers and a sample
// order so a fresh install is immediately usable.
func seed(db *sqlx.DB) error {
	userRepo := NewUserRepository(db)
	now := time.Now().UTC()

	newUser := func(name, email, role, pwd string) (user.User, error) {
		usr := user.User{Name: name, Email: email, Role: role, IsActive: true, CreatedAt: now}
		if err := usr.SetPassword(pwd); err != nil {
			return user.User{}, err
		}
		return userRepo.CreateUser(usr)
	}

	if _, err := newUser("Admin", "admin@demo.local", user.RoleAdmin, "admin123"); err != nil {
		return err
	}
	sales, err := newUser("Demo Salesperson", "salesperson@demo.local", user.RoleSalesperson, "demo123")
	if err != nil {
		return err
	}
	schoolUsr, err := newUser("Demo School", "school@demo.local", user.RoleSchool, "demo123")
	if err != nil {
		return err
	}

	res, err := db.Exec(`INSERT INTO couriers(name, active) VALUES(?, 1)`, "Estafeta")
	if err != nil {
		return err
	}
	courierID, _ := res.LastInsertId()
	if _, err = db.Exec(`INSERT INTO couriers(name, active) VALUES(?, 1)`, "DHL"); err != nil {
		return err
	}

	res, err = db.Exec(
		`INSERT INTO schools(name, city, grade, contact, phone, state, user_id, salesperson_id)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		"Colegio Benito Juárez", "Guadalajara", "Elementary", "Mtra. López", "3312345678", "Jalisco",
		schoolUsr.ID, sales.ID,
	)
	if err != nil {
		return err
	}
	schoolID, _ := res.LastInsertId()

	girls, _ := json.Marshal([]order.RosterEntry{{Name: "Ana", HairColor: "Brown"}})
	boys, _ := json.Marshal([]order.RosterEntry{{Name: "Leo", HairColor: "Brown"}})
	dates, _ := json.Marshal([]string{"2026-05-25", "2026-06-15"})
	_, err = db.Exec(
		`INSERT INTO orders(
			school_id, city, grade, girls_json, boys_json, comment, status, courier_id, created_at,
			sock_color_girls, shoe_color_girls, shoe_color_boys, bow_color, trouser_color,
			embroidery_count, delivery_dates, delivery_mode)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		schoolID, "Guadalajara", "Elementary", string(girls), string(boys), "Sample order",
		order.StatusNew, courierID, now.Format(time.RFC3339),
		"White", "Black", "Black", "Navy", "Navy", 5, string(dates), order.DeliveryPickup,
	)
	return err
}
