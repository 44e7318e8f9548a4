package database

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedidosgs/backend/core/user"
)

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	// each sqlite connection would get its own in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestEnsureInitialized(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, EnsureInitialized(db, nopLogger{}))

	t.Run("seeds demo data on first run", func(t *testing.T) {
		var users, couriers, orders int
		require.NoError(t, db.Get(&users, `SELECT COUNT(*) FROM users`))
		require.NoError(t, db.Get(&couriers, `SELECT COUNT(*) FROM couriers`))
		require.NoError(t, db.Get(&orders, `SELECT COUNT(*) FROM orders`))
		assert.Equal(t, 3, users)
		assert.Equal(t, 2, couriers)
		assert.Equal(t, 1, orders)

		usr, err := NewUserRepository(db).GetUserByEmail("admin@demo.local")
		require.NoError(t, err)
		assert.Equal(t, user.RoleAdmin, usr.Role)
		assert.True(t, usr.IsActive)
		assert.NoError(t, usr.CheckPassword("admin123"))
	})

	t.Run("is idempotent", func(t *testing.T) {
		require.NoError(t, EnsureInitialized(db, nopLogger{}))
		require.NoError(t, EnsureInitialized(db, nopLogger{}))

		var users int
		require.NoError(t, db.Get(&users, `SELECT COUNT(*) FROM users`))
		assert.Equal(t, 3, users, "seed must not run again")
	})
}

// Older databases predate the profile and garment columns; initialization
// must add them without touching existing rows.
func TestEnsureInitialized_migratesLegacySchema(t *testing.T) {
	db := openTestDB(t)

	legacy := `
	CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash BLOB NOT NULL,
		role TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE TABLE schools (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL DEFAULT '',
		city TEXT,
		grade TEXT,
		contact TEXT,
		phone TEXT,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		salesperson_id INTEGER REFERENCES users(id)
	);
	CREATE TABLE couriers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1
	);
	CREATE TABLE orders (
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
	INSERT INTO users(name, email, password_hash, role, is_active, created_at)
		VALUES('Old School', 'old@school.test', X'00', 'school', 1, '2024-01-01T00:00:00Z');
	INSERT INTO schools(name, user_id) VALUES('Old School', 1);
	INSERT INTO orders(school_id, status, created_at) VALUES(1, 'Shipped', '2024-02-01T00:00:00Z');
	`
	_, err := db.Exec(legacy)
	require.NoError(t, err)

	require.NoError(t, EnsureInitialized(db, nopLogger{}))

	for _, col := range schoolColumns {
		has, err := tableHasColumn(db, "schools", col.name)
		require.NoError(t, err)
		assert.True(t, has, "schools.%s", col.name)
	}
	for _, col := range orderColumns {
		has, err := tableHasColumn(db, "orders", col.name)
		require.NoError(t, err)
		assert.True(t, has, "orders.%s", col.name)
	}

	// existing rows survive with NULLs in the added columns
	d, err := NewOrderRepository(db).GetOrderDetail(1)
	require.NoError(t, err)
	assert.Equal(t, "Shipped", d.Status)
	assert.Empty(t, d.Girls)
	assert.False(t, d.SockColorGirls.Valid)
	assert.Equal(t, 0, d.EmbroideryCount)

	// existing users suppress the demo seed
	var users int
	require.NoError(t, db.Get(&users, `SELECT COUNT(*) FROM users`))
	assert.Equal(t, 1, users)
}
