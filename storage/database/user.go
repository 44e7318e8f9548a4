package database

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/pedidosgs/backend/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

type userRow struct {
	ID           int    `db:"id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	PasswordHash []byte `db:"password_hash"`
	Role         string `db:"role"`
	IsActive     bool   `db:"is_active"`
	CreatedAt    string `db:"created_at"`
}

func (r userRow) toCore() user.User {
	createdAt, _ := time.Parse(time.RFC3339, r.CreatedAt)
	return user.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Role:         r.Role,
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash,
		CreatedAt:    createdAt,
	}
}

func (repo *userRepository) CheckEmailUniqueness(email string, excludedUsers ...user.User) error {
	q := `SELECT COUNT(*) FROM users WHERE email = ?`
	args := []interface{}{email}
	if len(excludedUsers) > 0 {
		ids := make([]int, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			ids = append(ids, usr.ID)
		}
		var err error
		q, args, err = sqlx.In(`SELECT COUNT(*) FROM users WHERE email = ? AND id NOT IN (?)`, email, ids)
		if err != nil {
			return errors.Wrap(err, "building uniqueness query")
		}
	}

	var count int
	if err := repo.db.Get(&count, q, args...); err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if count > 0 {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	res, err := repo.db.Exec(
		`INSERT INTO users(name, email, password_hash, role, is_active, created_at) VALUES(?, ?, ?, ?, ?, ?)`,
		usr.Name, usr.Email, usr.PasswordHash, usr.Role, usr.IsActive, usr.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return user.User{}, errors.Wrap(err, "reading inserted user id")
	}
	usr.ID = int(id)
	return usr, nil
}

func (repo *userRepository) getUser(q string, args ...interface{}) (user.User, error) {
	var row userRow
	if err := repo.db.Get(&row, q, args...); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "querying user")
	}
	return row.toCore(), nil
}

func (repo *userRepository) GetUserByID(id int) (user.User, error) {
	return repo.getUser(`SELECT * FROM users WHERE id = ?`, id)
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	return repo.getUser(`SELECT * FROM users WHERE email = ?`, email)
}

func (repo *userRepository) QueryUsersByRole(role string, isActive *bool) ([]user.User, error) {
	q := `SELECT * FROM users WHERE role = ?`
	args := []interface{}{role}
	if isActive != nil {
		q += ` AND is_active = ?`
		args = append(args, *isActive)
	}
	q += ` ORDER BY id DESC`

	var rows []userRow
	if err := repo.db.Select(&rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "querying users by role")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toCore())
	}
	return users, nil
}

func (repo *userRepository) CountUsersByRole(role string) (int, error) {
	var count int
	if err := repo.db.Get(&count, `SELECT COUNT(*) FROM users WHERE role = ?`, role); err != nil {
		return 0, errors.Wrap(err, "counting users by role")
	}
	return count, nil
}

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	active := usr.IsActive
	if isActive != nil {
		active = *isActive
	}
	_, err := repo.db.Exec(
		`UPDATE users SET name = ?, email = ?, role = ?, is_active = ? WHERE id = ?`,
		usr.Name, usr.Email, usr.Role, active, usr.ID,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	usr.IsActive = active
	return usr, nil
}

func (repo *userRepository) SetUserPassword(id int, hash []byte) error {
	_, err := repo.db.Exec(`UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
	return errors.Wrap(err, "updating password hash")
}

func (repo *userRepository) DeleteUsersByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "building delete query")
	}
	_, err = repo.db.Exec(q, args...)
	return errors.Wrap(err, "deleting users")
}

// password-reset tokens

type resetRow struct {
	ID        int    `db:"id"`
	UserID    int    `db:"user_id"`
	Token     string `db:"token"`
	ExpiresAt string `db:"expires_at"`
	CreatedAt string `db:"created_at"`
}

func (r resetRow) toCore() user.ResetToken {
	expiresAt, _ := time.Parse(time.RFC3339, r.ExpiresAt)
	createdAt, _ := time.Parse(time.RFC3339, r.CreatedAt)
	return user.ResetToken{
		ID:        r.ID,
		UserID:    r.UserID,
		Token:     r.Token,
		ExpiresAt: expiresAt,
		CreatedAt: createdAt,
	}
}

func (repo *userRepository) CreateResetToken(tok user.ResetToken) (user.ResetToken, error) {
	res, err := repo.db.Exec(
		`INSERT INTO password_resets(user_id, token, expires_at, created_at) VALUES(?, ?, ?, ?)`,
		tok.UserID, tok.Token, tok.ExpiresAt.Format(time.RFC3339), tok.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return user.ResetToken{}, errors.Wrap(err, "inserting reset token")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return user.ResetToken{}, errors.Wrap(err, "reading inserted token id")
	}
	tok.ID = int(id)
	return tok, nil
}

func (repo *userRepository) GetResetToken(token string) (user.ResetToken, error) {
	var row resetRow
	if err := repo.db.Get(&row, `SELECT * FROM password_resets WHERE token = ?`, token); err != nil {
		if err == sql.ErrNoRows {
			return user.ResetToken{}, user.ErrNotFound
		}
		return user.ResetToken{}, errors.Wrap(err, "querying reset token")
	}
	return row.toCore(), nil
}

func (repo *userRepository) DeleteResetToken(id int) error {
	_, err := repo.db.Exec(`DELETE FROM password_resets WHERE id = ?`, id)
	return errors.Wrap(err, "deleting reset token")
}
