package dummydb

import (
	"sort"

	"github.com/pedidosgs/backend/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckEmailUniqueness(email string, excludedUsers ...user.User) error {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	excluded := make(map[int]bool, len(excludedUsers))
	for _, usr := range excludedUsers {
		excluded[usr.ID] = true
	}
	for _, usr := range repo.db.users {
		if usr.Email == email && !excluded[usr.ID] {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.userPK++
	usr.ID = repo.db.userPK
	repo.db.users[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUserByID(id int) (user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if usr, ok := repo.db.users[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, usr := range repo.db.users {
		if usr.Email == email {
			return *usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) QueryUsersByRole(role string, isActive *bool) ([]user.User, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	users := make([]user.User, 0)
	for _, usr := range repo.db.users {
		if usr.Role != role {
			continue
		}
		if isActive != nil && usr.IsActive != *isActive {
			continue
		}
		users = append(users, *usr)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	return users, nil
}

func (repo *userRepository) CountUsersByRole(role string) (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	var count int
	for _, usr := range repo.db.users {
		if usr.Role == role {
			count++
		}
	}
	return count, nil
}

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	curr, ok := repo.db.users[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	if isActive != nil {
		usr.IsActive = *isActive
	} else {
		usr.IsActive = curr.IsActive
	}
	if usr.PasswordHash == nil {
		usr.PasswordHash = curr.PasswordHash
	}
	repo.db.users[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) SetUserPassword(id int, hash []byte) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	usr, ok := repo.db.users[id]
	if !ok {
		return user.ErrNotFound
	}
	usr.PasswordHash = hash
	return nil
}

func (repo *userRepository) DeleteUsersByID(ids ...int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, id := range ids {
		delete(repo.db.users, id)
		// cascade: owned schools and their orders
		for sid, sch := range repo.db.schools {
			if sch.UserID != id {
				continue
			}
			delete(repo.db.schools, sid)
			for oid, ord := range repo.db.orders {
				if ord.SchoolID == sid {
					delete(repo.db.orders, oid)
				}
			}
		}
		for tid, tok := range repo.db.resets {
			if tok.UserID == id {
				delete(repo.db.resets, tid)
			}
		}
	}
	return nil
}

func (repo *userRepository) CreateResetToken(tok user.ResetToken) (user.ResetToken, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.resetPK++
	tok.ID = repo.db.resetPK
	repo.db.resets[tok.ID] = &tok
	return tok, nil
}

func (repo *userRepository) GetResetToken(token string) (user.ResetToken, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, tok := range repo.db.resets {
		if tok.Token == token {
			return *tok, nil
		}
	}
	return user.ResetToken{}, user.ErrNotFound
}

func (repo *userRepository) DeleteResetToken(id int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	delete(repo.db.resets, id)
	return nil
}
