package dummydb

import (
	"sort"

	"github.com/volatiletech/null/v8"

	"github.com/pedidosgs/backend/core/school"
	"github.com/pedidosgs/backend/core/user"
)

type schoolRepository struct {
	db *DB
}

var _ school.Repository = (*schoolRepository)(nil)

func NewSchoolRepository(db *DB) *schoolRepository {
	return &schoolRepository{db: db}
}

func (repo *schoolRepository) CreateSchool(sch school.School) (school.School, error) {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	repo.db.schoolPK++
	sch.ID = repo.db.schoolPK
	repo.db.schools[sch.ID] = &sch
	return sch, nil
}

func (repo *schoolRepository) GetSchoolByID(id int) (school.School, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	if sch, ok := repo.db.schools[id]; ok {
		return *sch, nil
	}
	return school.School{}, school.ErrNotFound
}

func (repo *schoolRepository) GetSchoolByUserID(userID int) (school.School, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, sch := range repo.db.schools {
		if sch.UserID == userID {
			return *sch, nil
		}
	}
	return school.School{}, school.ErrNotFound
}

func (repo *schoolRepository) QueryAccounts(isActive *bool) ([]school.Account, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	accounts := make([]school.Account, 0)
	for _, usr := range repo.db.users {
		if usr.Role != user.RoleSchool {
			continue
		}
		if isActive != nil && usr.IsActive != *isActive {
			continue
		}
		acc := school.Account{User: *usr}
		for _, sch := range repo.db.schools {
			if sch.UserID == usr.ID {
				acc.SchoolID = null.IntFrom(sch.ID)
				acc.SchoolName = null.StringFrom(sch.Name)
				acc.City = sch.City
				break
			}
		}
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].User.ID > accounts[j].User.ID })
	return accounts, nil
}

func (repo *schoolRepository) QuerySchoolsBySalesperson(salespersonID int) ([]school.Summary, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	summaries := make([]school.Summary, 0)
	for _, sch := range repo.db.schools {
		if !sch.SalespersonID.Valid || sch.SalespersonID.Int != salespersonID {
			continue
		}
		var count int
		for _, ord := range repo.db.orders {
			if ord.SchoolID == sch.ID {
				count++
			}
		}
		summaries = append(summaries, school.Summary{School: *sch, OrdersCount: count})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}

func (repo *schoolRepository) UpdateSchoolProfile(userID int, up school.UpdateProfile) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	for _, sch := range repo.db.schools {
		if sch.UserID != userID {
			continue
		}
		sch.Name = up.Name
		sch.City = null.StringFrom(up.City)
		sch.Grade = null.StringFrom(up.Grade)
		sch.Contact = null.StringFrom(up.Contact)
		sch.Phone = null.StringFrom(up.Phone)
		sch.Address = null.StringFrom(up.Address)
		sch.Neighborhood = null.StringFrom(up.Neighborhood)
		sch.PostalCode = null.StringFrom(up.PostalCode)
		sch.State = null.StringFrom(up.State)
		sch.References = null.StringFrom(up.References)
		sch.DestName = null.StringFrom(up.DestName)
		sch.DestPhone = null.StringFrom(up.DestPhone)
		sch.DestPostalCode = null.StringFrom(up.DestPostalCode)
		sch.DestNeighborhood = null.StringFrom(up.DestNeighborhood)
		sch.DestAddress = null.StringFrom(up.DestAddress)
		sch.DestEmail = null.StringFrom(up.DestEmail)
		return nil
	}
	return school.ErrNotFound
}

func (repo *schoolRepository) UpdateSchoolContact(id int, name, city, contact, phone string) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	sch, ok := repo.db.schools[id]
	if !ok {
		return school.ErrNotFound
	}
	sch.Name = name
	sch.City = null.StringFrom(city)
	sch.Contact = null.StringFrom(contact)
	sch.Phone = null.StringFrom(phone)
	return nil
}

func (repo *schoolRepository) SetSchoolSalesperson(id int, salespersonID null.Int) error {
	repo.db.mu.Lock()
	defer repo.db.mu.Unlock()

	sch, ok := repo.db.schools[id]
	if !ok {
		return school.ErrNotFound
	}
	sch.SalespersonID = salespersonID
	return nil
}

func (repo *schoolRepository) CountSchools() (int, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	return len(repo.db.schools), nil
}
