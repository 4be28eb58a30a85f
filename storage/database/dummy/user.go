package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/lms/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

// withDepartment fills the department name in; expects a lock to be held.
func (repo *userRepository) withDepartment(usr user.User) user.User {
	usr.Department = ""
	if usr.Subject == "" {
		return usr
	}
	for _, dept := range repo.db.departments {
		if dept.Subject == usr.Subject {
			usr.Department = dept.Name
			break
		}
	}
	return usr
}

func (repo *userRepository) GetUser(ctx context.Context, uid string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if usr, ok := repo.db.users[uid]; ok {
		return repo.withDepartment(usr), nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UIDExists(ctx context.Context, uid string) (bool, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	_, ok := repo.db.users[uid]
	return ok, nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	defer repo.db.writeLock(false)()

	if _, ok := repo.db.users[usr.UID]; ok {
		return user.User{}, errUniqueViolation
	}
	if usr.Role == user.RoleAdministrator {
		usr.Subject = ""
	} else {
		found := false
		for _, dept := range repo.db.departments {
			if dept.Subject == usr.Subject {
				found = true
				break
			}
		}
		if !found {
			return user.User{}, user.ErrDepartmentNotFound
		}
	}
	repo.db.users[usr.UID] = usr
	return repo.withDepartment(usr), nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	defer repo.db.writeLock(false)()

	stored, ok := repo.db.users[usr.UID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	stored.FirstName = usr.FirstName
	stored.LastName = usr.LastName
	stored.PasswordHash = usr.PasswordHash
	stored.LastLogin = usr.LastLogin
	repo.db.users[usr.UID] = stored
	return repo.withDepartment(stored), nil
}

func (repo *userRepository) QueryProfessors(ctx context.Context, subject string) ([]user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	profs := make([]user.User, 0)
	for _, usr := range repo.db.users {
		if usr.Role == user.RoleProfessor && usr.Subject == subject {
			profs = append(profs, repo.withDepartment(usr))
		}
	}
	sort.Slice(profs, func(i, j int) bool { return profs[i].UID < profs[j].UID })
	return profs, nil
}
