package inmemdb

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/user"
)

// Demo accounts
const (
	DemoTeacherEmail = "teacher@edutracker.com"
	DemoStudentEmail = "sarah.johnson@school.edu"
	DemoPassword     = "Tr4cker#Demo"
)

func seedUsers(tbl *userTable) error {
	created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	accounts := []user.User{
		{Name: "Prof. Smith", Email: DemoTeacherEmail, Role: user.RoleTeacher, CreatedAt: created},
		{Name: "Sarah Johnson", Email: DemoStudentEmail, Role: user.RoleStudent, StudentID: 1, CreatedAt: created},
	}
	for _, usr := range accounts {
		usr := usr
		if err := usr.SetPassword(DemoPassword); err != nil {
			return err
		}
		tbl.pk++
		usr.ID = tbl.pk
		tbl.table[usr.ID] = &usr
	}
	return nil
}

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) CheckEmailUniqueness(email string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.db.table {
		if usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pk++
	usr.ID = repo.db.pk
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUserByID(id int) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if usr, ok := repo.db.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, errors.Wrapf(core.ErrNotFound, "user %d", id)
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, usr := range repo.db.table {
		if usr.Email == email {
			return *usr, nil
		}
	}
	return user.User{}, errors.Wrapf(core.ErrNotFound, "user %q", email)
}

func (repo *userRepository) SetLastLogin(id int, t time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	usr, ok := repo.db.table[id]
	if !ok {
		return errors.Wrapf(core.ErrNotFound, "user %d", id)
	}
	usr.LastLogin = t
	return nil
}
