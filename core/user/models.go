package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/edutracker/core"
)

type Role string

// Roles
const (
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// RoleOption is a role choice on the login and register forms.
type RoleOption struct {
	Name  string
	Value Role
}

var Roles = []RoleOption{
	{Name: "Teacher", Value: RoleTeacher},
	{Name: "Student", Value: RoleStudent},
}

// ParseRole defaults to RoleTeacher.
func ParseRole(s string) Role {
	if Role(core.CleanString(s, true /* lower */)) == RoleStudent {
		return RoleStudent
	}
	return RoleTeacher
}

type User struct {
	ID           int
	Name         string
	Email        string
	Role         Role
	StudentID    int // set on student accounts
	PasswordHash []byte
	CreatedAt    time.Time // UTC
	LastLogin    time.Time // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }

func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// NewUser is the registration form.
type NewUser struct {
	Name            string `form:"name" validate:"notblank"`
	Email           string `form:"email" validate:"required,email"`
	Role            string `form:"role" validate:"required,oneof=teacher student"`
	Password        string `form:"password" validate:"required"`
	PasswordConfirm string `form:"passwordConfirm" validate:"required,eqfield=Password"`
}

// Credentials is the login form.
type Credentials struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Role     string `form:"role"`
}
