package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core"
)

var (
	nowFunc = time.Now // mockable

	// errors
	ErrEmailExists        = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type (
	Repository interface {
		CheckEmailUniqueness(email string) error
		CreateUser(user User) (User, error)
		GetUserByID(id int) (User, error)
		GetUserByEmail(email string) (User, error)
		SetLastLogin(id int, t time.Time) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(email string) error {
	if err := svc.repo.CheckEmailUniqueness(email); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewFieldError("email", ErrEmailExists)
		}
		return err
	}
	return nil
}

// Register creates an account from a validated NewUser.
func (svc *Service) Register(nu NewUser) (User, error) {
	if err := svc.checkUniqueness(nu.Email); err != nil {
		return User{}, err
	}
	usr := User{
		Name:      nu.Name,
		Email:     nu.Email,
		Role:      ParseRole(nu.Role),
		CreatedAt: nowFunc().UTC(),
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	usr, err := svc.repo.CreateUser(usr)
	return usr, errors.Wrap(err, "creating user")
}

// Authenticate checks the credentials and records the login.
// Any mismatch is reported as ErrInvalidCredentials.
func (svc *Service) Authenticate(cred Credentials) (User, error) {
	usr, err := svc.repo.GetUserByEmail(cred.Email)
	if err != nil {
		if errors.Cause(err) == core.ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, errors.Wrap(err, "getting user")
	}
	if err := usr.CheckPassword(cred.Password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	if cred.Role != "" && ParseRole(cred.Role) != usr.Role {
		return User{}, ErrInvalidCredentials
	}

	usr.LastLogin = nowFunc().UTC()
	if err := svc.repo.SetLastLogin(usr.ID, usr.LastLogin); err != nil {
		return User{}, errors.Wrap(err, "setting last login")
	}
	return usr, nil
}

func (svc *Service) GetByID(id int) (User, error) {
	usr, err := svc.repo.GetUserByID(id)
	return usr, errors.Wrap(err, "getting user")
}

func (svc *Service) GetByEmail(email string) (User, error) {
	usr, err := svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
	return usr, errors.Wrap(err, "getting user")
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
	return validate.Struct(nu)
}

func (cred *Credentials) Validate(validate *validator.Validate) error {
	cred.Email = core.CleanString(cred.Email, true /* lower */)
	cred.Role = core.CleanString(cred.Role, true /* lower */)
	return validate.Struct(cred)
}
