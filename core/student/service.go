package student

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core"
)

type (
	Repository interface {
		GetRecord(studentID int) (Record, error)
		GetProfile(studentID int) (Profile, error)
		UpdatePersonal(studentID int, p Personal) (Profile, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetProfileView returns a student's record as a teacher sees it, on the given tab.
func (svc *Service) GetProfileView(studentID int, tab string) (ProfileView, error) {
	rec, err := svc.repo.GetRecord(studentID)
	if err != nil {
		return ProfileView{}, errors.Wrap(err, "getting student record")
	}
	return ProfileView{Record: rec, Tab: cleanTab(tab, ViewTabs), Tabs: ViewTabs}, nil
}

// GetProfilePage returns a student's own profile page.
func (svc *Service) GetProfilePage(studentID int, tab string, editing bool) (ProfilePage, error) {
	p, err := svc.repo.GetProfile(studentID)
	if err != nil {
		return ProfilePage{}, errors.Wrap(err, "getting profile")
	}
	if editing {
		tab = TabPersonal
	}
	return ProfilePage{
		Profile: p,
		Tab:     cleanTab(tab, ProfileTabs),
		Tabs:    ProfileTabs,
		Editing: editing,
		Form:    UpdateFrom(p.Personal),
	}, nil
}

// UpdateProfile saves a validated ProfileUpdate.
func (svc *Service) UpdateProfile(studentID int, pu ProfileUpdate) (Profile, error) {
	p, err := svc.repo.GetProfile(studentID)
	if err != nil {
		return Profile{}, errors.Wrap(err, "getting profile")
	}

	personal := p.Personal
	personal.FirstName = pu.FirstName
	personal.LastName = pu.LastName
	personal.Email = pu.Email
	personal.Phone = pu.Phone
	personal.Address = pu.Address
	personal.EmergencyContact = pu.EmergencyContact
	personal.DateOfBirth = time.Time{}
	if pu.DateOfBirth != "" {
		if personal.DateOfBirth, err = time.Parse(core.DateLayout, pu.DateOfBirth); err != nil {
			return Profile{}, errors.Wrap(err, "parsing date of birth")
		}
	}

	p, err = svc.repo.UpdatePersonal(studentID, personal)
	return p, errors.Wrap(err, "updating profile")
}

func (pu *ProfileUpdate) Validate(validate *validator.Validate) error {
	pu.FirstName = core.CleanString(pu.FirstName)
	pu.LastName = core.CleanString(pu.LastName)
	pu.Email = core.CleanString(pu.Email, true /* lower */)
	pu.Phone = core.CleanString(pu.Phone)
	pu.DateOfBirth = core.CleanString(pu.DateOfBirth)
	pu.Address = core.CleanString(pu.Address)
	pu.EmergencyContact = core.CleanString(pu.EmergencyContact)
	return validate.Struct(pu)
}
