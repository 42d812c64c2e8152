package user_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/user"
	inmemdb "github.com/trezcool/edutracker/storage/database/inmem"
	"github.com/trezcool/edutracker/tests"
)

func setup(t *testing.T) (*user.Service, user.Repository) {
	repo := inmemdb.NewUserRepository(testutil.OpenDB(t))
	return user.NewService(repo), repo
}

func TestNewUser_Validate(t *testing.T) {
	validate, translator := testutil.NewValidator()

	tests := []struct {
		name      string
		nu        user.NewUser
		wantField string
		wantMsg   string
	}{
		{
			name: "valid",
			nu:   user.NewUser{Name: " Jane Doe ", Email: " Jane@School.edu", Role: "Student", Password: "Bl4ck&Wh1te", PasswordConfirm: "Bl4ck&Wh1te"},
		},
		{
			name:      "blank name",
			nu:        user.NewUser{Name: "  ", Email: "jane@school.edu", Role: "student", Password: "Bl4ck&Wh1te", PasswordConfirm: "Bl4ck&Wh1te"},
			wantField: "name",
			wantMsg:   "this field cannot be blank",
		},
		{
			name:      "unknown role",
			nu:        user.NewUser{Name: "Jane", Email: "jane@school.edu", Role: "admin", Password: "Bl4ck&Wh1te", PasswordConfirm: "Bl4ck&Wh1te"},
			wantField: "role",
		},
		{
			name:      "passwords differ",
			nu:        user.NewUser{Name: "Jane", Email: "jane@school.edu", Role: "teacher", Password: "Bl4ck&Wh1te", PasswordConfirm: "Bl4ck&Wh1t3"},
			wantField: "passwordConfirm",
		},
		{
			name:      "too short",
			nu:        user.NewUser{Name: "Jane", Email: "jane@school.edu", Role: "teacher", Password: "Ab1!", PasswordConfirm: "Ab1!"},
			wantField: "password",
			wantMsg:   "password must contain at least 8 characters",
		},
		{
			name:      "whitespace",
			nu:        user.NewUser{Name: "Jane", Email: "jane@school.edu", Role: "teacher", Password: "Bl4ck Wh1te!", PasswordConfirm: "Bl4ck Wh1te!"},
			wantField: "password",
			wantMsg:   "password must not contain whitespace",
		},
		{
			name:      "all numeric",
			nu:        user.NewUser{Name: "Jane", Email: "jane@school.edu", Role: "teacher", Password: "20242025", PasswordConfirm: "20242025"},
			wantField: "password",
			wantMsg:   "password cannot be entirely numeric",
		},
		{
			name:      "not complex",
			nu:        user.NewUser{Name: "Jane", Email: "jane@school.edu", Role: "teacher", Password: "blackwhite1", PasswordConfirm: "blackwhite1"},
			wantField: "password",
		},
		{
			name:      "similar to name",
			nu:        user.NewUser{Name: "Janedoe12", Email: "jane@school.edu", Role: "teacher", Password: "Janedoe12!", PasswordConfirm: "Janedoe12!"},
			wantField: "password",
			wantMsg:   "password cannot be similar to user attributes",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := tt.nu
			err := nu.Validate(validate)
			if tt.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, "Jane Doe", nu.Name)
				assert.Equal(t, "jane@school.edu", nu.Email)
				assert.Equal(t, "student", nu.Role)
				return
			}
			fields, ok := core.FieldErrors(err, translator)
			require.True(t, ok, "want validation errors, got %v", err)
			assert.Contains(t, fields, tt.wantField)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, fields[tt.wantField])
			}
		})
	}
}

func TestService_Register(t *testing.T) {
	svc, _ := setup(t)

	usr, err := svc.Register(user.NewUser{Name: "Jane Doe", Email: "jane@school.edu", Role: "student", Password: "Bl4ck&Wh1te"})
	require.NoError(t, err)
	assert.Equal(t, 3, usr.ID) // after the demo accounts
	assert.Equal(t, user.RoleStudent, usr.Role)
	assert.NoError(t, usr.CheckPassword("Bl4ck&Wh1te"))
	assert.False(t, usr.CreatedAt.IsZero())

	got, err := svc.GetByEmail(" JANE@school.edu ")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	_, err = svc.Register(user.NewUser{Name: "Jane Bis", Email: "jane@school.edu", Role: "teacher", Password: "Bl4ck&Wh1te"})
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	require.True(t, ok, "want *core.ValidationError, got %v", err)
	assert.Equal(t, user.ErrEmailExists, vErr.Err)
	assert.Contains(t, vErr.FieldMap(), "email")
}

func TestService_Authenticate(t *testing.T) {
	svc, repo := setup(t)
	testutil.CreateUser(t, repo, "No Password", "nopwd@school.edu", "", user.RoleTeacher)

	tests := []struct {
		name     string
		cred     user.Credentials
		wantName string
	}{
		{name: "teacher demo", cred: user.Credentials{Email: inmemdb.DemoTeacherEmail, Password: inmemdb.DemoPassword, Role: "teacher"}, wantName: "Prof. Smith"},
		{name: "student demo", cred: user.Credentials{Email: inmemdb.DemoStudentEmail, Password: inmemdb.DemoPassword, Role: "student"}, wantName: "Sarah Johnson"},
		{name: "role omitted", cred: user.Credentials{Email: inmemdb.DemoStudentEmail, Password: inmemdb.DemoPassword}, wantName: "Sarah Johnson"},
		{name: "wrong role", cred: user.Credentials{Email: inmemdb.DemoStudentEmail, Password: inmemdb.DemoPassword, Role: "teacher"}},
		{name: "wrong password", cred: user.Credentials{Email: inmemdb.DemoTeacherEmail, Password: "nope", Role: "teacher"}},
		{name: "unknown email", cred: user.Credentials{Email: "ghost@school.edu", Password: inmemdb.DemoPassword}},
		{name: "account without password", cred: user.Credentials{Email: "nopwd@school.edu", Password: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := svc.Authenticate(tt.cred)
			if tt.wantName == "" {
				assert.Equal(t, user.ErrInvalidCredentials, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, usr.Name)
			assert.False(t, usr.LastLogin.IsZero())

			stored, err := svc.GetByID(usr.ID)
			require.NoError(t, err)
			assert.Equal(t, usr.LastLogin, stored.LastLogin)
		})
	}
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, user.RoleStudent, user.ParseRole(" Student "))
	assert.Equal(t, user.RoleTeacher, user.ParseRole("teacher"))
	assert.Equal(t, user.RoleTeacher, user.ParseRole(""))
}
