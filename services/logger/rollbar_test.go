package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/user"
)

func newTestLogger() (*RollbarLogger, *bytes.Buffer) {
	out := new(bytes.Buffer)
	l := NewRollbarLogger(log.New(out, "", 0), core.NewTestConfig())
	l.Enable(false)
	return l, out
}

func TestRollbarLogger_prepare(t *testing.T) {
	l, _ := newTestLogger()
	err := errors.New("boom")
	teacher := user.User{ID: 1, Name: "Prof. Smith", Email: "smith@edutracker.com", Role: user.RoleTeacher}

	tests := []struct {
		name string
		args []interface{}
		want []interface{}
	}{
		{name: "message only", want: []interface{}{"msg"}},
		{name: "error", args: []interface{}{err}, want: []interface{}{"msg", err}},
		{
			name: "user becomes the role extra",
			args: []interface{}{err, teacher},
			want: []interface{}{"msg", err, map[string]interface{}{"role": "teacher"}},
		},
		{
			name: "extras are merged and scrubbed",
			args: []interface{}{
				map[string]interface{}{"email": "a@b.c", "password": "Secret123!"},
				map[string]interface{}{"passwordConfirm": "Secret123!"},
			},
			want: []interface{}{"msg", map[string]interface{}{
				"email":           "a@b.c",
				"password":        "[scrubbed]",
				"passwordConfirm": "[scrubbed]",
			}},
		},
		{name: "anonymous user is ignored", args: []interface{}{user.User{}}, want: []interface{}{"msg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.prepare("msg", tt.args))
		})
	}
}

func TestRollbarLogger_print(t *testing.T) {
	l, out := newTestLogger()

	l.Info("Saved figma-screenshots/login-desktop.png")
	l.Error("Failed to capture", errors.New("timeout"), user.User{ID: 2, Name: "Sarah Johnson"})

	assert.Equal(t,
		"INFO: Saved figma-screenshots/login-desktop.png\nERROR: Failed to capture\ntimeout\n",
		out.String(),
	)
}

func TestScrubRegexp(t *testing.T) {
	re := scrubRegexp()
	for _, field := range []string{"password", "Password", "passwordConfirm", "secret"} {
		assert.True(t, re.MatchString(field), field)
	}
	for _, field := range []string{"email", "passwords", "name"} {
		assert.False(t, re.MatchString(field), field)
	}
}
