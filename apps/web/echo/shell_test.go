package echoweb

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edutracker/core/user"
)

func TestShell_SetModal(t *testing.T) {
	tests := []struct {
		value       string
		wantEdit    bool
		wantHistory bool
	}{
		{value: ""},
		{value: "grade-edit", wantEdit: true},
		{value: "grade-history", wantHistory: true},
		{value: "Grade-Edit"},
		{value: "attendance"},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			sh := DefaultShell()
			sh.SetModal(tt.value)
			assert.Equal(t, tt.wantEdit, sh.ShowGradeEditModal)
			assert.Equal(t, tt.wantHistory, sh.ShowGradeHistoryModal)
		})
	}
}

func TestModalURL(t *testing.T) {
	u, err := url.Parse("/gradebook/1?search=sarah&modal=grade-history")
	require.NoError(t, err)

	assert.Equal(t, "/gradebook/1?search=sarah", ModalURL(u, ""))
	assert.Equal(t, "/gradebook/1?modal=grade-edit&search=sarah", ModalURL(u, ModalGradeEdit))
	assert.Equal(t, "/gradebook/1?assignment=2&modal=grade-edit&search=sarah&student=3",
		ModalURL(u, ModalGradeEdit, "student", "3", "assignment", "2"))
	assert.Equal(t, ModalGradeHistory, u.Query().Get(ModalParam), "the source URL is left untouched")
}

func TestSessionStore(t *testing.T) {
	ss := sessionStore{issuer: "EduTracker", key: []byte("secret"), ttl: time.Hour}
	other := sessionStore{issuer: "EduTracker", key: []byte("other"), ttl: time.Hour}

	sh := Shell{Authenticated: true, Role: user.RoleStudent, UserID: 2, StudentID: 1, Name: "Sarah Johnson"}
	token, err := ss.encode(sh)
	require.NoError(t, err)

	got, err := ss.decode(token)
	require.NoError(t, err)
	assert.Equal(t, sh, got)

	_, err = other.decode(token)
	assert.Equal(t, errInvalidSession, err)

	signedOut, err := ss.encode(Shell{Role: user.RoleTeacher})
	require.NoError(t, err)
	got, err = ss.decode(signedOut)
	require.NoError(t, err)
	assert.False(t, got.Authenticated)
	assert.Equal(t, defaultStudentID, got.StudentID)

	expired := sessionStore{issuer: "EduTracker", key: []byte("secret"), ttl: -time.Hour}
	token, err = expired.encode(sh)
	require.NoError(t, err)
	_, err = ss.decode(token)
	assert.Equal(t, errInvalidSession, err)
}

func TestShell_reviewer(t *testing.T) {
	assert.Equal(t, "Prof. Smith", DefaultShell().reviewer())
	assert.Equal(t, "Prof. Lee", Shell{Role: user.RoleTeacher, Name: "Prof. Lee"}.reviewer())
	assert.Equal(t, "Prof. Smith", Shell{Role: user.RoleStudent, Name: "Sarah Johnson"}.reviewer())
}
