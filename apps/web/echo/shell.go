package echoweb

import (
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/edutracker/core/user"
)

// Modal overlays, selected by the `modal` query parameter.
const (
	ModalParam        = "modal"
	ModalGradeEdit    = "grade-edit"
	ModalGradeHistory = "grade-history"
)

const (
	// demo identities used until someone logs in
	defaultStudentID   = 1
	defaultTeacherName = "Prof. Smith"

	contextShellKey = "shell"
)

// Shell is the per-request application state: who is browsing and which overlays are open.
type Shell struct {
	Authenticated bool
	Role          user.Role
	UserID        int
	StudentID     int // the student whose screens are shown
	Name          string

	ShowGradeEditModal    bool
	ShowGradeHistoryModal bool
}

// DefaultShell is the state of a visitor without a session: signed in as the demo teacher.
func DefaultShell() Shell {
	return Shell{
		Authenticated: true,
		Role:          user.RoleTeacher,
		StudentID:     defaultStudentID,
		Name:          defaultTeacherName,
	}
}

// SetModal opens the overlay named by value; any other value closes both.
// Both flags may be set by separate callbacks: nothing keeps them exclusive.
func (sh *Shell) SetModal(value string) {
	sh.ShowGradeEditModal = value == ModalGradeEdit
	sh.ShowGradeHistoryModal = value == ModalGradeHistory
}

func (sh Shell) IsStudent() bool { return sh.Role == user.RoleStudent }

// reviewer names the teacher recorded on grade changes and leave decisions.
func (sh Shell) reviewer() string {
	if sh.Role == user.RoleTeacher && sh.Name != "" {
		return sh.Name
	}
	return defaultTeacherName
}

func (sh Shell) studentID() int {
	if sh.StudentID > 0 {
		return sh.StudentID
	}
	return defaultStudentID
}

func getContextShell(ctx echo.Context) Shell {
	if sh, ok := ctx.Get(contextShellKey).(Shell); ok {
		return sh
	}
	return DefaultShell()
}

// ModalURL returns u with the modal parameter set to modal, or removed when modal is empty.
// Other query parameters are kept.
func ModalURL(u *url.URL, modal string, extra ...string) string {
	q := u.Query()
	q.Del(ModalParam)
	if modal != "" {
		q.Set(ModalParam, modal)
	}
	for i := 0; i+1 < len(extra); i += 2 {
		q.Set(extra[i], extra[i+1])
	}
	out := url.URL{Path: u.Path, RawQuery: q.Encode()}
	return out.String()
}
