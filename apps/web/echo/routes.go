package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Screen names, rendered as the `data-screen` attribute of the page.
const (
	ScreenTeacherDashboard     = "teacher-dashboard"
	ScreenGradebookList        = "gradebook-list"
	ScreenGradebookDetail      = "gradebook-detail"
	ScreenStudentProfileView   = "student-profile-view"
	ScreenAttendanceManagement = "attendance-management"
	ScreenAttendancePerStudent = "attendance-per-student"
	ScreenLeaveRequestsList    = "leave-requests-list"
	ScreenLeaveRequestApproval = "leave-request-approval"

	ScreenStudentDashboard     = "student-dashboard"
	ScreenJournalSummary       = "journal-summary"
	ScreenJournalPerSubject    = "journal-per-subject"
	ScreenGradeDetail          = "grade-detail"
	ScreenAssignmentDetail     = "assignment-detail"
	ScreenAttendanceOverview   = "attendance-overview"
	ScreenAttendancePerSession = "attendance-per-session"
	ScreenLeaveRequestForm     = "leave-request-form"
	ScreenLeaveRequestStatus   = "leave-request-status"
	ScreenStudentProfile       = "student-profile"

	ScreenLogin      = "login"
	ScreenRegister   = "register"
	ScreenReports    = "reports"
	ScreenErrorState = "error-state"
)

// Route sections
const (
	SectionTeacher = "teacher"
	SectionStudent = "student"
	SectionShared  = "shared"
	SectionModal   = "modal"
)

// Route maps a URL pattern onto the screen it renders.
// Screen is empty for routes that redirect or serve a file.
type Route struct {
	Method  string
	Path    string
	Screen  string
	Section string
	Public  bool // reachable without a session

	handler echo.HandlerFunc
}

// routes is the static route table. Role is never used to gate a route.
func (s *Server) routes() []Route {
	get, post := http.MethodGet, http.MethodPost
	return []Route{
		{Method: get, Path: "/teacher", Screen: ScreenTeacherDashboard, Section: SectionTeacher, handler: s.teacherDashboard},
		{Method: get, Path: "/gradebook", Screen: ScreenGradebookList, Section: SectionTeacher, handler: s.gradebookList},
		{Method: get, Path: "/gradebook/:id", Screen: ScreenGradebookDetail, Section: SectionTeacher, handler: s.gradebookDetail},
		{Method: get, Path: "/student/:id", Screen: ScreenStudentProfileView, Section: SectionTeacher, handler: s.studentProfileView},
		{Method: get, Path: "/attendance-management", Screen: ScreenAttendanceManagement, Section: SectionTeacher, handler: s.attendanceManagement},
		{Method: post, Path: "/attendance-management", Section: SectionTeacher, handler: s.markAttendance},
		{Method: get, Path: "/attendance/student/:id", Screen: ScreenAttendancePerStudent, Section: SectionTeacher, handler: s.attendancePerStudent},
		{Method: get, Path: "/leave-requests", Screen: ScreenLeaveRequestsList, Section: SectionTeacher, handler: s.leaveRequestsList},
		{Method: get, Path: "/leave-request/:id", Screen: ScreenLeaveRequestApproval, Section: SectionTeacher, handler: s.leaveRequestApproval},
		{Method: post, Path: "/leave-request/:id", Screen: ScreenLeaveRequestApproval, Section: SectionTeacher, handler: s.decideLeaveRequest},
		{Method: get, Path: "/leave-request/:id/qr.png", Section: SectionTeacher, handler: s.leaveRequestQR},

		{Method: get, Path: "/student-dashboard", Screen: ScreenStudentDashboard, Section: SectionStudent, handler: s.studentDashboard},
		{Method: get, Path: "/journal", Screen: ScreenJournalSummary, Section: SectionStudent, handler: s.journalSummary},
		{Method: get, Path: "/journal/:subject", Screen: ScreenJournalPerSubject, Section: SectionStudent, handler: s.journalPerSubject},
		{Method: get, Path: "/grades", Screen: ScreenGradeDetail, Section: SectionStudent, handler: s.gradeDetail},
		{Method: get, Path: "/assignment/:id", Screen: ScreenAssignmentDetail, Section: SectionStudent, handler: s.assignmentDetail},
		{Method: get, Path: "/attendance", Screen: ScreenAttendanceOverview, Section: SectionStudent, handler: s.attendanceOverview},
		{Method: get, Path: "/attendance/session/:id", Screen: ScreenAttendancePerSession, Section: SectionStudent, handler: s.attendancePerSession},
		{Method: get, Path: "/leave-request", Screen: ScreenLeaveRequestForm, Section: SectionStudent, handler: s.leaveRequestForm},
		{Method: post, Path: "/leave-request", Screen: ScreenLeaveRequestForm, Section: SectionStudent, handler: s.submitLeaveRequest},
		{Method: get, Path: "/leave-requests-status", Screen: ScreenLeaveRequestStatus, Section: SectionStudent, handler: s.leaveRequestStatus},
		{Method: get, Path: "/profile", Screen: ScreenStudentProfile, Section: SectionStudent, handler: s.studentProfile},
		{Method: post, Path: "/profile", Screen: ScreenStudentProfile, Section: SectionStudent, handler: s.updateProfile},

		{Method: get, Path: "/login", Screen: ScreenLogin, Section: SectionShared, Public: true, handler: s.loginForm},
		{Method: post, Path: "/login", Screen: ScreenLogin, Section: SectionShared, Public: true, handler: s.login},
		{Method: post, Path: "/logout", Section: SectionShared, Public: true, handler: s.logout},
		{Method: get, Path: "/register", Screen: ScreenRegister, Section: SectionShared, Public: true, handler: s.registerForm},
		{Method: post, Path: "/register", Screen: ScreenRegister, Section: SectionShared, Public: true, handler: s.register},
		{Method: get, Path: "/reports", Screen: ScreenReports, Section: SectionShared, handler: s.reports},
		{Method: get, Path: "/reports/export", Section: SectionShared, handler: s.exportReport},

		{Method: post, Path: "/grades/edit", Section: SectionModal, handler: s.editGrade},
	}
}

func (s *Server) registerRoutes() {
	// the root is the teacher dashboard once signed in, the login screen otherwise
	s.app.GET("/", s.home)

	for _, r := range s.routes() {
		if r.Public {
			s.app.Add(r.Method, r.Path, r.handler)
		} else {
			s.app.Add(r.Method, r.Path, r.handler, s.requireSession)
		}
	}
}

// requireSession hides every non public route from signed out visitors.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if !getContextShell(ctx).Authenticated {
			return echo.ErrNotFound
		}
		return next(ctx)
	}
}

// loadShell restores the shell from the session cookie and opens the overlays asked by the query.
func (s *Server) loadShell(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		sh := s.sessions.load(ctx)
		sh.SetModal(ctx.QueryParam(ModalParam))
		ctx.Set(contextShellKey, sh)
		return next(ctx)
	}
}

func (s *Server) home(ctx echo.Context) error {
	if !getContextShell(ctx).Authenticated {
		return s.loginForm(ctx)
	}
	return s.teacherDashboard(ctx)
}
