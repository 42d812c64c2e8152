package echoweb

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/attendance"
	"github.com/trezcool/edutracker/core/dashboard"
	"github.com/trezcool/edutracker/core/gradebook"
	"github.com/trezcool/edutracker/core/journal"
	"github.com/trezcool/edutracker/core/leave"
	"github.com/trezcool/edutracker/core/reports"
	"github.com/trezcool/edutracker/core/student"
	"github.com/trezcool/edutracker/core/user"
	emailsvc "github.com/trezcool/edutracker/services/email"
	logsvc "github.com/trezcool/edutracker/services/logger"
	inmemdb "github.com/trezcool/edutracker/storage/database/inmem"
	testutil "github.com/trezcool/edutracker/tests"
)

func setup(t *testing.T) *Server {
	t.Helper()
	conf := core.NewTestConfig()
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)

	db := testutil.OpenDB(t)
	validate, translator := testutil.NewValidator()
	gradebookSvc := gradebook.NewService(inmemdb.NewGradebookRepository(db))

	return NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,

		UserSvc:       user.NewService(inmemdb.NewUserRepository(db)),
		GradebookSvc:  gradebookSvc,
		AttendanceSvc: attendance.NewService(inmemdb.NewAttendanceRepository(db)),
		LeaveSvc:      leave.NewService(inmemdb.NewLeaveRepository(db), emailsvc.NewConsoleServiceMock(conf), 0),
		JournalSvc:    journal.NewService(inmemdb.NewJournalRepository(db)),
		StudentSvc:    student.NewService(inmemdb.NewStudentRepository(db)),
		DashboardSvc:  dashboard.NewService(inmemdb.NewDashboardRepository(db)),
		ReportsSvc:    reports.NewService(inmemdb.NewReportsRepository(db), gradebookSvc),
	})
}

func do(app http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func get(app http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return do(app, req)
}

func postForm(app http.Handler, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return do(app, req)
}

func screenAttr(screen string) string {
	return `data-screen="` + screen + `"`
}

func sessionCookieOf(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie set", sessionCookie)
	return nil
}

func TestServer_routes(t *testing.T) {
	app := setup(t)

	tests := []struct {
		path       string
		wantCode   int
		wantScreen string
	}{
		{path: "/", wantCode: http.StatusOK, wantScreen: ScreenTeacherDashboard},
		{path: "/teacher", wantCode: http.StatusOK, wantScreen: ScreenTeacherDashboard},
		{path: "/gradebook", wantCode: http.StatusOK, wantScreen: ScreenGradebookList},
		{path: "/gradebook/1", wantCode: http.StatusOK, wantScreen: ScreenGradebookDetail},
		{path: "/student/1", wantCode: http.StatusOK, wantScreen: ScreenStudentProfileView},
		{path: "/attendance-management", wantCode: http.StatusOK, wantScreen: ScreenAttendanceManagement},
		{path: "/attendance/student/1", wantCode: http.StatusOK, wantScreen: ScreenAttendancePerStudent},
		{path: "/leave-requests", wantCode: http.StatusOK, wantScreen: ScreenLeaveRequestsList},
		{path: "/leave-request/1", wantCode: http.StatusOK, wantScreen: ScreenLeaveRequestApproval},
		{path: "/student-dashboard", wantCode: http.StatusOK, wantScreen: ScreenStudentDashboard},
		{path: "/journal", wantCode: http.StatusOK, wantScreen: ScreenJournalSummary},
		{path: "/journal/mathematics-101", wantCode: http.StatusOK, wantScreen: ScreenJournalPerSubject},
		{path: "/grades", wantCode: http.StatusOK, wantScreen: ScreenGradeDetail},
		{path: "/assignment/1", wantCode: http.StatusOK, wantScreen: ScreenAssignmentDetail},
		{path: "/attendance", wantCode: http.StatusOK, wantScreen: ScreenAttendanceOverview},
		{path: "/attendance/session/1", wantCode: http.StatusOK, wantScreen: ScreenAttendancePerSession},
		{path: "/leave-request", wantCode: http.StatusOK, wantScreen: ScreenLeaveRequestForm},
		{path: "/leave-requests-status", wantCode: http.StatusOK, wantScreen: ScreenLeaveRequestStatus},
		{path: "/profile", wantCode: http.StatusOK, wantScreen: ScreenStudentProfile},
		{path: "/login", wantCode: http.StatusOK, wantScreen: ScreenLogin},
		{path: "/register", wantCode: http.StatusOK, wantScreen: ScreenRegister},
		{path: "/reports", wantCode: http.StatusOK, wantScreen: ScreenReports},
		{path: "/gradebook/", wantCode: http.StatusOK, wantScreen: ScreenGradebookList},
		{path: "/does-not-exist", wantCode: http.StatusNotFound, wantScreen: ScreenErrorState},
		{path: "/gradebook/99", wantCode: http.StatusNotFound, wantScreen: ScreenErrorState},
		{path: "/gradebook/abc", wantCode: http.StatusNotFound, wantScreen: ScreenErrorState},
		{path: "/journal/astronomy", wantCode: http.StatusNotFound, wantScreen: ScreenErrorState},
		// captured by the screenshot tool
		{path: "/journal/math", wantCode: http.StatusOK, wantScreen: ScreenJournalPerSubject},
		{path: "/404", wantCode: http.StatusNotFound, wantScreen: ScreenErrorState},
		{path: "/gradebook/1?modal=grade-edit", wantCode: http.StatusOK, wantScreen: ScreenGradebookDetail},
		{path: "/grades?modal=grade-history", wantCode: http.StatusOK, wantScreen: ScreenGradeDetail},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(app, tt.path)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), screenAttr(tt.wantScreen))
		})
	}
}

func TestServer_notFound(t *testing.T) {
	app := setup(t)

	rec := get(app, "/nowhere")
	body := rec.Body.String()
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body, "Page Not Found")
	assert.Contains(t, body, `href="/">Go to Dashboard</a>`)
	assert.Contains(t, body, `class="navbar"`, "the navigation shows on the 404 page")
}

func TestServer_navigation(t *testing.T) {
	app := setup(t)

	tests := []struct {
		path    string
		wantNav bool
	}{
		{path: "/", wantNav: true},
		{path: "/gradebook/1", wantNav: true},
		{path: "/profile", wantNav: true},
		{path: "/login", wantNav: false},
		{path: "/register", wantNav: false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			body := get(app, tt.path).Body.String()
			assert.Equal(t, tt.wantNav, strings.Contains(body, `class="navbar"`))
		})
	}

	body := get(app, "/gradebook").Body.String()
	assert.Contains(t, body, `href="/gradebook" class="nav-item active"`)
	assert.NotContains(t, get(app, "/gradebook/1").Body.String(), "nav-item active", "detail routes highlight nothing")
}

func TestServer_modals(t *testing.T) {
	app := setup(t)

	tests := []struct {
		name        string
		path        string
		wantEdit    bool
		wantHistory bool
	}{
		{name: "none", path: "/gradebook/1"},
		{name: "grade edit", path: "/gradebook/1?modal=grade-edit", wantEdit: true},
		{name: "grade history", path: "/gradebook/1?modal=grade-history", wantHistory: true},
		{name: "unknown value", path: "/gradebook/1?modal=settings"},
		{name: "empty value", path: "/gradebook/1?modal="},
		{name: "dashboard", path: "/?modal=grade-edit", wantEdit: true},
		{name: "student screen", path: "/grades?modal=grade-history", wantHistory: true},
		{name: "unknown history assignment", path: "/grades?modal=grade-history&assignment=99", wantHistory: true},
		{name: "unknown history student", path: "/gradebook/1?modal=grade-history&student=99", wantHistory: true},
		{name: "unknown edit student", path: "/gradebook/1?modal=grade-edit&student=99", wantEdit: true},
		{name: "unknown edit class", path: "/?modal=grade-edit&class=99", wantEdit: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(app, tt.path)
			body := rec.Body.String()
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantEdit, strings.Contains(body, `data-modal="grade-edit"`))
			assert.Equal(t, tt.wantHistory, strings.Contains(body, `data-modal="grade-history"`))
		})
	}

	t.Run("edit prefill", func(t *testing.T) {
		body := get(app, "/gradebook/1?modal=grade-edit&student=3&assignment=2").Body.String()
		assert.Contains(t, body, `<option value="3" selected>Emily Davis</option>`)
		assert.Contains(t, body, `<option value="2" selected>Homework 1 (100 pts)</option>`)
		assert.Contains(t, body, "90.0%")
		assert.Contains(t, body, "A-")
		assert.Contains(t, body, `href="/gradebook/1?assignment=2&amp;student=3"`, "close keeps the other params")
	})

	t.Run("unknown prefills fall back to the default grade", func(t *testing.T) {
		rec := get(app, "/grades?modal=grade-history&assignment=99")
		assert.Contains(t, rec.Body.String(), screenAttr(ScreenGradeDetail))
		assert.Contains(t, rec.Body.String(), "Corrected calculation error in problem #3")

		body := get(app, "/?modal=grade-edit&class=99").Body.String()
		assert.Contains(t, body, `<option value="1" selected>Sarah Johnson</option>`)
	})

	t.Run("error screen drops the overlay", func(t *testing.T) {
		rec := get(app, "/gradebook/99?modal=grade-history&assignment=99")
		body := rec.Body.String()
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, body, screenAttr(ScreenErrorState))
		assert.Contains(t, body, `class="navbar"`)
		assert.NotContains(t, body, `data-modal=`)
	})

	t.Run("history entries", func(t *testing.T) {
		body := get(app, "/gradebook/1?modal=grade-history&student=1&assignment=1").Body.String()
		assert.Contains(t, body, "Corrected calculation error in problem #3")
		assert.Contains(t, body, "Sarah Johnson")
	})
}

func TestServer_editGrade(t *testing.T) {
	app := setup(t)

	form := url.Values{
		"classId":      {"1"},
		"studentId":    {"2"},
		"assignmentId": {"1"},
		"score":        {"40"},
		"maxScore":     {"50"},
		"reason":       {"Regraded question 2"},
		"next":         {"/gradebook/1?search=mike"},
	}
	rec := postForm(app, "/grades/edit", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/gradebook/1?search=mike", rec.Header().Get("Location"))

	body := get(app, "/gradebook/1?modal=grade-history&student=2&assignment=1").Body.String()
	assert.Contains(t, body, "Regraded question 2")
	assert.Contains(t, body, "by Prof. Smith")
	assert.Contains(t, body, "42 &rarr; 40 / 50")

	t.Run("external next", func(t *testing.T) {
		form.Set("next", "//evil.example.com")
		rec := postForm(app, "/grades/edit", form)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/gradebook/1", rec.Header().Get("Location"))
	})

	t.Run("invalid", func(t *testing.T) {
		form.Set("maxScore", "0")
		rec := postForm(app, "/grades/edit", form)
		body := rec.Body.String()
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, body, screenAttr(ScreenGradebookDetail))
		assert.Contains(t, body, `data-modal="grade-edit"`)
		assert.Contains(t, body, `class="field-error"`)
	})
}

func TestServer_editGrade_studentScreens(t *testing.T) {
	app := setup(t)

	before := get(app, "/grades").Body.String()
	require.Contains(t, before, "45/50")

	form := url.Values{
		"classId":      {"1"},
		"studentId":    {"1"},
		"assignmentId": {"1"},
		"score":        {"20"},
		"maxScore":     {"50"},
	}
	rec := postForm(app, "/grades/edit", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	grades := get(app, "/grades")
	require.Equal(t, http.StatusOK, grades.Code)
	assert.Contains(t, grades.Body.String(), "20/50")
	assert.NotContains(t, grades.Body.String(), "45/50")
	assert.Contains(t, grades.Body.String(), "86.7%")

	detail := get(app, "/assignment/1")
	require.Equal(t, http.StatusOK, detail.Code)
	assert.Contains(t, detail.Body.String(), "20/50")
	assert.Contains(t, detail.Body.String(), "40.0%")
}

func TestServer_leaveDecision(t *testing.T) {
	app := setup(t)

	rec := postForm(app, "/leave-request/1", url.Values{"decision": {"reject"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "comments are required when rejecting a request")

	rec = postForm(app, "/leave-request/1", url.Values{"decision": {"approve"}, "comments": {"Get well soon"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/leave-request/1", rec.Header().Get("Location"))

	body := get(app, "/leave-request/1").Body.String()
	assert.Contains(t, body, "Reviewed by")
	assert.Contains(t, body, "Get well soon")
	assert.NotContains(t, body, `action="/leave-request/1"`)

	rec = postForm(app, "/leave-request/1", url.Values{"decision": {"approve"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), leave.ErrAlreadyDecided.Error())

	rec = postForm(app, "/leave-request/99", url.Values{"decision": {"approve"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_submitLeaveRequest(t *testing.T) {
	app := setup(t)

	rec := postForm(app, "/leave-request", url.Values{
		"type": {"medical"}, "startDate": {"2024-02-10"}, "endDate": {"2024-02-08"}, "reason": {"Flu"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "end date cannot be before start date")

	rec = postForm(app, "/leave-request", url.Values{
		"type": {"medical"}, "startDate": {"2024-02-10"}, "endDate": {"2024-02-12"}, "reason": {"Flu"},
	})
	body := rec.Body.String()
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, body, "Request Submitted")
	assert.Contains(t, body, "(3 days)")

	body = get(app, "/leave-requests-status?status=pending&type=Medical").Body.String()
	assert.Contains(t, body, "Flu")
}

func TestServer_markAttendance(t *testing.T) {
	app := setup(t)

	rec := postForm(app, "/attendance-management", url.Values{
		"classId": {"1"}, "studentId": {"1"}, "status": {"late"}, "next": {"/attendance-management?class=1"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/attendance-management?class=1", rec.Header().Get("Location"))

	rec = postForm(app, "/attendance-management", url.Values{"classId": {"1"}, "studentId": {"1"}, "status": {"excused"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	t.Run("dated mark", func(t *testing.T) {
		require.NotContains(t, get(app, "/attendance/student/1").Body.String(), "Jan 25, 2024")

		rec := postForm(app, "/attendance-management", url.Values{
			"date": {"2024-01-25"}, "classId": {"1"}, "studentId": {"1"}, "status": {"absent"},
		})
		require.Equal(t, http.StatusSeeOther, rec.Code)

		sheet := get(app, "/attendance-management?date=2024-01-25&class=1&search=sarah").Body.String()
		assert.Contains(t, sheet, `<input type="hidden" name="date" value="2024-01-25">`)
		assert.Contains(t, sheet, `value="absent" class="btn btn-sm active"`)
		assert.Contains(t, get(app, "/attendance-management?date=2024-01-26&class=1&search=sarah").Body.String(),
			`value="present" class="btn btn-sm active"`, "other days keep the usual status")

		assert.Contains(t, get(app, "/attendance/student/1").Body.String(), "Jan 25, 2024")
		assert.Contains(t, get(app, "/attendance").Body.String(), "Jan 25, 2024")
	})
}

func TestServer_updateProfile(t *testing.T) {
	app := setup(t)

	body := get(app, "/profile?edit=1").Body.String()
	assert.Contains(t, body, `name="firstName"`)

	form := url.Values{
		"firstName": {"Sarah"}, "lastName": {"Johnson"}, "email": {"not-an-email"},
	}
	rec := postForm(app, "/profile", form)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="firstName"`)

	form.Set("email", "sarah.j.new@school.edu")
	rec = postForm(app, "/profile", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/profile?tab=personal", rec.Header().Get("Location"))
	assert.Contains(t, get(app, "/profile").Body.String(), "sarah.j.new@school.edu")
}

func TestServer_session(t *testing.T) {
	app := setup(t)

	t.Run("bad credentials", func(t *testing.T) {
		rec := postForm(app, "/login", url.Values{
			"email": {inmemdb.DemoTeacherEmail}, "password": {"wrong"}, "role": {"teacher"},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), user.ErrInvalidCredentials.Error())
	})

	t.Run("student", func(t *testing.T) {
		rec := postForm(app, "/login", url.Values{
			"email": {inmemdb.DemoStudentEmail}, "password": {inmemdb.DemoPassword}, "role": {"student"},
		})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/student-dashboard", rec.Header().Get("Location"))

		body := get(app, "/student-dashboard", sessionCookieOf(t, rec)).Body.String()
		assert.Contains(t, body, "Sarah Johnson")
	})

	t.Run("logout", func(t *testing.T) {
		rec := postForm(app, "/login", url.Values{
			"email": {inmemdb.DemoTeacherEmail}, "password": {inmemdb.DemoPassword}, "role": {"teacher"},
		})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))

		rec = postForm(app, "/logout", nil, sessionCookieOf(t, rec))
		require.Equal(t, http.StatusSeeOther, rec.Code)
		signedOut := sessionCookieOf(t, rec)

		home := get(app, "/", signedOut)
		assert.Equal(t, http.StatusOK, home.Code)
		assert.Contains(t, home.Body.String(), screenAttr(ScreenLogin))
		assert.NotContains(t, home.Body.String(), `class="navbar"`)

		assert.Equal(t, http.StatusNotFound, get(app, "/gradebook", signedOut).Code)
		assert.Equal(t, http.StatusOK, get(app, "/register", signedOut).Code)
	})

	t.Run("tampered cookie", func(t *testing.T) {
		rec := get(app, "/gradebook", &http.Cookie{Name: sessionCookie, Value: "not-a-token"})
		assert.Equal(t, http.StatusOK, rec.Code, "falls back to the default shell")
	})
}

func TestServer_register(t *testing.T) {
	app := setup(t)

	form := url.Values{
		"name": {"Mike Chen"}, "email": {"mike.chen@school.edu"}, "role": {"student"},
		"password": {"Bl4ck&Wh1te"}, "passwordConfirm": {"Bl4ck&Wh1te"},
	}
	rec := postForm(app, "/register", form)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login?registered=true", rec.Header().Get("Location"))
	assert.Contains(t, get(app, "/login?registered=true").Body.String(), "Your account has been created")

	rec = postForm(app, "/register", form)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), user.ErrEmailExists.Error())
}

func TestServer_reports(t *testing.T) {
	app := setup(t)

	body := get(app, "/reports?period=month").Body.String()
	assert.Contains(t, body, "Class Overview")
	assert.Contains(t, body, `<option value="month" selected>This Month</option>`)

	rec := get(app, "/reports/export?report=grades&period=year")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxMIME, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="edutracker-teacher-grades-year.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.NotZero(t, rec.Body.Len())
}

func TestServer_leaveRequestQR(t *testing.T) {
	app := setup(t)

	rec := get(app, "/leave-request/1/qr.png")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))

	assert.Equal(t, http.StatusNotFound, get(app, "/leave-request/99/qr.png").Code)
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"/gradebook/2?search=a": "/gradebook/2?search=a",
		"":                      "/fallback",
		"https://example.com":   "/fallback",
		"//example.com":         "/fallback",
		`/\example.com`:         "/fallback",
	}
	for next, want := range tests {
		assert.Equal(t, want, safeNext(next, "/fallback"), next)
	}
}
