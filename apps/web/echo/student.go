package echoweb

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/edutracker/core/attendance"
	"github.com/trezcool/edutracker/core/gradebook"
	"github.com/trezcool/edutracker/core/journal"
	"github.com/trezcool/edutracker/core/leave"
	"github.com/trezcool/edutracker/core/student"
)

func (s *Server) studentDashboard(ctx echo.Context) error {
	dash, err := s.deps.DashboardSvc.Student(getContextShell(ctx).studentID())
	if err != nil {
		return err
	}
	return s.render(ctx, http.StatusOK, Page{Screen: ScreenStudentDashboard, Title: "Dashboard", Data: dash})
}

func (s *Server) journalSummary(ctx echo.Context) error {
	var filter journal.SummaryFilter
	if err := bindQuery(ctx, &filter); err != nil {
		return err
	}
	summary, err := s.deps.JournalSvc.GetSummary(getContextShell(ctx).studentID(), filter)
	if err != nil {
		return err
	}
	return s.render(ctx, http.StatusOK, Page{Screen: ScreenJournalSummary, Title: "Learning Journal", Data: summary})
}

type subjectJournalData struct {
	journal.SubjectJournal
	Sorts []option
}

var journalSortOptions = []option{
	{journal.SortDateDesc, "Newest First"},
	{journal.SortDateAsc, "Oldest First"},
	{journal.SortTitle, "Title A-Z"},
	{journal.SortWordCount, "Word Count"},
}

func (s *Server) journalPerSubject(ctx echo.Context) error {
	var filter journal.SubjectFilter
	if err := bindQuery(ctx, &filter); err != nil {
		return err
	}
	sj, err := s.deps.JournalSvc.GetSubjectJournal(getContextShell(ctx).studentID(), ctx.Param("subject"), filter)
	if err != nil {
		return err
	}
	return s.render(ctx, http.StatusOK, Page{
		Screen: ScreenJournalPerSubject,
		Title:  sj.Subject.Name + " Journal",
		Data:   subjectJournalData{SubjectJournal: sj, Sorts: journalSortOptions},
	})
}

func (s *Server) gradeDetail(ctx echo.Context) error {
	var filter gradebook.GradeFilter
	if err := bindQuery(ctx, &filter); err != nil {
		return err
	}
	grades, err := s.deps.GradebookSvc.GetStudentGrades(getContextShell(ctx).studentID(), filter)
	if err != nil {
		return err
	}
	return s.render(ctx, http.StatusOK, Page{Screen: ScreenGradeDetail, Title: "My Grades", Data: grades})
}

func (s *Server) assignmentDetail(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	detail, err := s.deps.GradebookSvc.GetAssignmentDetail(getContextShell(ctx).studentID(), id)
	if err != nil {
		return err
	}
	return s.render(ctx, http.StatusOK, Page{Screen: ScreenAssignmentDetail, Title: detail.Title, Data: detail})
}

func (s *Server) attendanceOverview(ctx echo.Context) error {
	var filter attendance.OverviewFilter
	if err := bindQuery(ctx, &filter); err != nil {
		return err
	}
	overview, err := s.deps.AttendanceSvc.GetOverview(getContextShell(ctx).studentID(), filter)
	if err != nil {
		return err
	}
	return s.render(ctx, http.StatusOK, Page{Screen: ScreenAttendanceOverview, Title: "My Attendance", Data: overview})
}

func (s *Server) attendancePerSession(ctx echo.Context) error {
	sessions, err := s.deps.AttendanceSvc.GetSessions(getContextShell(ctx).studentID(), ctx.Param("id"), ctx.QueryParam("month"))
	if err != nil {
		return err
	}
	return s.render(ctx, http.StatusOK, Page{Screen: ScreenAttendancePerSession, Title: sessions.Subject.Name, Data: sessions})
}

type leaveFormData struct {
	Form      leave.NewRequest
	Types     []leave.TypeOption
	Submitted *leave.Request
}

func (s *Server) leaveRequestForm(ctx echo.Context) error {
	return s.renderLeaveForm(ctx, http.StatusOK, leaveFormData{Form: leave.DefaultNewRequest()}, nil)
}

func (s *Server) renderLeaveForm(ctx echo.Context, code int, data leaveFormData, fields map[string]string) error {
	data.Types = leave.TypeOptions
	page := Page{Screen: ScreenLeaveRequestForm, Title: "Request Leave", Data: data, Errors: fields}
	if data.Submitted != nil {
		page.Notice = "Your leave request has been submitted. Reference: " + data.Submitted.Reference
	}
	return s.render(ctx, code, page)
}

func (s *Server) submitLeaveRequest(ctx echo.Context) error {
	var nr leave.NewRequest
	if err := bindForm(ctx, &nr); err != nil {
		return err
	}
	if form, err := ctx.MultipartForm(); err == nil {
		for _, fh := range form.File["attachments"] {
			nr.Attachments = append(nr.Attachments, fh.Filename)
		}
	}

	if err := nr.Validate(s.deps.Validate); err != nil {
		fields, ok := s.fieldErrors(err)
		if !ok {
			return err
		}
		return s.renderLeaveForm(ctx, http.StatusBadRequest, leaveFormData{Form: nr}, fields)
	}

	profile, err := s.deps.StudentSvc.GetProfileView(getContextShell(ctx).studentID(), "")
	if err != nil {
		return err
	}
	by := leave.Requester{
		StudentID: profile.Student.ID,
		Name:      profile.Student.Name,
		Code:      profile.Student.Code,
		Email:     profile.Student.Email,
	}
	req, err := s.deps.LeaveSvc.Submit(ctx.Request().Context(), nr, by)
	if err != nil {
		fields, ok := s.fieldErrors(err)
		if !ok {
			return err
		}
		return s.renderLeaveForm(ctx, http.StatusBadRequest, leaveFormData{Form: nr}, fields)
	}
	return s.renderLeaveForm(ctx, http.StatusCreated, leaveFormData{Form: leave.DefaultNewRequest(), Submitted: &req}, nil)
}

func (s *Server) leaveRequestStatus(ctx echo.Context) error {
	var filter leave.Filter
	if err := bindQuery(ctx, &filter); err != nil {
		return err
	}
	filter.StudentID = getContextShell(ctx).studentID()
	data, err := s.leaveList(filter)
	if err != nil {
		return err
	}
	return s.render(ctx, http.StatusOK, Page{Screen: ScreenLeaveRequestStatus, Title: "My Leave Requests", Data: data})
}

func (s *Server) studentProfile(ctx echo.Context) error {
	editing, _ := strconv.ParseBool(ctx.QueryParam("edit"))
	page, err := s.deps.StudentSvc.GetProfilePage(getContextShell(ctx).studentID(), ctx.QueryParam("tab"), editing)
	if err != nil {
		return err
	}
	return s.render(ctx, http.StatusOK, Page{Screen: ScreenStudentProfile, Title: "My Profile", Data: page})
}

func (s *Server) updateProfile(ctx echo.Context) error {
	var pu student.ProfileUpdate
	if err := bindForm(ctx, &pu); err != nil {
		return err
	}
	id := getContextShell(ctx).studentID()

	err := pu.Validate(s.deps.Validate)
	if err == nil {
		_, err = s.deps.StudentSvc.UpdateProfile(id, pu)
	}
	if err == nil {
		return redirect(ctx, "/profile?tab=personal")
	}

	fields, ok := s.fieldErrors(err)
	if !ok {
		return err
	}
	page, err := s.deps.StudentSvc.GetProfilePage(id, "personal", true)
	if err != nil {
		return err
	}
	page.Form = pu
	return s.render(ctx, http.StatusBadRequest, Page{Screen: ScreenStudentProfile, Title: "My Profile", Data: page, Errors: fields})
}
