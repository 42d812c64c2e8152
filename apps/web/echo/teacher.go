package echoweb

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/edutracker/core/attendance"
	"github.com/trezcool/edutracker/core/gradebook"
	"github.com/trezcool/edutracker/core/leave"
)

func (s *Server) teacherDashboard(ctx echo.Context) error {
	dash, err := s.deps.DashboardSvc.Teacher()
	if err != nil {
		return err
	}
	return s.render(ctx, http.StatusOK, Page{Screen: ScreenTeacherDashboard, Title: "Dashboard", Data: dash})
}

type gradebookListData struct {
	Classes   []gradebook.Class
	Filter    gradebook.ClassFilter
	Semesters []option
}

// option is a <select> choice.
type option struct {
	Value string
	Label string
}

var semesterOptions = []option{
	{gradebook.SemesterCurrent, "Current Semester"},
	{gradebook.SemesterArchived, "Archived"},
	{gradebook.SemesterAll, "All Semesters"},
}

func (s *Server) gradebookList(ctx echo.Context) error {
	var filter gradebook.ClassFilter
	if err := bindQuery(ctx, &filter); err != nil {
		return err
	}
	classes, err := s.deps.GradebookSvc.FilterClasses(filter)
	if err != nil {
		return err
	}
	filter.Clean()
	return s.render(ctx, http.StatusOK, Page{
		Screen: ScreenGradebookList,
		Title:  "Gradebook",
		Data:   gradebookListData{Classes: classes, Filter: filter, Semesters: semesterOptions},
	})
}

func (s *Server) gradebookDetail(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var filter gradebook.DetailFilter
	if err = bindQuery(ctx, &filter); err != nil {
		return err
	}
	detail, err := s.deps.GradebookSvc.GetClassDetail(id, filter)
	if err != nil {
		return err
	}
	return s.render(ctx, http.StatusOK, Page{Screen: ScreenGradebookDetail, Title: detail.Class.Name, Data: detail})
}

func (s *Server) studentProfileView(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	profile, err := s.deps.StudentSvc.GetProfileView(id, ctx.QueryParam("tab"))
	if err != nil {
		return err
	}
	return s.render(ctx, http.StatusOK, Page{Screen: ScreenStudentProfileView, Title: profile.Student.Name, Data: profile})
}

var statusOptions = []attendance.Status{attendance.Present, attendance.Absent, attendance.Late}

type attendanceManagementData struct {
	attendance.Management
	Statuses []attendance.Status
}

func (s *Server) attendanceManagement(ctx echo.Context) error {
	var filter attendance.RosterFilter
	if err := bindQuery(ctx, &filter); err != nil {
		return err
	}
	mgmt, err := s.deps.AttendanceSvc.GetManagement(filter)
	if err != nil {
		return err
	}
	return s.render(ctx, http.StatusOK, Page{
		Screen: ScreenAttendanceManagement,
		Title:  "Attendance Management",
		Data:   attendanceManagementData{Management: mgmt, Statuses: statusOptions},
	})
}

func (s *Server) markAttendance(ctx echo.Context) error {
	var mark attendance.Mark
	if err := bindForm(ctx, &mark); err != nil {
		return err
	}
	if err := mark.Validate(s.deps.Validate); err != nil {
		return err
	}
	if err := s.deps.AttendanceSvc.MarkStatus(mark); err != nil {
		return err
	}
	return redirect(ctx, safeNext(ctx.FormValue("next"), "/attendance-management"))
}

func (s *Server) attendancePerStudent(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var filter attendance.RecordFilter
	if err = bindQuery(ctx, &filter); err != nil {
		return err
	}
	att, err := s.deps.AttendanceSvc.GetStudentAttendance(id, filter)
	if err != nil {
		return err
	}
	return s.render(ctx, http.StatusOK, Page{Screen: ScreenAttendancePerStudent, Title: att.Student.Name, Data: att})
}

type leaveListData struct {
	Requests []leave.Request
	Stats    leave.Stats
	Filter   leave.Filter
	Types    []leave.TypeOption
}

func (s *Server) leaveRequestsList(ctx echo.Context) error {
	var filter leave.Filter
	if err := bindQuery(ctx, &filter); err != nil {
		return err
	}
	data, err := s.leaveList(filter)
	if err != nil {
		return err
	}
	return s.render(ctx, http.StatusOK, Page{Screen: ScreenLeaveRequestsList, Title: "Leave Requests", Data: data})
}

func (s *Server) leaveList(filter leave.Filter) (leaveListData, error) {
	reqs, err := s.deps.LeaveSvc.Filter(filter)
	if err != nil {
		return leaveListData{}, err
	}
	stats, err := s.deps.LeaveSvc.GetStats(filter.StudentID)
	if err != nil {
		return leaveListData{}, err
	}
	filter.Clean()
	return leaveListData{Requests: reqs, Stats: stats, Filter: filter, Types: leave.TypeOptions}, nil
}

type leaveApprovalData struct {
	Request leave.Request
	Form    leave.Decision
}

func (s *Server) leaveRequestApproval(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	req, err := s.deps.LeaveSvc.GetByID(id)
	if err != nil {
		return err
	}
	return s.renderLeaveApproval(ctx, http.StatusOK, leaveApprovalData{Request: req}, nil)
}

func (s *Server) renderLeaveApproval(ctx echo.Context, code int, data leaveApprovalData, fields map[string]string) error {
	return s.render(ctx, code, Page{
		Screen: ScreenLeaveRequestApproval,
		Title:  "Leave Request " + strconv.Itoa(data.Request.ID),
		Data:   data,
		Errors: fields,
	})
}

func (s *Server) decideLeaveRequest(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var d leave.Decision
	if err = bindForm(ctx, &d); err != nil {
		return err
	}

	err = d.Validate(s.deps.Validate)
	if err == nil {
		_, err = s.deps.LeaveSvc.Decide(id, d, getContextShell(ctx).reviewer())
	}
	if err == nil {
		return redirect(ctx, "/leave-request/"+strconv.Itoa(id))
	}

	fields, ok := s.fieldErrors(err)
	if !ok {
		return err
	}
	req, err := s.deps.LeaveSvc.GetByID(id)
	if err != nil {
		return err
	}
	return s.renderLeaveApproval(ctx, http.StatusBadRequest, leaveApprovalData{Request: req, Form: d}, fields)
}

// leaveRequestQR serves the request reference as a QR code, for the printed copy.
func (s *Server) leaveRequestQR(ctx echo.Context) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	req, err := s.deps.LeaveSvc.GetByID(id)
	if err != nil {
		return err
	}
	png, err := leave.ReferenceQR(req.Reference)
	if err != nil {
		return err
	}
	return ctx.Blob(http.StatusOK, "image/png", png)
}
