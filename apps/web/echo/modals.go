package echoweb

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/gradebook"
	"github.com/trezcool/edutracker/core/grading"
)

const defaultClassID = 1

// gradeEditView is the grade entry overlay.
type gradeEditView struct {
	Form        gradebook.GradeEdit
	Result      grading.Result
	Students    []gradebook.StudentGrades
	Assignments []gradebook.Assignment
	Errors      map[string]string
	Next        string // where the form returns, and where the overlay closes to
}

// editClassID picks the class of the grade overlay: the open gradebook, else the `class` query.
func editClassID(ctx echo.Context) int {
	if ctx.Path() == "/gradebook/:id" {
		if id, err := strconv.Atoi(ctx.Param("id")); err == nil && id > 0 {
			return id
		}
	}
	return queryInt(ctx, "class", defaultClassID)
}

func (s *Server) newGradeEditView(form gradebook.GradeEdit, next string) (gradeEditView, error) {
	students, assignments, err := s.deps.GradebookSvc.EditOptions(form.ClassID)
	if err != nil {
		return gradeEditView{}, errors.Wrap(err, "loading grade options")
	}
	return gradeEditView{
		Form:        form,
		Result:      form.Result(),
		Students:    students,
		Assignments: assignments,
		Next:        next,
	}, nil
}

func (s *Server) loadGradeEdit(ctx echo.Context) (gradeEditView, error) {
	form := gradebook.DefaultGradeEdit(editClassID(ctx))
	form.StudentID = queryInt(ctx, "student", form.StudentID)
	form.AssignmentID = queryInt(ctx, "assignment", form.AssignmentID)

	next := ModalURL(ctx.Request().URL, "")
	edit, err := s.newGradeEditView(form, next)
	if err != nil {
		return gradeEditView{}, err
	}
	if len(edit.Students) == 0 && form.ClassID != defaultClassID {
		form.ClassID = defaultClassID
		if edit, err = s.newGradeEditView(form, next); err != nil {
			return gradeEditView{}, err
		}
	}

	// fall back to the first options of a class that lacks the requested ones
	if !hasStudent(edit.Students, edit.Form.StudentID) && len(edit.Students) > 0 {
		edit.Form.StudentID = edit.Students[0].StudentID
	}
	if !hasAssignment(edit.Assignments, edit.Form.AssignmentID) && len(edit.Assignments) > 0 {
		edit.Form.AssignmentID = edit.Assignments[0].ID
	}
	return edit, nil
}

func hasStudent(students []gradebook.StudentGrades, id int) bool {
	for _, sg := range students {
		if sg.StudentID == id {
			return true
		}
	}
	return false
}

func hasAssignment(assignments []gradebook.Assignment, id int) bool {
	for _, a := range assignments {
		if a.ID == id {
			return true
		}
	}
	return false
}

// loadGradeHistory shows the default grade's history when the requested grade is unknown,
// and nothing when that one is gone too.
func (s *Server) loadGradeHistory(ctx echo.Context) (*gradebook.History, error) {
	def := gradebook.DefaultGradeEdit(defaultClassID)
	hist, err := s.deps.GradebookSvc.GetHistory(queryInt(ctx, "student", def.StudentID), queryInt(ctx, "assignment", def.AssignmentID))
	if errors.Cause(err) == core.ErrNotFound {
		hist, err = s.deps.GradebookSvc.GetHistory(def.StudentID, def.AssignmentID)
	}
	switch {
	case errors.Cause(err) == core.ErrNotFound:
		return nil, nil
	case err != nil:
		return nil, err
	}
	return &hist, nil
}

// editGrade saves the grade overlay. A rejected form is shown again over the class gradebook.
func (s *Server) editGrade(ctx echo.Context) error {
	var form gradebook.GradeEdit
	if err := bindForm(ctx, &form); err != nil {
		return err
	}
	next := ctx.FormValue("next")
	if form.ClassID <= 0 {
		form.ClassID = defaultClassID
	}
	fallback := "/gradebook/" + strconv.Itoa(form.ClassID)

	err := form.Validate(s.deps.Validate)
	if err == nil {
		_, err = s.deps.GradebookSvc.EditGrade(form, getContextShell(ctx).reviewer())
	}
	if err == nil {
		return redirect(ctx, safeNext(next, fallback))
	}

	fields, ok := s.fieldErrors(err)
	if !ok {
		return err
	}
	edit, err := s.newGradeEditView(form, safeNext(next, fallback))
	if err != nil {
		return err
	}
	edit.Errors = fields

	detail, err := s.deps.GradebookSvc.GetClassDetail(form.ClassID, gradebook.DetailFilter{})
	if err != nil {
		return err
	}
	return s.render(ctx, http.StatusBadRequest, Page{
		Screen:    ScreenGradebookDetail,
		Title:     detail.Class.Name,
		Data:      detail,
		Errors:    fields,
		gradeEdit: &edit,
	})
}
