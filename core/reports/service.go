package reports

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/edutracker/core/gradebook"
	"github.com/trezcool/edutracker/core/user"
)

const (
	summarySheet = "Summary"
	classesSheet = "Classes"
	gradesSheet  = "Grades"
)

type (
	Repository interface {
		GetTeacherStats() (TeacherStats, error)
		GetStudentStats(studentID int) (StudentStats, error)
	}

	// GradeSource provides the rows of the exported workbooks.
	GradeSource interface {
		FilterClasses(filter gradebook.ClassFilter) ([]gradebook.Class, error)
		GetStudentGrades(studentID int, filter gradebook.GradeFilter) (gradebook.GradesView, error)
	}

	Service struct {
		repo   Repository
		grades GradeSource
	}
)

var _ GradeSource = (*gradebook.Service)(nil)

func NewService(repo Repository, grades GradeSource) *Service {
	return &Service{repo: repo, grades: grades}
}

func (svc *Service) stats(role user.Role, studentID int) ([]Stat, error) {
	if role == user.RoleStudent {
		st, err := svc.repo.GetStudentStats(studentID)
		if err != nil {
			return nil, errors.Wrap(err, "getting student stats")
		}
		return st.Tiles(), nil
	}
	st, err := svc.repo.GetTeacherStats()
	if err != nil {
		return nil, errors.Wrap(err, "getting teacher stats")
	}
	return st.Tiles(), nil
}

// GetView returns the reports screen for role.
func (svc *Service) GetView(role user.Role, studentID int, filter Filter) (View, error) {
	catalog := Catalog(role)
	filter.Clean(catalog)

	stats, err := svc.stats(role, studentID)
	if err != nil {
		return View{}, err
	}

	v := View{Role: role, Reports: catalog, Periods: Periods, Stats: stats, Filter: filter}
	for _, r := range catalog {
		if r.ID == filter.Report {
			v.Selected = r
		}
	}
	return v, nil
}

// Filename names the workbook produced by Export.
func Filename(role user.Role, filter Filter) string {
	return fmt.Sprintf("edutracker-%s-%s-%s.xlsx", role, filter.Report, filter.Period)
}

// Export builds an xlsx workbook of the selected report: the stats overview followed by
// the classes (teacher) or the subject grades (student).
func (svc *Service) Export(role user.Role, studentID int, filter Filter) (*bytes.Buffer, string, error) {
	v, err := svc.GetView(role, studentID, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	//goland:noinspection GoUnhandledErrorResult
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, "", errors.Wrap(err, "naming summary sheet")
	}
	rows := [][]interface{}{
		{"Report", v.Selected.Name},
		{"Period", periodLabel(v.Filter.Period)},
		{},
	}
	for _, st := range v.Stats {
		rows = append(rows, []interface{}{st.Label, st.Value})
	}
	if err := setRows(f, summarySheet, rows); err != nil {
		return nil, "", err
	}

	if role == user.RoleStudent {
		err = svc.writeGrades(f, studentID)
	} else {
		err = svc.writeClasses(f)
	}
	if err != nil {
		return nil, "", err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", errors.Wrap(err, "writing workbook")
	}
	return buf, Filename(role, v.Filter), nil
}

func (svc *Service) writeClasses(f *excelize.File) error {
	classes, err := svc.grades.FilterClasses(gradebook.ClassFilter{Semester: gradebook.SemesterAll})
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	rows := [][]interface{}{{"Code", "Name", "Semester", "Students", "Average Grade", "Status"}}
	for _, c := range classes {
		rows = append(rows, []interface{}{c.Code, c.Name, c.Semester, c.Students, c.AvgGrade, c.Status})
	}
	if _, err := f.NewSheet(classesSheet); err != nil {
		return errors.Wrap(err, "creating classes sheet")
	}
	return setRows(f, classesSheet, rows)
}

func (svc *Service) writeGrades(f *excelize.File, studentID int) error {
	gv, err := svc.grades.GetStudentGrades(studentID, gradebook.GradeFilter{Semester: gradebook.SemesterAll})
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	rows := [][]interface{}{{"Code", "Subject", "Semester", "Credits", "Current Grade", "Letter", "GPA"}}
	for _, sg := range gv.Subjects {
		rows = append(rows, []interface{}{sg.Code, sg.Subject, sg.Semester, sg.Credits, sg.CurrentGrade, sg.Letter(), sg.GPA})
	}
	if _, err := f.NewSheet(gradesSheet); err != nil {
		return errors.Wrap(err, "creating grades sheet")
	}
	return setRows(f, gradesSheet, rows)
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "locating cell")
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "writing %s row %d", sheet, i+1)
		}
	}
	return nil
}

func periodLabel(value string) string {
	for _, p := range Periods {
		if p.Value == value {
			return p.Label
		}
	}
	return value
}
