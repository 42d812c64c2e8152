package reports

import (
	"fmt"

	"github.com/trezcool/edutracker/core/user"
)

// Periods
const (
	PeriodWeek     = "week"
	PeriodMonth    = "month"
	PeriodSemester = "semester"
	PeriodYear     = "year"
)

type Period struct {
	Value string
	Label string
}

var Periods = []Period{
	{Value: PeriodWeek, Label: "This Week"},
	{Value: PeriodMonth, Label: "This Month"},
	{Value: PeriodSemester, Label: "This Semester"},
	{Value: PeriodYear, Label: "This Year"},
}

type Report struct {
	ID          string
	Name        string
	Description string
}

var (
	TeacherReports = []Report{
		{ID: "overview", Name: "Class Overview", Description: "Overall class performance and statistics"},
		{ID: "grades", Name: "Grade Distribution", Description: "Grade patterns and distribution analysis"},
		{ID: "attendance", Name: "Attendance Report", Description: "Student attendance patterns and trends"},
		{ID: "individual", Name: "Individual Progress", Description: "Detailed student progress reports"},
		{ID: "comparative", Name: "Comparative Analysis", Description: "Compare performance across classes"},
	}
	StudentReports = []Report{
		{ID: "academic", Name: "Academic Progress", Description: "Your grades and academic performance"},
		{ID: "attendance", Name: "Attendance Summary", Description: "Your attendance record and patterns"},
		{ID: "goals", Name: "Learning Goals", Description: "Progress toward learning objectives"},
		{ID: "journal", Name: "Journal Analytics", Description: "Your learning journal insights"},
		{ID: "transcript", Name: "Unofficial Transcript", Description: "Complete academic record"},
	}
)

// Catalog lists the reports available to role.
func Catalog(role user.Role) []Report {
	if role == user.RoleStudent {
		return StudentReports
	}
	return TeacherReports
}

type TeacherStats struct {
	TotalStudents     int
	AverageGrade      float64
	AttendanceRate    float64
	AssignmentsGraded int
	ClassesActive     int
}

type StudentStats struct {
	CurrentGPA           float64
	CreditsCompleted     int
	AttendanceRate       float64
	JournalEntries       int
	AssignmentsCompleted int
}

// Stat is one tile of the stats overview.
type Stat struct {
	Label string
	Value string
	Icon  string
}

func (s TeacherStats) Tiles() []Stat {
	return []Stat{
		{Label: "Total Students", Value: fmt.Sprint(s.TotalStudents), Icon: "users"},
		{Label: "Average Grade", Value: fmt.Sprintf("%.1f%%", s.AverageGrade), Icon: "trending-up"},
		{Label: "Attendance Rate", Value: fmt.Sprintf("%.1f%%", s.AttendanceRate), Icon: "calendar"},
		{Label: "Assignments Graded", Value: fmt.Sprint(s.AssignmentsGraded), Icon: "book-open"},
		{Label: "Active Classes", Value: fmt.Sprint(s.ClassesActive), Icon: "C"},
	}
}

func (s StudentStats) Tiles() []Stat {
	return []Stat{
		{Label: "Current GPA", Value: fmt.Sprintf("%.2f", s.CurrentGPA), Icon: "trending-up"},
		{Label: "Credits Completed", Value: fmt.Sprint(s.CreditsCompleted), Icon: "book-open"},
		{Label: "Attendance Rate", Value: fmt.Sprintf("%.1f%%", s.AttendanceRate), Icon: "calendar"},
		{Label: "Journal Entries", Value: fmt.Sprint(s.JournalEntries), Icon: "J"},
		{Label: "Assignments Done", Value: fmt.Sprint(s.AssignmentsCompleted), Icon: "A"},
	}
}

type Filter struct {
	Period string `query:"period"`
	Report string `query:"report"`
}

// Clean defaults the period to the semester and an unknown report to the first of the catalog.
func (f *Filter) Clean(catalog []Report) {
	valid := false
	for _, p := range Periods {
		if p.Value == f.Period {
			valid = true
			break
		}
	}
	if !valid {
		f.Period = PeriodSemester
	}

	for _, r := range catalog {
		if r.ID == f.Report {
			return
		}
	}
	f.Report = catalog[0].ID
}

type View struct {
	Role     user.Role
	Reports  []Report
	Selected Report
	Periods  []Period
	Stats    []Stat
	Filter   Filter
}

func (v View) IsTeacher() bool { return v.Role != user.RoleStudent }
