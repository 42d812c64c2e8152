// Package dashboard assembles the teacher and student landing screens.
package dashboard

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core/grading"
)

type Stat struct {
	Label string
	Value string
	Icon  string
	Color string
}

type Activity struct {
	Action string
	Detail string // student, class or assignment concerned
	Time   string
}

type UpcomingClass struct {
	Subject  string
	Time     string
	Room     string
	Students int
}

type Task struct {
	Task   string
	Count  int
	Urgent bool
}

// OpensGradeEdit reports whether the task links to the grade edit modal.
func (t Task) OpensGradeEdit() bool { return strings.Contains(t.Task, "Grade") }

type Teacher struct {
	Greeting   string
	Stats      []Stat
	Activities []Activity
	Classes    []UpcomingClass
	Tasks      []Task
}

type RecentGrade struct {
	Subject    string
	Assignment string
	Grade      float64
	MaxGrade   float64
	Date       time.Time
}

func (g RecentGrade) Percentage() float64 { return grading.Ratio(g.Grade, g.MaxGrade) }

func (g RecentGrade) Band() grading.Band { return grading.BandOf(g.Percentage()) }

type UpcomingAssignment struct {
	Subject  string
	Title    string
	DueDate  time.Time
	Priority string // high | medium | low
}

type ScheduleItem struct {
	Subject string
	Time    string
	Room    string
}

type JournalExcerpt struct {
	Subject string
	Date    time.Time
	Content string
}

type Student struct {
	Greeting    string
	Stats       []Stat
	Grades      []RecentGrade
	Assignments []UpcomingAssignment
	Schedule    []ScheduleItem
	Journal     []JournalExcerpt
}

type (
	Repository interface {
		GetTeacherDashboard() (Teacher, error)
		GetStudentDashboard(studentID int) (Student, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Teacher() (Teacher, error) {
	d, err := svc.repo.GetTeacherDashboard()
	return d, errors.Wrap(err, "getting teacher dashboard")
}

func (svc *Service) Student(studentID int) (Student, error) {
	d, err := svc.repo.GetStudentDashboard(studentID)
	return d, errors.Wrap(err, "getting student dashboard")
}
