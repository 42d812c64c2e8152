package student

import (
	"time"

	"github.com/trezcool/edutracker/core/grading"
)

// Profile view tabs
const (
	TabOverview   = "overview"
	TabGrades     = "grades"
	TabAttendance = "attendance"
	TabBehavior   = "behavior"
)

// Own profile tabs
const (
	TabPersonal     = "personal"
	TabAcademic     = "academic"
	TabCourses      = "courses"
	TabAchievements = "achievements"
)

type Tab struct {
	ID    string
	Label string
}

var (
	ViewTabs = []Tab{
		{ID: TabOverview, Label: "Overview"},
		{ID: TabGrades, Label: "Grades"},
		{ID: TabAttendance, Label: "Attendance"},
		{ID: TabBehavior, Label: "Behavior Notes"},
	}
	ProfileTabs = []Tab{
		{ID: TabPersonal, Label: "Personal Info"},
		{ID: TabAcademic, Label: "Academic Info"},
		{ID: TabCourses, Label: "Current Courses"},
		{ID: TabAchievements, Label: "Achievements"},
	}
)

// cleanTab falls back to the first tab when id is unknown.
func cleanTab(id string, tabs []Tab) string {
	for _, t := range tabs {
		if t.ID == id {
			return id
		}
	}
	return tabs[0].ID
}

type Student struct {
	ID             int
	Name           string
	Email          string
	Phone          string
	Code           string
	EnrollmentDate time.Time
	Grade          int
	GPA            float64
}

type EnrolledClass struct {
	ID     int
	Name   string
	Grade  float64
	Status string
}

type AttendanceSummary struct {
	TotalDays   int
	PresentDays int
	AbsentDays  int
}

func (a AttendanceSummary) Rate() float64 {
	return grading.Rate(a.PresentDays, a.TotalDays)
}

type RecentGrade struct {
	Assignment string
	Grade      float64
	MaxGrade   float64
	Date       time.Time
}

// Percentage is rounded to the unit.
func (g RecentGrade) Percentage() float64 {
	if g.MaxGrade <= 0 {
		return 0
	}
	return float64(int(g.Grade/g.MaxGrade*100 + 0.5))
}

func (g RecentGrade) Band() grading.Band {
	return grading.BandOf(g.Percentage())
}

type BehaviorNote struct {
	Date time.Time
	Type string // positive | neutral | negative
	Note string
}

// Record is everything a teacher can see of a student.
type Record struct {
	Student       Student
	Classes       []EnrolledClass
	Attendance    AttendanceSummary
	RecentGrades  []RecentGrade
	BehaviorNotes []BehaviorNote
}

// AverageGrade is the mean of the enrolled classes' grades.
func (r Record) AverageGrade() float64 {
	if len(r.Classes) == 0 {
		return 0
	}
	var sum float64
	for _, c := range r.Classes {
		sum += c.Grade
	}
	return grading.Round1(sum / float64(len(r.Classes)))
}

type ProfileView struct {
	Record
	Tab  string
	Tabs []Tab
}

type Personal struct {
	FirstName          string
	LastName           string
	Email              string
	Phone              string
	DateOfBirth        time.Time
	Address            string
	EmergencyContact   string
	StudentCode        string
	EnrollmentDate     time.Time
	ExpectedGraduation time.Time
	Major              string
	Minor              string
	Advisor            string
}

func (p Personal) FullName() string { return p.FirstName + " " + p.LastName }

type AcademicInfo struct {
	CurrentSemester  string
	TotalCredits     int
	CompletedCredits int
	GPA              float64
	ClassRank        int
	TotalStudents    int
	Standing         string
}

func (a AcademicInfo) CreditProgress() float64 {
	return grading.Rate(a.CompletedCredits, a.TotalCredits)
}

type Course struct {
	Code       string
	Name       string
	Credits    int
	Instructor string
	Grade      string
}

type Achievement struct {
	Title       string
	Semester    string
	Date        *time.Time
	Description string
}

// Profile is a student's own profile.
type Profile struct {
	StudentID    int
	Personal     Personal
	Academic     AcademicInfo
	Courses      []Course
	Achievements []Achievement
}

type ProfilePage struct {
	Profile
	Tab     string
	Tabs    []Tab
	Editing bool
	Form    ProfileUpdate
}

// ProfileUpdate is the editable subset of the personal info.
type ProfileUpdate struct {
	FirstName        string `form:"firstName" validate:"notblank,max=50"`
	LastName         string `form:"lastName" validate:"notblank,max=50"`
	Email            string `form:"email" validate:"required,email"`
	Phone            string `form:"phone" validate:"max=30"`
	DateOfBirth      string `form:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	Address          string `form:"address" validate:"max=200"`
	EmergencyContact string `form:"emergencyContact" validate:"max=200"`
}

// UpdateFrom fills the form with the current values.
func UpdateFrom(p Personal) ProfileUpdate {
	pu := ProfileUpdate{
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Email:            p.Email,
		Phone:            p.Phone,
		Address:          p.Address,
		EmergencyContact: p.EmergencyContact,
	}
	if !p.DateOfBirth.IsZero() {
		pu.DateOfBirth = p.DateOfBirth.Format("2006-01-02")
	}
	return pu
}
