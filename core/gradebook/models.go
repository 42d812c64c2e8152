package gradebook

import (
	"sort"
	"time"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/grading"
)

// Semesters
const (
	SemesterCurrent  = "current"
	SemesterArchived = "archived"
	SemesterAll      = "all"
)

// All disables a select filter.
const All = "all"

// Class statuses
const (
	ClassActive    = "active"
	ClassCompleted = "completed"
)

// Grade change actions
const (
	ActionSubmitted = "Assignment Submitted"
	ActionEntered   = "Grade Entered"
	ActionUpdated   = "Grade Updated"
)

type Class struct {
	ID          int
	Name        string
	Code        string
	Students    int
	Semester    string
	AvgGrade    float64
	LastUpdated string
	Status      string
}

type Assignment struct {
	ID      int
	ClassID int
	Name    string
	Type    string
	Points  float64
	DueDate time.Time
}

// StudentGrades is one gradebook row: a student's score per assignment ID.
type StudentGrades struct {
	StudentID   int
	StudentCode string
	Name        string
	Email       string
	Scores      map[int]float64
}

// Score returns the recorded score for an assignment, if any.
func (sg StudentGrades) Score(assignmentID int) (float64, bool) {
	score, ok := sg.Scores[assignmentID]
	return score, ok
}

// GradeChange is one entry of an assignment's grading history.
type GradeChange struct {
	ID           int
	StudentID    int
	AssignmentID int
	Date         time.Time
	Action       string
	OldScore     *float64
	NewScore     *float64
	MaxScore     float64
	ChangedBy    string
	Reason       string
	Feedback     string
}

// ClassFilter narrows the gradebook list.
type ClassFilter struct {
	Search   string `query:"search"`
	Semester string `query:"semester"`
}

func (f *ClassFilter) Clean() {
	f.Search = core.CleanString(f.Search)
	switch f.Semester {
	case SemesterCurrent, SemesterArchived, SemesterAll:
	default:
		f.Semester = SemesterCurrent
	}
}

func (f ClassFilter) Match(cls Class) bool {
	matchesSearch := core.ContainsFold(cls.Name, f.Search) || core.ContainsFold(cls.Code, f.Search)
	matchesSemester := f.Semester == SemesterAll ||
		(f.Semester == SemesterCurrent && cls.Status == ClassActive) ||
		(f.Semester == SemesterArchived && cls.Status == ClassCompleted)
	return matchesSearch && matchesSemester
}

// DetailFilter narrows a class gradebook: rows by student name, columns by assignment.
type DetailFilter struct {
	Search     string `query:"search"`
	Assignment string `query:"assignment"` // "all" or an assignment ID
}

// StudentRow is a gradebook row with its computed totals.
type StudentRow struct {
	StudentGrades
	Total    float64
	MaxTotal float64
	Result   grading.Result
}

type ClassDetail struct {
	Class       Class
	Assignments []Assignment // columns, after DetailFilter.Assignment
	All         []Assignment
	Rows        []StudentRow
	Filter      DetailFilter
}

// GradeEdit is the grade entry form.
type GradeEdit struct {
	ClassID      int     `form:"classId"`
	StudentID    int     `form:"studentId" validate:"required"`
	AssignmentID int     `form:"assignmentId" validate:"required"`
	Score        float64 `form:"score" validate:"gte=0"`
	MaxScore     float64 `form:"maxScore" validate:"gte=1"`
	Late         bool    `form:"lateSubmission"`
	LatePenalty  float64 `form:"latePenalty" validate:"gte=0"`
	Feedback     string  `form:"feedback"`
	Reason       string  `form:"reason"`
}

// DefaultGradeEdit is the form prefilled for the first student and assignment.
func DefaultGradeEdit(classID int) GradeEdit {
	return GradeEdit{ClassID: classID, StudentID: 1, AssignmentID: 1, Score: 45, MaxScore: 50}
}

func (ge GradeEdit) Result() grading.Result {
	return grading.Compute(grading.Input{
		Score:       ge.Score,
		MaxScore:    ge.MaxScore,
		Late:        ge.Late,
		LatePenalty: ge.LatePenalty,
	})
}

// History is the grade history of one student's assignment.
type History struct {
	Student    StudentGrades
	Assignment Assignment
	Current    *float64
	Result     grading.Result
	Changes    []GradeChange // newest first
}

// GradedAssignment is an assignment as seen by the student who took it.
type GradedAssignment struct {
	ID       int
	Name     string
	Type     string
	Score    float64
	MaxScore float64
	Date     time.Time
	Weight   int
}

func (ga GradedAssignment) Result() grading.Result {
	return grading.Compute(grading.Input{Score: ga.Score, MaxScore: ga.MaxScore})
}

// SubjectGrades groups a student's graded assignments for one subject.
type SubjectGrades struct {
	ID           int
	Subject      string
	Code         string
	Semester     string
	Assignments  []GradedAssignment
	CurrentGrade float64
	GPA          float64
	Credits      int
}

func (sg SubjectGrades) Letter() string     { return grading.Letter(sg.CurrentGrade) }
func (sg SubjectGrades) Band() grading.Band { return grading.BandOf(sg.CurrentGrade) }

// GradeFilter narrows a student's grades.
type GradeFilter struct {
	Semester string `query:"semester"`
	Subject  string `query:"subject"`
	Search   string `query:"search"`
}

func (f *GradeFilter) Clean() {
	f.Search = core.CleanString(f.Search)
	if f.Semester == "" {
		f.Semester = SemesterCurrent
	}
	if f.Subject == "" {
		f.Subject = All
	}
}

func (f GradeFilter) Match(sg SubjectGrades) bool {
	matchesSubject := f.Subject == All || sg.Subject == f.Subject
	matchesSearch := core.ContainsFold(sg.Subject, f.Search) || core.ContainsFold(sg.Code, f.Search)
	return matchesSubject && matchesSearch
}

type OverallStats struct {
	TotalCredits     int
	WeightedGPA      float64
	TotalAssignments int
	AvgGrade         float64
}

type GradesView struct {
	Subjects    []SubjectGrades // filtered
	AllSubjects []string
	Stats       OverallStats
	Filter      GradeFilter
}

type RubricItem struct {
	Criteria string
	Points   float64
	Earned   float64
	Feedback string
}

type FileRef struct {
	Name string
	Size string
}

type AssignmentStats struct {
	ClassAverage float64
	HighestScore float64
	LowestScore  float64
	Percentile   int
}

// AssignmentDetail is the full student-facing record of a graded assignment.
type AssignmentDetail struct {
	GradedAssignment
	Title        string
	Subject      string
	Code         string
	Instructor   string
	SubmittedAt  time.Time
	GradedAt     time.Time
	DueAt        time.Time
	Instructions string
	Objectives   []string
	Rubric       []RubricItem
	Feedback     string
	Attachments  []FileRef
	Stats        AssignmentStats
}

func sortChangesDesc(changes []GradeChange) {
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Date.After(changes[j].Date)
	})
}
