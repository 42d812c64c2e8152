package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/grading"
)

type Status string

const (
	Present Status = "present"
	Absent  Status = "absent"
	Late    Status = "late"
)

// All disables a select filter.
const All = "all"

func (s Status) Valid() bool {
	return s == Present || s == Absent || s == Late
}

// Stats counts sessions by status. Rates are derived, never stored.
type Stats struct {
	Total   int
	Present int
	Absent  int
	Late    int
}

func (s *Stats) Add(status Status) {
	s.Total++
	switch status {
	case Present:
		s.Present++
	case Absent:
		s.Absent++
	case Late:
		s.Late++
	}
}

// Remove undoes an Add of the same status.
func (s *Stats) Remove(status Status) {
	if s.Total == 0 {
		return
	}
	s.Total--
	switch status {
	case Present:
		s.Present--
	case Absent:
		s.Absent--
	case Late:
		s.Late--
	}
}

// PresentRate counts only on-time presence.
func (s Stats) PresentRate() float64 { return grading.Rate(s.Present, s.Total) }

// AttendedRate counts late arrivals as attended.
func (s Stats) AttendedRate() float64 { return grading.Rate(s.Present+s.Late, s.Total) }

// Class is a class whose attendance a teacher takes.
type Class struct {
	ID       int
	Name     string
	Code     string
	Time     string
	Students int
}

type RosterEntry struct {
	StudentID int
	Name      string
	Status    Status
}

// Roster is the attendance sheet of one class.
type Roster struct {
	ClassID   int
	ClassName string
	Entries   []RosterEntry
}

func (r Roster) Stats() Stats {
	var s Stats
	for _, e := range r.Entries {
		s.Add(e.Status)
	}
	return s
}

// RosterFilter narrows the attendance management sheet.
type RosterFilter struct {
	Date   string `query:"date"`
	Class  string `query:"class"` // "all" or a class ID
	Search string `query:"search"`
}

type Management struct {
	Classes []Class
	Rosters []Roster
	Stats   Stats
	Filter  RosterFilter
}

// Mark sets a student's status on the roster of a class session.
// An empty date marks the default sheet.
type Mark struct {
	Date      string `form:"date" validate:"omitempty,datetime=2006-01-02"`
	ClassID   int    `form:"classId" validate:"required"`
	StudentID int    `form:"studentId" validate:"required"`
	Status    Status `form:"status" validate:"required,oneof=present absent late"`
}

func (m Mark) Validate(validate *validator.Validate) error {
	return validate.Struct(m)
}

// Record is one attended (or missed) session of a student.
type Record struct {
	StudentID int
	Date      time.Time
	Class     string
	Status    Status
	Time      string
	Reason    string
	Note      string
}

type MonthStat struct {
	Month string // "Jan 2024"
	Stats
}

type StudentInfo struct {
	ID    int
	Name  string
	Email string
	Code  string
	Grade int
}

// RecordFilter narrows a student's records.
type RecordFilter struct {
	Month string `query:"month"`
	Class string `query:"class"` // "all" or a class name
}

func (f *RecordFilter) Clean(defaultMonth string) {
	if f.Month == "" {
		f.Month = defaultMonth
	}
	if f.Class == "" {
		f.Class = All
	}
}

func (f RecordFilter) Match(r Record) bool {
	return (f.Class == All || r.Class == f.Class) && core.InMonth(r.Date, f.Month)
}

type StudentAttendance struct {
	Student StudentInfo
	Classes []Class
	Records []Record
	Stats   Stats // term totals
	Monthly []MonthStat
	Filter  RecordFilter
}

// SubjectSummary is a student's attendance totals for one subject.
type SubjectSummary struct {
	SubjectID int
	Subject   string
	Code      string
	Trend     string // up, down or stable
	Stats
}

type OverviewFilter struct {
	Month   string `query:"month"`
	Subject string `query:"subject"` // "all" or a subject name
}

type Overview struct {
	Subjects []SubjectSummary // filtered
	All      []SubjectSummary
	Recent   []Record
	Overall  Stats // across every subject
	Filter   OverviewFilter
}

type Subject struct {
	ID            int
	Name          string
	Code          string
	Instructor    string
	Schedule      string
	Room          string
	TotalStudents int
}

func (s Subject) Slug() string { return core.Slugify(s.Name) }

type Session struct {
	SubjectID   int
	Date        time.Time
	StartTime   string
	EndTime     string
	Topic       string
	Status      Status
	CheckedInAt string
	Location    string
	Notes       string
	LateMinutes int
	Excused     bool
	MakeupWork  string
}

func (s Session) DayOfWeek() string { return s.Date.Weekday().String() }

type SessionsView struct {
	Subject  Subject
	Sessions []Session
	Stats    Stats // sessions of the selected month
	Month    string
}
