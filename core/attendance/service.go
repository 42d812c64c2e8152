package attendance

import (
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core"
)

// DefaultMonth is the month selected when none is given; the seeded records cover January 2024.
const (
	DefaultMonth = "2024-01"
	DefaultDate  = DefaultMonth + "-20"
)

type (
	Repository interface {
		QueryClasses() ([]Class, error)
		// QueryRosters returns the sheets of a day; unmarked entries keep their usual status.
		QueryRosters(date time.Time) ([]Roster, error)
		// SetStatus marks a student on a day's sheet and keeps the student's records in step.
		SetStatus(date time.Time, classID, studentID int, status Status) error
		GetStudent(id int) (StudentInfo, error)
		QueryStudentClasses(studentID int) ([]Class, error)
		QueryRecords(studentID int) ([]Record, error)
		GetTermStats(studentID int) (Stats, []MonthStat, error)
		QuerySubjectSummaries(studentID int) ([]SubjectSummary, error)
		QuerySubjects() ([]Subject, error)
		QuerySessions(studentID, subjectID int) ([]Session, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetManagement returns the attendance sheets of the teacher's classes.
func (svc *Service) GetManagement(filter RosterFilter) (Management, error) {
	filter.Search = core.CleanString(filter.Search)
	if filter.Class == "" {
		filter.Class = All
	}
	day, err := time.Parse(core.DateLayout, filter.Date)
	if err != nil {
		filter.Date = DefaultDate
		day = core.MustParseDate(DefaultDate)
	}

	classes, err := svc.repo.QueryClasses()
	if err != nil {
		return Management{}, errors.Wrap(err, "querying classes")
	}
	rosters, err := svc.repo.QueryRosters(day)
	if err != nil {
		return Management{}, errors.Wrap(err, "querying rosters")
	}

	mgmt := Management{Classes: classes, Filter: filter}
	for _, r := range rosters {
		if filter.Class != All && filter.Class != strconv.Itoa(r.ClassID) {
			continue
		}
		entries := make([]RosterEntry, 0, len(r.Entries))
		for _, e := range r.Entries {
			if core.ContainsFold(e.Name, filter.Search) {
				entries = append(entries, e)
				mgmt.Stats.Add(e.Status)
			}
		}
		r.Entries = entries
		mgmt.Rosters = append(mgmt.Rosters, r)
	}
	return mgmt, nil
}

// MarkStatus records a student's status on a class roster for the mark's day.
func (svc *Service) MarkStatus(m Mark) error {
	if m.Date == "" {
		m.Date = DefaultDate
	}
	day, err := time.Parse(core.DateLayout, m.Date)
	if err != nil {
		return core.NewFieldError("date", errors.Wrapf(err, "parsing date %q", m.Date))
	}
	return errors.Wrap(svc.repo.SetStatus(day, m.ClassID, m.StudentID, m.Status), "setting status")
}

// GetStudentAttendance returns a student's records for the selected month and class.
func (svc *Service) GetStudentAttendance(studentID int, filter RecordFilter) (StudentAttendance, error) {
	filter.Clean(DefaultMonth)

	student, err := svc.repo.GetStudent(studentID)
	if err != nil {
		return StudentAttendance{}, errors.Wrap(err, "getting student")
	}
	classes, err := svc.repo.QueryStudentClasses(studentID)
	if err != nil {
		return StudentAttendance{}, errors.Wrap(err, "querying student classes")
	}
	records, err := svc.repo.QueryRecords(studentID)
	if err != nil {
		return StudentAttendance{}, errors.Wrap(err, "querying records")
	}
	stats, monthly, err := svc.repo.GetTermStats(studentID)
	if err != nil {
		return StudentAttendance{}, errors.Wrap(err, "getting term stats")
	}

	view := StudentAttendance{Student: student, Classes: classes, Stats: stats, Monthly: monthly, Filter: filter}
	for _, r := range records {
		if filter.Match(r) {
			view.Records = append(view.Records, r)
		}
	}
	sortRecordsDesc(view.Records)
	return view, nil
}

// GetOverview returns a student's attendance per subject.
// Overall totals always cover every subject.
func (svc *Service) GetOverview(studentID int, filter OverviewFilter) (Overview, error) {
	if filter.Month == "" {
		filter.Month = DefaultMonth
	}
	if filter.Subject == "" {
		filter.Subject = All
	}

	summaries, err := svc.repo.QuerySubjectSummaries(studentID)
	if err != nil {
		return Overview{}, errors.Wrap(err, "querying subject summaries")
	}
	records, err := svc.repo.QueryRecords(studentID)
	if err != nil {
		return Overview{}, errors.Wrap(err, "querying records")
	}

	view := Overview{All: summaries, Filter: filter}
	for _, s := range summaries {
		view.Overall.Total += s.Total
		view.Overall.Present += s.Present
		view.Overall.Absent += s.Absent
		view.Overall.Late += s.Late
		if filter.Subject == All || s.Subject == filter.Subject {
			view.Subjects = append(view.Subjects, s)
		}
	}
	for _, r := range records {
		if (filter.Subject == All || r.Class == filter.Subject) && core.InMonth(r.Date, filter.Month) {
			view.Recent = append(view.Recent, r)
		}
	}
	sortRecordsDesc(view.Recent)
	return view, nil
}

// GetSessions returns a student's sessions of one subject for a month.
// ref is either the subject ID or a subject slug.
func (svc *Service) GetSessions(studentID int, ref, month string) (SessionsView, error) {
	if month == "" {
		month = DefaultMonth
	}

	subjects, err := svc.repo.QuerySubjects()
	if err != nil {
		return SessionsView{}, errors.Wrap(err, "querying subjects")
	}
	idx := -1
	if id, err := strconv.Atoi(ref); err == nil {
		for i, s := range subjects {
			if s.ID == id {
				idx = i
				break
			}
		}
	} else {
		idx = core.SlugIndex(ref, len(subjects), func(i int) (string, string) { return subjects[i].Name, subjects[i].Code })
	}
	if idx < 0 {
		return SessionsView{}, errors.Wrapf(core.ErrNotFound, "subject %q", ref)
	}
	subject := subjects[idx]

	sessions, err := svc.repo.QuerySessions(studentID, subject.ID)
	if err != nil {
		return SessionsView{}, errors.Wrap(err, "querying sessions")
	}

	view := SessionsView{Subject: subject, Month: month}
	for _, s := range sessions {
		if core.InMonth(s.Date, month) {
			view.Sessions = append(view.Sessions, s)
			view.Stats.Add(s.Status)
		}
	}
	sort.SliceStable(view.Sessions, func(i, j int) bool { return view.Sessions[i].Date.After(view.Sessions[j].Date) })
	return view, nil
}

func sortRecordsDesc(records []Record) {
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date.After(records[j].Date) })
}
