package inmemdb

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/attendance"
)

func seedAttendance() *attendanceTables {
	const (
		math    = "Mathematics 101"
		physics = "Physics Advanced"
		chem    = "Chemistry Basics"
		english = "English Literature"
		history = "History Modern"
		biology = "Biology Lab"
	)
	return &attendanceTables{
		classes: []attendance.Class{
			{ID: 1, Name: math, Code: "MATH101", Time: "09:00 AM", Students: 28},
			{ID: 2, Name: physics, Code: "PHYS201", Time: "11:00 AM", Students: 24},
			{ID: 3, Name: chem, Code: "CHEM101", Time: "02:00 PM", Students: 32},
			{ID: 4, Name: biology, Code: "BIO301", Time: "03:30 PM", Students: 18},
		},
		rosters: []attendance.Roster{
			{ClassID: 1, ClassName: math, Entries: []attendance.RosterEntry{
				{StudentID: 1, Name: "Sarah Johnson", Status: attendance.Present},
				{StudentID: 2, Name: "Mike Chen", Status: attendance.Present},
				{StudentID: 3, Name: "Emily Davis", Status: attendance.Absent},
				{StudentID: 4, Name: "Alex Rodriguez", Status: attendance.Late},
				{StudentID: 5, Name: "Jessica Wu", Status: attendance.Present},
			}},
			{ClassID: 2, ClassName: physics, Entries: []attendance.RosterEntry{
				{StudentID: 6, Name: "David Kim", Status: attendance.Present},
				{StudentID: 7, Name: "Lisa Zhang", Status: attendance.Present},
				{StudentID: 8, Name: "Tom Wilson", Status: attendance.Present},
				{StudentID: 9, Name: "Anna Lopez", Status: attendance.Absent},
			}},
		},
		students: map[int]attendance.StudentInfo{
			1: {ID: 1, Name: "Sarah Johnson", Email: "sarah.j@school.edu", Code: "STU2024001", Grade: 12},
			2: {ID: 2, Name: "Mike Chen", Email: "mike.c@school.edu", Code: "STU2024002", Grade: 12},
			3: {ID: 3, Name: "Emily Davis", Email: "emily.d@school.edu", Code: "STU2024003", Grade: 11},
			4: {ID: 4, Name: "Alex Rodriguez", Email: "alex.r@school.edu", Code: "STU2024004", Grade: 12},
			5: {ID: 5, Name: "Jessica Wu", Email: "jessica.w@school.edu", Code: "STU2024005", Grade: 11},
		},
		records: map[int][]attendance.Record{
			1: {
				{StudentID: 1, Date: date("2024-01-22"), Class: math, Status: attendance.Present, Time: "09:00 AM"},
				{StudentID: 1, Date: date("2024-01-22"), Class: chem, Status: attendance.Present, Time: "11:30 AM"},
				{StudentID: 1, Date: date("2024-01-22"), Class: english, Status: attendance.Late, Time: "02:15 PM", Note: "15 min late"},
				{StudentID: 1, Date: date("2024-01-21"), Class: physics, Status: attendance.Present, Time: "10:00 AM"},
				{StudentID: 1, Date: date("2024-01-21"), Class: history, Status: attendance.Present, Time: "03:00 PM"},
				{StudentID: 1, Date: date("2024-01-20"), Class: biology, Status: attendance.Absent, Time: "01:00 PM", Reason: "Sick leave"},
				{StudentID: 1, Date: date("2024-01-20"), Class: math, Status: attendance.Present, Time: "09:00 AM"},
				{StudentID: 1, Date: date("2024-01-20"), Class: physics, Status: attendance.Present, Time: "11:00 AM"},
				{StudentID: 1, Date: date("2024-01-20"), Class: chem, Status: attendance.Absent, Time: "02:00 PM", Reason: "Sick leave"},
				{StudentID: 1, Date: date("2024-01-19"), Class: math, Status: attendance.Late, Time: "09:15 AM", Note: "15 minutes late"},
				{StudentID: 1, Date: date("2024-01-19"), Class: physics, Status: attendance.Present, Time: "11:00 AM"},
				{StudentID: 1, Date: date("2024-01-19"), Class: chem, Status: attendance.Present, Time: "11:30 AM"},
				{StudentID: 1, Date: date("2024-01-19"), Class: english, Status: attendance.Present, Time: "03:00 PM"},
				{StudentID: 1, Date: date("2024-01-18"), Class: math, Status: attendance.Present, Time: "09:00 AM"},
				{StudentID: 1, Date: date("2024-01-18"), Class: chem, Status: attendance.Present, Time: "02:00 PM"},
			},
		},
		termStats: map[int]attendance.Stats{
			1: {Total: 64, Present: 58, Absent: 4, Late: 2},
		},
		monthly: map[int][]attendance.MonthStat{
			1: {
				{Month: "Jan 2024", Stats: attendance.Stats{Total: 21, Present: 18, Absent: 2, Late: 1}},
				{Month: "Dec 2023", Stats: attendance.Stats{Total: 21, Present: 20, Absent: 1, Late: 0}},
				{Month: "Nov 2023", Stats: attendance.Stats{Total: 21, Present: 19, Absent: 1, Late: 1}},
				{Month: "Oct 2023", Stats: attendance.Stats{Total: 21, Present: 20, Absent: 0, Late: 1}},
			},
		},
		summaries: map[int][]attendance.SubjectSummary{
			1: {
				{SubjectID: 1, Subject: math, Code: "MATH101", Trend: "up", Stats: attendance.Stats{Total: 20, Present: 19, Absent: 1}},
				{SubjectID: 2, Subject: physics, Code: "PHYS201", Trend: "down", Stats: attendance.Stats{Total: 18, Present: 16, Absent: 1, Late: 1}},
				{SubjectID: 3, Subject: chem, Code: "CHEM101", Trend: "up", Stats: attendance.Stats{Total: 22, Present: 21, Late: 1}},
				{SubjectID: 4, Subject: english, Code: "ENG201", Trend: "stable", Stats: attendance.Stats{Total: 16, Present: 15, Absent: 1}},
				{SubjectID: 5, Subject: history, Code: "HIST301", Trend: "up", Stats: attendance.Stats{Total: 15, Present: 14, Absent: 1}},
				{SubjectID: 6, Subject: biology, Code: "BIO401", Trend: "stable", Stats: attendance.Stats{Total: 12, Present: 11, Late: 1}},
			},
		},
		subjects: []attendance.Subject{
			{ID: 1, Name: math, Code: "MATH101", Instructor: "Prof. Johnson", Schedule: "Mon, Wed, Fri - 09:00 AM", Room: "Room 101", TotalStudents: 28},
			{ID: 2, Name: physics, Code: "PHYS201", Instructor: "Prof. Wilson", Schedule: "Tue, Thu - 10:00 AM", Room: "Lab 201", TotalStudents: 24},
			{ID: 3, Name: chem, Code: "CHEM101", Instructor: "Prof. Davis", Schedule: "Mon, Wed - 11:30 AM", Room: "Lab 301", TotalStudents: 32},
			{ID: 4, Name: english, Code: "ENG201", Instructor: "Prof. Brown", Schedule: "Tue, Thu - 02:00 PM", Room: "Room 205", TotalStudents: 26},
			{ID: 5, Name: history, Code: "HIST301", Instructor: "Prof. Miller", Schedule: "Fri - 03:00 PM", Room: "Room 310", TotalStudents: 22},
			{ID: 6, Name: biology, Code: "BIO401", Instructor: "Prof. Garcia", Schedule: "Sat - 01:00 PM", Room: "Lab 401", TotalStudents: 18},
		},
		sessions: map[int][]attendance.Session{
			1: {
				{SubjectID: 1, Date: date("2024-01-22"), StartTime: "09:00 AM", EndTime: "10:30 AM", Topic: "Quadratic Equations - Applications",
					Status: attendance.Present, CheckedInAt: "08:58 AM", Location: "Room 101", Notes: "On time, active participation in class discussion"},
				{SubjectID: 1, Date: date("2024-01-20"), StartTime: "09:00 AM", EndTime: "10:30 AM", Topic: "Quadratic Formula and Discriminant",
					Status: attendance.Present, CheckedInAt: "09:02 AM", Location: "Room 101", Notes: "Slightly late, but caught up quickly"},
				{SubjectID: 1, Date: date("2024-01-17"), StartTime: "09:00 AM", EndTime: "10:30 AM", Topic: "Completing the Square Method",
					Status: attendance.Late, CheckedInAt: "09:15 AM", Location: "Room 101", Notes: "Late due to traffic, provided explanation", LateMinutes: 15},
				{SubjectID: 1, Date: date("2024-01-15"), StartTime: "09:00 AM", EndTime: "10:30 AM", Topic: "Introduction to Quadratic Equations",
					Status: attendance.Present, CheckedInAt: "08:55 AM", Location: "Room 101", Notes: "Early arrival, prepared for quiz"},
				{SubjectID: 1, Date: date("2024-01-12"), StartTime: "09:00 AM", EndTime: "10:30 AM", Topic: "Review: Linear Equations",
					Status: attendance.Absent, Location: "Room 101", Notes: "Sick leave - flu symptoms", Excused: true, MakeupWork: "Completed review exercises at home"},
				{SubjectID: 1, Date: date("2024-01-10"), StartTime: "09:00 AM", EndTime: "10:30 AM", Topic: "Systems of Linear Equations",
					Status: attendance.Present, CheckedInAt: "09:01 AM", Location: "Room 101", Notes: "Good participation, asked clarifying questions"},
				{SubjectID: 1, Date: date("2024-01-08"), StartTime: "09:00 AM", EndTime: "10:30 AM", Topic: "Linear Equations in Two Variables",
					Status: attendance.Present, CheckedInAt: "08:57 AM", Location: "Room 101", Notes: "Excellent engagement, helped peer with problem"},
			},
		},
		marks: make(map[string]map[rosterKey]attendance.Status),
	}
}

type attendanceRepository struct {
	db *attendanceTables
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) QueryClasses() ([]attendance.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]attendance.Class(nil), repo.db.classes...), nil
}

type rosterKey struct {
	classID   int
	studentID int
}

func (repo *attendanceRepository) QueryRosters(date time.Time) ([]attendance.Roster, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	marked := repo.db.marks[date.Format(core.DateLayout)]
	rosters := make([]attendance.Roster, 0, len(repo.db.rosters))
	for _, r := range repo.db.rosters {
		entries := make([]attendance.RosterEntry, len(r.Entries))
		for i, e := range r.Entries {
			if status, ok := marked[rosterKey{r.ClassID, e.StudentID}]; ok {
				e.Status = status
			}
			entries[i] = e
		}
		r.Entries = entries
		rosters = append(rosters, r)
	}
	return rosters, nil
}

func (repo *attendanceRepository) SetStatus(date time.Time, classID, studentID int, status attendance.Status) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, r := range repo.db.rosters {
		if r.ClassID != classID {
			continue
		}
		for _, e := range r.Entries {
			if e.StudentID == studentID {
				day := date.Format(core.DateLayout)
				if repo.db.marks[day] == nil {
					repo.db.marks[day] = make(map[rosterKey]attendance.Status)
				}
				repo.db.marks[day][rosterKey{classID, studentID}] = status
				repo.record(date, classID, r.ClassName, studentID, status)
				return nil
			}
		}
	}
	return errors.Wrapf(core.ErrNotFound, "student %d on roster %d", studentID, classID)
}

// record adds or updates the student's record of the session and moves the tallies along.
// The caller holds the write lock.
func (repo *attendanceRepository) record(date time.Time, classID int, className string, studentID int, status attendance.Status) {
	records := repo.db.records[studentID]
	var old *attendance.Status
	found := false
	for i := range records {
		if records[i].Class == className && records[i].Date.Equal(date) {
			prev := records[i].Status
			old = &prev
			records[i].Status = status
			if status != attendance.Absent {
				records[i].Reason = ""
			}
			found = true
			break
		}
	}
	if !found {
		rec := attendance.Record{StudentID: studentID, Date: date, Class: className, Status: status}
		for _, cls := range repo.db.classes {
			if cls.ID == classID {
				rec.Time = cls.Time
				break
			}
		}
		records = append(records, rec)
	}
	repo.db.records[studentID] = records

	retally := func(s *attendance.Stats) {
		if old != nil {
			s.Remove(*old)
		}
		s.Add(status)
	}

	stats := repo.db.termStats[studentID]
	retally(&stats)
	repo.db.termStats[studentID] = stats

	month := date.Format("Jan 2006")
	monthly := repo.db.monthly[studentID]
	for i := range monthly {
		if monthly[i].Month == month {
			retally(&monthly[i].Stats)
			break
		}
	}

	summaries := repo.db.summaries[studentID]
	for i := range summaries {
		if summaries[i].Subject == className {
			retally(&summaries[i].Stats)
			return
		}
	}
	summary := attendance.SubjectSummary{Subject: className, Trend: "stable"}
	for _, subj := range repo.db.subjects {
		if subj.Name == className {
			summary.SubjectID, summary.Code = subj.ID, subj.Code
			break
		}
	}
	summary.Add(status)
	repo.db.summaries[studentID] = append(summaries, summary)
}

func (repo *attendanceRepository) GetStudent(id int) (attendance.StudentInfo, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.students[id]; ok {
		return s, nil
	}
	return attendance.StudentInfo{}, errors.Wrapf(core.ErrNotFound, "student %d", id)
}

// QueryStudentClasses lists the subjects the student has records in.
func (repo *attendanceRepository) QueryStudentClasses(studentID int) ([]attendance.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	attended := make(map[string]bool)
	for _, r := range repo.db.records[studentID] {
		attended[r.Class] = true
	}
	var classes []attendance.Class
	for _, s := range repo.db.subjects {
		if attended[s.Name] {
			classes = append(classes, attendance.Class{ID: s.ID, Name: s.Name, Code: s.Code})
		}
	}
	return classes, nil
}

func (repo *attendanceRepository) QueryRecords(studentID int) ([]attendance.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]attendance.Record(nil), repo.db.records[studentID]...), nil
}

func (repo *attendanceRepository) GetTermStats(studentID int) (attendance.Stats, []attendance.MonthStat, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.termStats[studentID], append([]attendance.MonthStat(nil), repo.db.monthly[studentID]...), nil
}

func (repo *attendanceRepository) QuerySubjectSummaries(studentID int) ([]attendance.SubjectSummary, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]attendance.SubjectSummary(nil), repo.db.summaries[studentID]...), nil
}

func (repo *attendanceRepository) QuerySubjects() ([]attendance.Subject, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]attendance.Subject(nil), repo.db.subjects...), nil
}

func (repo *attendanceRepository) QuerySessions(studentID, subjectID int) ([]attendance.Session, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var sessions []attendance.Session
	for _, s := range repo.db.sessions[studentID] {
		if s.SubjectID == subjectID {
			sessions = append(sessions, s)
		}
	}
	return sessions, nil
}
