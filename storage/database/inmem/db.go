// Package inmemdb is the process-local store behind every repository. Each table guards
// its rows with its own lock and hands out copies, so callers never share state with it.
package inmemdb

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core/attendance"
	"github.com/trezcool/edutracker/core/dashboard"
	"github.com/trezcool/edutracker/core/gradebook"
	"github.com/trezcool/edutracker/core/journal"
	"github.com/trezcool/edutracker/core/leave"
	"github.com/trezcool/edutracker/core/reports"
	"github.com/trezcool/edutracker/core/student"
	"github.com/trezcool/edutracker/core/user"
)

type (
	DB struct {
		user       *userTable
		gradebook  *gradebookTables
		attendance *attendanceTables
		leave      *leaveTable
		journal    *journalTables
		student    *studentTables
		dashboard  *dashboardTable
		reports    *reportsTable
	}

	userTable struct {
		sync.RWMutex
		table map[int]*user.User
		pk    int
	}

	gradebookTables struct {
		sync.RWMutex
		classes     []gradebook.Class
		assignments []gradebook.Assignment
		grades      map[int][]*gradebook.StudentGrades // {classID: rows}
		changes     []gradebook.GradeChange
		changePK    int
		subjects    map[int][]gradebook.SubjectGrades // {studentID: subjects}
		details     map[int]gradebook.AssignmentDetail // {assignmentID: detail}
		instructors map[string]string                  // {subject code: instructor}
	}

	attendanceTables struct {
		sync.RWMutex
		classes   []attendance.Class
		rosters   []attendance.Roster
		marks     map[string]map[rosterKey]attendance.Status // {date: marked statuses}
		students  map[int]attendance.StudentInfo
		records   map[int][]attendance.Record // {studentID: records}
		termStats map[int]attendance.Stats
		monthly   map[int][]attendance.MonthStat
		summaries map[int][]attendance.SubjectSummary
		subjects  []attendance.Subject
		sessions  map[int][]attendance.Session // {studentID: sessions}
	}

	leaveTable struct {
		sync.RWMutex
		table map[int]*leave.Request
		pk    int
	}

	journalTables struct {
		sync.RWMutex
		subjects []journal.Subject
		entries  map[int][]journal.Entry // {studentID: entries}
	}

	studentTables struct {
		sync.RWMutex
		records  map[int]student.Record
		profiles map[int]student.Profile
	}

	dashboardTable struct {
		sync.RWMutex
		teacher  dashboard.Teacher
		students map[int]dashboard.Student
	}

	reportsTable struct {
		sync.RWMutex
		teacher  reports.TeacherStats
		students map[int]reports.StudentStats
	}
)

// Open returns a DB seeded with the demo data set.
func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[int]*user.User)},
		gradebook:  seedGradebook(),
		attendance: seedAttendance(),
		leave:      seedLeave(),
		journal:    seedJournal(),
		student:    seedStudents(),
		dashboard:  seedDashboards(),
		reports:    seedReports(),
	}
	if err := seedUsers(db.user); err != nil {
		return nil, errors.Wrap(err, "seeding users")
	}
	return db, nil
}
