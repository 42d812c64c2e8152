package inmemdb

import (
	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/dashboard"
	"github.com/trezcool/edutracker/core/reports"
)

func seedDashboards() *dashboardTable {
	return &dashboardTable{
		teacher: dashboard.Teacher{
			Greeting: "Welcome back, Professor Smith!",
			Stats: []dashboard.Stat{
				{Label: "Total Students", Value: "156", Icon: "users", Color: "blue"},
				{Label: "Active Classes", Value: "8", Icon: "book-open", Color: "green"},
				{Label: "Pending Grades", Value: "23", Icon: "clock", Color: "yellow"},
				{Label: "Attendance Rate", Value: "94%", Icon: "trending-up", Color: "purple"},
			},
			Activities: []dashboard.Activity{
				{Action: "Graded Math Quiz #3", Detail: "Sarah Johnson", Time: "5 minutes ago"},
				{Action: "Marked attendance for Period 2", Detail: "Physics 101", Time: "30 minutes ago"},
				{Action: "Added assignment", Detail: "History Essay", Time: "1 hour ago"},
				{Action: "Approved leave request", Detail: "Mike Chen", Time: "2 hours ago"},
			},
			Classes: []dashboard.UpcomingClass{
				{Subject: "Mathematics", Time: "09:00 AM", Room: "Room 101", Students: 28},
				{Subject: "Physics", Time: "11:00 AM", Room: "Lab 201", Students: 24},
				{Subject: "Chemistry", Time: "02:00 PM", Room: "Lab 301", Students: 22},
			},
			Tasks: []dashboard.Task{
				{Task: "Grade Biology Lab Reports", Count: 15, Urgent: true},
				{Task: "Review Leave Requests", Count: 3},
				{Task: "Update Attendance Records", Count: 2, Urgent: true},
				{Task: "Prepare Semester Reports", Count: 8},
			},
		},
		students: map[int]dashboard.Student{
			1: {
				Greeting: "Welcome back, Sarah! Here's your academic overview.",
				Stats: []dashboard.Stat{
					{Label: "Overall GPA", Value: "3.85", Icon: "trending-up", Color: "blue"},
					{Label: "Courses", Value: "6", Icon: "book-open", Color: "green"},
					{Label: "Attendance Rate", Value: "96%", Icon: "calendar", Color: "purple"},
					{Label: "Assignments Due", Value: "3", Icon: "clock", Color: "yellow"},
				},
				Grades: []dashboard.RecentGrade{
					{Subject: "Mathematics 101", Assignment: "Quiz 3", Grade: 95, MaxGrade: 100, Date: date("2024-01-20")},
					{Subject: "Physics Advanced", Assignment: "Lab Report 2", Grade: 88, MaxGrade: 100, Date: date("2024-01-18")},
					{Subject: "Chemistry Basics", Assignment: "Homework 4", Grade: 92, MaxGrade: 100, Date: date("2024-01-15")},
					{Subject: "English Literature", Assignment: "Essay Analysis", Grade: 89, MaxGrade: 100, Date: date("2024-01-12")},
				},
				Assignments: []dashboard.UpcomingAssignment{
					{Subject: "Mathematics 101", Title: "Chapter 5 Test", DueDate: date("2024-01-25"), Priority: "high"},
					{Subject: "Physics Advanced", Title: "Project Proposal", DueDate: date("2024-01-27"), Priority: "medium"},
					{Subject: "Chemistry Basics", Title: "Lab Report 3", DueDate: date("2024-01-30"), Priority: "low"},
				},
				Schedule: []dashboard.ScheduleItem{
					{Subject: "Mathematics 101", Time: "09:00 AM", Room: "Room 101"},
					{Subject: "Chemistry Basics", Time: "11:30 AM", Room: "Lab 301"},
					{Subject: "English Literature", Time: "02:00 PM", Room: "Room 205"},
				},
				Journal: []dashboard.JournalExcerpt{
					{Subject: "Mathematics 101", Date: date("2024-01-20"), Content: "Learned about quadratic equations and their applications in real-world problems..."},
					{Subject: "Physics Advanced", Date: date("2024-01-19"), Content: "Conducted experiment on electromagnetic induction. Key findings include..."},
					{Subject: "Chemistry Basics", Date: date("2024-01-18"), Content: "Study of molecular structures and bonding patterns..."},
				},
			},
		},
	}
}

func seedReports() *reportsTable {
	return &reportsTable{
		teacher: reports.TeacherStats{
			TotalStudents: 156, AverageGrade: 85.2, AttendanceRate: 94.1, AssignmentsGraded: 234, ClassesActive: 8,
		},
		students: map[int]reports.StudentStats{
			1: {CurrentGPA: 3.85, CreditsCompleted: 32, AttendanceRate: 96.2, JournalEntries: 45, AssignmentsCompleted: 28},
		},
	}
}

type dashboardRepository struct {
	db *dashboardTable
}

var _ dashboard.Repository = (*dashboardRepository)(nil) // interface compliance check

func NewDashboardRepository(db *DB) dashboard.Repository {
	return &dashboardRepository{db: db.dashboard}
}

func (repo *dashboardRepository) GetTeacherDashboard() (dashboard.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.teacher, nil
}

func (repo *dashboardRepository) GetStudentDashboard(studentID int) (dashboard.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if d, ok := repo.db.students[studentID]; ok {
		return d, nil
	}
	return dashboard.Student{}, errors.Wrapf(core.ErrNotFound, "dashboard of student %d", studentID)
}

type reportsRepository struct {
	db *reportsTable
}

var _ reports.Repository = (*reportsRepository)(nil) // interface compliance check

func NewReportsRepository(db *DB) reports.Repository {
	return &reportsRepository{db: db.reports}
}

func (repo *reportsRepository) GetTeacherStats() (reports.TeacherStats, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.db.teacher, nil
}

func (repo *reportsRepository) GetStudentStats(studentID int) (reports.StudentStats, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if st, ok := repo.db.students[studentID]; ok {
		return st, nil
	}
	return reports.StudentStats{}, errors.Wrapf(core.ErrNotFound, "report stats of student %d", studentID)
}
