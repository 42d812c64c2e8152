package inmemdb

import (
	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/student"
)

func seedStudents() *studentTables {
	basic := func(id int, name, email, code string, grade int, gpa float64) student.Record {
		return student.Record{
			Student: student.Student{
				ID: id, Name: name, Email: email, Code: code,
				EnrollmentDate: date("2024-01-15"), Grade: grade, GPA: gpa,
			},
			Classes: []student.EnrolledClass{{ID: 1, Name: "Mathematics 101", Status: "active"}},
		}
	}

	records := map[int]student.Record{
		1: {
			Student: student.Student{
				ID: 1, Name: "Sarah Johnson", Email: "sarah.j@school.edu", Phone: "(555) 123-4567", Code: "STU2024001",
				EnrollmentDate: date("2024-01-15"), Grade: 12, GPA: 3.85,
			},
			Classes: []student.EnrolledClass{
				{ID: 1, Name: "Mathematics 101", Grade: 93.0, Status: "active"},
				{ID: 2, Name: "Physics Advanced", Grade: 87.5, Status: "active"},
				{ID: 3, Name: "Chemistry Basics", Grade: 91.2, Status: "active"},
				{ID: 4, Name: "English Literature", Grade: 89.8, Status: "active"},
			},
			Attendance: student.AttendanceSummary{TotalDays: 180, PresentDays: 168, AbsentDays: 12},
			RecentGrades: []student.RecentGrade{
				{Assignment: "Math Quiz 3", Grade: 95, MaxGrade: 100, Date: date("2024-01-20")},
				{Assignment: "Physics Lab Report", Grade: 88, MaxGrade: 100, Date: date("2024-01-18")},
				{Assignment: "Chemistry Homework 2", Grade: 92, MaxGrade: 100, Date: date("2024-01-15")},
				{Assignment: "English Essay", Grade: 87, MaxGrade: 100, Date: date("2024-01-12")},
			},
			BehaviorNotes: []student.BehaviorNote{
				{Date: date("2024-01-20"), Type: "positive", Note: "Excellent participation in class discussion"},
				{Date: date("2024-01-15"), Type: "neutral", Note: "Requested extra help with physics concepts"},
				{Date: date("2024-01-10"), Type: "positive", Note: "Helped classmate with math problem"},
			},
		},
		2: basic(2, "Mike Chen", "mike.c@school.edu", "STU2024002", 12, 3.4),
		3: basic(3, "Emily Davis", "emily.d@school.edu", "STU2024003", 11, 3.7),
		4: basic(4, "Alex Rodriguez", "alex.r@school.edu", "STU2024004", 12, 2.9),
		5: basic(5, "Jessica Wu", "jessica.w@school.edu", "STU2024005", 11, 3.6),
	}
	// class grades of the basic profiles come from the gradebook totals
	for id, pct := range map[int]float64{2: 87.0, 3: 92.0, 4: 74.0, 5: 91.8} {
		rec := records[id]
		rec.Classes[0].Grade = pct
		records[id] = rec
	}

	return &studentTables{
		records: records,
		profiles: map[int]student.Profile{
			1: {
				StudentID: 1,
				Personal: student.Personal{
					FirstName:          "Sarah",
					LastName:           "Johnson",
					Email:              "sarah.johnson@school.edu",
					Phone:              "(555) 123-4567",
					DateOfBirth:        date("2002-03-15"),
					Address:            "123 Main Street, Anytown, ST 12345",
					EmergencyContact:   "Jane Johnson (Mother) - (555) 987-6543",
					StudentCode:        "STU2024001",
					EnrollmentDate:     date("2024-01-15"),
					ExpectedGraduation: date("2026-05-15"),
					Major:              "Computer Science",
					Minor:              "Mathematics",
					Advisor:            "Prof. Dr. Smith",
				},
				Academic: student.AcademicInfo{
					CurrentSemester: "Fall 2024", TotalCredits: 45, CompletedCredits: 32, GPA: 3.85,
					ClassRank: 15, TotalStudents: 120, Standing: "Good Standing",
				},
				Courses: []student.Course{
					{Code: "MATH101", Name: "Mathematics 101", Credits: 3, Instructor: "Prof. Johnson", Grade: "A-"},
					{Code: "PHYS201", Name: "Physics Advanced", Credits: 4, Instructor: "Prof. Wilson", Grade: "B+"},
					{Code: "CHEM101", Name: "Chemistry Basics", Credits: 3, Instructor: "Prof. Davis", Grade: "A"},
					{Code: "ENG201", Name: "English Literature", Credits: 3, Instructor: "Prof. Brown", Grade: "A-"},
					{Code: "HIST301", Name: "History Modern", Credits: 3, Instructor: "Prof. Miller", Grade: "B+"},
					{Code: "BIO401", Name: "Biology Lab", Credits: 2, Instructor: "Prof. Garcia", Grade: "A"},
				},
				Achievements: []student.Achievement{
					{Title: "Dean's List", Semester: "Spring 2024", Description: "Achieved GPA of 3.8 or higher"},
					{Title: "Mathematics Excellence Award", Date: timePtr(date("2024-01-15")), Description: "Outstanding performance in calculus"},
					{Title: "Perfect Attendance", Semester: "Fall 2023", Description: "No absences throughout the semester"},
					{Title: "Peer Tutor Recognition", Date: timePtr(date("2023-12-10")), Description: "Helped 5+ students improve their grades"},
				},
			},
		},
	}
}

type studentRepository struct {
	db *studentTables
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) GetRecord(studentID int) (student.Record, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rec, ok := repo.db.records[studentID]
	if !ok {
		return student.Record{}, errors.Wrapf(core.ErrNotFound, "student %d", studentID)
	}
	rec.Classes = append([]student.EnrolledClass(nil), rec.Classes...)
	rec.RecentGrades = append([]student.RecentGrade(nil), rec.RecentGrades...)
	rec.BehaviorNotes = append([]student.BehaviorNote(nil), rec.BehaviorNotes...)
	return rec, nil
}

func (repo *studentRepository) GetProfile(studentID int) (student.Profile, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	p, ok := repo.db.profiles[studentID]
	if !ok {
		return student.Profile{}, errors.Wrapf(core.ErrNotFound, "profile %d", studentID)
	}
	p.Courses = append([]student.Course(nil), p.Courses...)
	p.Achievements = append([]student.Achievement(nil), p.Achievements...)
	return p, nil
}

func (repo *studentRepository) UpdatePersonal(studentID int, personal student.Personal) (student.Profile, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	p, ok := repo.db.profiles[studentID]
	if !ok {
		return student.Profile{}, errors.Wrapf(core.ErrNotFound, "profile %d", studentID)
	}
	p.Personal = personal
	repo.db.profiles[studentID] = p
	return p, nil
}
