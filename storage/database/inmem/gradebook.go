package inmemdb

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/gradebook"
	"github.com/trezcool/edutracker/core/grading"
)

var (
	date     = core.MustParseDate
	dateTime = core.MustParseDateTime
)

func floatPtr(f float64) *float64 { return &f }

func seedGradebook() *gradebookTables {
	tbl := &gradebookTables{
		classes: []gradebook.Class{
			{ID: 1, Name: "Mathematics 101", Code: "MATH101", Students: 28, Semester: "Fall 2024", AvgGrade: 85.5, LastUpdated: "2 hours ago", Status: gradebook.ClassActive},
			{ID: 2, Name: "Physics Advanced", Code: "PHYS201", Students: 24, Semester: "Fall 2024", AvgGrade: 78.2, LastUpdated: "1 day ago", Status: gradebook.ClassActive},
			{ID: 3, Name: "Chemistry Basics", Code: "CHEM101", Students: 32, Semester: "Fall 2024", AvgGrade: 92.1, LastUpdated: "3 hours ago", Status: gradebook.ClassActive},
			{ID: 4, Name: "Biology Lab", Code: "BIO301", Students: 18, Semester: "Fall 2024", AvgGrade: 88.7, LastUpdated: "5 hours ago", Status: gradebook.ClassActive},
			{ID: 5, Name: "Statistics", Code: "STAT201", Students: 26, Semester: "Spring 2024", AvgGrade: 84.3, LastUpdated: "2 weeks ago", Status: gradebook.ClassCompleted},
		},
		assignments: []gradebook.Assignment{
			{ID: 1, ClassID: 1, Name: "Quiz 1", Type: "Quiz", Points: 50, DueDate: date("2024-01-15")},
			{ID: 2, ClassID: 1, Name: "Homework 1", Type: "Homework", Points: 100, DueDate: date("2024-01-20")},
			{ID: 3, ClassID: 1, Name: "Midterm Exam", Type: "Exam", Points: 200, DueDate: date("2024-02-15")},
			{ID: 4, ClassID: 1, Name: "Project", Type: "Project", Points: 150, DueDate: date("2024-03-01")},
		},
		grades: map[int][]*gradebook.StudentGrades{
			1: {
				{StudentID: 1, StudentCode: "STU2024001", Name: "Sarah Johnson", Email: "sarah.j@school.edu", Scores: map[int]float64{1: 45, 2: 95, 3: 185, 4: 140}},
				{StudentID: 2, StudentCode: "STU2024002", Name: "Mike Chen", Email: "mike.c@school.edu", Scores: map[int]float64{1: 42, 2: 88, 3: 170, 4: 135}},
				{StudentID: 3, StudentCode: "STU2024003", Name: "Emily Davis", Email: "emily.d@school.edu", Scores: map[int]float64{1: 48, 2: 92, 3: 175, 4: 145}},
				{StudentID: 4, StudentCode: "STU2024004", Name: "Alex Rodriguez", Email: "alex.r@school.edu", Scores: map[int]float64{1: 35, 2: 75, 3: 140, 4: 120}},
				{StudentID: 5, StudentCode: "STU2024005", Name: "Jessica Wu", Email: "jessica.w@school.edu", Scores: map[int]float64{1: 47, 2: 90, 3: 180, 4: 142}},
			},
		},
		changes: []gradebook.GradeChange{
			{
				ID: 1, StudentID: 1, AssignmentID: 1, Date: dateTime("2024-01-15 11:45 AM"),
				Action: gradebook.ActionSubmitted, MaxScore: 50,
				ChangedBy: "Sarah Johnson (Student)", Reason: "Student submission",
			},
			{
				ID: 2, StudentID: 1, AssignmentID: 1, Date: dateTime("2024-01-16 10:30 AM"),
				Action: gradebook.ActionEntered, NewScore: floatPtr(42), MaxScore: 50,
				ChangedBy: "Prof. Johnson", Reason: "Initial grading",
				Feedback: "Strong understanding of concepts. Watch arithmetic in problem #3.",
			},
			{
				ID: 3, StudentID: 1, AssignmentID: 1, Date: dateTime("2024-01-20 02:15 PM"),
				Action: gradebook.ActionUpdated, OldScore: floatPtr(42), NewScore: floatPtr(45), MaxScore: 50,
				ChangedBy: "Prof. Johnson", Reason: "Corrected calculation error in problem #3",
				Feedback: "Good work on the quadratic formula applications. Minor arithmetic error corrected.",
			},
		},
		changePK: 3,
		subjects: map[int][]gradebook.SubjectGrades{
			1: {
				{
					ID: 1, Subject: "Mathematics 101", Code: "MATH101", Semester: "Fall 2024",
					CurrentGrade: 93.0, GPA: 4.0, Credits: 3,
					Assignments: []gradebook.GradedAssignment{
						{ID: 1, Name: "Quiz 1", Type: "Quiz", Score: 45, MaxScore: 50, Date: date("2024-01-15"), Weight: 10},
						{ID: 2, Name: "Homework 1", Type: "Homework", Score: 95, MaxScore: 100, Date: date("2024-01-20"), Weight: 15},
						{ID: 3, Name: "Midterm Exam", Type: "Exam", Score: 185, MaxScore: 200, Date: date("2024-02-15"), Weight: 30},
						{ID: 4, Name: "Final Project", Type: "Project", Score: 140, MaxScore: 150, Date: date("2024-03-01"), Weight: 25},
					},
				},
				{
					ID: 2, Subject: "Physics Advanced", Code: "PHYS201", Semester: "Fall 2024",
					CurrentGrade: 87.5, GPA: 3.5, Credits: 4,
					Assignments: []gradebook.GradedAssignment{
						{ID: 5, Name: "Lab Report 1", Type: "Lab", Score: 88, MaxScore: 100, Date: date("2024-01-18"), Weight: 20},
						{ID: 6, Name: "Quiz 2", Type: "Quiz", Score: 42, MaxScore: 50, Date: date("2024-01-25"), Weight: 10},
						{ID: 7, Name: "Research Paper", Type: "Paper", Score: 175, MaxScore: 200, Date: date("2024-02-20"), Weight: 35},
					},
				},
				{
					ID: 3, Subject: "Chemistry Basics", Code: "CHEM101", Semester: "Fall 2024",
					CurrentGrade: 89.2, GPA: 3.7, Credits: 3,
					Assignments: []gradebook.GradedAssignment{
						{ID: 8, Name: "Lab Practical", Type: "Lab", Score: 92, MaxScore: 100, Date: date("2024-01-22"), Weight: 25},
						{ID: 9, Name: "Chapter Test", Type: "Test", Score: 87, MaxScore: 100, Date: date("2024-02-05"), Weight: 20},
						{ID: 10, Name: "Final Exam", Type: "Exam", Score: 178, MaxScore: 200, Date: date("2024-03-10"), Weight: 40},
					},
				},
			},
		},
		instructors: map[string]string{
			"MATH101": "Prof. Johnson",
			"PHYS201": "Prof. Wilson",
			"CHEM101": "Prof. Davis",
		},
	}

	tbl.details = map[int]gradebook.AssignmentDetail{
		1: {
			Title:       "Quadratic Equations Quiz",
			Instructor:  "Prof. Johnson",
			SubmittedAt: dateTime("2024-01-15 09:30 AM"),
			GradedAt:    dateTime("2024-01-16 02:15 PM"),
			DueAt:       dateTime("2024-01-15 11:59 PM"),
			Instructions: "This quiz covers Chapter 4: Quadratic Equations. You will have 45 minutes to complete 10 problems. " +
				"Make sure to show all work for partial credit. Use only the methods taught in class.",
			Objectives: []string{
				"Solve quadratic equations using the quadratic formula",
				"Factor quadratic expressions",
				"Identify the discriminant and determine the nature of roots",
				"Apply quadratic equations to real-world problems",
			},
			Rubric: []gradebook.RubricItem{
				{Criteria: "Problem-solving accuracy", Points: 25, Earned: 23, Feedback: "Most solutions are correct with minor calculation errors in problems 3 and 7."},
				{Criteria: "Work shown and methodology", Points: 15, Earned: 14, Feedback: "Clear work shown for most problems. Remember to always state your final answer clearly."},
				{Criteria: "Application problems", Points: 10, Earned: 8, Feedback: "Good understanding of concepts but need improvement in translating word problems to equations."},
			},
			Feedback: "Excellent work overall! You demonstrate a strong understanding of quadratic equations. " +
				"Your methodology is sound and calculations are mostly accurate. Focus on being more careful with arithmetic " +
				"in future assignments, and practice more word problems to improve application skills. Well done!",
			Attachments: []gradebook.FileRef{
				{Name: "quiz_submission.pdf", Size: "1.2 MB"},
				{Name: "reference_formulas.pdf", Size: "345 KB"},
			},
			Stats: gradebook.AssignmentStats{ClassAverage: 38.5, HighestScore: 48, LowestScore: 22, Percentile: 85},
		},
	}
	return tbl
}

func copyStudentGrades(sg *gradebook.StudentGrades) gradebook.StudentGrades {
	cp := *sg
	cp.Scores = make(map[int]float64, len(sg.Scores))
	for k, v := range sg.Scores {
		cp.Scores[k] = v
	}
	return cp
}

type gradebookRepository struct {
	db *gradebookTables
}

var _ gradebook.Repository = (*gradebookRepository)(nil) // interface compliance check

func NewGradebookRepository(db *DB) gradebook.Repository {
	return &gradebookRepository{db: db.gradebook}
}

func (repo *gradebookRepository) QueryClasses() ([]gradebook.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]gradebook.Class(nil), repo.db.classes...), nil
}

func (repo *gradebookRepository) GetClass(id int) (gradebook.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, cls := range repo.db.classes {
		if cls.ID == id {
			return cls, nil
		}
	}
	return gradebook.Class{}, errors.Wrapf(core.ErrNotFound, "class %d", id)
}

func (repo *gradebookRepository) QueryAssignments(classID int) ([]gradebook.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var assignments []gradebook.Assignment
	for _, a := range repo.db.assignments {
		if a.ClassID == classID {
			assignments = append(assignments, a)
		}
	}
	return assignments, nil
}

func (repo *gradebookRepository) GetAssignment(id int) (gradebook.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, a := range repo.db.assignments {
		if a.ID == id {
			return a, nil
		}
	}
	return gradebook.Assignment{}, errors.Wrapf(core.ErrNotFound, "assignment %d", id)
}

func (repo *gradebookRepository) QueryStudentGrades(classID int) ([]gradebook.StudentGrades, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	rows := repo.db.grades[classID]
	grades := make([]gradebook.StudentGrades, 0, len(rows))
	for _, sg := range rows {
		grades = append(grades, copyStudentGrades(sg))
	}
	return grades, nil
}

func (repo *gradebookRepository) getStudentGrades(classID, studentID int) (*gradebook.StudentGrades, error) {
	for _, sg := range repo.db.grades[classID] {
		if sg.StudentID == studentID {
			return sg, nil
		}
	}
	return nil, errors.Wrapf(core.ErrNotFound, "student %d in class %d", studentID, classID)
}

func (repo *gradebookRepository) GetStudentGrades(classID, studentID int) (gradebook.StudentGrades, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	sg, err := repo.getStudentGrades(classID, studentID)
	if err != nil {
		return gradebook.StudentGrades{}, err
	}
	return copyStudentGrades(sg), nil
}

func (repo *gradebookRepository) SetScore(classID, studentID, assignmentID int, score float64) (*float64, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	sg, err := repo.getStudentGrades(classID, studentID)
	if err != nil {
		return nil, err
	}
	var old *float64
	if prev, ok := sg.Scores[assignmentID]; ok {
		old = floatPtr(prev)
	}
	sg.Scores[assignmentID] = score
	return old, nil
}

func (repo *gradebookRepository) CreateGradeChange(change gradebook.GradeChange) (gradebook.GradeChange, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.changePK++
	change.ID = repo.db.changePK
	repo.db.changes = append(repo.db.changes, change)
	return change, nil
}

func (repo *gradebookRepository) QueryGradeChanges(studentID, assignmentID int) ([]gradebook.GradeChange, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var changes []gradebook.GradeChange
	for _, c := range repo.db.changes {
		if c.StudentID == studentID && c.AssignmentID == assignmentID {
			changes = append(changes, c)
		}
	}
	return changes, nil
}

func (repo *gradebookRepository) QuerySubjectGrades(studentID int) ([]gradebook.SubjectGrades, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	subjects := repo.db.subjects[studentID]
	res := make([]gradebook.SubjectGrades, 0, len(subjects))
	for _, sg := range subjects {
		res = append(res, repo.withLiveScores(studentID, sg))
	}
	return res, nil
}

// withLiveScores copies sg, taking the scores kept by the subject's class gradebook when there is one.
// The current grade is recomputed once a score differs from the transcript.
func (repo *gradebookRepository) withLiveScores(studentID int, sg gradebook.SubjectGrades) gradebook.SubjectGrades {
	assignments := make([]gradebook.GradedAssignment, len(sg.Assignments))
	weighted := make([]grading.Weighted, len(sg.Assignments))
	var edited bool
	for i, ga := range sg.Assignments {
		if score, ok := repo.liveScore(sg.Code, studentID, ga.ID); ok && score != ga.Score {
			ga.Score = score
			edited = true
		}
		assignments[i] = ga
		weighted[i] = grading.Weighted{Score: ga.Score, MaxScore: ga.MaxScore, Weight: ga.Weight}
	}
	sg.Assignments = assignments
	if edited {
		sg.CurrentGrade = grading.WeightedPercentage(weighted)
	}
	return sg
}

// liveScore looks up a student's score for an assignment of the class coded code.
func (repo *gradebookRepository) liveScore(code string, studentID, assignmentID int) (float64, bool) {
	classID := 0
	for _, cls := range repo.db.classes {
		if strings.EqualFold(cls.Code, code) {
			classID = cls.ID
			break
		}
	}
	if classID == 0 {
		return 0, false
	}
	sg, err := repo.getStudentGrades(classID, studentID)
	if err != nil {
		return 0, false
	}
	for _, a := range repo.db.assignments {
		if a.ID == assignmentID && a.ClassID == classID {
			return sg.Score(assignmentID)
		}
	}
	return 0, false
}

// GetAssignmentDetail falls back to the bare graded assignment when no detail was recorded for it.
func (repo *gradebookRepository) GetAssignmentDetail(studentID, assignmentID int) (gradebook.AssignmentDetail, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, subject := range repo.db.subjects[studentID] {
		sg := repo.withLiveScores(studentID, subject)
		for _, ga := range sg.Assignments {
			if ga.ID != assignmentID {
				continue
			}
			detail, ok := repo.db.details[assignmentID]
			if !ok {
				detail = gradebook.AssignmentDetail{Title: ga.Name, DueAt: ga.Date, GradedAt: ga.Date}
			}
			detail.GradedAssignment = ga
			detail.Subject = sg.Subject
			detail.Code = sg.Code
			if detail.Instructor == "" {
				detail.Instructor = repo.db.instructors[sg.Code]
			}
			return detail, nil
		}
	}
	return gradebook.AssignmentDetail{}, errors.Wrapf(core.ErrNotFound, "assignment %d of student %d", assignmentID, studentID)
}
