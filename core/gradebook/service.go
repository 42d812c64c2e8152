package gradebook

import (
	"sort"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/grading"
)

var (
	nowFunc = time.Now // mockable

	errWrongClass = errors.New("assignment does not belong to this class")
)

type (
	Repository interface {
		QueryClasses() ([]Class, error)
		GetClass(id int) (Class, error)
		QueryAssignments(classID int) ([]Assignment, error)
		GetAssignment(id int) (Assignment, error)
		QueryStudentGrades(classID int) ([]StudentGrades, error)
		GetStudentGrades(classID, studentID int) (StudentGrades, error)
		// SetScore records a score and returns the previous one, nil if there was none.
		SetScore(classID, studentID, assignmentID int, score float64) (*float64, error)
		CreateGradeChange(change GradeChange) (GradeChange, error)
		QueryGradeChanges(studentID, assignmentID int) ([]GradeChange, error)
		QuerySubjectGrades(studentID int) ([]SubjectGrades, error)
		GetAssignmentDetail(studentID, assignmentID int) (AssignmentDetail, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// FilterClasses lists the teacher's classes matching the filter.
func (svc *Service) FilterClasses(filter ClassFilter) ([]Class, error) {
	filter.Clean()
	classes, err := svc.repo.QueryClasses()
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	filtered := make([]Class, 0, len(classes))
	for _, cls := range classes {
		if filter.Match(cls) {
			filtered = append(filtered, cls)
		}
	}
	return filtered, nil
}

// GetClassDetail builds the gradebook grid of a class.
func (svc *Service) GetClassDetail(id int, filter DetailFilter) (ClassDetail, error) {
	filter.Search = core.CleanString(filter.Search)
	if filter.Assignment == "" {
		filter.Assignment = All
	}

	cls, err := svc.repo.GetClass(id)
	if err != nil {
		return ClassDetail{}, errors.Wrap(err, "getting class")
	}
	assignments, err := svc.repo.QueryAssignments(id)
	if err != nil {
		return ClassDetail{}, errors.Wrap(err, "querying assignments")
	}
	grades, err := svc.repo.QueryStudentGrades(id)
	if err != nil {
		return ClassDetail{}, errors.Wrap(err, "querying student grades")
	}

	detail := ClassDetail{Class: cls, All: assignments, Filter: filter}
	for _, a := range assignments {
		if filter.Assignment == All || filter.Assignment == strconv.Itoa(a.ID) {
			detail.Assignments = append(detail.Assignments, a)
		}
	}
	for _, sg := range grades {
		if core.ContainsFold(sg.Name, filter.Search) {
			detail.Rows = append(detail.Rows, newStudentRow(sg, assignments))
		}
	}
	return detail, nil
}

func newStudentRow(sg StudentGrades, assignments []Assignment) StudentRow {
	row := StudentRow{StudentGrades: sg}
	for _, a := range assignments {
		row.MaxTotal += a.Points
		if score, ok := sg.Score(a.ID); ok {
			row.Total += score
		}
	}
	row.Result = grading.Compute(grading.Input{Score: row.Total, MaxScore: row.MaxTotal})
	return row
}

// EditOptions returns the students and assignments selectable in the grade form of a class.
func (svc *Service) EditOptions(classID int) ([]StudentGrades, []Assignment, error) {
	grades, err := svc.repo.QueryStudentGrades(classID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "querying student grades")
	}
	assignments, err := svc.repo.QueryAssignments(classID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "querying assignments")
	}
	return grades, assignments, nil
}

// EditGrade records a score from the grade form and appends it to the grade history.
// The final score (after any late penalty) is scaled to the assignment's points.
func (svc *Service) EditGrade(ge GradeEdit, changedBy string) (GradeChange, error) {
	asg, err := svc.repo.GetAssignment(ge.AssignmentID)
	if err != nil {
		if errors.Cause(err) == core.ErrNotFound {
			return GradeChange{}, core.NewValidationError(err, core.FieldError{Field: "assignmentId", Error: "unknown assignment"})
		}
		return GradeChange{}, errors.Wrap(err, "getting assignment")
	}
	if ge.ClassID == 0 {
		ge.ClassID = asg.ClassID
	} else if ge.ClassID != asg.ClassID {
		return GradeChange{}, core.NewFieldError("assignmentId", errWrongClass)
	}
	if _, err = svc.repo.GetStudentGrades(ge.ClassID, ge.StudentID); err != nil {
		if errors.Cause(err) == core.ErrNotFound {
			return GradeChange{}, core.NewValidationError(err, core.FieldError{Field: "studentId", Error: "unknown student"})
		}
		return GradeChange{}, errors.Wrap(err, "getting student grades")
	}

	maxScore := ge.MaxScore
	if maxScore <= 0 {
		maxScore = 1
	}
	score := grading.Round1(ge.Result().FinalScore / maxScore * asg.Points)

	old, err := svc.repo.SetScore(ge.ClassID, ge.StudentID, ge.AssignmentID, score)
	if err != nil {
		return GradeChange{}, errors.Wrap(err, "setting score")
	}

	change := GradeChange{
		StudentID:    ge.StudentID,
		AssignmentID: ge.AssignmentID,
		Date:         nowFunc(),
		Action:       ActionUpdated,
		OldScore:     old,
		NewScore:     &score,
		MaxScore:     asg.Points,
		ChangedBy:    changedBy,
		Reason:       core.CleanString(ge.Reason),
		Feedback:     core.CleanString(ge.Feedback),
	}
	if old == nil {
		change.Action = ActionEntered
	}
	if change.Reason == "" {
		if old == nil {
			change.Reason = "Initial grading"
		} else {
			change.Reason = "Grade corrected"
		}
	}
	if ge.Late && ge.LatePenalty > 0 {
		change.Reason += " (late penalty of " + strconv.FormatFloat(ge.LatePenalty, 'f', -1, 64) + " points applied)"
	}

	change, err = svc.repo.CreateGradeChange(change)
	return change, errors.Wrap(err, "creating grade change")
}

// GetHistory returns the grading history of a student's assignment, newest first.
func (svc *Service) GetHistory(studentID, assignmentID int) (History, error) {
	asg, err := svc.repo.GetAssignment(assignmentID)
	if err != nil {
		return History{}, errors.Wrap(err, "getting assignment")
	}
	sg, err := svc.repo.GetStudentGrades(asg.ClassID, studentID)
	if err != nil {
		return History{}, errors.Wrap(err, "getting student grades")
	}
	changes, err := svc.repo.QueryGradeChanges(studentID, assignmentID)
	if err != nil {
		return History{}, errors.Wrap(err, "querying grade changes")
	}
	sortChangesDesc(changes)

	hist := History{Student: sg, Assignment: asg, Changes: changes}
	if score, ok := sg.Score(assignmentID); ok {
		hist.Current = &score
		hist.Result = grading.Compute(grading.Input{Score: score, MaxScore: asg.Points})
	}
	return hist, nil
}

// GetStudentGrades returns a student's grades per subject with overall stats.
// Stats always cover every subject, regardless of the filter.
func (svc *Service) GetStudentGrades(studentID int, filter GradeFilter) (GradesView, error) {
	filter.Clean()
	subjects, err := svc.repo.QuerySubjectGrades(studentID)
	if err != nil {
		return GradesView{}, errors.Wrap(err, "querying subject grades")
	}

	view := GradesView{Filter: filter}
	credits := make([]grading.Credit, 0, len(subjects))
	var gradeSum float64
	for _, sg := range subjects {
		view.AllSubjects = append(view.AllSubjects, sg.Subject)
		credits = append(credits, grading.Credit{GPA: sg.GPA, Credits: sg.Credits})
		view.Stats.TotalCredits += sg.Credits
		view.Stats.TotalAssignments += len(sg.Assignments)
		gradeSum += sg.CurrentGrade
		if filter.Match(sg) {
			view.Subjects = append(view.Subjects, sg)
		}
	}
	view.Stats.WeightedGPA = grading.WeightedGPA(credits)
	if len(subjects) > 0 {
		view.Stats.AvgGrade = grading.Round1(gradeSum / float64(len(subjects)))
	}
	sort.Strings(view.AllSubjects)
	return view, nil
}

func (svc *Service) GetAssignmentDetail(studentID, assignmentID int) (AssignmentDetail, error) {
	detail, err := svc.repo.GetAssignmentDetail(studentID, assignmentID)
	return detail, errors.Wrap(err, "getting assignment detail")
}

// Validate checks the grade form.
func (ge *GradeEdit) Validate(validate *validator.Validate) error {
	ge.Feedback = core.CleanString(ge.Feedback)
	ge.Reason = core.CleanString(ge.Reason)
	return validate.Struct(ge)
}
