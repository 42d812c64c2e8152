package gradebook_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/gradebook"
	inmemdb "github.com/trezcool/edutracker/storage/database/inmem"
	"github.com/trezcool/edutracker/tests"
)

func newService(t *testing.T) *gradebook.Service {
	return gradebook.NewService(inmemdb.NewGradebookRepository(testutil.OpenDB(t)))
}

func TestService_FilterClasses(t *testing.T) {
	svc := newService(t)

	tests := []struct {
		name      string
		filter    gradebook.ClassFilter
		wantCodes []string
	}{
		{name: "defaults to current semester", wantCodes: []string{"MATH101", "PHYS201", "CHEM101", "BIO301"}},
		{name: "archived", filter: gradebook.ClassFilter{Semester: gradebook.SemesterArchived}, wantCodes: []string{"STAT201"}},
		{name: "all", filter: gradebook.ClassFilter{Semester: gradebook.SemesterAll}, wantCodes: []string{"MATH101", "PHYS201", "CHEM101", "BIO301", "STAT201"}},
		{name: "search by name", filter: gradebook.ClassFilter{Search: "  chemistry "}, wantCodes: []string{"CHEM101"}},
		{name: "search by code", filter: gradebook.ClassFilter{Search: "phys", Semester: gradebook.SemesterAll}, wantCodes: []string{"PHYS201"}},
		{name: "unknown semester is current", filter: gradebook.ClassFilter{Semester: "lol", Search: "stat"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classes, err := svc.FilterClasses(tt.filter)
			require.NoError(t, err)
			codes := make([]string, 0, len(classes))
			for _, c := range classes {
				codes = append(codes, c.Code)
			}
			if len(tt.wantCodes) == 0 {
				assert.Empty(t, codes)
			} else {
				assert.Equal(t, tt.wantCodes, codes)
			}
		})
	}
}

func TestService_GetClassDetail(t *testing.T) {
	svc := newService(t)

	detail, err := svc.GetClassDetail(1, gradebook.DetailFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Mathematics 101", detail.Class.Name)
	assert.Len(t, detail.Assignments, 4)
	assert.Len(t, detail.Rows, 5)
	assert.Equal(t, gradebook.All, detail.Filter.Assignment)

	sarah := detail.Rows[0]
	assert.Equal(t, 465.0, sarah.Total)
	assert.Equal(t, 500.0, sarah.MaxTotal)
	assert.Equal(t, 93.0, sarah.Result.Percentage)
	assert.Equal(t, "A", sarah.Result.Letter)

	detail, err = svc.GetClassDetail(1, gradebook.DetailFilter{Search: "rodriguez", Assignment: "2"})
	require.NoError(t, err)
	require.Len(t, detail.Rows, 1)
	assert.Equal(t, "C", detail.Rows[0].Result.Letter)
	require.Len(t, detail.Assignments, 1)
	assert.Equal(t, "Homework 1", detail.Assignments[0].Name)
	assert.Len(t, detail.All, 4)

	_, err = svc.GetClassDetail(99, gradebook.DetailFilter{})
	assert.Equal(t, core.ErrNotFound, errors.Cause(err))
}

func TestGradeEdit_Validate(t *testing.T) {
	validate, translator := testutil.NewValidator()

	tests := []struct {
		name       string
		edit       gradebook.GradeEdit
		wantFields []string
	}{
		{name: "default form", edit: gradebook.DefaultGradeEdit(1)},
		{name: "negative score", edit: gradebook.GradeEdit{StudentID: 1, AssignmentID: 1, Score: -1, MaxScore: 50}, wantFields: []string{"score"}},
		{name: "max score below one", edit: gradebook.GradeEdit{StudentID: 1, AssignmentID: 1, Score: 1, MaxScore: 0}, wantFields: []string{"maxScore"}},
		{name: "negative penalty", edit: gradebook.GradeEdit{StudentID: 1, AssignmentID: 1, MaxScore: 50, LatePenalty: -2}, wantFields: []string{"latePenalty"}},
		{name: "missing student and assignment", edit: gradebook.GradeEdit{MaxScore: 50}, wantFields: []string{"studentId", "assignmentId"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.edit.Validate(validate)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			fields, ok := core.FieldErrors(err, translator)
			require.True(t, ok)
			assert.Len(t, fields, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestService_EditGrade(t *testing.T) {
	t.Run("updates the grid and appends history", func(t *testing.T) {
		svc := newService(t)

		change, err := svc.EditGrade(gradebook.GradeEdit{
			ClassID: 1, StudentID: 2, AssignmentID: 1, Score: 45, MaxScore: 50, Feedback: " Nice recovery ",
		}, "Prof. Smith")
		require.NoError(t, err)
		assert.Equal(t, 4, change.ID)
		assert.Equal(t, gradebook.ActionUpdated, change.Action)
		require.NotNil(t, change.OldScore)
		assert.Equal(t, 42.0, *change.OldScore)
		require.NotNil(t, change.NewScore)
		assert.Equal(t, 45.0, *change.NewScore)
		assert.Equal(t, "Grade corrected", change.Reason)
		assert.Equal(t, "Nice recovery", change.Feedback)

		detail, err := svc.GetClassDetail(1, gradebook.DetailFilter{Search: "Mike"})
		require.NoError(t, err)
		require.Len(t, detail.Rows, 1)
		score, ok := detail.Rows[0].Score(1)
		require.True(t, ok)
		assert.Equal(t, 45.0, score)

		hist, err := svc.GetHistory(2, 1)
		require.NoError(t, err)
		require.Len(t, hist.Changes, 1)
		assert.Equal(t, change.ID, hist.Changes[0].ID)
		require.NotNil(t, hist.Current)
		assert.Equal(t, 45.0, *hist.Current)
		assert.Equal(t, "A-", hist.Result.Letter)
	})

	t.Run("late penalty and scaling to assignment points", func(t *testing.T) {
		svc := newService(t)

		change, err := svc.EditGrade(gradebook.GradeEdit{
			StudentID: 1, AssignmentID: 2, Score: 45, MaxScore: 50, Late: true, LatePenalty: 5, Reason: "Resubmitted",
		}, "Prof. Smith")
		require.NoError(t, err)
		require.NotNil(t, change.NewScore)
		assert.Equal(t, 80.0, *change.NewScore) // 40/50 of 100 points
		assert.Equal(t, 100.0, change.MaxScore)
		assert.Equal(t, "Resubmitted (late penalty of 5 points applied)", change.Reason)
	})

	t.Run("history is newest first", func(t *testing.T) {
		svc := newService(t)

		_, err := svc.EditGrade(gradebook.GradeEdit{StudentID: 1, AssignmentID: 1, Score: 47, MaxScore: 50}, "Prof. Smith")
		require.NoError(t, err)

		hist, err := svc.GetHistory(1, 1)
		require.NoError(t, err)
		require.Len(t, hist.Changes, 4)
		assert.Equal(t, 4, hist.Changes[0].ID)
		assert.Equal(t, gradebook.ActionSubmitted, hist.Changes[3].Action)
	})

	failures := []struct {
		name      string
		edit      gradebook.GradeEdit
		wantField string
	}{
		{name: "unknown assignment", edit: gradebook.GradeEdit{StudentID: 1, AssignmentID: 99, MaxScore: 50}, wantField: "assignmentId"},
		{name: "assignment of another class", edit: gradebook.GradeEdit{ClassID: 2, StudentID: 1, AssignmentID: 1, MaxScore: 50}, wantField: "assignmentId"},
		{name: "unknown student", edit: gradebook.GradeEdit{StudentID: 99, AssignmentID: 1, MaxScore: 50}, wantField: "studentId"},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(t)
			_, err := svc.EditGrade(tt.edit, "Prof. Smith")
			vErr, ok := errors.Cause(err).(*core.ValidationError)
			require.True(t, ok, "want *core.ValidationError, got %v", err)
			assert.Contains(t, vErr.FieldMap(), tt.wantField)
		})
	}
}

func TestService_GetStudentGrades(t *testing.T) {
	svc := newService(t)

	view, err := svc.GetStudentGrades(1, gradebook.GradeFilter{})
	require.NoError(t, err)
	assert.Len(t, view.Subjects, 3)
	assert.Equal(t, []string{"Chemistry Basics", "Mathematics 101", "Physics Advanced"}, view.AllSubjects)
	assert.Equal(t, 10, view.Stats.TotalCredits)
	assert.Equal(t, 10, view.Stats.TotalAssignments)
	assert.Equal(t, 89.9, view.Stats.AvgGrade)
	assert.InDelta(t, 3.71, view.Stats.WeightedGPA, 0.001)

	// stats ignore the filter
	view, err = svc.GetStudentGrades(1, gradebook.GradeFilter{Subject: "Physics Advanced"})
	require.NoError(t, err)
	require.Len(t, view.Subjects, 1)
	assert.Equal(t, "B+", view.Subjects[0].Letter())
	assert.Equal(t, 10, view.Stats.TotalCredits)

	view, err = svc.GetStudentGrades(1, gradebook.GradeFilter{Search: "chem101"})
	require.NoError(t, err)
	require.Len(t, view.Subjects, 1)
	assert.Equal(t, "Chemistry Basics", view.Subjects[0].Subject)
}

func TestService_GetAssignmentDetail(t *testing.T) {
	svc := newService(t)

	detail, err := svc.GetAssignmentDetail(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "Quadratic Equations Quiz", detail.Title)
	assert.Equal(t, "Mathematics 101", detail.Subject)
	assert.Len(t, detail.Rubric, 3)
	assert.Equal(t, 90.0, detail.Result().Percentage)

	detail, err = svc.GetAssignmentDetail(1, 6)
	require.NoError(t, err)
	assert.Equal(t, "Quiz 2", detail.Title)
	assert.Equal(t, "Prof. Wilson", detail.Instructor)
	assert.Empty(t, detail.Rubric)

	_, err = svc.GetAssignmentDetail(1, 99)
	assert.Equal(t, core.ErrNotFound, errors.Cause(err))
}

func TestService_EditGrade_studentViews(t *testing.T) {
	svc := newService(t)

	_, err := svc.EditGrade(gradebook.GradeEdit{ClassID: 1, StudentID: 1, AssignmentID: 1, Score: 20, MaxScore: 50}, "Prof. Smith")
	require.NoError(t, err)

	view, err := svc.GetStudentGrades(1, gradebook.GradeFilter{Subject: "Mathematics 101"})
	require.NoError(t, err)
	require.Len(t, view.Subjects, 1)
	math := view.Subjects[0]
	require.NotEmpty(t, math.Assignments)
	assert.Equal(t, 20.0, math.Assignments[0].Score)
	assert.Equal(t, 86.7, math.CurrentGrade)

	detail, err := svc.GetAssignmentDetail(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 20.0, detail.Score)
	assert.Equal(t, 40.0, detail.Result().Percentage)

	// other subjects keep their seeded grades
	view, err = svc.GetStudentGrades(1, gradebook.GradeFilter{Subject: "Physics Advanced"})
	require.NoError(t, err)
	require.Len(t, view.Subjects, 1)
	assert.Equal(t, "B+", view.Subjects[0].Letter())
}
