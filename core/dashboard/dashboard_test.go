package dashboard_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/dashboard"
	"github.com/trezcool/edutracker/core/grading"
	inmemdb "github.com/trezcool/edutracker/storage/database/inmem"
	"github.com/trezcool/edutracker/tests"
)

func TestService(t *testing.T) {
	svc := dashboard.NewService(inmemdb.NewDashboardRepository(testutil.OpenDB(t)))

	teacher, err := svc.Teacher()
	require.NoError(t, err)
	assert.Len(t, teacher.Stats, 4)
	require.Len(t, teacher.Tasks, 4)
	assert.True(t, teacher.Tasks[0].OpensGradeEdit())
	assert.False(t, teacher.Tasks[1].OpensGradeEdit())

	student, err := svc.Student(1)
	require.NoError(t, err)
	require.Len(t, student.Grades, 4)
	assert.Equal(t, grading.BandExcellent, student.Grades[0].Band())
	assert.Equal(t, grading.BandGood, student.Grades[1].Band())

	_, err = svc.Student(2)
	assert.Equal(t, core.ErrNotFound, errors.Cause(err))
}

func TestRecentGrade_Band(t *testing.T) {
	assert.Equal(t, grading.BandPoor, dashboard.RecentGrade{Grade: 10}.Band())
	assert.Equal(t, grading.BandFair, dashboard.RecentGrade{Grade: 36, MaxGrade: 50}.Band())
	assert.Equal(t, grading.BandPoor, dashboard.RecentGrade{Grade: 10, MaxGrade: -5}.Band())
}

func TestRecentGrade_Percentage(t *testing.T) {
	tests := []struct {
		name  string
		grade dashboard.RecentGrade
		want  float64
	}{
		{name: "rounded to a decimal", grade: dashboard.RecentGrade{Grade: 58, MaxGrade: 64}, want: 90.6},
		{name: "full marks", grade: dashboard.RecentGrade{Grade: 50, MaxGrade: 50}, want: 100},
		{name: "no max", grade: dashboard.RecentGrade{Grade: 10}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.grade.Percentage())
		})
	}
}
