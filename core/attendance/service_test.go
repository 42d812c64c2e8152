package attendance_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edutracker/core"
	"github.com/trezcool/edutracker/core/attendance"
	inmemdb "github.com/trezcool/edutracker/storage/database/inmem"
	"github.com/trezcool/edutracker/tests"
)

func newService(t *testing.T) *attendance.Service {
	return attendance.NewService(inmemdb.NewAttendanceRepository(testutil.OpenDB(t)))
}

func TestService_GetManagement(t *testing.T) {
	svc := newService(t)

	tests := []struct {
		name        string
		filter      attendance.RosterFilter
		wantRosters int
		wantStats   attendance.Stats
	}{
		{name: "every class", wantRosters: 2, wantStats: attendance.Stats{Total: 9, Present: 6, Absent: 2, Late: 1}},
		{name: "one class", filter: attendance.RosterFilter{Class: "2"}, wantRosters: 1, wantStats: attendance.Stats{Total: 4, Present: 3, Absent: 1}},
		{name: "search", filter: attendance.RosterFilter{Search: " CHEN "}, wantRosters: 2, wantStats: attendance.Stats{Total: 1, Present: 1}},
		{name: "class without roster", filter: attendance.RosterFilter{Class: "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgmt, err := svc.GetManagement(tt.filter)
			require.NoError(t, err)
			assert.Len(t, mgmt.Rosters, tt.wantRosters)
			assert.Equal(t, tt.wantStats, mgmt.Stats)
			assert.Len(t, mgmt.Classes, 4)
			assert.Equal(t, "2024-01-20", mgmt.Filter.Date)
		})
	}
}

func TestService_MarkStatus(t *testing.T) {
	svc := newService(t)

	require.NoError(t, svc.MarkStatus(attendance.Mark{ClassID: 1, StudentID: 3, Status: attendance.Present}))
	mgmt, err := svc.GetManagement(attendance.RosterFilter{Class: "1"})
	require.NoError(t, err)
	require.Len(t, mgmt.Rosters, 1)
	assert.Equal(t, attendance.Stats{Total: 5, Present: 4, Late: 1}, mgmt.Rosters[0].Stats())

	err = svc.MarkStatus(attendance.Mark{ClassID: 2, StudentID: 1, Status: attendance.Late})
	assert.Equal(t, core.ErrNotFound, errors.Cause(err))

	err = svc.MarkStatus(attendance.Mark{Date: "20/01/2024", ClassID: 1, StudentID: 1, Status: attendance.Late})
	_, ok := errors.Cause(err).(*core.ValidationError)
	assert.True(t, ok, "want *core.ValidationError, got %v", err)
}

func TestService_MarkStatus_byDate(t *testing.T) {
	t.Run("sheets are kept per day", func(t *testing.T) {
		svc := newService(t)

		require.NoError(t, svc.MarkStatus(attendance.Mark{Date: "2024-01-23", ClassID: 1, StudentID: 3, Status: attendance.Present}))

		statusOf := func(date string) attendance.Status {
			mgmt, err := svc.GetManagement(attendance.RosterFilter{Date: date, Class: "1", Search: "Emily"})
			require.NoError(t, err)
			require.Len(t, mgmt.Rosters, 1)
			require.Len(t, mgmt.Rosters[0].Entries, 1)
			return mgmt.Rosters[0].Entries[0].Status
		}
		assert.Equal(t, attendance.Present, statusOf("2024-01-23"))
		assert.Equal(t, attendance.Absent, statusOf("2024-01-20"))
		assert.Equal(t, attendance.Absent, statusOf("2024-01-24"))
	})

	t.Run("updates the session record", func(t *testing.T) {
		svc := newService(t)

		require.NoError(t, svc.MarkStatus(attendance.Mark{Date: "2024-01-20", ClassID: 1, StudentID: 1, Status: attendance.Absent}))

		view, err := svc.GetStudentAttendance(1, attendance.RecordFilter{Class: "Mathematics 101"})
		require.NoError(t, err)
		require.Len(t, view.Records, 4)
		var marked attendance.Record
		for _, r := range view.Records {
			if r.Date.Format(core.DateLayout) == "2024-01-20" {
				marked = r
			}
		}
		assert.Equal(t, attendance.Absent, marked.Status)
		assert.Equal(t, attendance.Stats{Total: 64, Present: 57, Absent: 5, Late: 2}, view.Stats)
		assert.Equal(t, attendance.Stats{Total: 21, Present: 17, Absent: 3, Late: 1}, view.Monthly[0].Stats)

		overview, err := svc.GetOverview(1, attendance.OverviewFilter{Subject: "Mathematics 101"})
		require.NoError(t, err)
		require.Len(t, overview.Subjects, 1)
		assert.Equal(t, attendance.Stats{Total: 20, Present: 18, Absent: 2}, overview.Subjects[0].Stats)
		assert.Len(t, overview.Recent, 4)
	})

	t.Run("adds a record for a new session", func(t *testing.T) {
		svc := newService(t)

		require.NoError(t, svc.MarkStatus(attendance.Mark{Date: "2024-01-24", ClassID: 1, StudentID: 1, Status: attendance.Late}))

		view, err := svc.GetStudentAttendance(1, attendance.RecordFilter{})
		require.NoError(t, err)
		require.Len(t, view.Records, 16)
		latest := view.Records[0]
		assert.Equal(t, "2024-01-24", latest.Date.Format(core.DateLayout))
		assert.Equal(t, "Mathematics 101", latest.Class)
		assert.Equal(t, attendance.Late, latest.Status)
		assert.Equal(t, "09:00 AM", latest.Time)
		assert.Equal(t, 65, view.Stats.Total)

		overview, err := svc.GetOverview(1, attendance.OverviewFilter{})
		require.NoError(t, err)
		assert.Len(t, overview.Recent, 16)
		assert.Equal(t, 104, overview.Overall.Total)
		assert.Equal(t, 1, overview.All[0].Late)
	})

	t.Run("first record of a student", func(t *testing.T) {
		svc := newService(t)

		require.NoError(t, svc.MarkStatus(attendance.Mark{ClassID: 1, StudentID: 3, Status: attendance.Present}))

		view, err := svc.GetStudentAttendance(3, attendance.RecordFilter{})
		require.NoError(t, err)
		require.Len(t, view.Records, 1)
		assert.Equal(t, attendance.DefaultDate, view.Records[0].Date.Format(core.DateLayout))
		require.Len(t, view.Classes, 1)

		overview, err := svc.GetOverview(3, attendance.OverviewFilter{})
		require.NoError(t, err)
		require.Len(t, overview.Subjects, 1)
		assert.Equal(t, "MATH101", overview.Subjects[0].Code)
		assert.Equal(t, attendance.Stats{Total: 1, Present: 1}, overview.Subjects[0].Stats)
	})
}

func TestStats_Remove(t *testing.T) {
	s := attendance.Stats{Total: 3, Present: 1, Absent: 1, Late: 1}
	s.Remove(attendance.Late)
	assert.Equal(t, attendance.Stats{Total: 2, Present: 1, Absent: 1}, s)

	var empty attendance.Stats
	empty.Remove(attendance.Present)
	assert.Equal(t, attendance.Stats{}, empty)
}

func TestMark_Validate(t *testing.T) {
	validate, translator := testutil.NewValidator()

	assert.NoError(t, attendance.Mark{ClassID: 1, StudentID: 1, Status: attendance.Late}.Validate(validate))
	assert.NoError(t, attendance.Mark{Date: "2024-01-22", ClassID: 1, StudentID: 1, Status: attendance.Late}.Validate(validate))

	err := attendance.Mark{Date: "Jan 22", ClassID: 1, StudentID: 1, Status: attendance.Late}.Validate(validate)
	fields, ok := core.FieldErrors(err, translator)
	require.True(t, ok)
	assert.Contains(t, fields, "date")

	err = attendance.Mark{ClassID: 1, StudentID: 1, Status: "excused"}.Validate(validate)
	fields, ok = core.FieldErrors(err, translator)
	require.True(t, ok)
	assert.Contains(t, fields, "status")
}

func TestService_GetStudentAttendance(t *testing.T) {
	svc := newService(t)

	view, err := svc.GetStudentAttendance(1, attendance.RecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Sarah Johnson", view.Student.Name)
	assert.Len(t, view.Records, 15)
	assert.Equal(t, "2024-01-22", view.Records[0].Date.Format(core.DateLayout))
	assert.Len(t, view.Classes, 6)
	assert.Equal(t, 90.6, view.Stats.PresentRate())
	assert.Len(t, view.Monthly, 4)
	assert.Equal(t, attendance.All, view.Filter.Class)

	view, err = svc.GetStudentAttendance(1, attendance.RecordFilter{Class: "Mathematics 101"})
	require.NoError(t, err)
	assert.Len(t, view.Records, 4)

	view, err = svc.GetStudentAttendance(1, attendance.RecordFilter{Month: "2023-12"})
	require.NoError(t, err)
	assert.Empty(t, view.Records)
	assert.Equal(t, 64, view.Stats.Total, "term stats ignore the filter")

	_, err = svc.GetStudentAttendance(99, attendance.RecordFilter{})
	assert.Equal(t, core.ErrNotFound, errors.Cause(err))
}

func TestService_GetOverview(t *testing.T) {
	svc := newService(t)

	view, err := svc.GetOverview(1, attendance.OverviewFilter{})
	require.NoError(t, err)
	assert.Len(t, view.Subjects, 6)
	assert.Len(t, view.Recent, 15)
	assert.Equal(t, 103, view.Overall.Total)
	assert.Equal(t, 96, view.Overall.Present)
	assert.Equal(t, 93.2, view.Overall.PresentRate())

	view, err = svc.GetOverview(1, attendance.OverviewFilter{Subject: "Physics Advanced"})
	require.NoError(t, err)
	require.Len(t, view.Subjects, 1)
	assert.Equal(t, "down", view.Subjects[0].Trend)
	assert.Len(t, view.Recent, 3)
	assert.Len(t, view.All, 6)
	assert.Equal(t, 103, view.Overall.Total)
}

func TestService_GetSessions(t *testing.T) {
	svc := newService(t)

	tests := []struct {
		name         string
		ref          string
		month        string
		wantSessions int
		wantErr      error
	}{
		{name: "by id", ref: "1", wantSessions: 7},
		{name: "by slug", ref: "mathematics-101", wantSessions: 7},
		{name: "by code", ref: "MATH101", wantSessions: 7},
		{name: "by prefix", ref: "math", wantSessions: 7},
		{name: "other month", ref: "1", month: "2024-02"},
		{name: "subject without sessions", ref: "physics-advanced"},
		{name: "unknown slug", ref: "astronomy", wantErr: core.ErrNotFound},
		{name: "unknown id", ref: "99", wantErr: core.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := svc.GetSessions(1, tt.ref, tt.month)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				return
			}
			require.NoError(t, err)
			assert.Len(t, view.Sessions, tt.wantSessions)
		})
	}

	view, err := svc.GetSessions(1, "1", "")
	require.NoError(t, err)
	assert.Equal(t, "Mathematics 101", view.Subject.Name)
	assert.Equal(t, attendance.Stats{Total: 7, Present: 5, Absent: 1, Late: 1}, view.Stats)
	assert.Equal(t, 85.7, view.Stats.AttendedRate())
	assert.Equal(t, "2024-01-22", view.Sessions[0].Date.Format(core.DateLayout))
	assert.Equal(t, "Monday", view.Sessions[0].DayOfWeek())
}
