package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centerdesk/session-scheduler-api/pkg/models"
)

func shiftsFor(day models.Weekday, name, time string) models.WeeklyShifts {
	return models.WeeklyShifts{day: {{Name: name, Time: time}}}
}

func TestCheckStudentPassOnOverlap(t *testing.T) {
	s := models.Student{
		ID: "s1", Name: "Kim", SelectedMentor: "lee",
		Attendance: models.Attendance{models.Monday: {"09:20", "09:50"}},
	}
	report := CheckStudent(s, shiftsFor(models.Monday, "lee", "09:00~10:00"))

	assert.True(t, report.Pass)
	require.Len(t, report.Days, models.NumWeekdays)
	mon := report.Days[0]
	assert.Equal(t, StatusPass, mon.Status)
	assert.Equal(t, 30, mon.OverlapMinutes)
	assert.Equal(t, "mon: 30m overlap (pass)", mon.Detail)
}

func TestCheckStudentFailBelowMinimum(t *testing.T) {
	s := models.Student{
		ID: "s1", Name: "Kim", SelectedMentor: "lee",
		Attendance: models.Attendance{models.Monday: {"09:45", "10:15"}},
	}
	report := CheckStudent(s, shiftsFor(models.Monday, "lee", "09:00~10:00"))

	assert.False(t, report.Pass)
	mon := report.Days[0]
	assert.Equal(t, StatusFail, mon.Status)
	assert.Equal(t, 15, mon.OverlapMinutes)
	assert.Equal(t, "mon: 15m overlap (fail)", mon.Detail)
}

func TestCheckStudentDisjointShowsZero(t *testing.T) {
	s := models.Student{
		ID: "s1", Name: "Kim", SelectedMentor: "lee",
		Attendance: models.Attendance{models.Monday: {"20:00", "22:00"}},
	}
	report := CheckStudent(s, shiftsFor(models.Monday, "lee", "09:00~10:00"))

	mon := report.Days[0]
	assert.Equal(t, StatusFail, mon.Status)
	assert.Negative(t, mon.OverlapMinutes)
	assert.Equal(t, "mon: 0m overlap (fail)", mon.Detail)
}

func TestCheckStudentStatuses(t *testing.T) {
	s := models.Student{
		ID: "s1", Name: "Kim", SelectedMentor: "lee",
		Attendance: models.Attendance{models.Tuesday: {"09:00", "12:00"}},
	}
	report := CheckStudent(s, shiftsFor(models.Monday, "lee", "09:00~10:00"))

	assert.Equal(t, StatusNoAttendance, report.Days[0].Status)
	assert.Equal(t, "mon: no attendance", report.Days[0].Detail)
	assert.Equal(t, StatusNoShift, report.Days[1].Status)
	assert.Equal(t, "tue: mentor has no shift", report.Days[1].Detail)
	assert.False(t, report.Pass)
}

func TestCheckStudentUnparseableShiftTime(t *testing.T) {
	s := models.Student{
		ID: "s1", Name: "Kim", SelectedMentor: "lee",
		Attendance: models.Attendance{models.Monday: {"09:00", "12:00"}},
	}
	report := CheckStudent(s, shiftsFor(models.Monday, "lee", "whenever"))
	assert.Equal(t, StatusNoShift, report.Days[0].Status)
}

func TestCheckRoster(t *testing.T) {
	shifts := shiftsFor(models.Monday, "lee", "09:00~12:00")
	students := []models.Student{
		{ID: "s1", Name: "Kim", SelectedMentor: "lee",
			Attendance: models.Attendance{models.Monday: {"09:00", "12:00"}}},
		{ID: "s2", Name: "Park",
			Attendance: models.Attendance{models.Monday: {"09:00", "12:00"}}},
		{ID: "s3", Name: "Choi", SelectedMentor: "lee",
			Attendance: models.Attendance{models.Tuesday: {"09:00", "12:00"}}},
	}

	report := CheckRoster(students, shifts)
	assert.False(t, report.Pass)
	assert.Equal(t, []string{"Park"}, report.NoMentor)
	require.Len(t, report.Failing, 1)
	assert.Equal(t, "s3", report.Failing[0].StudentID)
}

func TestCheckRosterAllPass(t *testing.T) {
	shifts := shiftsFor(models.Monday, "lee", "09:00~12:00")
	students := []models.Student{
		{ID: "s1", Name: "Kim", SelectedMentor: "lee",
			Attendance: models.Attendance{models.Monday: {"09:00", "12:00"}}},
	}
	report := CheckRoster(students, shifts)
	assert.True(t, report.Pass)
	assert.Empty(t, report.NoMentor)
	assert.Empty(t, report.Failing)
}
