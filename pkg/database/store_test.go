package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/centerdesk/session-scheduler-api/pkg/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&StudentRecord{}, &AttendanceRecord{}, &MentorShiftRecord{},
		&MentorAssignmentRecord{}, &ScheduleEntry{}, &ConsultingRecord{},
		&Setting{},
	))
	return db
}

func TestLoadStudentsJoinsAttendance(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Create(&StudentRecord{ID: "s1", Name: "Kim", WeeklySessions: 3}).Error)

	att := models.Attendance{
		models.Monday: {"09:00", "12:00"},
		models.Friday: {"14:00", "18:00"},
	}
	require.NoError(t, SaveAttendance(db, "s1", att))

	students, err := LoadStudents(db)
	require.NoError(t, err)
	require.Len(t, students, 1)

	s := students[0]
	assert.Equal(t, "Kim", s.Name)
	assert.Equal(t, 3, s.WeeklySessions)
	assert.Equal(t, models.TimePair{"09:00", "12:00"}, s.Attendance[models.Monday])
	assert.Equal(t, models.TimePair{"14:00", "18:00"}, s.Attendance[models.Friday])
	assert.Equal(t, models.TimePair{}, s.Attendance[models.Tuesday])
}

func TestSaveAttendanceUpserts(t *testing.T) {
	db := testDB(t)
	require.NoError(t, db.Create(&StudentRecord{ID: "s1", Name: "Kim"}).Error)

	require.NoError(t, SaveAttendance(db, "s1", models.Attendance{
		models.Monday: {"09:00", "12:00"},
	}))
	require.NoError(t, SaveAttendance(db, "s1", models.Attendance{
		models.Monday: {"10:00", "13:00"},
	}))

	var rows []AttendanceRecord
	require.NoError(t, db.Where("student_id = ? AND weekday = ?", "s1", "mon").Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "10:00", rows[0].Start)

	// One row per weekday regardless of how many saves ran.
	var count int64
	db.Model(&AttendanceRecord{}).Where("student_id = ?", "s1").Count(&count)
	assert.EqualValues(t, models.NumWeekdays, count)
}

func TestReplaceShiftsRoundTrip(t *testing.T) {
	db := testDB(t)

	shifts := models.WeeklyShifts{
		models.Monday: {
			{Name: "lee", Time: "09:00~12:00", MathSubject: "미적"},
			{Name: "kim", Time: "13:00~18:00"},
		},
		models.Saturday: {
			{Name: "park", Time: "10:00~14:00", BirthYear: 1999},
		},
	}
	require.NoError(t, ReplaceShifts(db, shifts))

	got, err := LoadShifts(db)
	require.NoError(t, err)
	require.Len(t, got[models.Monday], 2)
	assert.Equal(t, "lee", got[models.Monday][0].Name)
	assert.Equal(t, "kim", got[models.Monday][1].Name)
	assert.Equal(t, "미적", got[models.Monday][0].MathSubject)
	assert.Equal(t, 1999, got[models.Saturday][0].BirthYear)
	assert.Empty(t, got[models.Tuesday])

	// A second replace discards the first table entirely.
	require.NoError(t, ReplaceShifts(db, models.WeeklyShifts{
		models.Tuesday: {{Name: "choi", Time: "09:00~11:00"}},
	}))
	got, err = LoadShifts(db)
	require.NoError(t, err)
	assert.Empty(t, got[models.Monday])
	require.Len(t, got[models.Tuesday], 1)
}

func TestSaveAssignmentsUpserts(t *testing.T) {
	db := testDB(t)

	first := []models.MentorAssignment{{
		StudentID: "s1", First: "lee",
		Reasons: models.ChoiceReasons{First: "time OK / personality OK / age OK / subjects: none"},
	}}
	require.NoError(t, SaveAssignments(db, first))

	second := []models.MentorAssignment{{StudentID: "s1", First: "kim", Second: "lee"}}
	require.NoError(t, SaveAssignments(db, second))

	var rows []MentorAssignmentRecord
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, "kim", rows[0].First)
	assert.Equal(t, "lee", rows[0].Second)
}

func TestReplaceScheduleKindsAreIndependent(t *testing.T) {
	db := testDB(t)

	planner := models.Schedule{
		models.Monday: {{Start: "09:00", End: "09:30", Student: "Kim"}},
	}
	care := models.Schedule{
		models.Monday: {{Start: "14:00", End: "14:30", Student: "Lee"}},
	}
	require.NoError(t, ReplaceSchedule(db, SchedulePlanner, planner))
	require.NoError(t, ReplaceSchedule(db, ScheduleMentalCare, care))

	got, err := LoadSchedule(db, SchedulePlanner)
	require.NoError(t, err)
	require.Len(t, got[models.Monday], 1)
	assert.Equal(t, "Kim", got[models.Monday][0].Student)

	// Replacing one kind leaves the other untouched.
	require.NoError(t, ReplaceSchedule(db, SchedulePlanner, models.Schedule{}))
	got, err = LoadSchedule(db, ScheduleMentalCare)
	require.NoError(t, err)
	require.Len(t, got[models.Monday], 1)
	assert.Equal(t, "Lee", got[models.Monday][0].Student)
}

func TestSettingsRoundTrip(t *testing.T) {
	db := testDB(t)

	type cfg struct {
		SessionMinutes int `json:"session_minutes"`
	}

	var missing cfg
	found, err := GetSetting(db, "planner_config", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, PutSetting(db, "planner_config", cfg{SessionMinutes: 30}))
	require.NoError(t, PutSetting(db, "planner_config", cfg{SessionMinutes: 45}))

	var got cfg
	found, err = GetSetting(db, "planner_config", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 45, got.SessionMinutes)
}
