package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/centerdesk/session-scheduler-api/pkg/models"
)

func mentor(name, time string) models.MentorShift {
	return models.MentorShift{Name: name, Time: time, BirthYear: 1995}
}

func weekAttendance(pair models.TimePair, days ...models.Weekday) models.Attendance {
	a := models.Attendance{}
	for _, d := range days {
		a[d] = pair
	}
	return a.Normalize()
}

func TestMatchFixedMentorShortCircuits(t *testing.T) {
	students := []models.Student{{
		ID:          "s1",
		FixedMentor: "kim",
		Attendance:  weekAttendance(models.TimePair{"09:00", "12:00"}, models.Monday),
	}}
	shifts := models.WeeklyShifts{
		models.Monday: {mentor("lee", "09:00~12:00")},
	}

	got := Match(students, shifts)
	require.Len(t, got, 1)
	assert.Equal(t, "kim", got[0].First)
	assert.Equal(t, "fixed mentor assigned", got[0].Reasons.First)
	assert.Empty(t, got[0].Second)
}

func TestMatchRanksBySubjectAgreement(t *testing.T) {
	students := []models.Student{{
		ID:         "s1",
		BirthYear:  2007,
		Math:       "미적",
		Korean:     "언매",
		Elective1:  "물리",
		Attendance: weekAttendance(models.TimePair{"09:00", "12:00"}, models.Monday),
	}}

	strong := mentor("strong", "09:00~12:00")
	strong.MathSubject = "미적"
	strong.KoreanSubject = "언매"
	strong.Elective2 = "물리"

	weak := mentor("weak", "09:00~12:00")
	weak.MathSubject = "미적"

	none := mentor("none", "09:00~12:00")

	shifts := models.WeeklyShifts{
		models.Monday: {none, weak, strong},
	}

	got := Match(students, shifts)
	require.Len(t, got, 1)
	assert.Equal(t, "strong", got[0].First)
	assert.Equal(t, "weak", got[0].Second)
	assert.Equal(t, "none", got[0].Third)
	assert.Equal(t, "time OK / personality OK / age OK / subjects: math(미적), korean(언매), elective1(물리)",
		got[0].Reasons.First)
	assert.Equal(t, "time OK / personality OK / age OK / subjects: none", got[0].Reasons.Third)
}

func TestMatchExcludesBannedMentors(t *testing.T) {
	students := []models.Student{{
		ID:            "s1",
		BirthYear:     2007,
		BannedMentor1: "kim",
		Attendance:    weekAttendance(models.TimePair{"09:00", "12:00"}, models.Monday),
	}}
	shifts := models.WeeklyShifts{
		models.Monday: {mentor("kim", "09:00~12:00"), mentor("lee", "09:00~12:00")},
	}

	got := Match(students, shifts)
	require.Len(t, got, 1)
	assert.Equal(t, "lee", got[0].First)
	assert.Empty(t, got[0].Second)
}

func TestMatchPersonalityRule(t *testing.T) {
	students := []models.Student{{
		ID:          "s1",
		BirthYear:   2007,
		Personality: models.PersonalityExtremeIntrovert,
		Attendance:  weekAttendance(models.TimePair{"09:00", "12:00"}, models.Monday),
	}}

	introvert := mentor("introvert", "09:00~12:00")
	introvert.Personality = models.PersonalityExtremeIntrovert
	extrovert := mentor("extrovert", "09:00~12:00")
	extrovert.Personality = models.PersonalityExtremeExtrovert

	got := Match(students, models.WeeklyShifts{models.Monday: {introvert, extrovert}})
	require.Len(t, got, 1)
	assert.Equal(t, "extrovert", got[0].First)
	assert.Empty(t, got[0].Second)
}

func TestMatchTimeCondition(t *testing.T) {
	// 29 shared minutes is below the bar; 30 passes.
	students := []models.Student{{
		ID:         "s1",
		BirthYear:  2007,
		Attendance: weekAttendance(models.TimePair{"09:00", "09:29"}, models.Monday),
	}}
	got := Match(students, models.WeeklyShifts{models.Monday: {mentor("kim", "09:00~12:00")}})
	require.Len(t, got, 1)
	assert.Equal(t, Unassignable, got[0].First)

	students[0].Attendance = weekAttendance(models.TimePair{"09:00", "09:30"}, models.Monday)
	got = Match(students, models.WeeklyShifts{models.Monday: {mentor("kim", "09:00~12:00")}})
	assert.Equal(t, "kim", got[0].First)
}

func TestMatchAgeCondition(t *testing.T) {
	students := []models.Student{{
		ID:         "s1",
		BirthYear:  2007,
		Attendance: weekAttendance(models.TimePair{"09:00", "12:00"}, models.Monday),
	}}

	young := models.MentorShift{Name: "young", Time: "09:00~12:00", BirthYear: 2008}
	unknown := models.MentorShift{Name: "unknown", Time: "09:00~12:00"}

	got := Match(students, models.WeeklyShifts{models.Monday: {young, unknown}})
	require.Len(t, got, 1)
	assert.Equal(t, Unassignable, got[0].First)
	assert.Equal(t, "no eligible mentor", got[0].Reasons.First)
}

func TestMatchStickyAcrossDays(t *testing.T) {
	// Time overlap on Tuesday qualifies the mentor even though Monday's
	// shift shares no time with the student.
	students := []models.Student{{
		ID:        "s1",
		BirthYear: 2007,
		Attendance: models.Attendance{
			models.Monday:  {"09:00", "10:00"},
			models.Tuesday: {"14:00", "16:00"},
		}.Normalize(),
	}}
	shifts := models.WeeklyShifts{
		models.Monday:  {mentor("kim", "20:00~22:00")},
		models.Tuesday: {mentor("kim", "14:00~16:00")},
	}

	got := Match(students, shifts)
	require.Len(t, got, 1)
	assert.Equal(t, "kim", got[0].First)
}
