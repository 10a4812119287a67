// Package validator confirms, after the fact, that a student's selected
// mentor actually covers their attendance by the minimum overlap on at least
// one weekday. It only reads already-computed state; it never re-runs the
// matcher.
package validator

import (
	"fmt"

	"github.com/centerdesk/session-scheduler-api/pkg/models"
	"github.com/centerdesk/session-scheduler-api/pkg/timewindow"
)

// DayStatus classifies one weekday of the coverage check.
type DayStatus string

const (
	StatusNoAttendance DayStatus = "no_attendance"
	StatusNoShift      DayStatus = "no_shift"
	StatusPass         DayStatus = "pass"
	StatusFail         DayStatus = "fail"
)

// DayDetail is the per-weekday outcome, with a human-readable line for the
// review screen.
type DayDetail struct {
	Day            models.Weekday `json:"day"`
	Status         DayStatus      `json:"status"`
	OverlapMinutes int            `json:"overlap_minutes,omitempty"`
	Detail         string         `json:"detail"`
}

// StudentReport aggregates a student's six weekdays. Pass is true when any
// single day clears the minimum overlap.
type StudentReport struct {
	StudentID string      `json:"student_id"`
	Name      string      `json:"name"`
	Mentor    string      `json:"mentor"`
	Pass      bool        `json:"pass"`
	Days      []DayDetail `json:"days"`
}

// RosterReport is the whole-roster view: students without a selected mentor
// are listed separately, and Failing carries full detail for everyone whose
// aggregate check failed.
type RosterReport struct {
	Pass     bool            `json:"pass"`
	NoMentor []string        `json:"no_mentor"`
	Failing  []StudentReport `json:"failing"`
}

// CheckStudent walks all six weekdays for the student's selected mentor.
func CheckStudent(s models.Student, shifts models.WeeklyShifts) StudentReport {
	s = s.Normalize()
	report := StudentReport{StudentID: s.ID, Name: s.Name, Mentor: s.SelectedMentor}

	for _, day := range models.Weekdays {
		d := checkDay(s, day, shifts)
		if d.Status == StatusPass {
			report.Pass = true
		}
		report.Days = append(report.Days, d)
	}
	return report
}

func checkDay(s models.Student, day models.Weekday, shifts models.WeeklyShifts) DayDetail {
	window, ok := s.Attendance[day].Minutes()
	if !ok {
		return DayDetail{Day: day, Status: StatusNoAttendance,
			Detail: fmt.Sprintf("%s: no attendance", day)}
	}

	shift, ok := findShift(shifts[day], s.SelectedMentor)
	if !ok {
		return DayDetail{Day: day, Status: StatusNoShift,
			Detail: fmt.Sprintf("%s: mentor has no shift", day)}
	}
	mw, ok := shift.Window()
	if !ok {
		return DayDetail{Day: day, Status: StatusNoShift,
			Detail: fmt.Sprintf("%s: mentor has no shift", day)}
	}

	overlap := timewindow.Overlap(window.Start, window.End, mw.Start, mw.End)
	shown := max(overlap, 0)
	if overlap >= timewindow.MinOverlap {
		return DayDetail{Day: day, Status: StatusPass, OverlapMinutes: overlap,
			Detail: fmt.Sprintf("%s: %dm overlap (pass)", day, shown)}
	}
	return DayDetail{Day: day, Status: StatusFail, OverlapMinutes: overlap,
		Detail: fmt.Sprintf("%s: %dm overlap (fail)", day, shown)}
}

func findShift(list []models.MentorShift, name string) (models.MentorShift, bool) {
	for _, m := range list {
		if m.Name == name {
			return m, true
		}
	}
	return models.MentorShift{}, false
}

// CheckRoster applies the per-day check to every student with a selected
// mentor and collects the failures.
func CheckRoster(students []models.Student, shifts models.WeeklyShifts) RosterReport {
	report := RosterReport{Pass: true}

	for _, s := range students {
		if s.SelectedMentor == "" {
			report.NoMentor = append(report.NoMentor, s.Name)
			report.Pass = false
			continue
		}
		sr := CheckStudent(s, shifts)
		if !sr.Pass {
			report.Failing = append(report.Failing, sr)
			report.Pass = false
		}
	}
	return report
}
