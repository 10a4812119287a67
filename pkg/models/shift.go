package models

import "github.com/centerdesk/session-scheduler-api/pkg/timewindow"

// MentorShift is one mentor's working block on a weekday. Time keeps the
// "HH:MM~HH:MM" wire shape for compatibility with the shift spreadsheet;
// parse it once with Window before any computation.
type MentorShift struct {
	Name        string `json:"name"`
	Affiliation string `json:"affiliation,omitempty"`
	Time        string `json:"time"`
	Personality string `json:"personality,omitempty"`
	BirthYear   int    `json:"birth_year,omitempty"`

	KoreanSubject string `json:"korean_subject,omitempty"`
	MathSubject   string `json:"math_subject,omitempty"`
	Elective1     string `json:"elective1,omitempty"`
	Elective2     string `json:"elective2,omitempty"`

	Note string `json:"note,omitempty"`
}

// Window parses the shift's working time. ok is false when the record has no
// valid "HH:MM~HH:MM" string; such a shift never passes the time condition.
func (m MentorShift) Window() (timewindow.Range, bool) {
	return timewindow.ParseRange(m.Time)
}

// WeeklyShifts maps each weekday to its shift list. Order within a day is
// significant for display only, not for matching.
type WeeklyShifts map[Weekday][]MentorShift
