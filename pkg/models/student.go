package models

import (
	"encoding/json"
	"strings"

	"github.com/centerdesk/session-scheduler-api/pkg/timewindow"
)

// TimePair is one weekday's attendance window as a [start, end] pair of
// "HH:MM" strings. Both elements empty means no attendance that day; absence
// of a day is always represented by an empty pair, never by a missing key.
type TimePair [2]string

// Empty reports whether the pair does not describe a usable window.
func (p TimePair) Empty() bool {
	return p[0] == "" || p[1] == ""
}

// Minutes parses the window. ok is false for empty or unparseable pairs.
func (p TimePair) Minutes() (timewindow.Range, bool) {
	if p.Empty() {
		return timewindow.Range{}, false
	}
	start, okS := timewindow.ParseTime(p[0])
	end, okE := timewindow.ParseTime(p[1])
	if !okS || !okE {
		return timewindow.Range{}, false
	}
	return timewindow.Range{Start: start, End: end}, true
}

// UnmarshalJSON accepts the shapes older exports produced for a day's
// attendance: a two-element array, a "start~end" string, a bare start string,
// or null. Everything normalizes to the two-element form.
func (p *TimePair) UnmarshalJSON(b []byte) error {
	*p = TimePair{}

	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		if len(arr) > 0 {
			p[0] = strings.TrimSpace(arr[0])
		}
		if len(arr) > 1 {
			p[1] = strings.TrimSpace(arr[1])
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if from, to, found := strings.Cut(s, "~"); found {
			p[0] = strings.TrimSpace(from)
			p[1] = strings.TrimSpace(to)
		} else {
			p[0] = s
		}
		return nil
	}

	// null or an unrecognized shape degrades to an empty pair
	return nil
}

// Attendance holds one window per weekday. Use Normalize before handing it to
// the engines so that every weekday key exists.
type Attendance map[Weekday]TimePair

// Normalize returns a copy with an entry for every operating weekday and all
// values trimmed. Applying it twice gives the same result.
func (a Attendance) Normalize() Attendance {
	out := make(Attendance, NumWeekdays)
	for _, d := range Weekdays {
		p := a[d]
		p[0] = strings.TrimSpace(p[0])
		p[1] = strings.TrimSpace(p[1])
		if p[0] == "" && p[1] == "" {
			p = TimePair{}
		}
		out[d] = p
	}
	return out
}

// TotalMinutes sums the parseable attendance windows across the week. Used to
// give scarce-availability students first claim during scheduling.
func (a Attendance) TotalMinutes() int {
	total := 0
	for _, d := range Weekdays {
		if r, ok := a[d].Minutes(); ok {
			total += r.Minutes()
		}
	}
	return total
}

// Personality tags as entered on the roster screen. Matching only ever
// rejects the extreme-introvert/extreme-introvert pairing.
const (
	PersonalityExtremeIntrovert = "극I"
	PersonalityExtremeExtrovert = "극E"
	PersonalityModerate         = "비극단적"
)

// CareFrequency is how often a student wants a mental-care session.
type CareFrequency string

const (
	CareWeekly          CareFrequency = "weekly"
	CareEveryTwoWeeks   CareFrequency = "biweekly"
	CareEveryThreeWeeks CareFrequency = "every3weeks"
	CareEveryFourWeeks  CareFrequency = "every4weeks"
)

// Weeks returns the cycle length; unknown values fall back to weekly.
func (f CareFrequency) Weeks() int {
	switch f {
	case CareEveryTwoWeeks:
		return 2
	case CareEveryThreeWeeks:
		return 3
	case CareEveryFourWeeks:
		return 4
	default:
		return 1
	}
}

// Student is the working model a scheduling run operates on. The calling
// layer materializes it from storage; the engines never fetch or persist it.
type Student struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	SeatNumber  string `json:"seat_number,omitempty"`
	BirthYear   int    `json:"birth_year,omitempty"`
	Personality string `json:"personality,omitempty"`

	// Subject preferences: one pick per subject family, two elective slots.
	Korean    string `json:"korean,omitempty"`
	Math      string `json:"math,omitempty"`
	Elective1 string `json:"elective1,omitempty"`
	Elective2 string `json:"elective2,omitempty"`

	FixedMentor    string `json:"fixed_mentor,omitempty"`
	BannedMentor1  string `json:"banned_mentor1,omitempty"`
	BannedMentor2  string `json:"banned_mentor2,omitempty"`
	SelectedMentor string `json:"selected_mentor,omitempty"`

	WeeklySessions int `json:"weekly_sessions"`

	CareInterested bool          `json:"care_interested,omitempty"`
	CareFrequency  CareFrequency `json:"care_frequency,omitempty"`

	InterviewWilling bool `json:"interview_willing,omitempty"`

	Attendance Attendance `json:"attendance"`
}

// ClampWeeklySessions forces a weekly quota into the valid 0–7 band.
func ClampWeeklySessions(n int) int {
	if n < 0 {
		return 0
	}
	if n > 7 {
		return 7
	}
	return n
}

// Normalize returns the student with attendance normalized and the weekly
// quota clamped.
func (s Student) Normalize() Student {
	s.Attendance = s.Attendance.Normalize()
	s.WeeklySessions = ClampWeeklySessions(s.WeeklySessions)
	return s
}

// IsBanned reports whether the named mentor sits in either banned slot.
func (s Student) IsBanned(mentorName string) bool {
	return mentorName != "" && (mentorName == s.BannedMentor1 || mentorName == s.BannedMentor2)
}
