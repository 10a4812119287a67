// Package matcher ranks candidate mentors for each student against the
// weekly shift table: hard time/age/personality conditions plus a soft
// subject-match score. It performs no I/O; absence of a match is a normal,
// reportable outcome.
package matcher

import (
	"fmt"
	"sort"
	"strings"

	"github.com/centerdesk/session-scheduler-api/pkg/models"
	"github.com/centerdesk/session-scheduler-api/pkg/timewindow"
)

// Unassignable is the first-choice placeholder when no mentor qualifies.
const Unassignable = "unassignable"

const (
	reasonFixed      = "fixed mentor assigned"
	reasonIneligible = "no eligible mentor"
)

// candidate accumulates one (student, mentor) pair across all shared days.
type candidate struct {
	name  string
	order int // insertion order, keeps ties stable

	timeOK        bool
	ageOK         bool
	personalityOK bool

	matchedSubjects []string
}

func (c *candidate) eligible() bool {
	return c.timeOK && c.ageOK && c.personalityOK
}

func (c *candidate) reason() string {
	flag := func(ok bool) string {
		if ok {
			return "OK"
		}
		return "X"
	}
	subjects := "none"
	if len(c.matchedSubjects) > 0 {
		subjects = strings.Join(c.matchedSubjects, ", ")
	}
	return fmt.Sprintf("time %s / personality %s / age %s / subjects: %s",
		flag(c.timeOK), flag(c.personalityOK), flag(c.ageOK), subjects)
}

// personalityCompatible applies the sole incompatibility rule: two
// extreme introverts. Every other pairing, including unset tags, passes.
func personalityCompatible(a, b string) bool {
	return !(a == models.PersonalityExtremeIntrovert && b == models.PersonalityExtremeIntrovert)
}

// Match produces a ranked top-3 mentor list with justifications for every
// student. Students with a fixed mentor skip scoring entirely.
func Match(students []models.Student, shifts models.WeeklyShifts) []models.MentorAssignment {
	out := make([]models.MentorAssignment, 0, len(students))
	for _, s := range students {
		out = append(out, matchOne(s.Normalize(), shifts))
	}
	return out
}

func matchOne(s models.Student, shifts models.WeeklyShifts) models.MentorAssignment {
	if s.FixedMentor != "" {
		return models.MentorAssignment{
			StudentID: s.ID,
			First:     s.FixedMentor,
			Reasons:   models.ChoiceReasons{First: reasonFixed},
		}
	}

	byName := make(map[string]*candidate)
	var ordered []*candidate

	for _, day := range models.Weekdays {
		window, ok := s.Attendance[day].Minutes()
		if !ok {
			continue
		}
		for _, shift := range shifts[day] {
			if shift.Name == "" || s.IsBanned(shift.Name) {
				continue
			}

			c, seen := byName[shift.Name]
			if !seen {
				c = &candidate{name: shift.Name, order: len(ordered)}
				byName[shift.Name] = c
				ordered = append(ordered, c)

				// Subject agreement does not vary by day; score it once.
				c.matchedSubjects = matchSubjects(s, shift)
			}

			if mw, ok := shift.Window(); ok {
				if timewindow.Overlap(window.Start, window.End, mw.Start, mw.End) >= timewindow.MinOverlap {
					c.timeOK = true
				}
			}
			if shift.BirthYear != 0 && shift.BirthYear < s.BirthYear {
				c.ageOK = true
			}
			if personalityCompatible(shift.Personality, s.Personality) {
				c.personalityOK = true
			}
		}
	}

	eligible := ordered[:0:0]
	for _, c := range ordered {
		if c.eligible() {
			eligible = append(eligible, c)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return len(eligible[i].matchedSubjects) > len(eligible[j].matchedSubjects)
	})

	result := models.MentorAssignment{StudentID: s.ID}
	if len(eligible) == 0 {
		result.First = Unassignable
		result.Reasons.First = reasonIneligible
		return result
	}

	result.First = eligible[0].name
	result.Reasons.First = eligible[0].reason()
	if len(eligible) > 1 {
		result.Second = eligible[1].name
		result.Reasons.Second = eligible[1].reason()
	}
	if len(eligible) > 2 {
		result.Third = eligible[2].name
		result.Reasons.Third = eligible[2].reason()
	}
	return result
}

// matchSubjects collects the labels of every subject the mentor and student
// agree on: the two subject-family picks plus membership of each elective
// pick in the mentor's two elective slots.
func matchSubjects(s models.Student, m models.MentorShift) []string {
	var matched []string
	if s.Math != "" && m.MathSubject == s.Math {
		matched = append(matched, "math("+s.Math+")")
	}
	if s.Korean != "" && m.KoreanSubject == s.Korean {
		matched = append(matched, "korean("+s.Korean+")")
	}
	if s.Elective1 != "" && (m.Elective1 == s.Elective1 || m.Elective2 == s.Elective1) {
		matched = append(matched, "elective1("+s.Elective1+")")
	}
	if s.Elective2 != "" && (m.Elective1 == s.Elective2 || m.Elective2 == s.Elective2) {
		matched = append(matched, "elective2("+s.Elective2+")")
	}
	return matched
}
