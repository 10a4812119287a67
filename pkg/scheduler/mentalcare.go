package scheduler

import (
	"sort"

	"github.com/centerdesk/session-scheduler-api/pkg/models"
	"github.com/centerdesk/session-scheduler-api/pkg/timewindow"
)

// CareConfig configures the mental-care scheduler: one counselor window per
// weekday plus the session length.
type CareConfig struct {
	Hours          map[models.Weekday]DayRange `json:"hours"`
	SessionMinutes int                         `json:"session_minutes"`
}

// CareResult is the mental-care run output. Unplaced lists interested
// students who could not be given a session this week.
type CareResult struct {
	Schedule models.Schedule `json:"schedule"`
	Unplaced []string        `json:"unplaced"`
}

// AssignCare places each interested student into one session per week inside
// the intersection of their attendance and the counselor's window. Students
// with the narrowest weekly attendance are placed first. The recorded care
// frequency governs which calendar weeks a student attends; within a single
// week everyone interested gets at most one slot.
func AssignCare(students []models.Student, cfg CareConfig) *CareResult {
	result := &CareResult{Schedule: make(models.Schedule, models.NumWeekdays)}
	for _, d := range models.Weekdays {
		result.Schedule[d] = []models.SlotAssignment{}
	}

	interested := make([]models.Student, 0, len(students))
	for _, s := range students {
		if s.CareInterested {
			interested = append(interested, s.Normalize())
		}
	}
	sort.SliceStable(interested, func(i, j int) bool {
		return interested[i].Attendance.TotalMinutes() < interested[j].Attendance.TotalMinutes()
	})

	taken := make(map[string]bool) // "day_start" slot keys already used

	for _, s := range interested {
		placed := false
		for _, day := range models.Weekdays {
			window, ok := s.Attendance[day].Minutes()
			if !ok {
				continue
			}
			care := cfg.Hours[day]
			if care.Start == "" || care.End == "" {
				continue
			}
			careWindow, ok := timewindow.ParseRange(care.Start + "~" + care.End)
			if !ok {
				continue
			}

			start := max(window.Start, careWindow.Start)
			end := min(window.End, careWindow.End)
			if end-start < cfg.SessionMinutes {
				continue
			}

			for slot := range timewindow.Slots(timewindow.FormatTime(start), timewindow.FormatTime(end), cfg.SessionMinutes) {
				key := day.String() + "_" + slot.Start
				if taken[key] {
					continue
				}
				taken[key] = true
				result.Schedule[day] = append(result.Schedule[day], models.SlotAssignment{
					Start:   slot.Start,
					End:     slot.End,
					Student: s.Name,
				})
				placed = true
				break
			}
			if placed {
				break
			}
		}
		if !placed {
			result.Unplaced = append(result.Unplaced, s.Name)
		}
	}

	return result
}
