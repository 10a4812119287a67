package scheduler

import (
	"sort"

	"github.com/centerdesk/session-scheduler-api/pkg/models"
	"github.com/centerdesk/session-scheduler-api/pkg/timewindow"
)

// InterviewConfig configures director-interview assignment: the director's
// window per weekday plus the interview length.
type InterviewConfig struct {
	Hours          map[models.Weekday]DayRange `json:"hours"`
	SessionMinutes int                         `json:"session_minutes"`
}

// InterviewSlot is one student's assigned interview.
type InterviewSlot struct {
	Day   models.Weekday `json:"day"`
	Start string         `json:"start"`
	End   string         `json:"end"`
}

// InterviewResult is the interview run output. ByStudent indexes the placed
// slot by student ID for the per-student roster view.
type InterviewResult struct {
	Schedule  models.Schedule          `json:"schedule"`
	ByStudent map[string]InterviewSlot `json:"by_student"`
	Unplaced  []string                 `json:"unplaced"`
}

// AssignInterviews gives every willing student one interview slot inside the
// intersection of their attendance and the director's window. Students with
// the narrowest weekly attendance are placed first; a candidate slot is
// rejected when its time range overlaps any interview already placed that
// day.
func AssignInterviews(students []models.Student, cfg InterviewConfig) *InterviewResult {
	result := &InterviewResult{
		Schedule:  make(models.Schedule, models.NumWeekdays),
		ByStudent: make(map[string]InterviewSlot),
	}
	for _, d := range models.Weekdays {
		result.Schedule[d] = []models.SlotAssignment{}
	}

	willing := make([]models.Student, 0, len(students))
	for _, s := range students {
		if s.InterviewWilling {
			willing = append(willing, s.Normalize())
		}
	}
	sort.SliceStable(willing, func(i, j int) bool {
		return willing[i].Attendance.TotalMinutes() < willing[j].Attendance.TotalMinutes()
	})

	for _, s := range willing {
		slot, ok := firstFreeInterviewSlot(s, cfg, result.Schedule)
		if !ok {
			result.Unplaced = append(result.Unplaced, s.Name)
			continue
		}
		result.Schedule[slot.Day] = append(result.Schedule[slot.Day], models.SlotAssignment{
			Start:   slot.Start,
			End:     slot.End,
			Student: s.Name,
		})
		result.ByStudent[s.ID] = slot
	}

	for _, d := range models.Weekdays {
		list := result.Schedule[d]
		sort.SliceStable(list, func(a, b int) bool {
			am, _ := timewindow.ParseTime(list[a].Start)
			bm, _ := timewindow.ParseTime(list[b].Start)
			return am < bm
		})
	}

	return result
}

func firstFreeInterviewSlot(s models.Student, cfg InterviewConfig, schedule models.Schedule) (InterviewSlot, bool) {
	for _, day := range models.Weekdays {
		window, ok := s.Attendance[day].Minutes()
		if !ok {
			continue
		}
		work := cfg.Hours[day]
		if work.Start == "" || work.End == "" {
			continue
		}
		workWindow, ok := timewindow.ParseRange(work.Start + "~" + work.End)
		if !ok {
			continue
		}

		start := max(window.Start, workWindow.Start)
		end := min(window.End, workWindow.End)
		if end-start < cfg.SessionMinutes {
			continue
		}

		for slot := range timewindow.Slots(timewindow.FormatTime(start), timewindow.FormatTime(end), cfg.SessionMinutes) {
			if !clashes(schedule[day], slot) {
				return InterviewSlot{Day: day, Start: slot.Start, End: slot.End}, true
			}
		}
	}
	return InterviewSlot{}, false
}

func clashes(placed []models.SlotAssignment, slot timewindow.Slot) bool {
	sStart, _ := timewindow.ParseTime(slot.Start)
	sEnd, _ := timewindow.ParseTime(slot.End)
	for _, p := range placed {
		pStart, _ := timewindow.ParseTime(p.Start)
		pEnd, _ := timewindow.ParseTime(p.End)
		if pStart < sEnd && sStart < pEnd {
			return true
		}
	}
	return false
}
