// Package scheduler fills capacity-limited weekly time slots with students.
// The planner-check scheduler models the week as a flow network and computes
// a maximum assignment; the mental-care and interview schedulers are greedy
// single-session fillers. All of them are pure passes over an in-memory
// snapshot: the caller owns fetching and persisting.
package scheduler

import (
	"sort"

	"github.com/centerdesk/session-scheduler-api/pkg/models"
	"github.com/centerdesk/session-scheduler-api/pkg/timewindow"
)

// DayRange is one working-hours range in wire shape. A weekday carries up to
// two disjoint ranges; empty strings mean the range is unset.
type DayRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WorkingHours configures the bookable ranges per weekday.
type WorkingHours map[models.Weekday][]DayRange

// Config is the external configuration for one scheduling run. A weekday
// with no usable range simply contributes zero slots.
type Config struct {
	Hours          WorkingHours `json:"hours"`
	SessionMinutes int          `json:"session_minutes"`
}

// Strategy selects the ordering policy for the flow computation. It changes
// which maximum assignment is returned, not whether one exists.
type Strategy string

const (
	MondayFirst    Strategy = "mon_first"
	TuesdayFirst   Strategy = "tue_first"
	WednesdayFirst Strategy = "wed_first"
	ThursdayFirst  Strategy = "thu_first"
	FridayFirst    Strategy = "fri_first"
	SaturdayFirst  Strategy = "sat_first"
	NightFirst     Strategy = "night_first"
	MaxCoverage    Strategy = "max_cover"
)

// coverageOrder fixes the enumeration order for MaxCoverage. When two
// strategies tie on score, the one evaluated first wins.
var coverageOrder = [...]Strategy{
	MondayFirst, TuesdayFirst, WednesdayFirst,
	ThursdayFirst, FridayFirst, SaturdayFirst,
	NightFirst,
}

var dayFirstStrategies = map[Strategy]models.Weekday{
	MondayFirst:    models.Monday,
	TuesdayFirst:   models.Tuesday,
	WednesdayFirst: models.Wednesday,
	ThursdayFirst:  models.Thursday,
	FridayFirst:    models.Friday,
	SaturdayFirst:  models.Saturday,
}

// ParseStrategy maps a wire identifier to its Strategy. The empty string is
// accepted and means "default order" (equivalent to MondayFirst).
func ParseStrategy(s string) (Strategy, bool) {
	switch Strategy(s) {
	case "", MondayFirst:
		return MondayFirst, true
	case TuesdayFirst, WednesdayFirst, ThursdayFirst, FridayFirst,
		SaturdayFirst, NightFirst, MaxCoverage:
		return Strategy(s), true
	}
	return "", false
}

// nightStart is the minute offset splitting "night" (≥21:00) from earlier
// slots for the NightFirst strategy.
const nightStart = 21 * 60

// dayOrder returns the weekday evaluation order for a strategy: the chosen
// start day first, wrapping around. Strategies without a start day keep
// calendar order.
func dayOrder(strategy Strategy) []models.Weekday {
	order := make([]models.Weekday, 0, models.NumWeekdays)
	first, ok := dayFirstStrategies[strategy]
	if !ok {
		first = models.Monday
	}
	for i := 0; i < models.NumWeekdays; i++ {
		order = append(order, models.Weekday((int(first)+i)%models.NumWeekdays))
	}
	return order
}

// daySlot is one generated bookable slot, kept in minutes until output.
type daySlot struct {
	day   models.Weekday
	start int
	end   int
}

// collectSlots generates the week's slots in the order the strategy wants
// them explored. Slot order feeds the BFS and therefore steers which of the
// tied maximum assignments wins.
func collectSlots(cfg Config, strategy Strategy) []daySlot {
	if strategy == NightFirst {
		var night, early []daySlot
		for _, day := range models.Weekdays {
			slots := slotsForDay(cfg, day)
			sort.Slice(slots, func(i, j int) bool { return slots[i].start < slots[j].start })
			for _, s := range slots {
				if s.start >= nightStart {
					night = append(night, s)
				} else {
					early = append(early, s)
				}
			}
		}
		return append(night, early...)
	}

	var all []daySlot
	for _, day := range dayOrder(strategy) {
		all = append(all, slotsForDay(cfg, day)...)
	}
	return all
}

func slotsForDay(cfg Config, day models.Weekday) []daySlot {
	var out []daySlot
	for _, r := range cfg.Hours[day] {
		if r.Start == "" || r.End == "" {
			continue
		}
		for slot := range timewindow.Slots(r.Start, r.End, cfg.SessionMinutes) {
			start, _ := timewindow.ParseTime(slot.Start)
			end, _ := timewindow.ParseTime(slot.End)
			out = append(out, daySlot{day: day, start: start, end: end})
		}
	}
	return out
}

// Result is one scheduling run's output. Shortfalls list every student whose
// assigned count came in under quota; a partial result is still returned.
type Result struct {
	Schedule   models.Schedule    `json:"schedule"`
	Shortfalls []models.Shortfall `json:"shortfalls"`
	Strategy   Strategy           `json:"strategy"`
}

// Assign computes a feasible maximum assignment of students to slots under
// the given strategy. MaxCoverage runs every other strategy and keeps the
// best-scoring result.
func Assign(students []models.Student, cfg Config, strategy Strategy) (*Result, error) {
	if strategy == MaxCoverage {
		return assignMaxCoverage(students, cfg)
	}
	return assignOne(students, cfg, strategy)
}

func assignOne(students []models.Student, cfg Config, strategy Strategy) (*Result, error) {
	normalized := make([]models.Student, len(students))
	for i, s := range students {
		normalized[i] = s.Normalize()
	}
	students = normalized

	slots := collectSlots(cfg, strategy)

	// Node layout: source, one node per student, one per (student, weekday),
	// one per slot, sink. The three capacity constraints are the edges.
	n := len(students)
	const nDays = models.NumWeekdays
	source := 0
	studentBase := 1
	studentDayBase := studentBase + n
	slotBase := studentDayBase + n*nDays
	sink := slotBase + len(slots)

	studentNode := func(i int) int { return studentBase + i }
	studentDayNode := func(i int, d models.Weekday) int { return studentDayBase + i*nDays + int(d) }
	slotNode := func(j int) int { return slotBase + j }

	nw := newNetwork(sink + 1)

	// Scarce-availability students get their source edges first so path
	// discovery reaches them before students with wide-open weeks.
	byAvailability := make([]int, n)
	for i := range byAvailability {
		byAvailability[i] = i
	}
	sort.SliceStable(byAvailability, func(a, b int) bool {
		return students[byAvailability[a]].Attendance.TotalMinutes() <
			students[byAvailability[b]].Attendance.TotalMinutes()
	})
	for _, i := range byAvailability {
		if q := students[i].WeeklySessions; q > 0 {
			nw.addEdge(source, studentNode(i), q)
		}
	}

	// One session per student per weekday. Edge insertion follows the
	// strategy's day order; NightFirst keeps calendar order here and steers
	// via slot order instead.
	order := models.Weekdays[:]
	if _, ok := dayFirstStrategies[strategy]; ok {
		order = dayOrder(strategy)
	}
	for i := range students {
		for _, d := range order {
			nw.addEdge(studentNode(i), studentDayNode(i, d), 1)
		}
	}

	// A (student, day) pair can feed a slot only when the slot lies fully
	// inside the student's attendance window. Containment in working hours
	// is structural: slots are generated from the configured ranges.
	for i, s := range students {
		for _, d := range models.Weekdays {
			window, ok := s.Attendance[d].Minutes()
			if !ok {
				continue
			}
			for j, slot := range slots {
				if slot.day == d && window.Start <= slot.start && slot.end <= window.End {
					nw.addEdge(studentDayNode(i, d), slotNode(j), 1)
				}
			}
		}
	}

	for j := range slots {
		nw.addEdge(slotNode(j), sink, 1)
	}

	if _, err := nw.maxFlow(source, sink); err != nil {
		return nil, err
	}

	// Residual capacity on the slot→student-day back edge marks a unit of
	// flow, i.e. an assignment.
	schedule := make(models.Schedule, nDays)
	for _, d := range models.Weekdays {
		schedule[d] = []models.SlotAssignment{}
	}
	var shortfalls []models.Shortfall
	for i, s := range students {
		assigned := 0
		for j, slot := range slots {
			if nw.cap[slotNode(j)][studentDayNode(i, slot.day)] > 0 {
				schedule[slot.day] = append(schedule[slot.day], models.SlotAssignment{
					Start:   timewindow.FormatTime(slot.start),
					End:     timewindow.FormatTime(slot.end),
					Student: s.Name,
				})
				assigned++
			}
		}
		if assigned < s.WeeklySessions {
			shortfalls = append(shortfalls, models.Shortfall{
				StudentID: s.ID,
				Name:      s.Name,
				Missing:   s.WeeklySessions - assigned,
			})
		}
	}

	for _, d := range models.Weekdays {
		list := schedule[d]
		sort.SliceStable(list, func(a, b int) bool {
			am, _ := timewindow.ParseTime(list[a].Start)
			bm, _ := timewindow.ParseTime(list[b].Start)
			return am < bm
		})
	}

	return &Result{Schedule: schedule, Shortfalls: shortfalls, Strategy: strategy}, nil
}

// coverageScore ranks MaxCoverage candidates: least total unmet quota, then
// fewest students left short, then most sessions assigned.
type coverageScore struct {
	totalMissing    int
	missingStudents int
	totalAssigned   int
}

func (a coverageScore) beats(b coverageScore) bool {
	if a.totalMissing != b.totalMissing {
		return a.totalMissing < b.totalMissing
	}
	if a.missingStudents != b.missingStudents {
		return a.missingStudents < b.missingStudents
	}
	return a.totalAssigned > b.totalAssigned
}

func scoreSchedule(students []models.Student, schedule models.Schedule) coverageScore {
	var score coverageScore
	for _, s := range students {
		need := models.ClampWeeklySessions(s.WeeklySessions)
		got := schedule.CountFor(s.Name)
		if miss := need - got; miss > 0 {
			score.totalMissing += miss
			score.missingStudents++
		}
		score.totalAssigned += got
	}
	return score
}

func assignMaxCoverage(students []models.Student, cfg Config) (*Result, error) {
	var best *Result
	var bestScore coverageScore

	for _, strategy := range coverageOrder {
		res, err := assignOne(students, cfg, strategy)
		if err != nil {
			return nil, err
		}
		score := scoreSchedule(students, res.Schedule)
		if best == nil || score.beats(bestScore) {
			best = res
			bestScore = score
		}
	}
	return best, nil
}
