package models

// ChoiceReasons carries the justification text for each ranked choice.
type ChoiceReasons struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Third  string `json:"third"`
}

// MentorAssignment is the matcher's output for one student: up to three
// ranked mentor names plus free-text justifications. Choices beyond the
// available candidates stay empty.
type MentorAssignment struct {
	StudentID string        `json:"student_id"`
	First     string        `json:"first"`
	Second    string        `json:"second"`
	Third     string        `json:"third"`
	Reasons   ChoiceReasons `json:"reasons"`
}

// SlotAssignment is one scheduled session: a slot and its single occupant.
type SlotAssignment struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Student string `json:"student"`
}

// Schedule holds each weekday's assignments sorted by start time.
type Schedule map[Weekday][]SlotAssignment

// TotalSessions counts all assigned sessions across the week.
func (s Schedule) TotalSessions() int {
	n := 0
	for _, list := range s {
		n += len(list)
	}
	return n
}

// CountFor counts the sessions assigned to the named student.
func (s Schedule) CountFor(student string) int {
	n := 0
	for _, list := range s {
		for _, a := range list {
			if a.Student == student {
				n++
			}
		}
	}
	return n
}

// Shortfall reports a student whose assigned count came in under quota.
// Shortfalls are a normal outcome, not an error.
type Shortfall struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Missing   int    `json:"missing"`
}
