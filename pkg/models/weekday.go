package models

import "fmt"

// Weekday indexes the six-day operating week (the center is closed on
// Sundays). The zero value is Monday.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// NumWeekdays is the number of operating days per week.
const NumWeekdays = 6

// Weekdays lists the operating days in calendar order.
var Weekdays = [NumWeekdays]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

var weekdayKeys = [NumWeekdays]string{"mon", "tue", "wed", "thu", "fri", "sat"}

func (d Weekday) String() string {
	if d < 0 || int(d) >= NumWeekdays {
		return fmt.Sprintf("weekday(%d)", int(d))
	}
	return weekdayKeys[d]
}

// ParseWeekday maps a key like "mon" back to its Weekday.
func ParseWeekday(s string) (Weekday, bool) {
	for i, k := range weekdayKeys {
		if s == k {
			return Weekday(i), true
		}
	}
	return 0, false
}

// MarshalText lets Weekday serve as a JSON map key ("mon".."sat").
func (d Weekday) MarshalText() ([]byte, error) {
	if d < 0 || int(d) >= NumWeekdays {
		return nil, fmt.Errorf("invalid weekday %d", int(d))
	}
	return []byte(weekdayKeys[d]), nil
}

// UnmarshalText parses a JSON map key back into a Weekday.
func (d *Weekday) UnmarshalText(b []byte) error {
	wd, ok := ParseWeekday(string(b))
	if !ok {
		return fmt.Errorf("invalid weekday %q", string(b))
	}
	*d = wd
	return nil
}
