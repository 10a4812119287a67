package timewindow

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// MinOverlap is the minimum shared time, in minutes, for a mentor shift to
// count as covering a student's attendance window.
const MinOverlap = 30

// Legacy records exported from the attendance spreadsheet carry Korean
// AM/PM markers instead of 24-hour clock times.
const (
	amMarker = "오전"
	pmMarker = "오후"
)

// ParseTime converts a clock time to minutes after midnight. It accepts the
// 24-hour "HH:MM" form and the legacy marker form ("오후 9:30"). The second
// return value is false when the input is not a recognizable time.
func ParseTime(text string) (int, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}

	isPM := strings.Contains(s, pmMarker)
	hasMarker := isPM || strings.Contains(s, amMarker)
	s = strings.NewReplacer(amMarker, "", pmMarker, "", " ", "").Replace(s)

	h, m, ok := splitClock(s)
	if !ok {
		return 0, false
	}
	if hasMarker {
		if isPM && h != 12 {
			h += 12
		} else if !isPM && h == 12 {
			h = 0
		}
	}
	if h > 23 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func splitClock(s string) (h, m int, ok bool) {
	hh, mm, found := strings.Cut(s, ":")
	if !found {
		return 0, 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 {
		return 0, 0, false
	}
	m, err = strconv.Atoi(mm)
	if err != nil || m < 0 {
		return 0, 0, false
	}
	return h, m, true
}

// FormatTime renders minutes after midnight as zero-padded "HH:MM".
// Negative input yields "00:00".
func FormatTime(min int) string {
	if min < 0 {
		return "00:00"
	}
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// Overlap returns the shared duration of two minute ranges,
// min(aEnd,bEnd) - max(aStart,bStart). The result is zero or negative when
// the ranges do not intersect; callers compare against MinOverlap.
func Overlap(aStart, aEnd, bStart, bEnd int) int {
	lo := max(aStart, bStart)
	hi := min(aEnd, bEnd)
	return hi - lo
}

// Slot is one fixed-duration session window within a working range.
type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Slots yields back-to-back slots of exactly duration minutes, beginning at
// start and stopping once a further full slot would pass end. The sequence is
// empty when duration is not positive, start is not before end, or either
// bound does not parse. The sequence can be ranged over more than once.
func Slots(start, end string, duration int) iter.Seq[Slot] {
	return func(yield func(Slot) bool) {
		s, okS := ParseTime(start)
		e, okE := ParseTime(end)
		if !okS || !okE || duration <= 0 || s >= e {
			return
		}
		for cur := s; cur+duration <= e; cur += duration {
			if !yield(Slot{Start: FormatTime(cur), End: FormatTime(cur + duration)}) {
				return
			}
		}
	}
}

// Range is a parsed minute range. Shift time strings are parsed into a Range
// once at the boundary; all computation happens on minutes.
type Range struct {
	Start int
	End   int
}

// ParseRange parses the wire shape "HH:MM~HH:MM" used by mentor shift
// records. ok is false when either side is missing or unparseable.
func ParseRange(s string) (Range, bool) {
	from, to, found := strings.Cut(s, "~")
	if !found {
		return Range{}, false
	}
	start, okS := ParseTime(from)
	end, okE := ParseTime(to)
	if !okS || !okE {
		return Range{}, false
	}
	return Range{Start: start, End: end}, true
}

// Minutes returns the length of the range; negative when End precedes Start.
func (r Range) Minutes() int {
	return r.End - r.Start
}
