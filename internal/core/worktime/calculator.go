// Package worktime derives worked hours and overtime from a day's check-in
// and check-out times.
package worktime

import (
	"strconv"
	"strings"
	"time"

	"attendance.service/internal/core/model"
)

const minutesPerDay = 24 * 60

// Window is a half-open range [Start, End) in minutes since midnight of the
// shift-start day.
type Window struct {
	Start int
	End   int
}

// Overlap returns how many minutes w and o have in common.
func (w Window) Overlap(o Window) int {
	n := min(w.End, o.End) - max(w.Start, o.Start)
	if n < 0 {
		return 0
	}
	return n
}

func (w Window) intersect(o Window) Window {
	return Window{Start: max(w.Start, o.Start), End: min(w.End, o.End)}
}

// Policy holds the fixed company break and night windows.
type Policy struct {
	Breaks []Window
	Night  []Window
	// StandardHours is subtracted from actual hours to get regular overtime.
	StandardHours float64
	// OvertimeFrom is the minimum actual hours before regular overtime counts.
	OvertimeFrom float64
}

// DefaultPolicy is the policy the company applies to every employee.
var DefaultPolicy = Policy{
	Breaks: []Window{
		{Start: 480, End: 540},   // 08:00-09:00
		{Start: 720, End: 780},   // 12:00-13:00
		{Start: 1140, End: 1200}, // 19:00-20:00
		{Start: 120, End: 180},   // 02:00-03:00
	},
	Night: []Window{
		{Start: 1350, End: 1440}, // 22:30-24:00
		{Start: 0, End: 240},     // 00:00-04:00
	},
	StandardHours: 8,
	OvertimeFrom:  9,
}

type Result struct {
	Actual         Hours `json:"actual"`
	NormalOvertime Hours `json:"normalOt"`
	NightOvertime  Hours `json:"midnightOt"`
}

// Compute applies DefaultPolicy.
func Compute(checkIn, checkOut string, weekday time.Weekday) Result {
	return DefaultPolicy.Compute(checkIn, checkOut, weekday)
}

// Compute derives the work times of one shift. checkIn and checkOut are
// "HH:mm"; if either is empty or malformed the whole result is empty.
func (p Policy) Compute(checkIn, checkOut string, weekday time.Weekday) Result {
	in, ok := ParseClock(checkIn)
	if !ok {
		return Result{}
	}
	out, ok := ParseClock(checkOut)
	if !ok {
		return Result{}
	}
	if out < in {
		out += minutesPerDay
	}
	span := Window{Start: in, End: out}

	worked := span.End - span.Start
	for _, b := range p.Breaks {
		worked -= span.Overlap(b)
	}

	actual := RoundToHalfHour(worked)
	res := Result{Actual: HoursOf(actual)}

	if !model.IsWeekend(weekday) && actual >= p.OvertimeFrom {
		ot := RoundToHalfHour(int((actual - p.StandardHours) * 60))
		if ot >= 1 {
			res.NormalOvertime = HoursOf(ot)
		}
	}

	night := 0
	for _, n := range p.Night {
		ov := span.Overlap(n)
		if ov == 0 {
			continue
		}
		seg := span.intersect(n)
		for _, b := range p.Breaks {
			ov -= seg.Overlap(b)
		}
		night += ov
	}
	if night > 0 {
		res.NightOvertime = HoursOf(RoundToHalfHour(night))
	}

	return res
}

// ParseClock converts "HH:mm" to minutes since midnight.
func ParseClock(s string) (int, bool) {
	h, m, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found || len(h) == 0 || len(h) > 2 || len(m) != 2 {
		return 0, false
	}
	if !digits(h) || !digits(m) {
		return 0, false
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(m)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatClock renders a time of day as "HH:mm".
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}
