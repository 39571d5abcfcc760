// Package monthly lays punch events out over the days of a calendar month.
package monthly

import (
	"fmt"
	"sort"
	"time"

	"attendance.service/internal/core/model"
	"attendance.service/internal/core/worktime"
)

// DaysIn returns the number of days of month in year.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// GroupMonth returns one slot per day of the month, in day order. Events are
// bucketed by the calendar date of their timestamp as stored (callers convert
// to the service zone first). The earliest check-in and the latest check-out
// of each day win; lunch punches only appear in the day's event list.
//
// month must be in January..December; anything else panics.
func GroupMonth(events []model.PunchEvent, year int, month time.Month) []model.DaySlot {
	if month < time.January || month > time.December {
		panic(fmt.Sprintf("monthly: month %d out of range", int(month)))
	}

	sorted := make([]model.PunchEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		}
		return sorted[i].ID < sorted[j].ID
	})

	n := DaysIn(year, month)
	slots := make([]model.DaySlot, n)
	for i := range slots {
		date := time.Date(year, month, i+1, 0, 0, 0, 0, time.UTC)
		slots[i] = model.DaySlot{
			Day:          i + 1,
			Date:         date,
			Weekday:      date.Weekday(),
			WeekdayLabel: model.WeekdayLabel(date.Weekday()),
		}
	}

	for _, ev := range sorted {
		y, m, d := ev.Timestamp.Date()
		if y != year || m != month {
			continue
		}
		slot := &slots[d-1]
		slot.Events = append(slot.Events, ev)

		switch ev.Kind {
		case model.KindCheckIn:
			if slot.CheckIn == nil {
				slot.CheckIn = stampOf(ev)
			}
		case model.KindCheckOut:
			slot.CheckOut = stampOf(ev)
		}
	}

	return slots
}

func stampOf(ev model.PunchEvent) *model.Stamp {
	return &model.Stamp{
		Time:     worktime.FormatClock(ev.Timestamp),
		Location: ev.Location,
		MapURL:   ev.Location.MapURL(),
	}
}
