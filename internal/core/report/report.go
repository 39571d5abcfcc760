// Package report annotates a grouped month with work times and renders it
// as a spreadsheet.
package report

import (
	"time"

	"attendance.service/internal/core/model"
	"attendance.service/internal/core/worktime"
)

// Day is one row of a monthly report.
type Day struct {
	model.DaySlot
	WorkTime worktime.Result `json:"workTime"`
}

type MonthlyReport struct {
	UserID string          `json:"userId"`
	Year   int             `json:"year"`
	Month  time.Month      `json:"month"`
	Days   []Day           `json:"days"`
	Totals worktime.Result `json:"totals"`
	// WorkedDays counts days with a computed actual time.
	WorkedDays int `json:"workedDays"`
}

// Build computes the work times of every slot using policy.
func Build(userID string, year int, month time.Month, slots []model.DaySlot, policy worktime.Policy) MonthlyReport {
	r := MonthlyReport{
		UserID: userID,
		Year:   year,
		Month:  month,
		Days:   make([]Day, len(slots)),
	}
	for i, s := range slots {
		wt := policy.Compute(s.CheckInTime(), s.CheckOutTime(), s.Weekday)
		r.Days[i] = Day{DaySlot: s, WorkTime: wt}

		if !wt.Actual.IsEmpty() {
			r.WorkedDays++
		}
		r.Totals.Actual = r.Totals.Actual.Add(wt.Actual)
		r.Totals.NormalOvertime = r.Totals.NormalOvertime.Add(wt.NormalOvertime)
		r.Totals.NightOvertime = r.Totals.NightOvertime.Add(wt.NightOvertime)
	}
	return r
}
