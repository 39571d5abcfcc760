// Package status projects today's punches onto the actions still open to an employee.
package status

import "attendance.service/internal/core/model"

// Project returns which punch actions remain unlocked given the punches
// already recorded today. Each kind may be recorded once per day.
func Project(today []model.PunchEvent) model.AttendanceStatus {
	seen := Recorded(today)
	return model.AttendanceStatus{
		CanCheckIn:  !seen[model.KindCheckIn],
		CanCheckOut: !seen[model.KindCheckOut],
		CanLunchIn:  !seen[model.KindLunchIn],
		CanLunchOut: !seen[model.KindLunchOut],
	}
}

// Recorded returns the set of kinds present in events.
func Recorded(events []model.PunchEvent) map[model.PunchKind]bool {
	seen := make(map[model.PunchKind]bool, len(model.Kinds))
	for _, ev := range events {
		seen[ev.Kind] = true
	}
	return seen
}
