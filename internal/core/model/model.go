package model

import (
	"fmt"
	"strings"
	"time"
)

// PunchKind is the type of action an employee recorded.
type PunchKind string

const (
	KindCheckIn  PunchKind = "CHECK_IN"
	KindCheckOut PunchKind = "CHECK_OUT"
	KindLunchIn  PunchKind = "LUNCH_IN"
	KindLunchOut PunchKind = "LUNCH_OUT"
)

// Kinds lists every punch kind in the order an ordinary day records them.
var Kinds = []PunchKind{KindCheckIn, KindLunchOut, KindLunchIn, KindCheckOut}

// Valid reports whether k is one of the four known kinds.
func (k PunchKind) Valid() bool {
	switch k {
	case KindCheckIn, KindCheckOut, KindLunchIn, KindLunchOut:
		return true
	}
	return false
}

// ParseKind accepts either the stored form ("CHECK_IN") or the short form
// used by punch buttons ("checkin").
func ParseKind(s string) (PunchKind, bool) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", "")) {
	case "checkin":
		return KindCheckIn, true
	case "checkout":
		return KindCheckOut, true
	case "lunchin":
		return KindLunchIn, true
	case "lunchout":
		return KindLunchOut, true
	}
	return "", false
}

// SyncStatus defines the state of the asynchronous delivery of a check-out.
type SyncStatus string

const (
	StatusPending    SyncStatus = "PENDING"
	StatusProcessing SyncStatus = "PROCESSING"
	StatusCompleted  SyncStatus = "COMPLETED"
	StatusFailed     SyncStatus = "FAILED"
)

// Location is a WGS84 coordinate.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate lies within WGS84 bounds.
func (l Location) Valid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

// MapURL links the coordinate to a map viewer.
func (l Location) MapURL() string {
	return fmt.Sprintf("https://www.google.com/maps?q=%f,%f", l.Latitude, l.Longitude)
}

type PunchEvent struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	Timestamp       time.Time  `json:"timestamp"`
	Kind            PunchKind  `json:"kind"`
	Location        Location   `json:"location"`
	SyncStatus      SyncStatus `json:"syncStatus,omitempty"`
	SyncRetryCount  int        `json:"syncRetryCount,omitempty"`
	EmailStatus     SyncStatus `json:"emailStatus,omitempty"`
	EmailRetryCount int        `json:"emailRetryCount,omitempty"`
}

// Stamp is a time of day ("HH:mm") together with where it was punched.
type Stamp struct {
	Time     string   `json:"time"`
	Location Location `json:"location"`
	MapURL   string   `json:"mapUrl"`
}

// DaySlot aggregates one calendar day of a month.
type DaySlot struct {
	Day          int          `json:"day"`
	Date         time.Time    `json:"date"`
	Weekday      time.Weekday `json:"-"`
	WeekdayLabel string       `json:"weekday"`
	CheckIn      *Stamp       `json:"checkIn"`
	CheckOut     *Stamp       `json:"checkOut"`
	Events       []PunchEvent `json:"events,omitempty"`
}

// CheckInTime returns the check-in clock text or "" when the day has none.
func (d DaySlot) CheckInTime() string {
	if d.CheckIn == nil {
		return ""
	}
	return d.CheckIn.Time
}

// CheckOutTime returns the check-out clock text or "" when the day has none.
func (d DaySlot) CheckOutTime() string {
	if d.CheckOut == nil {
		return ""
	}
	return d.CheckOut.Time
}

// AttendanceStatus tells which punch actions are unlocked for today.
type AttendanceStatus struct {
	CanCheckIn  bool `json:"canCheckIn"`
	CanCheckOut bool `json:"canCheckOut"`
	CanLunchIn  bool `json:"canLunchIn"`
	CanLunchOut bool `json:"canLunchOut"`
}

// DisabledActions mirrors the punch buttons a client should grey out.
type DisabledActions struct {
	CheckIn  bool `json:"checkin"`
	CheckOut bool `json:"checkout"`
	LunchIn  bool `json:"lunchin"`
	LunchOut bool `json:"lunchout"`
}

// Disabled derives button state: an action is disabled unless its flag is set.
func (s AttendanceStatus) Disabled() DisabledActions {
	return DisabledActions{
		CheckIn:  !s.CanCheckIn,
		CheckOut: !s.CanCheckOut,
		LunchIn:  !s.CanLunchIn,
		LunchOut: !s.CanLunchOut,
	}
}

// Allows reports whether the status unlocks the given kind.
func (s AttendanceStatus) Allows(kind PunchKind) bool {
	switch kind {
	case KindCheckIn:
		return s.CanCheckIn
	case KindCheckOut:
		return s.CanCheckOut
	case KindLunchIn:
		return s.CanLunchIn
	case KindLunchOut:
		return s.CanLunchOut
	}
	return false
}
