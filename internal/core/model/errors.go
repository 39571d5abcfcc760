package model

import "errors"

// Attendance domain errors
var (
	ErrAlreadyRecorded = errors.New("this punch has already been recorded today")
	ErrInvalidKind     = errors.New("unknown punch kind")
	ErrInvalidLocation = errors.New("location is outside valid coordinates")
	ErrInvalidMonth    = errors.New("month must be between 1 and 12")
	ErrPunchNotFound   = errors.New("punch record not found")
	ErrForbidden       = errors.New("not allowed to access this attendance record")
)
