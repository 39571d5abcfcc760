package worktime

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Hours is a quantity of hours in half-hour units. The zero value is empty,
// which is distinct from a computed value of 0.
type Hours struct {
	value float64
	valid bool
}

// HoursOf returns a non-empty Hours holding v.
func HoursOf(v float64) Hours {
	return Hours{value: v, valid: true}
}

// RoundToHalfHour converts minutes to hours, truncated down to 0.5 units.
func RoundToHalfHour(minutes int) float64 {
	return math.Floor(float64(minutes)/30) * 0.5
}

func (h Hours) IsEmpty() bool {
	return !h.valid
}

// Value returns the hours and whether they are present.
func (h Hours) Value() (float64, bool) {
	return h.value, h.valid
}

// Float returns the hours, or 0 when empty.
func (h Hours) Float() float64 {
	return h.value
}

// Add sums two quantities; the result is empty only if both are.
func (h Hours) Add(o Hours) Hours {
	if !h.valid {
		return o
	}
	if !o.valid {
		return h
	}
	return HoursOf(h.value + o.value)
}

// String renders "" for empty and the shortest decimal otherwise ("8", "1.5").
func (h Hours) String() string {
	if !h.valid {
		return ""
	}
	return strconv.FormatFloat(h.value, 'f', -1, 64)
}

func (h Hours) MarshalJSON() ([]byte, error) {
	if !h.valid {
		return []byte("null"), nil
	}
	return json.Marshal(h.value)
}

func (h *Hours) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*h = Hours{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*h = HoursOf(v)
	return nil
}
