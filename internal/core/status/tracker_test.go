package status

import (
	"testing"

	"attendance.service/internal/core/model"
	"github.com/stretchr/testify/assert"
)

func events(kinds ...model.PunchKind) []model.PunchEvent {
	out := make([]model.PunchEvent, len(kinds))
	for i, k := range kinds {
		out[i] = model.PunchEvent{Kind: k}
	}
	return out
}

func TestProject(t *testing.T) {
	cases := []struct {
		name string
		in   []model.PunchEvent
		want model.AttendanceStatus
	}{
		{
			name: "nothing recorded",
			in:   nil,
			want: model.AttendanceStatus{CanCheckIn: true, CanCheckOut: true, CanLunchIn: true, CanLunchOut: true},
		},
		{
			name: "checked in",
			in:   events(model.KindCheckIn),
			want: model.AttendanceStatus{CanCheckOut: true, CanLunchIn: true, CanLunchOut: true},
		},
		{
			name: "out for lunch",
			in:   events(model.KindCheckIn, model.KindLunchOut),
			want: model.AttendanceStatus{CanCheckOut: true, CanLunchIn: true},
		},
		{
			name: "full day",
			in:   events(model.KindCheckIn, model.KindLunchOut, model.KindLunchIn, model.KindCheckOut),
			want: model.AttendanceStatus{},
		},
		{
			name: "duplicates do not matter",
			in:   events(model.KindCheckOut, model.KindCheckOut),
			want: model.AttendanceStatus{CanCheckIn: true, CanLunchIn: true, CanLunchOut: true},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Project(tc.in))
		})
	}
}

func TestDisabledFollowsFlags(t *testing.T) {
	s := Project(events(model.KindCheckIn))
	d := s.Disabled()
	assert.True(t, d.CheckIn)
	assert.False(t, d.CheckOut)
	assert.False(t, d.LunchIn)
	assert.False(t, d.LunchOut)

	assert.False(t, s.Allows(model.KindCheckIn))
	assert.True(t, s.Allows(model.KindCheckOut))
	assert.False(t, s.Allows(model.PunchKind("BOGUS")))
}
