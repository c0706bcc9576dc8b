package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 7, 1, hour, min, 0, 0, time.UTC)
}

func TestOverlapsStrict(t *testing.T) {
	tests := []struct {
		name                           string
		aFrom, aTo, bFrom, bTo         time.Time
		want                           bool
	}{
		{"disjoint", at(8, 0), at(10, 0), at(12, 0), at(14, 0), false},
		{"abutting ranges do not overlap", at(8, 0), at(10, 0), at(10, 0), at(12, 0), false},
		{"abutting reversed", at(10, 0), at(12, 0), at(8, 0), at(10, 0), false},
		{"partial", at(8, 0), at(10, 0), at(9, 0), at(11, 0), true},
		{"contained", at(8, 0), at(12, 0), at(9, 0), at(10, 0), true},
		{"identical", at(8, 0), at(10, 0), at(8, 0), at(10, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OverlapsStrict(tt.aFrom, tt.aTo, tt.bFrom, tt.bTo))
		})
	}
}

func TestOverlapsInclusive(t *testing.T) {
	tests := []struct {
		name                           string
		aFrom, aTo, bFrom, bTo         time.Time
		want                           bool
	}{
		{"disjoint", at(8, 0), at(10, 0), at(12, 0), at(14, 0), false},
		{"abutting ranges collide", at(8, 0), at(10, 0), at(10, 0), at(12, 0), true},
		{"abutting reversed", at(10, 0), at(12, 0), at(8, 0), at(10, 0), true},
		{"partial", at(8, 0), at(10, 0), at(9, 0), at(11, 0), true},
		{"self overlap", at(8, 0), at(10, 0), at(8, 0), at(10, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OverlapsInclusive(tt.aFrom, tt.aTo, tt.bFrom, tt.bTo))
		})
	}
}

// The two policies must disagree on exact abutment: adjacent slots are both
// free for display, but a booking may not start the second another ends.
func TestOverlapPolicyAsymmetryOnAbutment(t *testing.T) {
	t0, t1, t2 := at(8, 0), at(10, 0), at(12, 0)

	assert.False(t, OverlapsStrict(t0, t1, t1, t2))
	assert.True(t, OverlapsInclusive(t0, t1, t1, t2))
}

func TestClassifyOverlap(t *testing.T) {
	slot := Slot{Start: at(10, 0), End: at(12, 0)}

	tests := []struct {
		name     string
		from, to time.Time
		want     OverlapKind
	}{
		{"item covers slot exactly", at(10, 0), at(12, 0), OverlapComplete},
		{"item covers slot and more", at(9, 0), at(13, 0), OverlapComplete},
		{"item overlaps slot start", at(9, 0), at(11, 0), OverlapPartial},
		{"item overlaps slot end", at(11, 0), at(13, 0), OverlapPartial},
		{"item inside slot", at(10, 30), at(11, 30), OverlapPartial},
		{"item before slot", at(8, 0), at(10, 0), OverlapNone},
		{"item after slot", at(12, 0), at(14, 0), OverlapNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyOverlap(slot, tt.from, tt.to)
			assert.Equal(t, tt.want, got)

			// Complete implies full coverage; Partial implies strict overlap.
			switch got {
			case OverlapComplete:
				assert.False(t, tt.from.After(slot.Start))
				assert.False(t, tt.to.Before(slot.End))
			case OverlapPartial:
				assert.True(t, OverlapsStrict(slot.Start, slot.End, tt.from, tt.to))
			case OverlapNone:
				assert.False(t, OverlapsStrict(slot.Start, slot.End, tt.from, tt.to))
			}
		})
	}
}

func TestScheduledItemIsTentative(t *testing.T) {
	block := ScheduledItem{Type: ItemBlock}
	draft := ScheduledItem{Type: ItemApplication, Status: string(StatusNewPartial)}
	event := ScheduledItem{Type: ItemEvent}
	finalApp := ScheduledItem{Type: ItemApplication, Status: string(StatusAccepted)}

	assert.True(t, block.IsTentative())
	assert.True(t, draft.IsTentative())
	assert.False(t, event.IsTentative())
	assert.False(t, finalApp.IsTentative())
}
