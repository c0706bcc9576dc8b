package domain

import "time"

// Two overlap policies coexist in this system and must not be unified:
//
//   - OverlapsStrict is used when classifying freetime slots against the
//     calendar. Exact abutment (one range ending where the other starts) is
//     not an overlap, so back-to-back slots don't shadow each other.
//   - OverlapsInclusive is used for checkout collision checks. Endpoint
//     touch counts as a collision, so a booking may not start at the exact
//     second another one ends.
//
// Call sites pick the policy by name.

// OverlapsStrict reports a real time intersection between [aFrom, aTo] and
// [bFrom, bTo]. Touching endpoints do not overlap.
func OverlapsStrict(aFrom, aTo, bFrom, bTo time.Time) bool {
	return aFrom.Before(bTo) && aTo.After(bFrom)
}

// OverlapsInclusive reports a collision between [aFrom, aTo] and [bFrom, bTo]
// under the boundary-inclusive policy: endpoint touch collides.
func OverlapsInclusive(aFrom, aTo, bFrom, bTo time.Time) bool {
	return !aFrom.After(bTo) && !aTo.Before(bFrom)
}

// OverlapKind classifies how a scheduled item covers a slot
type OverlapKind int

const (
	OverlapNone OverlapKind = iota
	OverlapPartial
	OverlapComplete
)

// Slot is a computed candidate time window. Never persisted.
type Slot struct {
	Start time.Time
	End   time.Time
}

// ClassifyOverlap classifies an item against a slot: Complete when the item
// covers the whole slot, Partial on any real intersection, None otherwise.
func ClassifyOverlap(slot Slot, itemFrom, itemTo time.Time) OverlapKind {
	if !itemFrom.After(slot.Start) && !itemTo.Before(slot.End) {
		return OverlapComplete
	}
	if OverlapsStrict(slot.Start, slot.End, itemFrom, itemTo) {
		return OverlapPartial
	}
	return OverlapNone
}
