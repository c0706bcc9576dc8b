package get_freetime

import (
	"encoding/json"
	"time"
)

// Slot overlap statuses. A free slot carries no status at all.
const (
	OverlapStatusComplete = 1 // a scheduled item covers the whole slot
	OverlapStatusPartial  = 2 // a scheduled item intersects part of the slot
	OverlapStatusDisabled = 3 // slot is in the past or beyond the booking horizon
)

// Overlap reasons, most specific first match wins
const (
	ReasonTimeInPast      = "time_in_past"
	ReasonBeyondHorizon   = "beyond_booking_horizon"
	ReasonCompleteOverlap = "complete_overlap"
	ReasonPartialOverlap  = "partial_overlap"
)

// Overlap types grouping the reasons for frontend styling
const (
	OverlapTypeDisabled = "disabled"
	OverlapTypeComplete = "complete"
	OverlapTypePartial  = "partial"
)

// ResourceRequest asks for the slot grid of one resource
type ResourceRequest struct {
	ResourceID      int64
	StartDate       time.Time
	EndDate         time.Time
	DetailedOverlap bool // include resource id, ISO boundaries and occupant details

	// StopOnEndDate is accepted for API compatibility but has no effect:
	// the grid always stops at the end of EndDate.
	StopOnEndDate bool
}

// BuildingRequest asks for the slot grids of every simple-booking resource
// in a building
type BuildingRequest struct {
	BuildingID      int64
	StartDate       time.Time
	EndDate         time.Time
	DetailedOverlap bool
	StopOnEndDate   bool
}

// FreeSlot is one classified slot of the grid. Start and End are epoch
// milliseconds rendered as strings; When is the human-readable range.
type FreeSlot struct {
	When  string `json:"when"`
	Start string `json:"start"`
	End   string `json:"end"`

	// Overlap is nil for a free slot, otherwise one of the status constants.
	Overlap       *int   `json:"overlap"`
	OverlapReason string `json:"overlap_reason,omitempty"`
	OverlapType   string `json:"overlap_type,omitempty"`

	// Populated in detailed mode only.
	ResourceID *int64        `json:"resource_id,omitempty"`
	StartISO   string        `json:"start_iso,omitempty"`
	EndISO     string        `json:"end_iso,omitempty"`
	Occupant   *OccupantInfo `json:"overlap_event,omitempty"`
}

// MarshalJSON renders a free slot with `"overlap": false` rather than null;
// the frontend calendar tests the field with a strict comparison.
func (s FreeSlot) MarshalJSON() ([]byte, error) {
	type freeSlot FreeSlot
	out := struct {
		freeSlot
		Overlap interface{} `json:"overlap"`
	}{freeSlot: freeSlot(s), Overlap: false}
	if s.Overlap != nil {
		out.Overlap = *s.Overlap
	}
	return json.Marshal(out)
}

// OccupantInfo identifies the scheduled item that shadows a slot
type OccupantInfo struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
	From string `json:"from_"`
	To   string `json:"to_"`
}

// ResourceResponse is the slot grid of one resource
type ResourceResponse struct {
	ResourceID int64      `json:"resource_id"`
	Slots      []FreeSlot `json:"slots"`
}

// BuildingResponse maps resource id to its slot grid
type BuildingResponse struct {
	BuildingID int64                `json:"building_id"`
	Resources  map[int64][]FreeSlot `json:"resources"`
}
