package domain

import "time"

// ScheduledItemType discriminates the calendar occupants of a resource
type ScheduledItemType string

const (
	ItemEvent       ScheduledItemType = "event"       // confirmed schedule entity
	ItemAllocation  ScheduledItemType = "allocation"  // season-based organizational block
	ItemBooking     ScheduledItemType = "booking"     // group recurring booking
	ItemBlock       ScheduledItemType = "block"       // session-scoped administrative hold
	ItemApplication ScheduledItemType = "application" // in-flight or finalized application
)

// ScheduledItem is the read-only union of everything occupying time on a
// resource calendar. The core never mutates these; it only classifies slots
// against them.
type ScheduledItem struct {
	ID          int64
	Type        ScheduledItemType
	From        time.Time
	To          time.Time
	ResourceIDs []int64

	// Status carries the application status for ItemApplication and the
	// owning session id for ItemBlock. Empty otherwise.
	Status string
}

// OccupiesResource reports whether the item occupies the given resource.
func (s *ScheduledItem) OccupiesResource(resourceID int64) bool {
	for _, id := range s.ResourceIDs {
		if id == resourceID {
			return true
		}
	}
	return false
}

// IsTentative reports whether the occupant is soft: a session hold or another
// session's draft, as opposed to a confirmed schedule entity.
func (s *ScheduledItem) IsTentative() bool {
	return s.Type == ItemBlock ||
		(s.Type == ItemApplication && s.Status == string(StatusNewPartial))
}
