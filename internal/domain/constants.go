package domain

// Default slot grid when a resource has no booking-time configuration
const (
	DefaultSlotMinutes  = 120
	DefaultDayStartHour = 8
	DefaultDayEndHour   = 22
)

// Time format constants
const (
	DateFormat     = "2006-01-02"          // YYYY-MM-DD
	DateTimeFormat = "2006-01-02 15:04:05" // storage timestamps, second precision
	WhenFormat     = "02/01-2006 15:04"    // human-readable slot boundary
)
