package models

import (
	"time"

	"github.com/google/uuid"
)

// OwnerType distinguishes user-owned from group-owned events.
type OwnerType string

const (
	OwnerUser  OwnerType = "user"
	OwnerGroup OwnerType = "group"
)

// RSVP status strings. Stored as-is; comparisons elsewhere are case-insensitive.
const (
	RSVPYes   = "yes"
	RSVPMaybe = "maybe"
	RSVPNo    = "no"
	// RSVPNone is never stored; it is the derived status for a viewer with no row.
	RSVPNone = "None"
)

// Event represents a scheduled event owned by a user or a group.
// StartsAt/EndsAt are nullable: events imported without times keep nil instants.
type Event struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	AllDay      bool       `json:"all_day"`
	Private     bool       `json:"private"`
	OwnerType   OwnerType  `json:"owner_type"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	Tags        []string   `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// EventRSVP is one attendance response for an event.
type EventRSVP struct {
	EventID   uuid.UUID `json:"event_id"`
	UserID    uuid.UUID `json:"user_id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}
