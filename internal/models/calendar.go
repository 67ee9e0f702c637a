package models

import (
	"strings"

	"github.com/google/uuid"
)

// Provenance marks how an event reached the calendar: the viewer's own list or a group.
// Used only for display coloring.
type Provenance string

const (
	ProvenancePersonal Provenance = "personal"
	ProvenanceGroup    Provenance = "group"
)

// CalendarEvent is the derived per-render view of an event for a specific viewer.
// It is never persisted and never shared across viewers.
//
// Start and End are epoch milliseconds; nil means the stored instant is absent.
type CalendarEvent struct {
	EventID        uuid.UUID         `json:"event_id"`
	Title          string            `json:"title"`
	Start          *int64            `json:"start,omitempty"`
	End            *int64            `json:"end,omitempty"`
	AllDay         bool              `json:"all_day"`
	Description    string            `json:"description"`
	Location       string            `json:"location"`
	OwnerType      OwnerType         `json:"owner_type"`
	OwnerID        uuid.UUID         `json:"owner_id"`
	ViewerRSVP     string            `json:"viewer_rsvp"`
	RSVPs          map[string]string `json:"rsvps"`
	WorkoutSummary string            `json:"workout_summary"`
	Tags           []string          `json:"tags"`
	Provenance     Provenance        `json:"provenance"`
}

// YesCount returns the number of case-insensitive "yes" responses.
func (e *CalendarEvent) YesCount() int {
	n := 0
	for _, status := range e.RSVPs {
		if strings.EqualFold(status, RSVPYes) {
			n++
		}
	}
	return n
}
