package calendar

import (
	"strings"

	"github.com/teamsync/backend/internal/models"
)

// Filter is a conjunction of user-selected predicates over materialized
// calendar events. Zero values deactivate each predicate.
type Filter struct {
	// Tags must ALL match (case-insensitively) some tag on the event.
	Tags []string
	// Start and End are epoch-millis bounds: event.Start >= Start and
	// event.End <= End. An event with a nil instant fails an active bound.
	Start *int64
	End   *int64
	// MinYesRSVP is the minimum count of "yes" responses.
	MinYesRSVP int
}

// Active reports whether any predicate is non-default.
func (f Filter) Active() bool {
	return len(f.Tags) > 0 || f.Start != nil || f.End != nil || f.MinYesRSVP > 0
}

// FilterResult is the filtered subset plus the "no matches" signal.
// NoMatches is true only when at least one predicate is active and the
// result set is empty; the presentation layer decides how to surface it.
type FilterResult struct {
	Events    []models.CalendarEvent `json:"events"`
	NoMatches bool                   `json:"no_matches"`
}

// Apply returns the events satisfying all active predicates.
func (f Filter) Apply(events []models.CalendarEvent) FilterResult {
	out := make([]models.CalendarEvent, 0, len(events))
	for _, e := range events {
		if f.matchesTags(e) && f.matchesDates(e) && f.matchesRSVP(e) {
			out = append(out, e)
		}
	}
	return FilterResult{
		Events:    out,
		NoMatches: f.Active() && len(out) == 0,
	}
}

func (f Filter) matchesTags(e models.CalendarEvent) bool {
	for _, want := range f.Tags {
		found := false
		for _, have := range e.Tags {
			if strings.EqualFold(want, have) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// matchesDates preserves the documented quirk: a missing instant cannot be
// confirmed in-range, so it fails the corresponding active bound.
func (f Filter) matchesDates(e models.CalendarEvent) bool {
	if f.Start != nil && (e.Start == nil || *e.Start < *f.Start) {
		return false
	}
	if f.End != nil && (e.End == nil || *e.End > *f.End) {
		return false
	}
	return true
}

func (f Filter) matchesRSVP(e models.CalendarEvent) bool {
	if f.MinYesRSVP <= 0 {
		return true
	}
	return e.YesCount() >= f.MinYesRSVP
}
