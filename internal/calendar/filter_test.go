package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamsync/backend/internal/models"
)

func ms(v int64) *int64 { return &v }

func taggedEvent(title string, tags ...string) models.CalendarEvent {
	return models.CalendarEvent{Title: title, Tags: tags}
}

func TestFilterInactivePassesEverything(t *testing.T) {
	events := []models.CalendarEvent{taggedEvent("a"), taggedEvent("b")}

	res := Filter{}.Apply(events)
	assert.Len(t, res.Events, 2)
	assert.False(t, res.NoMatches)
}

func TestFilterTagsAreConjunctive(t *testing.T) {
	a := taggedEvent("A", "cardio")
	b := taggedEvent("B", "cardio", "outdoor")
	c := taggedEvent("C", "outdoor")

	res := Filter{Tags: []string{"cardio", "outdoor"}}.Apply([]models.CalendarEvent{a, b, c})
	require.Len(t, res.Events, 1)
	assert.Equal(t, "B", res.Events[0].Title)
}

func TestFilterTagsCaseInsensitive(t *testing.T) {
	e := taggedEvent("A", "Cardio")

	res := Filter{Tags: []string{"cARDIO"}}.Apply([]models.CalendarEvent{e})
	assert.Len(t, res.Events, 1)
}

func TestFilterDateRange(t *testing.T) {
	inside := models.CalendarEvent{Title: "inside", Start: ms(500), End: ms(600)}
	early := models.CalendarEvent{Title: "early", Start: ms(100), End: ms(150)}
	late := models.CalendarEvent{Title: "late", Start: ms(900), End: ms(2000)}

	res := Filter{Start: ms(400), End: ms(1000)}.Apply([]models.CalendarEvent{inside, early, late})
	require.Len(t, res.Events, 1)
	assert.Equal(t, "inside", res.Events[0].Title)
}

func TestFilterNilInstantFailsActiveBound(t *testing.T) {
	undated := models.CalendarEvent{Title: "undated"}
	dated := models.CalendarEvent{Title: "dated", Start: ms(500), End: ms(600)}
	events := []models.CalendarEvent{undated, dated}

	res := Filter{Start: ms(0)}.Apply(events)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "dated", res.Events[0].Title)

	// Without bounds the undated event passes.
	res = Filter{}.Apply(events)
	assert.Len(t, res.Events, 2)
}

func TestFilterMinYesRSVP(t *testing.T) {
	two := models.CalendarEvent{Title: "two", RSVPs: map[string]string{
		"u1": "yes", "u2": "YES", "u3": "no",
	}}
	one := models.CalendarEvent{Title: "one", RSVPs: map[string]string{
		"u1": "yes", "u2": "maybe",
	}}
	events := []models.CalendarEvent{two, one}

	res := Filter{MinYesRSVP: 2}.Apply(events)
	require.Len(t, res.Events, 1)
	assert.Equal(t, "two", res.Events[0].Title)

	res = Filter{MinYesRSVP: 3}.Apply(events)
	assert.Empty(t, res.Events)
	assert.True(t, res.NoMatches)
}

func TestFilterNoMatchesFlag(t *testing.T) {
	events := []models.CalendarEvent{taggedEvent("a", "yoga")}

	// Active filter, empty result: flagged.
	res := Filter{Tags: []string{"absent"}}.Apply(events)
	assert.True(t, res.NoMatches)

	// Active filter, non-empty result: not flagged.
	res = Filter{Tags: []string{"yoga"}}.Apply(events)
	assert.False(t, res.NoMatches)

	// Inactive filter over an empty list: not flagged.
	res = Filter{}.Apply(nil)
	assert.False(t, res.NoMatches)
}

func TestFilterActive(t *testing.T) {
	assert.False(t, Filter{}.Active())
	assert.True(t, Filter{Tags: []string{"x"}}.Active())
	assert.True(t, Filter{Start: ms(0)}.Active())
	assert.True(t, Filter{End: ms(10)}.Active())
	assert.True(t, Filter{MinYesRSVP: 1}.Active())
}
