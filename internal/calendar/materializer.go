package calendar

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teamsync/backend/internal/models"
)

// Materializer resolves event references into CalendarEvent view records,
// enriched with the viewer's RSVP status, a shallow workout summary and the
// source's provenance tag. Slots that fail to resolve are dropped, not
// retried and not surfaced; NotFound and transient read failures degrade the
// same way.
type Materializer struct {
	store  Store
	logger *zap.Logger
}

// NewMaterializer creates a materializer.
func NewMaterializer(store Store, logger *zap.Logger) *Materializer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Materializer{store: store, logger: logger}
}

// Materialize fans out one lookup per source, waits for all to settle and
// returns the successful records in input order. No per-read timeout is
// applied beyond ctx: a hung read hangs its slot.
func (m *Materializer) Materialize(ctx context.Context, viewerID uuid.UUID, sources []EventSource) []models.CalendarEvent {
	slots := make([]*models.CalendarEvent, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src EventSource) {
			defer wg.Done()
			ev, err := m.materializeOne(ctx, viewerID, src)
			if err != nil {
				m.logger.Debug("drop event slot",
					zap.String("event_id", src.EventID.String()), zap.Error(err))
				return
			}
			slots[i] = ev
		}(i, src)
	}
	wg.Wait()

	out := make([]models.CalendarEvent, 0, len(slots))
	for _, ev := range slots {
		if ev != nil {
			out = append(out, *ev)
		}
	}
	return out
}

func (m *Materializer) materializeOne(ctx context.Context, viewerID uuid.UUID, src EventSource) (*models.CalendarEvent, error) {
	e, err := m.store.GetEvent(ctx, src.EventID)
	if err != nil {
		return nil, err
	}

	rsvps, err := m.store.EventRSVPs(ctx, src.EventID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		rsvps = map[string]string{}
	}
	if rsvps == nil {
		rsvps = map[string]string{}
	}
	viewerStatus := models.RSVPNone
	if s, ok := rsvps[viewerID.String()]; ok {
		viewerStatus = s
	}

	summary, err := m.workoutSummary(ctx, src.EventID)
	if err != nil {
		return nil, err
	}

	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}

	return &models.CalendarEvent{
		EventID:        e.ID,
		Title:          e.Name,
		Start:          epochMillis(e.StartsAt),
		End:            epochMillis(e.EndsAt),
		AllDay:         e.AllDay,
		Description:    e.Description,
		Location:       e.Location,
		OwnerType:      e.OwnerType,
		OwnerID:        e.OwnerID,
		ViewerRSVP:     viewerStatus,
		RSVPs:          rsvps,
		WorkoutSummary: summary,
		Tags:           tags,
		Provenance:     src.Provenance,
	}, nil
}

// workoutSummary surfaces only the first workout's first exercise name.
// "None" when the event has no workouts or the first workout has no exercises.
func (m *Materializer) workoutSummary(ctx context.Context, eventID uuid.UUID) (string, error) {
	_, exercises, err := m.store.FirstWorkout(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "None", nil
		}
		return "", err
	}
	if len(exercises) == 0 {
		return "None", nil
	}
	return exercises[0].Name, nil
}

func epochMillis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}
