package calendar

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teamsync/backend/internal/models"
)

// ErrSuperseded is returned by Refresh when a newer refresh started while
// this one was in flight; its results were discarded.
var ErrSuperseded = errors.New("calendar: refresh superseded")

// Pipeline composes Resolver, Materializer and Filter for one consumer.
// Refresh re-resolves and re-materializes; Apply re-filters the cached
// materialized list without touching the store. In-flight refreshes from a
// previous viewer are not cancelled; a generation counter ensures only the
// latest requested viewer's results are applied (last-identity-wins).
//
// The HTTP handler builds a throwaway Pipeline per request, where a single
// Refresh makes the counter moot. The guard exists for longer-lived
// consumers (a session cache, a push-updated view) that issue overlapping
// refreshes against one Pipeline.
type Pipeline struct {
	resolver     *Resolver
	materializer *Materializer

	mu           sync.Mutex
	generation   uint64
	viewerID     uuid.UUID
	materialized []models.CalendarEvent
}

// NewPipeline creates a pipeline over the given store.
func NewPipeline(store Store, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		resolver:     NewResolver(store, logger),
		materializer: NewMaterializer(store, logger),
	}
}

// Refresh resolves and materializes the viewer's events. If another Refresh
// begins before this one finishes, the stale results are dropped and
// ErrSuperseded is returned.
func (p *Pipeline) Refresh(ctx context.Context, viewerID uuid.UUID) ([]models.CalendarEvent, error) {
	p.mu.Lock()
	p.generation++
	token := p.generation
	p.viewerID = viewerID
	p.mu.Unlock()

	sources, err := p.resolver.Resolve(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	events := p.materializer.Materialize(ctx, viewerID, sources)

	p.mu.Lock()
	defer p.mu.Unlock()
	if token != p.generation {
		return nil, ErrSuperseded
	}
	p.materialized = events
	return events, nil
}

// Apply filters the most recently materialized list. It never re-triggers
// resolution or materialization.
func (p *Pipeline) Apply(f Filter) FilterResult {
	p.mu.Lock()
	events := p.materialized
	p.mu.Unlock()
	return f.Apply(events)
}
