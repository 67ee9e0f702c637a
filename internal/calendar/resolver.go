package calendar

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teamsync/backend/internal/models"
)

// Resolver determines the complete set of event references relevant to a
// viewer: personal events first, then each group's events in the order the
// viewer's group list is stored. References are not deduplicated: an event
// reachable both personally and via a group appears once per source.
type Resolver struct {
	store  Store
	logger *zap.Logger
}

// NewResolver creates a resolver.
func NewResolver(store Store, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{store: store, logger: logger}
}

// Resolve returns the viewer's event sources. A missing user yields an empty
// list; a group that fails to resolve contributes nothing and is not surfaced.
func (r *Resolver) Resolve(ctx context.Context, userID uuid.UUID) ([]EventSource, error) {
	personal, err := r.store.UserEventIDs(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []EventSource{}, nil
		}
		return nil, err
	}

	sources := make([]EventSource, 0, len(personal))
	for _, id := range personal {
		sources = append(sources, EventSource{EventID: id, Provenance: models.ProvenancePersonal})
	}

	groupIDs, err := r.store.UserGroupIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, groupID := range groupIDs {
		eventIDs, err := r.store.GroupEventIDs(ctx, groupID)
		if err != nil {
			// Deleted or unreadable group: omit its contribution silently.
			r.logger.Debug("skip unresolved group", zap.String("group_id", groupID.String()), zap.Error(err))
			continue
		}
		for _, id := range eventIDs {
			sources = append(sources, EventSource{EventID: id, Provenance: models.ProvenanceGroup})
		}
	}
	return sources, nil
}
