package calendar

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamsync/backend/internal/models"
)

func TestResolveMissingUserYieldsEmpty(t *testing.T) {
	store := newFakeStore()
	r := NewResolver(store, nil)

	sources, err := r.Resolve(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, sources)
	assert.NotNil(t, sources)
}

func TestResolvePersonalBeforeGroups(t *testing.T) {
	store := newFakeStore()
	viewer := uuid.New()
	p1, p2 := uuid.New(), uuid.New()
	g1, g2 := uuid.New(), uuid.New()
	ga, gb := uuid.New(), uuid.New()

	store.userEvents[viewer] = []uuid.UUID{p1, p2}
	store.userGroups[viewer] = []uuid.UUID{g1, g2}
	store.groupEvents[g1] = []uuid.UUID{ga}
	store.groupEvents[g2] = []uuid.UUID{gb}

	sources, err := NewResolver(store, nil).Resolve(context.Background(), viewer)
	require.NoError(t, err)
	require.Len(t, sources, 4)

	assert.Equal(t, p1, sources[0].EventID)
	assert.Equal(t, p2, sources[1].EventID)
	assert.Equal(t, models.ProvenancePersonal, sources[0].Provenance)
	assert.Equal(t, models.ProvenancePersonal, sources[1].Provenance)

	assert.Equal(t, ga, sources[2].EventID)
	assert.Equal(t, gb, sources[3].EventID)
	assert.Equal(t, models.ProvenanceGroup, sources[2].Provenance)
	assert.Equal(t, models.ProvenanceGroup, sources[3].Provenance)
}

func TestResolveFailedGroupIsSkipped(t *testing.T) {
	store := newFakeStore()
	viewer := uuid.New()
	good, bad := uuid.New(), uuid.New()
	ev := uuid.New()

	store.userEvents[viewer] = nil
	store.userGroups[viewer] = []uuid.UUID{bad, good}
	store.groupErrs[bad] = errors.New("connection reset")
	store.groupEvents[good] = []uuid.UUID{ev}

	sources, err := NewResolver(store, nil).Resolve(context.Background(), viewer)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, ev, sources[0].EventID)
}

func TestResolveKeepsDuplicateReferences(t *testing.T) {
	store := newFakeStore()
	viewer := uuid.New()
	g1, g2 := uuid.New(), uuid.New()
	shared := uuid.New()

	// The same event is referenced personally and by both groups.
	store.userEvents[viewer] = []uuid.UUID{shared}
	store.userGroups[viewer] = []uuid.UUID{g1, g2}
	store.groupEvents[g1] = []uuid.UUID{shared}
	store.groupEvents[g2] = []uuid.UUID{shared}

	sources, err := NewResolver(store, nil).Resolve(context.Background(), viewer)
	require.NoError(t, err)
	require.Len(t, sources, 3)
	for _, s := range sources {
		assert.Equal(t, shared, s.EventID)
	}
	assert.Equal(t, models.ProvenancePersonal, sources[0].Provenance)
	assert.Equal(t, models.ProvenanceGroup, sources[1].Provenance)
	assert.Equal(t, models.ProvenanceGroup, sources[2].Provenance)
}
