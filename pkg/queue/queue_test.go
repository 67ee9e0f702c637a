package queue

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobEnvelopeRoundTrip(t *testing.T) {
	groupID := uuid.New()
	subjectID := uuid.New()
	recipient := uuid.New()

	payload, err := json.Marshal(NotificationPayload{
		Kind:         "announcement",
		GroupID:      groupID,
		SubjectID:    subjectID,
		Title:        "Saturday session moved",
		Body:         "Now 10am at the east field",
		RecipientIDs: []uuid.UUID{recipient},
	})
	require.NoError(t, err)

	job := Job{
		ID:        uuid.New().String(),
		Type:      JobTypeNotification,
		Payload:   payload,
		Attempt:   0,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	raw, err := json.Marshal(job)
	require.NoError(t, err)

	var got Job
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, JobTypeNotification, got.Type)
	assert.Equal(t, 0, got.Attempt)
	assert.True(t, job.CreatedAt.Equal(got.CreatedAt))

	var np NotificationPayload
	require.NoError(t, json.Unmarshal(got.Payload, &np))
	assert.Equal(t, groupID, np.GroupID)
	assert.Equal(t, subjectID, np.SubjectID)
	assert.Equal(t, []uuid.UUID{recipient}, np.RecipientIDs)
	assert.Equal(t, "Saturday session moved", np.Title)
}

func TestJobTypeConstants(t *testing.T) {
	assert.Equal(t, JobType("notification"), JobTypeNotification)
	assert.Equal(t, JobType("email"), JobTypeEmail)
	assert.Less(t, 0, MaxRetries)
}
