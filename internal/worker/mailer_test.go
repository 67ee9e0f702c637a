package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamsync/backend/config"
)

func TestMailerDisabledWithoutHost(t *testing.T) {
	m := NewMailer(config.EmailConfig{FromAddress: "noreply@example.com"})
	assert.False(t, m.Enabled())

	sent, err := m.Send("someone@example.com", "subject", "body")
	require.NoError(t, err)
	assert.False(t, sent)
}
