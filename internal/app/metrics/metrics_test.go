package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"channelchat/internal/app/chat"
)

type staticStats chat.RegistryStats

func (s staticStats) Stats() chat.RegistryStats { return chat.RegistryStats(s) }

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetricsExposePresence(t *testing.T) {
	m := New(staticStats{Channels: 2, Connections: 5, Users: 3, Evictions: 4})

	out := scrape(t, m)
	assert.Contains(t, out, "channelchat_active_channels 2")
	assert.Contains(t, out, "channelchat_connections 5")
	assert.Contains(t, out, "channelchat_present_users 3")
	assert.Contains(t, out, "channelchat_evicted_connections_total 4")
}

func TestMetricsCountSessionOutcomes(t *testing.T) {
	m := New(staticStats{})

	m.SessionJoined()
	m.SessionJoined()
	m.SessionRejected(1008)
	m.MessagePosted()
	m.AssistantCall("summarize", nil)
	m.AssistantCall("chat", errors.New("timeout"))

	out := scrape(t, m)
	assert.Contains(t, out, "channelchat_sessions_joined_total 2")
	assert.Contains(t, out, `channelchat_sessions_rejected_total{close_code="1008"} 1`)
	assert.Contains(t, out, "channelchat_messages_posted_total 1")
	assert.Contains(t, out, `channelchat_assistant_calls_total{kind="summarize",outcome="ok"} 1`)
	assert.Contains(t, out, `channelchat_assistant_calls_total{kind="chat",outcome="error"} 1`)
}

func TestRegistrySatisfiesStatsSource(t *testing.T) {
	var _ StatsSource = chat.NewRegistry()
}
