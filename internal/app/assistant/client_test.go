package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"channelchat/internal/app/chat"
)

func newTestService(t *testing.T, handler http.HandlerFunc) Service {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewService(ServiceConfig{BaseURL: srv.URL + "/", Timeout: time.Second})
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresURL(t *testing.T) {
	_, err := NewService(ServiceConfig{BaseURL: "  "})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSummarize(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/summarize", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req summarizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Ann: hi\nBob: yo", req.Text)

		_ = json.NewEncoder(w).Encode(summarizeResponse{Summary: "greetings"})
	})

	summary, err := svc.Summarize(context.Background(), "Ann: hi\nBob: yo")
	require.NoError(t, err)
	assert.Equal(t, "greetings", summary)
}

func TestReplySendsConversation(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chat", r.URL.Path)

		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, "and now?", raw["text"])
		assert.Equal(t, []any{"hi"}, raw["past_user_inputs"])
		assert.Equal(t, []any{}, raw["generated_responses"], "empty history is sent as an array")

		_ = json.NewEncoder(w).Encode(chatResponse{Reply: "hello"})
	})

	reply, err := svc.Reply(context.Background(), chat.ChatTurn{Text: "and now?", PastUserInputs: []string{"hi"}})
	require.NoError(t, err)
	assert.Equal(t, "hello", reply)
}

func TestNonOKStatusIsAnError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	})

	_, err := svc.Summarize(context.Background(), "x")
	assert.ErrorContains(t, err, "503")
}

func TestMalformedResponseIsAnError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := svc.Reply(context.Background(), chat.ChatTurn{Text: "x"})
	assert.Error(t, err)
}

func TestCallIsBoundedByTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	svc, err := NewService(ServiceConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, err = svc.Summarize(context.Background(), "slow")
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
