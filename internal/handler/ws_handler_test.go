package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"channelchat/internal/app/chat"
	"channelchat/internal/app/user"
	"channelchat/internal/configs"
	"channelchat/internal/pkg/auth/jwt"
)

var (
	ann = user.Identity{ID: 1, Name: "Ann"}
	bob = user.Identity{ID: 2, Name: "Bob"}
)

type wsEnvelope struct {
	Type chat.EnvelopeType `json:"type"`
	Data json.RawMessage   `json:"data"`
}

func newWSServer(t *testing.T) (*httptest.Server, *chat.Manager) {
	t.Helper()

	cfg := &configs.AppConfig{
		Environment:      "development",
		HistoryLimit:     configs.DefaultHistoryLimit,
		AIServiceTimeout: time.Second,
	}
	store := &memStore{names: map[int64]string{ann.ID: ann.Name, bob.ID: bob.Name}}
	manager := chat.NewManager(
		cfg,
		chat.NewRegistry(),
		fakeAuth{"ann-token": ann, "bob-token": bob},
		memDirectory{1: {ID: 1, Name: "general"}, 2: {ID: 2, Name: "secret", Private: true}},
		store,
		nil,
	)

	r := chi.NewRouter()
	r.Get("/ws/{channelID}", HandleWebSocket(manager, NewUpgrader(&AppDeps{Config: cfg})))

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = manager.Shutdown(ctx)
		srv.Close()
	})

	return srv, manager
}

func dial(t *testing.T, srv *httptest.Server, token, channel string) *websocket.Conn {
	t.Helper()

	header := http.Header{}
	if token != "" {
		header.Set("Cookie", (&http.Cookie{Name: jwt.CookieName, Value: token}).String())
	}

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + channel
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func next(t *testing.T, conn *websocket.Conn) wsEnvelope {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var env wsEnvelope
	require.NoError(t, json.Unmarshal(payload, &env))
	return env
}

func expectClose(t *testing.T, conn *websocket.Conn, code int) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, _, err := conn.ReadMessage()
		if err == nil {
			continue
		}
		assert.True(t, websocket.IsCloseError(err, code), "want close %d, got %v", code, err)
		return
	}
}

func TestWebSocketRejections(t *testing.T) {
	srv, _ := newWSServer(t)

	tests := []struct {
		name    string
		token   string
		channel string
		code    int
	}{
		{"missing token", "", "1", websocket.ClosePolicyViolation},
		{"unknown token", "nobody", "1", websocket.ClosePolicyViolation},
		{"non-numeric channel", "ann-token", "abc", websocket.CloseUnsupportedData},
		{"unknown channel", "ann-token", "404", websocket.CloseUnsupportedData},
		{"private channel without membership", "ann-token", "2", websocket.ClosePolicyViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := dial(t, srv, tt.token, tt.channel)
			expectClose(t, conn, tt.code)
		})
	}
}

func TestWebSocketChatRoundTrip(t *testing.T) {
	srv, manager := newWSServer(t)

	a := dial(t, srv, "ann-token", "1")
	assert.Equal(t, chat.TypeHistory, next(t, a).Type)
	roster := next(t, a)
	require.Equal(t, chat.TypeActiveUsers, roster.Type)
	assert.JSONEq(t, `[1]`, string(roster.Data))

	b := dial(t, srv, "bob-token", "1")
	assert.Equal(t, chat.TypeHistory, next(t, b).Type)
	bRoster := next(t, b)
	assert.JSONEq(t, `[1,2]`, string(bRoster.Data))

	joined := next(t, a)
	require.Equal(t, chat.TypeUserJoined, joined.Type)
	assert.JSONEq(t, `{"user_id":2,"user_name":"Bob"}`, string(joined.Data))

	require.NoError(t, b.WriteMessage(websocket.TextMessage, []byte("hello ann")))

	for _, conn := range []*websocket.Conn{a, b} {
		env := next(t, conn)
		require.Equal(t, chat.TypeMessage, env.Type)

		var msg chat.MessageData
		require.NoError(t, json.Unmarshal(env.Data, &msg))
		assert.Equal(t, "hello ann", msg.Content)
		assert.Equal(t, "Bob", msg.Author)
		assert.Equal(t, int64(1), msg.ID)
	}

	require.NoError(t, b.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))

	left := next(t, a)
	require.Equal(t, chat.TypeUserLeft, left.Type)
	assert.JSONEq(t, `{"user_id":2,"user_name":"Bob"}`, string(left.Data))

	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]int64{1}, manager.Registry().ActiveUsers(1))
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWebSocketDisconnectUserClosesWithPolicyViolation(t *testing.T) {
	srv, manager := newWSServer(t)

	a := dial(t, srv, "ann-token", "1")
	next(t, a)
	next(t, a)

	assert.Equal(t, 1, manager.Registry().DisconnectUser(ann.ID, websocket.ClosePolicyViolation, "session ended"))
	expectClose(t, a, websocket.ClosePolicyViolation)
}

func TestWebSocketShutdownClosesGoingAway(t *testing.T) {
	srv, manager := newWSServer(t)

	a := dial(t, srv, "ann-token", "1")
	next(t, a)
	next(t, a)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, manager.Shutdown(ctx))

	expectClose(t, a, websocket.CloseGoingAway)
}
