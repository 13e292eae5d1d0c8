package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"channelchat/internal/app/user"
)

var errBrokenPipe = errors.New("broken pipe")

// fakeSocket records outbound payloads and feeds inbound text from a channel.
type fakeSocket struct {
	id      ConnID
	inbound chan string
	done    chan struct{}

	// onSend, when set, observes each payload before it is recorded.
	onSend func(payload []byte)

	// lingering, when set, keeps Receive blocked after Close until it is closed, like a
	// transport whose reader only notices the close once its write side gives up.
	lingering chan struct{}

	mu          sync.Mutex
	sent        [][]byte
	failSend    bool
	closed      bool
	closeCode   int
	closeReason string
}

func newFakeSocket(id string) *fakeSocket {
	return &fakeSocket{
		id:      ConnID(id),
		inbound: make(chan string, 16),
		done:    make(chan struct{}),
	}
}

func (f *fakeSocket) ID() ConnID { return f.id }

func (f *fakeSocket) Send(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSend {
		return errBrokenPipe
	}
	if f.closed {
		return ErrConnClosed
	}
	if f.onSend != nil {
		f.onSend(payload)
	}
	f.sent = append(f.sent, payload)
	return nil
}

func (f *fakeSocket) Close(code int, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	f.closeCode = code
	f.closeReason = reason
	close(f.done)
}

func (f *fakeSocket) Receive() (string, error) {
	select {
	case <-f.done:
		return f.closedRead()
	default:
	}

	select {
	case text := <-f.inbound:
		return text, nil
	case <-f.done:
		return f.closedRead()
	}
}

func (f *fakeSocket) closedRead() (string, error) {
	if f.lingering != nil {
		<-f.lingering
	}
	return "", io.EOF
}

func (f *fakeSocket) setFailSend(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSend = fail
}

func (f *fakeSocket) isClosed() (bool, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed, f.closeCode
}

type received struct {
	Type EnvelopeType    `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (f *fakeSocket) envelopes(t *testing.T) []received {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]received, 0, len(f.sent))
	for _, payload := range f.sent {
		var env received
		require.NoError(t, json.Unmarshal(payload, &env))
		out = append(out, env)
	}
	return out
}

func (f *fakeSocket) types(t *testing.T) []EnvelopeType {
	t.Helper()

	envs := f.envelopes(t)
	out := make([]EnvelopeType, 0, len(envs))
	for _, env := range envs {
		out = append(out, env.Type)
	}
	return out
}

func (f *fakeSocket) count(t *testing.T, typ EnvelopeType) int {
	t.Helper()

	n := 0
	for _, got := range f.types(t) {
		if got == typ {
			n++
		}
	}
	return n
}

// messages decodes every message envelope received so far.
func (f *fakeSocket) messages(t *testing.T) []MessageData {
	t.Helper()

	var out []MessageData
	for _, env := range f.envelopes(t) {
		if env.Type != TypeMessage {
			continue
		}
		var data MessageData
		require.NoError(t, json.Unmarshal(env.Data, &data))
		out = append(out, data)
	}
	return out
}

type fakeVerifier map[string]user.Identity

func (f fakeVerifier) VerifyIdentity(_ context.Context, token string) (user.Identity, error) {
	identity, ok := f[token]
	if !ok {
		return user.Identity{}, errors.New("invalid token")
	}
	return identity, nil
}

type fakeDirectory struct {
	channels map[int64]Channel
	members  map[int64][]int64
	err      error
}

func (f *fakeDirectory) GetChannel(_ context.Context, channelID int64) (Channel, error) {
	if f.err != nil {
		return Channel{}, f.err
	}
	ch, ok := f.channels[channelID]
	if !ok {
		return Channel{}, ErrChannelNotFound
	}
	return ch, nil
}

func (f *fakeDirectory) IsMember(_ context.Context, channelID, userID int64) (bool, error) {
	for _, id := range f.members[channelID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDirectory) ListMembers(_ context.Context, channelID int64) ([]int64, error) {
	return f.members[channelID], nil
}

type fakeStore struct {
	mu         sync.Mutex
	names      map[int64]string
	msgs       []Message
	failAppend bool
	failRecent bool
}

func newFakeStore(names map[int64]string) *fakeStore {
	return &fakeStore{names: names}
}

func (f *fakeStore) AppendMessage(_ context.Context, channelID, authorID int64, content string) (Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failAppend {
		return Message{}, errors.New("store unavailable")
	}

	msg := Message{
		ID:         int64(len(f.msgs) + 1),
		ChannelID:  channelID,
		AuthorID:   authorID,
		AuthorName: f.names[authorID],
		Content:    content,
		SentAt:     time.Now(),
	}
	f.msgs = append(f.msgs, msg)
	return msg, nil
}

func (f *fakeStore) RecentMessages(_ context.Context, channelID int64, limit int) ([]Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failRecent {
		return nil, errors.New("store unavailable")
	}

	var out []Message
	for i := len(f.msgs) - 1; i >= 0 && len(out) < limit; i-- {
		if f.msgs[i].ChannelID == channelID {
			out = append(out, f.msgs[i])
		}
	}
	return out, nil
}

func (f *fakeStore) has(id int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, m := range f.msgs {
		if m.ID == id {
			return true
		}
	}
	return false
}

func (f *fakeStore) seed(channelID, authorID int64, contents ...string) {
	for _, c := range contents {
		_, _ = f.AppendMessage(context.Background(), channelID, authorID, c)
	}
}

func (f *fakeStore) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.msgs)
}

func (f *fakeStore) setFailAppend(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failAppend = fail
}

type fakeAssistant struct {
	mu       sync.Mutex
	summary  string
	reply    string
	err      error
	lastText string
	lastTurn ChatTurn
}

func (f *fakeAssistant) Summarize(_ context.Context, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastText = text
	return f.summary, f.err
}

func (f *fakeAssistant) Reply(_ context.Context, turn ChatTurn) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastTurn = turn
	return f.reply, f.err
}
