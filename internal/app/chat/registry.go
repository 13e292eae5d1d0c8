package chat

// The Registry is the process-wide presence state: which connections are attached to
// which channel, which users are present where, and who owns each connection. All four
// indexes are guarded by one lock so no reader observes a half-applied change.

import (
	"errors"
	"slices"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"channelchat/internal/pkg/logx"
)

var (
	// ErrConnClosed is returned by Conn.Send once the connection is closed.
	ErrConnClosed = errors.New("connection closed")

	// ErrSendQueueFull is returned by Conn.Send when the peer is not draining its queue.
	ErrSendQueueFull = errors.New("send queue full")
)

// ConnID is an opaque connection handle.
type ConnID string

// Conn is one live realtime link as seen by the Registry.
type Conn interface {
	// ID returns the handle the connection is registered under.
	ID() ConnID

	// Send enqueues an encoded envelope without blocking.
	Send(payload []byte) error

	// Close terminates the link with a close code. Calling it again is a no-op.
	Close(code int, reason string)
}

// RegistryStats is a point-in-time summary of the Registry.
type RegistryStats struct {
	Channels    int `json:"channels"`
	Connections int `json:"connections"`
	Users       int `json:"users"`

	// Evictions is the running total of handles dropped by failed broadcasts.
	Evictions uint64 `json:"evictions"`
}

// eviction records whose handle a broadcast removed and whether that removal took the
// user's last handle in the channel.
type eviction struct {
	ownership
	last bool
}

type ownership struct {
	channelID int64
	userID    int64
}

// Registry tracks live connections per channel and the derived presence roster.
type Registry struct {
	mu sync.RWMutex

	// connections holds the live handles attached to each channel.
	connections map[int64]map[ConnID]Conn

	// channelUsers counts live handles per user per channel; a key exists iff count > 0.
	channelUsers map[int64]map[int64]int

	// userChannels is the reverse index of channelUsers.
	userChannels map[int64]map[int64]struct{}

	// owner maps each handle to the channel and user it was registered for.
	owner map[ConnID]ownership

	// evicted remembers handles removed by a failed broadcast until their session
	// acknowledges the removal through Disconnect.
	evicted map[ConnID]eviction

	evictions uint64

	logger zerolog.Logger
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		connections:  make(map[int64]map[ConnID]Conn),
		channelUsers: make(map[int64]map[int64]int),
		userChannels: make(map[int64]map[int64]struct{}),
		owner:        make(map[ConnID]ownership),
		evicted:      make(map[ConnID]eviction),
		logger:       logx.Component("Registry"),
	}
}

// Connect registers conn for userID in channelID. Registering a handle twice is a no-op.
// It reports whether conn is the user's first live handle in the channel.
func (r *Registry) Connect(channelID, userID int64, conn Conn) bool {
	id := conn.ID()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.owner[id]; exists {
		return false
	}

	conns, ok := r.connections[channelID]
	if !ok {
		conns = make(map[ConnID]Conn)
		r.connections[channelID] = conns
	}
	conns[id] = conn
	r.owner[id] = ownership{channelID: channelID, userID: userID}

	users, ok := r.channelUsers[channelID]
	if !ok {
		users = make(map[int64]int)
		r.channelUsers[channelID] = users
	}
	users[userID]++
	first := users[userID] == 1

	channels, ok := r.userChannels[userID]
	if !ok {
		channels = make(map[int64]struct{})
		r.userChannels[userID] = channels
	}
	channels[channelID] = struct{}{}

	r.logger.Debug().
		Int64("channel_id", channelID).
		Int64("user_id", userID).
		Str("conn_id", string(id)).
		Int("channel_connections", len(conns)).
		Msg("Connection registered.")

	return first
}

// Disconnect removes the handle from every index and prunes empty entries. Missing
// linkage is skipped, so calling it repeatedly is safe. It reports whether the user's
// last handle in the channel was removed, either by this call or by an earlier
// broadcast eviction of the same handle while the user has not reconnected since.
func (r *Registry) Disconnect(channelID, userID int64, id ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ev, ok := r.evicted[id]; ok {
		delete(r.evicted, id)
		return ev.last && r.channelUsers[ev.channelID][ev.userID] == 0
	}

	return r.disconnectLocked(channelID, userID, id)
}

func (r *Registry) disconnectLocked(channelID, userID int64, id ConnID) bool {
	if own, ok := r.owner[id]; ok {
		channelID, userID = own.channelID, own.userID
		delete(r.owner, id)
	}

	conns, ok := r.connections[channelID]
	if !ok {
		return false
	}
	if _, attached := conns[id]; !attached {
		return false
	}
	delete(conns, id)
	if len(conns) == 0 {
		delete(r.connections, channelID)
	}

	last := false
	if users, ok := r.channelUsers[channelID]; ok {
		if users[userID] > 1 {
			users[userID]--
		} else if _, present := users[userID]; present {
			delete(users, userID)
			last = true
		}
		if len(users) == 0 {
			delete(r.channelUsers, channelID)
		}
	}

	if last {
		if channels, ok := r.userChannels[userID]; ok {
			delete(channels, channelID)
			if len(channels) == 0 {
				delete(r.userChannels, userID)
			}
		}
	}

	r.logger.Debug().
		Int64("channel_id", channelID).
		Int64("user_id", userID).
		Str("conn_id", string(id)).
		Bool("user_left", last).
		Msg("Connection removed.")

	return last
}

// Broadcast sends env to every live handle in channelID except exclude (pass "" to
// exclude nobody). A failed send never stops the sweep: failed handles are collected,
// then disconnected and closed once every other handle has been offered the envelope.
func (r *Registry) Broadcast(channelID int64, env Envelope, exclude ConnID) {
	payload, err := env.Encode()
	if err != nil {
		r.logger.Error().Err(err).Str("type", string(env.Type)).Msg("Error marshaling envelope for broadcast.")
		return
	}

	var failed []Conn

	r.mu.Lock()

	for id, conn := range r.connections[channelID] {
		if id == exclude {
			continue
		}
		if err := conn.Send(payload); err != nil {
			r.logger.Warn().
				Err(err).
				Int64("channel_id", channelID).
				Str("conn_id", string(id)).
				Msg("Send failed during broadcast, evicting connection.")
			failed = append(failed, conn)
		}
	}

	for _, conn := range failed {
		id := conn.ID()
		own := r.owner[id]
		r.evicted[id] = eviction{ownership: own, last: r.disconnectLocked(own.channelID, own.userID, id)}
	}
	r.evictions += uint64(len(failed))

	r.mu.Unlock()

	for _, conn := range failed {
		conn.Close(websocket.CloseGoingAway, "delivery failed")
	}
}

// ActiveUsers returns a sorted snapshot of the users present in channelID.
func (r *Registry) ActiveUsers(channelID int64) []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]int64, 0, len(r.channelUsers[channelID]))
	for userID := range r.channelUsers[channelID] {
		users = append(users, userID)
	}
	slices.Sort(users)

	return users
}

// IsPresent reports whether userID has at least one live handle in channelID.
func (r *Registry) IsPresent(channelID, userID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.channelUsers[channelID][userID]
	return ok
}

// DisconnectUser closes every live handle of userID across all channels, e.g. after a
// logout. Each owning session then runs its normal disconnect path. It returns the
// number of handles closed.
func (r *Registry) DisconnectUser(userID int64, code int, reason string) int {
	var targets []Conn

	r.mu.RLock()
	for channelID := range r.userChannels[userID] {
		for id, conn := range r.connections[channelID] {
			if r.owner[id].userID == userID {
				targets = append(targets, conn)
			}
		}
	}
	r.mu.RUnlock()

	for _, conn := range targets {
		conn.Close(code, reason)
	}

	if len(targets) > 0 {
		r.logger.Info().Int64("user_id", userID).Int("connections", len(targets)).Msg("Closed user connections.")
	}

	return len(targets)
}

// Stats returns counts of active channels, connections and present users.
func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RegistryStats{
		Channels:    len(r.connections),
		Connections: len(r.owner),
		Users:       len(r.userChannels),
		Evictions:   r.evictions,
	}
}

// Shutdown closes every live connection with a going-away code. Sessions deregister
// themselves as their sockets terminate.
func (r *Registry) Shutdown() {
	r.logger.Info().Msg("Shutting down Registry, closing all connections...")

	r.mu.RLock()
	all := make([]Conn, 0, len(r.owner))
	for _, conns := range r.connections {
		for _, conn := range conns {
			all = append(all, conn)
		}
	}
	r.mu.RUnlock()

	for _, conn := range all {
		conn.Close(websocket.CloseGoingAway, "server shutting down")
	}

	r.logger.Info().Int("connections", len(all)).Msg("Registry shutdown complete.")
}
