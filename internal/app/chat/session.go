package chat

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"channelchat/internal/app/user"
	"channelchat/internal/pkg/errs"
)

// State is the lifecycle position of a Session.
type State int

const (
	StateConnecting State = iota
	StateAuthorizing
	StateAuthorized
	StateStreaming
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthorizing:
		return "authorizing"
	case StateAuthorized:
		return "authorized"
	case StateStreaming:
		return "streaming"
	case StateClosed:
		return "closed"
	default:
		return "unknown(" + strconv.Itoa(int(s)) + ")"
	}
}

// Socket is a Conn the Session can also read from.
type Socket interface {
	Conn

	// Receive blocks until the next inbound text payload or a transport error.
	Receive() (string, error)
}

// maxHeldPayloads bounds the broadcasts buffered for a connection that is still joining.
const maxHeldPayloads = sendQueueSize

// joiningConn is the Conn registered for a joining Session. Broadcasts that arrive before
// history and the roster have been queued are held back and flushed by release, so the
// joiner always sees history first.
type joiningConn struct {
	Socket

	mu       sync.Mutex
	released bool
	held     [][]byte
}

func (j *joiningConn) Send(payload []byte) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.released {
		return j.Socket.Send(payload)
	}
	if len(j.held) >= maxHeldPayloads {
		return ErrSendQueueFull
	}
	j.held = append(j.held, payload)
	return nil
}

func (j *joiningConn) release() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.released = true
	held := j.held
	j.held = nil

	for _, payload := range held {
		if err := j.Socket.Send(payload); err != nil {
			return err
		}
	}
	return nil
}

// Authorize resolves channelID and applies the channel access rule for identity:
// private channels require membership, public channels bound to a role require that role,
// and unbound public channels admit everyone.
func Authorize(ctx context.Context, dir Directory, identity user.Identity, channelID int64) (Channel, *errs.CustomError) {
	channel, err := dir.GetChannel(ctx, channelID)
	if err != nil {
		if errors.Is(err, ErrChannelNotFound) {
			return Channel{}, errs.NewError(errs.ErrChannelNotFound)
		}
		return Channel{}, errs.NewError(errs.ErrUnknown, err)
	}

	if channel.Private {
		ok, err := dir.IsMember(ctx, channel.ID, identity.ID)
		if err != nil {
			return Channel{}, errs.NewError(errs.ErrUnknown, err)
		}
		if !ok {
			return Channel{}, errs.NewError(errs.ErrChannelForbidden)
		}
		return channel, nil
	}

	if channel.RoleID != 0 && !identity.HasRole(channel.RoleID) {
		return Channel{}, errs.NewError(errs.ErrChannelForbidden)
	}

	return channel, nil
}

// Session drives one realtime connection through its lifecycle.
type Session struct {
	manager *Manager
	socket  Socket
	conn    *joiningConn

	state    State
	identity user.Identity
	channel  Channel

	// chatbot is set for a private channel whose members are exactly the user and the bot.
	chatbot bool

	logger zerolog.Logger
}

// State returns the current lifecycle position.
func (s *Session) State() State {
	return s.state
}

// Identity returns the authenticated user, zero before authorization.
func (s *Session) Identity() user.Identity {
	return s.identity
}

func (s *Session) transition(next State) {
	s.logger.Debug().Stringer("from", s.state).Stringer("to", next).Msg("Session state change.")
	s.state = next
}

// reject closes the socket with the close code of cause and ends the session.
func (s *Session) reject(cause *errs.CustomError) {
	s.logger.Info().
		Int("code", cause.Code).
		Int("close_code", cause.WSCloseCode()).
		Str("state", s.state.String()).
		Msg("Session rejected.")

	s.manager.recorder.SessionRejected(cause.WSCloseCode())
	s.socket.Close(cause.WSCloseCode(), cause.Message)
	s.transition(StateClosed)
}

// Run executes the session until the connection ends. It never returns an error: every
// failure is reported to the client through a close code or an error envelope.
func (s *Session) Run(ctx context.Context, token, rawChannelID string) {
	s.transition(StateAuthorizing)

	identity, err := s.manager.verifier.VerifyIdentity(ctx, token)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Credential rejected.")
		s.reject(errs.NewError(errs.ErrUnauthorized))
		return
	}
	s.identity = identity
	s.logger = s.logger.With().Int64("user_id", identity.ID).Logger()

	channelID, err := strconv.ParseInt(rawChannelID, 10, 64)
	if err != nil || channelID <= 0 {
		s.reject(errs.NewError(errs.ErrChannelNotFound))
		return
	}

	channel, cErr := Authorize(ctx, s.manager.directory, identity, channelID)
	if cErr != nil {
		s.reject(cErr)
		return
	}
	s.channel = channel
	s.logger = s.logger.With().Int64("channel_id", channel.ID).Logger()
	s.chatbot = s.detectChatbot(ctx)
	s.transition(StateAuthorized)

	if !s.join(ctx) {
		return
	}
	s.transition(StateStreaming)

	s.stream(ctx)
	s.leave()
}

// detectChatbot reports whether the channel is a private conversation with the bot user.
func (s *Session) detectChatbot(ctx context.Context) bool {
	botID := s.manager.config.ChatbotUserID
	if botID == 0 || !s.channel.Private || s.identity.ID == botID {
		return false
	}

	members, err := s.manager.directory.ListMembers(ctx, s.channel.ID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to list channel members, chatbot disabled for session.")
		return false
	}

	return len(members) == 2 && slices.Contains(members, s.identity.ID) && slices.Contains(members, botID)
}

// join registers the connection, replays history and the roster, then announces the user.
func (s *Session) join(ctx context.Context) bool {
	reg := s.manager.registry
	first := reg.Connect(s.channel.ID, s.identity.ID, s.conn)

	history, err := s.manager.store.RecentMessages(ctx, s.channel.ID, s.manager.config.HistoryLimit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load channel history.")
		cause := errs.NewError(errs.ErrHistoryUnavailable)
		s.sendDirect(ErrorEnvelope(cause.Code, cause.Message))
		reg.Disconnect(s.channel.ID, s.identity.ID, s.conn.ID())
		s.reject(cause)
		return false
	}
	slices.Reverse(history)

	s.sendDirect(HistoryEnvelope(history))
	s.sendDirect(ActiveUsersEnvelope(reg.ActiveUsers(s.channel.ID)))

	if err := s.conn.release(); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to flush held broadcasts.")
	}

	reg.Broadcast(s.channel.ID, UserJoinedEnvelope(s.identity.ID, s.identity.Name), s.conn.ID())

	s.manager.recorder.SessionJoined()
	s.logger.Info().Bool("first_connection", first).Bool("chatbot", s.chatbot).Msg("Session joined channel.")
	return true
}

// stream processes inbound payloads in arrival order until the transport ends.
func (s *Session) stream(ctx context.Context) {
	for {
		text, err := s.socket.Receive()
		if err != nil {
			s.logger.Debug().Err(err).Msg("Receive loop ended.")
			return
		}

		s.handleInbound(ctx, text)
	}
}

func (s *Session) handleInbound(ctx context.Context, text string) {
	content := strings.TrimSpace(text)
	if content == "" {
		return
	}

	if len(content) > MaxContentBytes {
		s.sendError(errs.NewError(errs.ErrMessageContentTooLong, MaxContentBytes))
		return
	}

	switch {
	case s.chatbot:
		s.converse(ctx, content)
	case isSummarizeCommand(content):
		s.summarize(ctx)
	default:
		s.post(ctx, s.identity.ID, s.identity.Name, content)
	}
}

// post persists a message and then broadcasts it to every connection in the channel,
// the author's own included.
func (s *Session) post(ctx context.Context, authorID int64, authorName, content string) (Message, bool) {
	msg, err := s.manager.store.AppendMessage(ctx, s.channel.ID, authorID, content)
	if err != nil {
		s.logger.Error().Err(err).Int64("author_id", authorID).Msg("Failed to store message.")
		s.sendError(errs.NewError(errs.ErrMessageNotStored))
		return Message{}, false
	}
	if msg.AuthorName == "" {
		msg.AuthorName = authorName
	}

	s.manager.recorder.MessagePosted()
	s.manager.registry.Broadcast(s.channel.ID, MessageEnvelope(msg), "")
	return msg, true
}

// leave deregisters the connection and announces the departure if it was the user's last.
func (s *Session) leave() {
	reg := s.manager.registry
	if reg.Disconnect(s.channel.ID, s.identity.ID, s.conn.ID()) {
		reg.Broadcast(s.channel.ID, UserLeftEnvelope(s.identity.ID, s.identity.Name), "")
	}

	s.socket.Close(websocket.CloseNormalClosure, "")
	if s.state != StateClosed {
		s.transition(StateClosed)
	}

	s.logger.Info().Msg("Session left channel.")
}

// sendDirect queues env on this connection only, bypassing the join hold.
func (s *Session) sendDirect(env Envelope) {
	payload, err := env.Encode()
	if err != nil {
		s.logger.Error().Err(err).Str("type", string(env.Type)).Msg("Error marshaling envelope.")
		return
	}

	if err := s.socket.Send(payload); err != nil {
		s.logger.Warn().Err(err).Str("type", string(env.Type)).Msg("Failed to queue envelope.")
	}
}

// send queues env on this connection only.
func (s *Session) send(env Envelope) {
	payload, err := env.Encode()
	if err != nil {
		s.logger.Error().Err(err).Str("type", string(env.Type)).Msg("Error marshaling envelope.")
		return
	}

	if err := s.conn.Send(payload); err != nil {
		s.logger.Warn().Err(err).Str("type", string(env.Type)).Msg("Failed to queue envelope.")
	}
}

func (s *Session) sendError(cause *errs.CustomError) {
	s.send(ErrorEnvelope(cause.Code, cause.Message))
}
