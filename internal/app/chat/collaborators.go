package chat

import (
	"context"
	"errors"
	"time"

	"channelchat/internal/app/user"
)

// ErrChannelNotFound is returned by a Directory when the channel id does not resolve.
var ErrChannelNotFound = errors.New("channel not found")

// Channel is the metadata the realtime layer needs to authorize a connection.
type Channel struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Private bool   `json:"is_private"`

	// RoleID binds a public channel to one role; 0 means unbound.
	RoleID int64 `json:"role_id,omitempty"`
}

// Message is a persisted chat message.
type Message struct {
	ID         int64
	ChannelID  int64
	AuthorID   int64
	AuthorName string
	Content    string
	SentAt     time.Time
}

// IdentityVerifier validates an opaque credential and resolves the user behind it.
// Any error means the credential is rejected.
type IdentityVerifier interface {
	VerifyIdentity(ctx context.Context, token string) (user.Identity, error)
}

// Directory answers channel and membership questions. It is read-only to this package.
type Directory interface {
	// GetChannel returns ErrChannelNotFound (possibly wrapped) for unknown ids.
	GetChannel(ctx context.Context, channelID int64) (Channel, error)

	IsMember(ctx context.Context, channelID, userID int64) (bool, error)

	ListMembers(ctx context.Context, channelID int64) ([]int64, error)
}

// MessageStore persists and replays channel messages.
type MessageStore interface {
	// AppendMessage stores a message and returns it with its assigned id and timestamp.
	AppendMessage(ctx context.Context, channelID, authorID int64, content string) (Message, error)

	// RecentMessages returns up to limit messages, newest first.
	RecentMessages(ctx context.Context, channelID int64, limit int) ([]Message, error)
}

// ChatTurn is the input of a chatbot reply: the new text plus the prior conversation.
type ChatTurn struct {
	Text               string
	PastUserInputs     []string
	GeneratedResponses []string
}

// Assistant is the optional external text-processing service.
type Assistant interface {
	Summarize(ctx context.Context, text string) (string, error)
	Reply(ctx context.Context, turn ChatTurn) (string, error)
}
