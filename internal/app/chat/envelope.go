/*
Package chat contains the realtime connection and fan-out layer.

This file defines the envelope format sent to clients. Every server-to-client payload is
a JSON object with a "type" discriminator and a "data" body.
*/
package chat

import (
	"encoding/json"
	"time"
)

// EnvelopeType discriminates server-to-client payloads.
type EnvelopeType string

const (
	// TypeHistory carries the recent messages of the channel, oldest first.
	TypeHistory EnvelopeType = "history"

	// TypeActiveUsers carries the ids of users currently present in the channel.
	TypeActiveUsers EnvelopeType = "active_users"

	// TypeUserJoined announces every connection that completes its join.
	TypeUserJoined EnvelopeType = "user_joined"

	// TypeUserLeft announces that a user's last live connection to the channel closed.
	TypeUserLeft EnvelopeType = "user_left"

	// TypeMessage carries one persisted chat message (or a bot summary).
	TypeMessage EnvelopeType = "message"

	// TypeSystemMessage is a notice addressed to a single connection.
	TypeSystemMessage EnvelopeType = "system_message"

	// TypeError reports a failure to a single connection.
	TypeError EnvelopeType = "error"
)

// Envelope is one tagged server-to-client payload.
type Envelope struct {
	Type EnvelopeType `json:"type"`
	Data any          `json:"data"`
}

// MessageData is the wire shape of a chat message.
type MessageData struct {
	ID       int64  `json:"id"`
	Author   string `json:"author"`
	AuthorID int64  `json:"author_id"`
	Content  string `json:"content"`
	SentAt   string `json:"sent_at"`
}

// UserEventData is the wire shape of join and leave announcements.
type UserEventData struct {
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
}

// SystemData is the wire shape of a system notice.
type SystemData struct {
	Content string `json:"content"`
}

// ErrorData is the wire shape of an error report.
type ErrorData struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Encode marshals the envelope for the transport.
func (e Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}

func formatSentAt(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// messageData converts a stored message to its wire shape.
func messageData(m Message) MessageData {
	return MessageData{
		ID:       m.ID,
		Author:   m.AuthorName,
		AuthorID: m.AuthorID,
		Content:  m.Content,
		SentAt:   formatSentAt(m.SentAt),
	}
}

// HistoryEnvelope builds a history envelope. msgs must already be in chronological order.
func HistoryEnvelope(msgs []Message) Envelope {
	data := make([]MessageData, 0, len(msgs))
	for _, m := range msgs {
		data = append(data, messageData(m))
	}
	return Envelope{Type: TypeHistory, Data: data}
}

// ActiveUsersEnvelope builds an active_users envelope.
func ActiveUsersEnvelope(userIDs []int64) Envelope {
	if userIDs == nil {
		userIDs = []int64{}
	}
	return Envelope{Type: TypeActiveUsers, Data: userIDs}
}

// UserJoinedEnvelope builds a user_joined envelope.
func UserJoinedEnvelope(userID int64, name string) Envelope {
	return Envelope{Type: TypeUserJoined, Data: UserEventData{UserID: userID, UserName: name}}
}

// UserLeftEnvelope builds a user_left envelope.
func UserLeftEnvelope(userID int64, name string) Envelope {
	return Envelope{Type: TypeUserLeft, Data: UserEventData{UserID: userID, UserName: name}}
}

// MessageEnvelope builds a message envelope from a persisted message.
func MessageEnvelope(m Message) Envelope {
	return Envelope{Type: TypeMessage, Data: messageData(m)}
}

// SystemEnvelope builds a system_message envelope.
func SystemEnvelope(content string) Envelope {
	return Envelope{Type: TypeSystemMessage, Data: SystemData{Content: content}}
}

// ErrorEnvelope builds an error envelope.
func ErrorEnvelope(code int, message string) Envelope {
	return Envelope{Type: TypeError, Data: ErrorData{Code: code, Message: message}}
}
