package chat

import (
	"context"
	"slices"
	"strings"

	"channelchat/internal/app/user"
	"channelchat/internal/pkg/errs"
)

// History returns up to limit messages of channelID, oldest first, when identity may
// access the channel.
func (m *Manager) History(ctx context.Context, identity user.Identity, channelID int64, limit int) ([]MessageData, *errs.CustomError) {
	if _, cErr := Authorize(ctx, m.directory, identity, channelID); cErr != nil {
		return nil, cErr
	}

	msgs, err := m.store.RecentMessages(ctx, channelID, limit)
	if err != nil {
		m.logger.Error().Err(err).Int64("channel_id", channelID).Msg("Failed to load history.")
		return nil, errs.NewError(errs.ErrUnknown)
	}
	slices.Reverse(msgs)

	out := make([]MessageData, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, messageData(msg))
	}
	return out, nil
}

// PostMessage stores content as a message of identity and broadcasts it to every live
// connection in the channel, exactly as if it had arrived over a socket.
func (m *Manager) PostMessage(ctx context.Context, identity user.Identity, channelID int64, content string) (MessageData, *errs.CustomError) {
	content = strings.TrimSpace(content)
	if content == "" {
		return MessageData{}, errs.NewError(errs.ErrMessageEmpty)
	}
	if len(content) > MaxContentBytes {
		return MessageData{}, errs.NewError(errs.ErrMessageContentTooLong, MaxContentBytes)
	}

	if _, cErr := Authorize(ctx, m.directory, identity, channelID); cErr != nil {
		return MessageData{}, cErr
	}

	msg, err := m.store.AppendMessage(ctx, channelID, identity.ID, content)
	if err != nil {
		m.logger.Error().Err(err).Int64("channel_id", channelID).Msg("Failed to store posted message.")
		return MessageData{}, errs.NewError(errs.ErrMessageNotStored)
	}
	if msg.AuthorName == "" {
		msg.AuthorName = identity.Name
	}

	m.recorder.MessagePosted()
	m.registry.Broadcast(channelID, MessageEnvelope(msg), "")

	return messageData(msg), nil
}

// Presence returns the users present in channelID when identity may access the channel.
func (m *Manager) Presence(ctx context.Context, identity user.Identity, channelID int64) ([]int64, *errs.CustomError) {
	if _, cErr := Authorize(ctx, m.directory, identity, channelID); cErr != nil {
		return nil, cErr
	}
	return m.registry.ActiveUsers(channelID), nil
}
