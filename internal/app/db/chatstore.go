package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"channelchat/internal/app/chat"
	dbc "channelchat/internal/app/db/sqlc"
)

// ChatStore serves the realtime layer's channel directory and message log from PostgreSQL.
type ChatStore struct {
	pool *pgxpool.Pool
	q    *dbc.Queries
}

var (
	_ chat.Directory    = (*ChatStore)(nil)
	_ chat.MessageStore = (*ChatStore)(nil)
)

// NewChatStore wraps pool. Queries are shared with the REST handlers.
func NewChatStore(pool *pgxpool.Pool) *ChatStore {
	return &ChatStore{pool: pool, q: dbc.New(pool)}
}

// Queries exposes the generated query set bound to the pool.
func (s *ChatStore) Queries() *dbc.Queries {
	return s.q
}

func (s *ChatStore) GetChannel(ctx context.Context, channelID int64) (chat.Channel, error) {
	row, err := s.q.GetChannel(ctx, channelID)
	if err != nil {
		if IsNotFound(err) {
			return chat.Channel{}, fmt.Errorf("channel %d: %w", channelID, chat.ErrChannelNotFound)
		}
		return chat.Channel{}, fmt.Errorf("failed to load channel %d: %w", channelID, err)
	}
	return ToChatChannel(row), nil
}

func (s *ChatStore) IsMember(ctx context.Context, channelID, userID int64) (bool, error) {
	ok, err := s.q.IsChannelMember(ctx, dbc.IsChannelMemberParams{ChannelID: channelID, UserID: userID})
	if err != nil {
		return false, fmt.Errorf("failed to check membership of user %d in channel %d: %w", userID, channelID, err)
	}
	return ok, nil
}

func (s *ChatStore) ListMembers(ctx context.Context, channelID int64) ([]int64, error) {
	ids, err := s.q.ListChannelMembers(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of channel %d: %w", channelID, err)
	}
	return ids, nil
}

func (s *ChatStore) AppendMessage(ctx context.Context, channelID, authorID int64, content string) (chat.Message, error) {
	row, err := s.q.CreateMessage(ctx, dbc.CreateMessageParams{
		ChannelID: channelID,
		AuthorID:  authorID,
		Content:   content,
	})
	if err != nil {
		return chat.Message{}, fmt.Errorf("failed to store message in channel %d: %w", channelID, err)
	}
	return chat.Message{
		ID:         row.ID,
		ChannelID:  row.ChannelID,
		AuthorID:   row.AuthorID,
		AuthorName: row.AuthorName,
		Content:    row.Content,
		SentAt:     row.SentAt.Time,
	}, nil
}

func (s *ChatStore) RecentMessages(ctx context.Context, channelID int64, limit int) ([]chat.Message, error) {
	rows, err := s.q.ListRecentMessages(ctx, dbc.ListRecentMessagesParams{
		ChannelID: channelID,
		Limit:     int32(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load history of channel %d: %w", channelID, err)
	}

	out := make([]chat.Message, 0, len(rows))
	for _, row := range rows {
		out = append(out, chat.Message{
			ID:         row.ID,
			ChannelID:  row.ChannelID,
			AuthorID:   row.AuthorID,
			AuthorName: row.AuthorName,
			Content:    row.Content,
			SentAt:     row.SentAt.Time,
		})
	}
	return out, nil
}

// ErrSelfDirectChannel is returned when both sides of a direct channel are the same user.
var ErrSelfDirectChannel = errors.New("cannot open a direct channel with yourself")

// OpenDirectChannel returns the private two-member channel of userID and otherID, creating
// it on first use. created reports whether this call created it.
func (s *ChatStore) OpenDirectChannel(ctx context.Context, userID, otherID int64) (chat.Channel, bool, error) {
	if userID == otherID {
		return chat.Channel{}, false, ErrSelfDirectChannel
	}

	name := DirectChannelName(userID, otherID)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return chat.Channel{}, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	qtx := s.q.WithTx(tx)

	row, err := qtx.GetPrivateChannelByName(ctx, name)
	switch {
	case err == nil:
		return ToChatChannel(row), false, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return chat.Channel{}, false, fmt.Errorf("failed to look up direct channel %s: %w", name, err)
	}

	row, err = qtx.CreateChannel(ctx, dbc.CreateChannelParams{Name: name, IsPrivate: true})
	if err != nil {
		return chat.Channel{}, false, fmt.Errorf("failed to create direct channel %s: %w", name, err)
	}
	for _, id := range []int64{userID, otherID} {
		if err := qtx.AddChannelMember(ctx, dbc.AddChannelMemberParams{ChannelID: row.ID, UserID: id}); err != nil {
			return chat.Channel{}, false, fmt.Errorf("failed to add user %d to %s: %w", id, name, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return chat.Channel{}, false, fmt.Errorf("failed to commit direct channel %s: %w", name, err)
	}
	return ToChatChannel(row), true, nil
}

// DirectChannelName is the stable name of the direct channel between two users.
func DirectChannelName(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("dm-%d-%d", a, b)
}

// ToChatChannel converts a stored channel row.
func ToChatChannel(row dbc.Channel) chat.Channel {
	return chat.Channel{
		ID:      row.ID,
		Name:    row.Name,
		Private: row.IsPrivate,
		RoleID:  Int8Value(row.RoleID),
	}
}

// Int8Value unwraps a nullable bigint, mapping NULL to 0.
func Int8Value(v pgtype.Int8) int64 {
	if !v.Valid {
		return 0
	}
	return v.Int64
}

// Int8 wraps id as a nullable bigint, mapping 0 to NULL.
func Int8(id int64) pgtype.Int8 {
	return pgtype.Int8{Int64: id, Valid: id != 0}
}
