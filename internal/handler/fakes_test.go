package handler

import (
	"context"
	"errors"
	"sync"
	"time"

	"channelchat/internal/app/chat"
	"channelchat/internal/app/user"
	"channelchat/internal/pkg/errs"
)

type fakeAuth map[string]user.Identity

func (f fakeAuth) VerifyIdentity(_ context.Context, token string) (user.Identity, error) {
	identity, ok := f[token]
	if !ok {
		return user.Identity{}, errors.New("invalid token")
	}
	return identity, nil
}

func (f fakeAuth) Authenticate(ctx context.Context, token string) (user.Identity, *errs.CustomError) {
	identity, err := f.VerifyIdentity(ctx, token)
	if err != nil {
		return user.Identity{}, errs.NewError(errs.ErrUnauthorized)
	}
	return identity, nil
}

type memDirectory map[int64]chat.Channel

func (d memDirectory) GetChannel(_ context.Context, channelID int64) (chat.Channel, error) {
	ch, ok := d[channelID]
	if !ok {
		return chat.Channel{}, chat.ErrChannelNotFound
	}
	return ch, nil
}

func (d memDirectory) IsMember(context.Context, int64, int64) (bool, error) {
	return false, nil
}

func (d memDirectory) ListMembers(context.Context, int64) ([]int64, error) {
	return nil, nil
}

type memStore struct {
	mu    sync.Mutex
	names map[int64]string
	msgs  []chat.Message
}

func (s *memStore) AppendMessage(_ context.Context, channelID, authorID int64, content string) (chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := chat.Message{
		ID:         int64(len(s.msgs) + 1),
		ChannelID:  channelID,
		AuthorID:   authorID,
		AuthorName: s.names[authorID],
		Content:    content,
		SentAt:     time.Now(),
	}
	s.msgs = append(s.msgs, msg)
	return msg, nil
}

func (s *memStore) RecentMessages(_ context.Context, channelID int64, limit int) ([]chat.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []chat.Message
	for i := len(s.msgs) - 1; i >= 0 && len(out) < limit; i-- {
		if s.msgs[i].ChannelID == channelID {
			out = append(out, s.msgs[i])
		}
	}
	return out, nil
}
