package auth

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/imobix/imobix/internal/platform/httpx"
)

type stubUsers struct {
	users   map[int64]User
	err     error
	byID    int
	byEmail int
}

func newStubUsers(users ...User) *stubUsers {
	s := &stubUsers{users: make(map[int64]User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *stubUsers) FindByID(ctx context.Context, id int64) (User, error) {
	s.byID++
	if s.err != nil {
		return User{}, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return User{}, httpx.ErrNotFound
	}
	return u, nil
}

func (s *stubUsers) FindByEmail(ctx context.Context, email string) (User, error) {
	s.byEmail++
	if s.err != nil {
		return User{}, s.err
	}
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, httpx.ErrNotFound
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
