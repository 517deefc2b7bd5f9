package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/portfolio/backend/internal/model"
)

// Memory is an in-process implementation of every repository interface,
// selected with STORE_DRIVER=memory. Nothing survives a restart.
type Memory struct {
	mu       sync.RWMutex
	now      func() time.Time
	messages map[string]model.Message
	admins   map[string]*model.AdminUser
	sessions map[string]*model.Session
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		now:      time.Now,
		messages: make(map[string]model.Message),
		admins:   make(map[string]*model.AdminUser),
		sessions: make(map[string]*model.Session),
	}
}

var (
	_ DB                  = (*Memory)(nil)
	_ MessageRepository   = (*Memory)(nil)
	_ AdminUserRepository = (*Memory)(nil)
	_ SessionRepository   = memorySessions{}
)

// Ping always succeeds.
func (m *Memory) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Messages returns a MessageRepository view of m.
func (m *Memory) Messages() MessageRepository { return m }

// Save stores msg under a fresh UUID. A zero CreatedAt is stamped with the current time.
func (m *Memory) Save(_ context.Context, msg *model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = uuid.NewString()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = m.now().UTC()
	}
	m.messages[msg.ID] = *msg
	return nil
}

// List returns all messages, newest first. Ties are broken by ID for a stable order.
func (m *Memory) List(_ context.Context) ([]model.Message, error) {
	m.mu.RLock()
	out := make([]model.Message, 0, len(m.messages))
	for _, msg := range m.messages {
		out = append(out, msg)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b model.Message) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// Delete removes a message by id.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.messages[id]; !ok {
		return ErrNotFound
	}
	delete(m.messages, id)
	return nil
}

// FindByID returns the admin with the given id.
func (m *Memory) FindByID(_ context.Context, id string) (*model.AdminUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.admins[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

// FindByEmail returns the admin whose email matches case-insensitively.
func (m *Memory) FindByEmail(_ context.Context, email string) (*model.AdminUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.admins {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// Create registers an admin. ErrAlreadyExists when the email is taken.
func (m *Memory) Create(_ context.Context, u *model.AdminUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.admins {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrAlreadyExists
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = m.now().UTC()
	cp := *u
	m.admins[u.ID] = &cp
	return nil
}

// Sessions returns the SessionRepository half of m; its Create collides with
// AdminUserRepository.Create.
func (m *Memory) Sessions() SessionRepository { return memorySessions{m} }

type memorySessions struct{ m *Memory }

func (s memorySessions) Create(_ context.Context, sess *model.Session) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.sessions[sess.Token]; ok {
		return ErrAlreadyExists
	}
	cp := *sess
	s.m.sessions[sess.Token] = &cp
	return nil
}

func (s memorySessions) FindByToken(_ context.Context, token string) (*model.Session, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()
	sess, ok := s.m.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s memorySessions) DeleteByToken(_ context.Context, token string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	delete(s.m.sessions, token)
	return nil
}

func (s memorySessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	var n int64
	for token, sess := range s.m.sessions {
		if sess.Expired(now) {
			delete(s.m.sessions, token)
			n++
		}
	}
	return n, nil
}
