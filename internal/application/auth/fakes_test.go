package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

type memUsers struct {
	mu       sync.Mutex
	byID     map[int64]*entity.User
	nextID   int64
	touchErr error
}

func newMemUsers() *memUsers { return &memUsers{byID: map[int64]*entity.User{}} }

func (r *memUsers) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, x := range r.byID {
		if x.Username == u.Username || x.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	r.nextID++
	u.ID = r.nextID
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUsers) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.touchErr != nil {
		return r.touchErr
	}
	if u, ok := r.byID[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

type memSessions struct {
	mu       sync.Mutex
	users    *memUsers
	sessions []*entity.Session
	nextID   int64
}

func (r *memSessions) Create(_ context.Context, s *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = r.nextID
	cp := *s
	r.sessions = append(r.sessions, &cp)
	return nil
}

func (r *memSessions) Touch(ctx context.Context, tokenHash string, now time.Time) (*entity.CallerContext, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.TokenHash == tokenHash && s.IsValidAt(now) {
			u, _ := r.users.GetByID(ctx, s.UserID)
			if u == nil {
				return nil, nil
			}
			s.LastActivity = now
			return &entity.CallerContext{UserID: u.ID, TenantID: u.TenantID, Role: u.Role}, nil
		}
	}
	return nil, nil
}

func (r *memSessions) Delete(_ context.Context, userID int64, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.sessions[:0]
	for _, s := range r.sessions {
		if !(s.UserID == userID && s.TokenHash == tokenHash) {
			kept = append(kept, s)
		}
	}
	r.sessions = kept
	return nil
}

func (r *memSessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	kept := r.sessions[:0]
	for _, s := range r.sessions {
		if s.IsValidAt(now) {
			kept = append(kept, s)
		} else {
			n++
		}
	}
	r.sessions = kept
	return n, nil
}

func (r *memSessions) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

type memTenants map[int64]*entity.Tenant

func (m memTenants) GetByID(_ context.Context, id int64) (*entity.Tenant, error) {
	return m[id], nil
}

// clock reloj manual para probar expiración.
type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }
