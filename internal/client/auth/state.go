// Package auth owns the authenticated identity of this client: the access
// token and role, kept in memory and mirrored to the durable metadata store.
//
// The state is an observable container: login, logout and externally
// observed storage changes all feed the same update path. Navigation (back
// to the landing surface) happens only from this process's own explicit
// Logout call, never from observing another process's change.
package auth

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/classpulse/classpulse/internal/client/repositories/metadata"
	"github.com/classpulse/classpulse/internal/common"
	"github.com/classpulse/classpulse/internal/dbx"
	"github.com/classpulse/classpulse/internal/logging"
)

// Role is the authenticated account role. Unknown stored values read as
// RoleNone: the client fails open to unauthenticated, never crashes.
type Role string

const (
	RoleNone    Role = ""
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// ParseRole maps a raw stored value to a Role, treating anything malformed
// as RoleNone.
func ParseRole(raw string) Role {
	switch Role(raw) {
	case RoleTeacher:
		return RoleTeacher
	case RoleStudent:
		return RoleStudent
	default:
		return RoleNone
	}
}

// Session is the current identity: token and role together.
type Session struct {
	Token string
	Role  Role
}

// State is the process-wide auth container. All reads are synchronous;
// writes (Login/Logout) persist both keys atomically before touching the
// in-memory copy, so storage and memory never disagree.
type State struct {
	mu      sync.RWMutex
	session Session
	subs    []chan Session

	db       *sql.DB
	log      logging.Logger
	onLogout func()
}

// NewState builds a State backed by the given database and loads the
// persisted session. onLogout, when non-nil, runs after an explicit Logout
// (the client-side redirect to the landing surface).
func NewState(ctx context.Context, db *sql.DB, log logging.Logger, onLogout func()) (*State, error) {
	s := &State{db: db, log: log, onLogout: onLogout}
	sess, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	s.session = sess
	return s, nil
}

// read loads the persisted session. A missing or malformed role is repaired
// from the token's own claims when possible, and reads as no role otherwise.
func (s *State) read(ctx context.Context) (Session, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	tokenRaw, err := repo.Get(ctx, common.AccessTokenKey)
	if err != nil {
		return Session{}, fmt.Errorf("failed to read auth state: %w", err)
	}
	roleRaw, err := repo.Get(ctx, common.RoleKey)
	if err != nil {
		return Session{}, fmt.Errorf("failed to read auth state: %w", err)
	}

	sess := Session{Token: string(tokenRaw), Role: ParseRole(string(roleRaw))}
	if sess.Token != "" && sess.Role == RoleNone {
		sess.Role = roleFromToken(sess.Token)
	}
	return sess, nil
}

// Login persists token and role and updates the in-memory state. Both keys
// are written in one transaction: either storage and memory both change or
// the call fails and neither does.
func (s *State) Login(ctx context.Context, token string, role Role) error {
	if role != RoleTeacher && role != RoleStudent {
		return fmt.Errorf("%w: unknown role %q", common.ErrInternal, role)
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.AccessTokenKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, common.RoleKey, []byte(role))
	})
	if err != nil {
		return fmt.Errorf("failed to persist auth state: %w", err)
	}

	s.apply(Session{Token: token, Role: role})
	return nil
}

// Logout clears both durable keys and the in-memory state, then triggers
// the landing-surface redirect hook.
func (s *State) Logout(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, common.AccessTokenKey); err != nil {
			return err
		}
		return repo.Delete(ctx, common.RoleKey)
	})
	if err != nil {
		return fmt.Errorf("failed to clear auth state: %w", err)
	}

	s.apply(Session{})
	if s.onLogout != nil {
		s.onLogout()
	}
	return nil
}

// Reload re-reads the persisted session and applies it. This is the entry
// point for external storage-change notifications; it never triggers
// navigation.
func (s *State) Reload(ctx context.Context) error {
	sess, err := s.read(ctx)
	if err != nil {
		return err
	}

	s.mu.RLock()
	same := sess == s.session
	s.mu.RUnlock()
	if same {
		return nil
	}

	s.log.Info(ctx, "auth state changed externally", "role", sess.Role)
	s.apply(sess)
	return nil
}

// apply is the single update path shared by Login, Logout and Reload.
func (s *State) apply(sess Session) {
	s.mu.Lock()
	s.session = sess
	subs := s.subs
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- sess:
		default:
		}
	}
}

// Session returns the current identity.
func (s *State) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// AccessToken implements api.TokenSource.
func (s *State) AccessToken() string {
	return s.Session().Token
}

func (s *State) IsTeacher() bool { return s.Session().Role == RoleTeacher }

func (s *State) IsStudent() bool { return s.Session().Role == RoleStudent }

func (s *State) Authenticated() bool { return s.Session().Token != "" }

// Subscribe returns a channel receiving every applied session change.
// Slow consumers miss intermediate values rather than blocking writers.
func (s *State) Subscribe() <-chan Session {
	ch := make(chan Session, 1)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}
