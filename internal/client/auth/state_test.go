package auth

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classpulse/classpulse/internal/client/repositories/metadata"
	"github.com/classpulse/classpulse/internal/common"
	"github.com/classpulse/classpulse/internal/logging"

	_ "modernc.org/sqlite"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)
	return db
}

func TestLogin_PersistsBothKeys(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	s, err := NewState(ctx, db, discardLogger(), nil)
	require.NoError(t, err)

	require.NoError(t, s.Login(ctx, "tok-1", RoleStudent))

	assert.Equal(t, Session{Token: "tok-1", Role: RoleStudent}, s.Session())
	assert.True(t, s.IsStudent())
	assert.False(t, s.IsTeacher())
	assert.Equal(t, "tok-1", s.AccessToken())

	repo := metadata.NewSQLiteRepository(db)
	tok, err := repo.Get(ctx, common.AccessTokenKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("tok-1"), tok)
	role, err := repo.Get(ctx, common.RoleKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("student"), role)
}

func TestLogin_RejectsUnknownRole(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	s, err := NewState(ctx, db, discardLogger(), nil)
	require.NoError(t, err)

	require.Error(t, s.Login(ctx, "tok-1", Role("admin")))
	assert.Equal(t, Session{}, s.Session(), "failed login must not touch state")
}

func TestLogout_ClearsAndNavigates(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	var navigated bool
	s, err := NewState(ctx, db, discardLogger(), func() { navigated = true })
	require.NoError(t, err)
	require.NoError(t, s.Login(ctx, "tok-1", RoleTeacher))

	require.NoError(t, s.Logout(ctx))

	assert.True(t, navigated)
	assert.Equal(t, Session{}, s.Session())

	repo := metadata.NewSQLiteRepository(db)
	tok, err := repo.Get(ctx, common.AccessTokenKey)
	require.NoError(t, err)
	assert.Nil(t, tok)
}

func TestReload_AppliesExternalChangeWithoutNavigation(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	var navigated bool
	s, err := NewState(ctx, db, discardLogger(), func() { navigated = true })
	require.NoError(t, err)
	require.NoError(t, s.Login(ctx, "tok-1", RoleStudent))
	navigated = false

	// simulate another process clearing the keys
	repo := metadata.NewSQLiteRepository(db)
	require.NoError(t, repo.Delete(ctx, common.AccessTokenKey))
	require.NoError(t, repo.Delete(ctx, common.RoleKey))

	sub := s.Subscribe()
	require.NoError(t, s.Reload(ctx))

	assert.Equal(t, Session{}, s.Session())
	assert.False(t, navigated, "observing another process's change must not navigate")

	select {
	case got := <-sub:
		assert.Equal(t, Session{}, got)
	default:
		t.Fatal("expected a session update on the subscription channel")
	}
}

func TestNewState_MalformedRoleFailsOpen(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	repo := metadata.NewSQLiteRepository(db)
	require.NoError(t, repo.Set(ctx, common.AccessTokenKey, []byte("opaque-token")))
	require.NoError(t, repo.Set(ctx, common.RoleKey, []byte("superuser")))

	s, err := NewState(ctx, db, discardLogger(), nil)
	require.NoError(t, err)

	assert.Equal(t, RoleNone, s.Session().Role)
	assert.False(t, s.IsTeacher())
	assert.False(t, s.IsStudent())
}

func TestNewState_RoleRecoveredFromTokenClaims(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "u-1",
		"role": "teacher",
	}).SignedString([]byte("test-key"))
	require.NoError(t, err)

	repo := metadata.NewSQLiteRepository(db)
	require.NoError(t, repo.Set(ctx, common.AccessTokenKey, []byte(token)))

	s, err := NewState(ctx, db, discardLogger(), nil)
	require.NoError(t, err)

	assert.Equal(t, RoleTeacher, s.Session().Role)
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleTeacher, ParseRole("teacher"))
	assert.Equal(t, RoleStudent, ParseRole("student"))
	assert.Equal(t, RoleNone, ParseRole(""))
	assert.Equal(t, RoleNone, ParseRole("Teacher"))
	assert.Equal(t, RoleNone, ParseRole("garbage"))
}

func TestRoleFromToken_Malformed(t *testing.T) {
	assert.Equal(t, RoleNone, roleFromToken("not-a-jwt"))
}
