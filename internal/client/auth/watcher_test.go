package auth

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/classpulse/classpulse/internal/client/repositories/metadata"
	"github.com/classpulse/classpulse/internal/common"
)

func openFileDB(t *testing.T, dsn string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)
	return db
}

func TestWatchStorage_ReloadsOnExternalWrite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "auth.db")
	db := openFileDB(t, dbPath)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s, err := NewState(ctx, db, discardLogger(), nil)
	require.NoError(t, err)
	require.Equal(t, Session{}, s.Session())

	require.NoError(t, WatchStorage(ctx, s, dbPath, discardLogger()))

	// a second connection plays the other process writing credentials
	other := openFileDB(t, dbPath)
	repo := metadata.NewSQLiteRepository(other)
	require.NoError(t, repo.Set(context.Background(), common.AccessTokenKey, []byte("tok-ext")))
	require.NoError(t, repo.Set(context.Background(), common.RoleKey, []byte("teacher")))

	want := Session{Token: "tok-ext", Role: RoleTeacher}
	require.Eventually(t, func() bool {
		return s.Session() == want
	}, 5*time.Second, 20*time.Millisecond, "watcher must reload externally written credentials")
}

func TestWatchStorage_ObservesWalSiblingWrites(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "auth.db")
	// journal_mode=wal routes writes through auth.db-wal; the watcher must
	// treat those sibling files as changes to the database itself
	db := openFileDB(t, "file:"+dbPath+"?_pragma=journal_mode(wal)")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	s, err := NewState(ctx, db, discardLogger(), nil)
	require.NoError(t, err)
	require.NoError(t, WatchStorage(ctx, s, dbPath, discardLogger()))

	other := openFileDB(t, "file:"+dbPath+"?_pragma=journal_mode(wal)")
	repo := metadata.NewSQLiteRepository(other)
	require.NoError(t, repo.Set(context.Background(), common.AccessTokenKey, []byte("tok-wal")))
	require.NoError(t, repo.Set(context.Background(), common.RoleKey, []byte("student")))

	want := Session{Token: "tok-wal", Role: RoleStudent}
	require.Eventually(t, func() bool {
		return s.Session() == want
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatchStorage_StopsOnContextCancel(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "auth.db")
	db := openFileDB(t, dbPath)

	ctx, cancel := context.WithCancel(context.Background())

	s, err := NewState(ctx, db, discardLogger(), nil)
	require.NoError(t, err)
	require.NoError(t, WatchStorage(ctx, s, dbPath, discardLogger()))

	cancel()
	time.Sleep(50 * time.Millisecond)

	other := openFileDB(t, dbPath)
	repo := metadata.NewSQLiteRepository(other)
	require.NoError(t, repo.Set(context.Background(), common.AccessTokenKey, []byte("tok-late")))

	time.Sleep(200 * time.Millisecond)
	require.Equal(t, Session{}, s.Session(), "a cancelled watcher must not reload")
}
