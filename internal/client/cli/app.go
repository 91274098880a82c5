package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/classpulse/classpulse/internal/client/api"
	"github.com/classpulse/classpulse/internal/client/auth"
	"github.com/classpulse/classpulse/internal/client/config"
	"github.com/classpulse/classpulse/internal/client/guest"
	"github.com/classpulse/classpulse/internal/client/repositories/checkins"
	"github.com/classpulse/classpulse/internal/client/repositories/metadata"
	"github.com/classpulse/classpulse/internal/client/storage"
	"github.com/classpulse/classpulse/internal/logging"
)

// App wires the ClassPulse client together: durable storage for auth state
// and check-in history, an ephemeral store for guest identities, and the
// HTTP client that talks to the backend.
type App struct {
	config  *config.Config
	api     api.Client
	auth    *auth.State
	guests  guest.Store
	history checkins.Repository
	log     logging.Logger
	reader  *bufio.Reader

	db        *sql.DB
	sessionDB *sql.DB
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sessionDB, err := storage.OpenEphemeral(ctx, cfg.SessionDatabasePath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("opening session database: %w", err)
	}

	a := &App{
		config:    cfg,
		guests:    guest.NewKVStore(metadata.NewSQLiteRepository(sessionDB)),
		history:   checkins.NewSQLiteRepository(db),
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
		db:        db,
		sessionDB: sessionDB,
	}

	state, err := auth.NewState(ctx, db, log, a.showLanding)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("loading auth state: %w", err)
	}
	a.auth = state
	a.api = api.NewHTTPClient(cfg.ServerBaseURL, state, nil)

	return a, nil
}

// Run starts the credential watcher and the interactive loop. It blocks
// until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if err := auth.WatchStorage(ctx, a.auth, a.config.DatabasePath, a.log); err != nil {
		a.log.Warn(ctx, "credential watcher disabled", "error", err)
	}

	a.showLanding()
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

func (a *App) Close() {
	if a.sessionDB != nil {
		a.sessionDB.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

func (a *App) isAuthenticated() bool { return a.auth.Authenticated() }
func (a *App) isTeacher() bool       { return a.auth.IsTeacher() }

func (a *App) status() string {
	s := a.auth.Session()
	if s.Token == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", s.Role)
}

func (a *App) showLanding() {
	printlnFn("Welcome to ClassPulse CLI (type 'join <token>' to check in, or 'help' for commands)")
}
