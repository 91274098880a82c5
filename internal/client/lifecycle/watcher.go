// Package lifecycle keeps a teacher's view of a running session fresh and
// owns the one-way OPEN to CLOSED transition.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/classpulse/classpulse/internal/client/api"
	"github.com/classpulse/classpulse/internal/logging"
)

var (
	// ErrAlreadyClosed means the session is closed; the close action is
	// disabled and no request is sent.
	ErrAlreadyClosed = errors.New("session already closed")

	// ErrCloseInFlight means a close request is already running.
	ErrCloseInFlight = errors.New("close already in flight")

	// ErrCloseCancelled means the user declined the confirmation prompt.
	ErrCloseCancelled = errors.New("close cancelled")
)

// Update is one fresh view of the watched session. Err reports a failed
// refresh; the watcher keeps polling after errors while the session is open.
type Update struct {
	Dashboard   *api.SessionDashboard
	Submissions []api.Submission
	Meta        *api.SessionMeta
	Err         error
}

// Watcher polls the dashboard of one session on a fixed interval while it
// is open, approximating real time without a push channel. Once the session
// reports closedAt, no further poll is scheduled.
type Watcher struct {
	api       api.Client
	log       logging.Logger
	sessionID string
	interval  time.Duration

	mu      sync.Mutex
	closed  bool
	closing bool
}

func NewWatcher(apiClient api.Client, log logging.Logger, sessionID string, interval time.Duration) *Watcher {
	return &Watcher{
		api:       apiClient,
		log:       log.With("session_id", sessionID),
		sessionID: sessionID,
		interval:  interval,
	}
}

// Closed reports whether the session has been observed (or confirmed) as
// closed. The flag is a one-way latch; nothing ever clears it.
func (w *Watcher) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

func (w *Watcher) markClosed() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

// Refresh fetches one fresh view of the session: dashboard, submission list
// and listing metadata. Observing a set closedAt latches the watcher closed.
func (w *Watcher) Refresh(ctx context.Context) Update {
	dashboard, err := w.api.GetSessionDashboard(ctx, w.sessionID)
	if err != nil {
		return Update{Err: fmt.Errorf("failed to refresh dashboard: %w", err)}
	}

	submissions, err := w.api.GetSessionSubmissions(ctx, w.sessionID)
	if err != nil {
		return Update{Dashboard: dashboard, Err: fmt.Errorf("failed to refresh submissions: %w", err)}
	}

	update := Update{Dashboard: dashboard, Submissions: submissions}

	sessions, err := w.api.ListCourseSessions(ctx, dashboard.CourseID)
	if err != nil {
		update.Err = fmt.Errorf("failed to refresh session list: %w", err)
		return update
	}
	for i := range sessions {
		if sessions[i].SessionID == w.sessionID {
			update.Meta = &sessions[i]
			break
		}
	}

	if update.Meta.Closed() {
		w.markClosed()
	}
	return update
}

// Run refreshes immediately and then on every interval tick, feeding each
// view to sink. It returns when the session closes or ctx is cancelled;
// either way the timer is released and no invalidation fires afterwards.
func (w *Watcher) Run(ctx context.Context, sink func(Update)) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	sink(w.Refresh(ctx))
	if w.Closed() {
		return
	}

	for {
		select {
		case <-ticker.C:
			sink(w.Refresh(ctx))
			if w.Closed() {
				w.log.Debug(ctx, "session closed, polling stopped")
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// Close performs the confirmed, one-shot OPEN to CLOSED transition.
//
// The action is refused while the session is already closed or another
// close is in flight. A failed request leaves the session considered open;
// nothing is toggled optimistically, the latch reflects confirmed server
// state only.
func (w *Watcher) Close(ctx context.Context, confirm func(prompt string) bool) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrAlreadyClosed
	}
	if w.closing {
		w.mu.Unlock()
		return ErrCloseInFlight
	}
	w.closing = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.closing = false
		w.mu.Unlock()
	}()

	if confirm != nil && !confirm("Closing the session will stop new submissions. Are you sure you want to proceed?") {
		return ErrCloseCancelled
	}

	if err := w.api.CloseSession(ctx, w.sessionID); err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}

	w.markClosed()
	w.log.Info(ctx, "session closed")
	return nil
}
