package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/classpulse/classpulse/internal/client/api"
	"github.com/classpulse/classpulse/internal/client/lifecycle"
)

// Watch follows a session dashboard, re-rendering on every poll until the
// session closes or the user presses Enter. Typing "close" inside the watch
// closes the session after confirmation.
func (a *App) Watch(ctx context.Context, sessionID string) error {
	w := lifecycle.NewWatcher(a.api, a.log, sessionID, a.config.DashboardPollInterval)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Run(watchCtx, a.renderUpdate)
	}()

	// input runs on its own goroutine so the loop below can react to the
	// watcher observing closure without waiting for a keystroke
	lines := make(chan string)
	go func() {
		defer close(lines)
		for {
			line, err := a.reader.ReadString('\n')
			if err != nil {
				return
			}
			select {
			case lines <- strings.TrimSpace(line):
			case <-done:
				return
			}
		}
	}()

	printlnFn("Watching session. Press Enter to stop, or type 'close' to close it.")
	for {
		select {
		case <-done:
			if w.Closed() {
				printlnFn("Session is closed.")
			}
			return nil

		case line, ok := <-lines:
			if !ok {
				cancel()
				<-done
				return nil
			}
			switch line {
			case "close":
				if err := a.closeWatched(ctx, w); err == nil {
					cancel()
					<-done
					printlnFn("Session is closed.")
					return nil
				}
			case "":
				cancel()
				<-done
				return nil
			default:
				printlnFn("Press Enter to stop, or type 'close' to close the session.")
			}
		}
	}
}

// CloseSession closes a session from the command line without entering a
// watch. The current state is fetched first: closing an already-closed
// session is refused locally, no request is sent.
func (a *App) CloseSession(ctx context.Context, sessionID string) error {
	w := lifecycle.NewWatcher(a.api, a.log, sessionID, a.config.DashboardPollInterval)

	update := w.Refresh(ctx)
	if update.Err != nil {
		printlnFn("Could not load the session:", api.MessageOf(update.Err))
		return update.Err
	}
	a.renderUpdate(update)

	if err := a.closeWatched(ctx, w); err != nil {
		return err
	}
	a.renderUpdate(w.Refresh(ctx))
	return nil
}

func (a *App) closeWatched(ctx context.Context, w *lifecycle.Watcher) error {
	err := w.Close(ctx, func(prompt string) bool {
		return confirmFn(a.reader, prompt, os.Stdout)
	})
	switch {
	case errors.Is(err, lifecycle.ErrAlreadyClosed):
		printlnFn("Session is already closed.")
	case errors.Is(err, lifecycle.ErrCloseCancelled):
		printlnFn("Close cancelled.")
	case errors.Is(err, lifecycle.ErrCloseInFlight):
		printlnFn("A close request is already running.")
	case err != nil:
		printlnFn("Could not close the session:", api.MessageOf(err))
		printlnFn("The session remains open.")
	default:
		printlnFn("Session closed. New check-ins are no longer accepted.")
	}
	return err
}

// renderUpdate prints one dashboard snapshot. Poll errors are reported
// without clearing the last good view.
func (a *App) renderUpdate(u lifecycle.Update) {
	if u.Err != nil {
		printlnFn("Refresh failed:", api.MessageOf(u.Err))
		return
	}
	if u.Dashboard == nil {
		return
	}

	status := "open"
	if u.Meta != nil && u.Meta.Closed() {
		status = "closed"
	}
	printlnFn(fmt.Sprintf("%s — %d check-ins [%s]", u.Dashboard.CourseTitle, u.Dashboard.SubmissionCount, status))

	if len(u.Dashboard.MoodBreakdown) > 0 {
		moods := make([]string, 0, len(u.Dashboard.MoodBreakdown))
		for mood := range u.Dashboard.MoodBreakdown {
			moods = append(moods, mood)
		}
		sort.Strings(moods)
		parts := make([]string, 0, len(moods))
		for _, mood := range moods {
			parts = append(parts, fmt.Sprintf("%s: %d", mood, u.Dashboard.MoodBreakdown[mood]))
		}
		printlnFn("  " + strings.Join(parts, ", "))
	}

	for _, s := range u.Submissions {
		name := s.StudentName
		if s.IsGuest {
			name += " (guest)"
		}
		printlnFn(fmt.Sprintf("  %s  %-10s %s", s.SubmittedAt.Local().Format("15:04"), s.Mood, name))
	}
}
