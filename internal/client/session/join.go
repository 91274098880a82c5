// Package session drives one join attempt from snapshot load through
// submission. The Join state machine is the only coordination mechanism:
// every network call is a discrete suspension point and the caller observes
// state between them.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/classpulse/classpulse/internal/client/api"
	"github.com/classpulse/classpulse/internal/client/guest"
	"github.com/classpulse/classpulse/internal/client/identity"
	"github.com/classpulse/classpulse/internal/logging"
)

// State of one join attempt.
//
//	Loading → Ready → Submitting → Submitted
//	Loading → Failed                 (snapshot fetch failed; terminal)
//	Loading → Closed                 (snapshot not OPEN; absorbing)
//	Submitting → Ready               (submission failed; retryable)
type State string

const (
	StateLoading    State = "loading"
	StateReady      State = "ready"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
	StateClosed     State = "closed"
	StateFailed     State = "failed"
)

var (
	// ErrSessionClosed marks a session whose snapshot reports a non-OPEN
	// status. Distinct from a bad token: the token format was fine, the
	// session itself is unusable.
	ErrSessionClosed = errors.New("session is closed")

	// ErrNotReady is returned when Submit is called outside the Ready state.
	ErrNotReady = errors.New("not ready to submit")

	// ErrMissingFields is returned when required fields are absent; the
	// payload is never sent in that case.
	ErrMissingFields = errors.New("required fields missing")
)

// Form is the user's in-progress input. It is owned by the caller; the
// payload is rebuilt from it on every submit attempt, nothing is cached
// between attempts.
type Form struct {
	Mood        string
	StudentName string
	Answers     map[string]string
}

// Join is one join attempt for one token under one resolved identity.
// It is used from a single goroutine.
type Join struct {
	api    api.Client
	guests guest.Store
	log    logging.Logger

	token string
	mode  identity.Mode

	state    State
	snapshot *api.SessionSnapshot
	saved    *guest.Identity
	lastErr  error
}

func NewJoin(apiClient api.Client, guests guest.Store, log logging.Logger, token string, mode identity.Mode) *Join {
	return &Join{
		api:    apiClient,
		guests: guests,
		log:    log.With("token", token, "identity", mode.Kind.String()),
		token:  token,
		mode:   mode,
		state:  StateLoading,
	}
}

func (j *Join) State() State                   { return j.state }
func (j *Join) Token() string                  { return j.token }
func (j *Join) Mode() identity.Mode            { return j.mode }
func (j *Join) Snapshot() *api.SessionSnapshot { return j.snapshot }
func (j *Join) Err() error                     { return j.lastErr }

// GuestIdentity returns the identity persisted by the last successful
// submission, if any. It carries enough context for a retake to re-enter
// Ready without the guest re-entering their name.
func (j *Join) GuestIdentity() *guest.Identity { return j.saved }

// Load fetches the session snapshot and moves to Ready. A fetch failure is
// terminal for this attempt; a bad or expired token is not silently retried.
// A snapshot with a non-OPEN status moves to the absorbing Closed state.
func (j *Join) Load(ctx context.Context) error {
	if j.state != StateLoading {
		return fmt.Errorf("load from state %q", j.state)
	}

	snap, err := j.api.GetJoinSession(ctx, j.token)
	if err != nil {
		j.state = StateFailed
		j.lastErr = err
		return fmt.Errorf("failed to load session: %w", err)
	}

	j.snapshot = snap
	if snap.Status != api.SessionOpen {
		j.state = StateClosed
		j.lastErr = ErrSessionClosed
		return ErrSessionClosed
	}

	j.log.Debug(ctx, "session loaded", "course", snap.CourseTitle, "require_survey", snap.RequireSurvey)
	j.state = StateReady
	return nil
}

// MissingFields lists the required fields absent from form, in display
// order: mood first, then the participant name for an unconfirmed guest,
// then unanswered survey questions in snapshot order. Returning guests and
// authenticated students never require the name field; it is already known.
func (j *Join) MissingFields(form Form) []string {
	var missing []string

	if strings.TrimSpace(form.Mood) == "" {
		missing = append(missing, "mood")
	}

	if j.mode.Kind == identity.GuestNew && strings.TrimSpace(form.StudentName) == "" {
		missing = append(missing, "name")
	}

	if j.snapshot != nil && j.snapshot.RequireSurvey && j.snapshot.Survey != nil {
		for _, q := range j.snapshot.Survey.Questions {
			if strings.TrimSpace(form.Answers[q.QuestionID]) == "" {
				missing = append(missing, q.QuestionID)
			}
		}
	}
	return missing
}

// buildPayload frames the submission for the resolved identity class.
func (j *Join) buildPayload(form Form) *api.CheckinPayload {
	payload := &api.CheckinPayload{Mood: form.Mood}
	if len(form.Answers) > 0 {
		payload.Answers = form.Answers
	}

	switch j.mode.Kind {
	case identity.AuthenticatedStudent:
		payload.IsGuest = false
	case identity.GuestReturning:
		payload.IsGuest = true
		payload.StudentName = strings.TrimSpace(j.mode.GuestName)
		payload.GuestID = j.mode.GuestID
	case identity.GuestNew:
		payload.IsGuest = true
		payload.StudentName = strings.TrimSpace(form.StudentName)
	}
	return payload
}

// Submit validates form, sends the check-in, and persists any returned
// guest id before reporting success. On a submission error the attempt
// returns to Ready with the error surfaced; the caller may retry and the
// payload is rebuilt from the current form state.
func (j *Join) Submit(ctx context.Context, form Form) (*api.SubmitResult, error) {
	if j.state != StateReady {
		return nil, fmt.Errorf("%w: state %q", ErrNotReady, j.state)
	}

	if missing := j.MissingFields(form); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingFields, strings.Join(missing, ", "))
	}

	payload := j.buildPayload(form)

	j.state = StateSubmitting
	result, err := j.api.SubmitJoinSession(ctx, j.token, payload)
	if err != nil {
		j.state = StateReady
		j.lastErr = err
		return nil, fmt.Errorf("failed to submit check-in: %w", err)
	}

	if result.GuestID != nil {
		saved := guest.Identity{GuestID: result.GuestID, GuestName: payload.StudentName}
		if err := j.guests.Save(ctx, j.token, saved); err != nil {
			// the submission was accepted; a failed save only costs the
			// user a name re-entry on retake
			j.log.Warn(ctx, "failed to persist guest identity", "error", err)
		} else {
			j.saved = &saved
		}
	}

	j.state = StateSubmitted
	j.lastErr = nil
	return result, nil
}
