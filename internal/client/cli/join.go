package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/classpulse/classpulse/internal/client/api"
	"github.com/classpulse/classpulse/internal/client/identity"
	"github.com/classpulse/classpulse/internal/client/repositories/checkins"
	"github.com/classpulse/classpulse/internal/client/session"
	"github.com/classpulse/classpulse/internal/client/token"
)

// joinHint carries the guest-entry navigation state into a session run. A
// nil hint means a plain join: identity is resolved from auth state and any
// stored guest identity alone.
type joinHint struct {
	guestName  string
	forceGuest bool
}

// Join checks in to a session. The argument is either a join token typed by
// hand (used verbatim after trimming) or a pasted link, which is resolved to
// its embedded token first.
func (a *App) Join(ctx context.Context, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		var err error
		raw, err = getSimpleText(a.reader, "Enter join token or paste a link", os.Stdout)
		if err != nil {
			return err
		}
	}

	joinToken := raw
	if strings.Contains(raw, "://") {
		tok, ok := token.Resolve(raw)
		if !ok {
			tok, ok = token.FromShareURL(raw)
		}
		if !ok {
			printlnFn("Could not find a join token in that link.")
			return nil
		}
		joinToken = tok
	}
	if joinToken == "" {
		printlnFn("A join token is required.")
		return nil
	}

	return a.runSession(ctx, joinToken, nil)
}

// Scan accepts a pasted QR payload and checks in with the token it carries.
// An unreadable payload is reported inline; the user stays where they are.
func (a *App) Scan(ctx context.Context) error {
	payload, err := getSimpleText(a.reader, "Paste the scanned QR payload", os.Stdout)
	if err != nil {
		return err
	}
	tok, ok := token.Resolve(payload)
	if !ok {
		printlnFn("Unable to read a join token from that QR code.")
		return nil
	}
	return a.runSession(ctx, tok, nil)
}

// Guest checks in as a guest regardless of login state. An authenticated
// student is sent through the normal join instead, since their account
// identity already covers them.
func (a *App) Guest(ctx context.Context) error {
	tok, err := getSimpleText(a.reader, "Enter join token", os.Stdout)
	if err != nil {
		return err
	}
	tok = strings.TrimSpace(tok)
	if tok == "" {
		printlnFn("A join token is required.")
		return nil
	}

	if a.auth.Authenticated() && a.auth.IsStudent() {
		return a.runSession(ctx, tok, nil)
	}

	name, err := getSimpleText(a.reader, "Your name (so the teacher can identify you)", os.Stdout)
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		printlnFn("A name is required to join as a guest.")
		return nil
	}

	return a.runSession(ctx, tok, &joinHint{guestName: name, forceGuest: true})
}

// runSession drives one check-in from load to result: resolve identity,
// fetch the session, collect the form, submit, record history and show the
// recommendation. Closed and missing sessions are reported and the user is
// returned to the prompt.
func (a *App) runSession(ctx context.Context, joinToken string, hint *joinHint) error {
	stored, err := a.guests.Load(ctx, joinToken)
	if err != nil {
		a.log.Warn(ctx, "failed to load stored guest identity", "error", err)
		stored = nil
	}

	in := identity.Inputs{
		Authenticated: a.auth.Authenticated(),
		StudentRole:   a.auth.IsStudent(),
		Persisted:     stored,
	}
	if hint != nil {
		in.ForceGuest = hint.forceGuest
		in.HintName = hint.guestName
	}
	mode := identity.Resolve(in)

	j := session.NewJoin(a.api, a.guests, a.log, joinToken, mode)
	if err := j.Load(ctx); err != nil {
		if errors.Is(err, session.ErrSessionClosed) {
			printlnFn("This session is closed. New check-ins are no longer accepted.")
			return nil
		}
		printlnFn("Could not load this session:", api.MessageOf(err))
		return nil
	}

	snap := j.Snapshot()
	printlnFn(fmt.Sprintf("=== %s ===", snap.CourseTitle))

	if mode.Kind == identity.AuthenticatedStudent {
		if profile, err := a.api.GetStudentProfile(ctx); err == nil {
			printlnFn("Checking in as", profile.FullName)
		}
	}

	form, err := a.collectForm(j)
	if err != nil {
		return err
	}

	for {
		result, err := j.Submit(ctx, *form)
		if err != nil {
			if errors.Is(err, session.ErrSessionClosed) {
				printlnFn("This session is closed. New check-ins are no longer accepted.")
				return nil
			}
			if errors.Is(err, session.ErrMissingFields) {
				printlnFn("Missing answers:", strings.Join(j.MissingFields(*form), ", "))
				return nil
			}
			printlnFn("Could not submit your check-in:", api.MessageOf(err))
			if !confirmFn(a.reader, "Try again with the same answers?", os.Stdout) {
				return nil
			}
			continue
		}

		a.recordCheckin(ctx, j, result)
		return a.showResult(ctx, j, result)
	}
}

// collectForm walks the user through the check-in form: mood, guest name
// when a new guest, and the survey questions in their served order.
func (a *App) collectForm(j *session.Join) (*session.Form, error) {
	snap := j.Snapshot()
	form := &session.Form{Answers: map[string]string{}}

	schema := snap.MoodCheckSchema
	idx, err := getChoice(a.reader, schema.Prompt, schema.Options, true, os.Stdout)
	if err != nil {
		return nil, err
	}
	form.Mood = schema.Options[idx]

	switch j.Mode().Kind {
	case identity.GuestNew:
		name := j.Mode().GuestName
		if name == "" {
			for {
				name, err = getSimpleText(a.reader, "Your name (so the teacher can identify you)", os.Stdout)
				if err != nil {
					return nil, err
				}
				if strings.TrimSpace(name) != "" {
					break
				}
				printlnFn("A name is required.")
			}
		}
		form.StudentName = name
	case identity.GuestReturning:
		printlnFn("Welcome back,", j.Mode().GuestName)
	}

	if snap.Survey != nil {
		printlnFn(snap.Survey.Title)
		for _, q := range snap.Survey.Questions {
			texts := make([]string, len(q.Options))
			for i, opt := range q.Options {
				texts[i] = opt.Text
			}
			idx, err := getChoice(a.reader, q.Text, texts, snap.RequireSurvey, os.Stdout)
			if err != nil {
				return nil, err
			}
			if idx >= 0 {
				form.Answers[q.QuestionID] = q.Options[idx].OptionID
			}
		}
	}

	return form, nil
}

// recordCheckin appends the submission to the local history. History is a
// convenience; a write failure never disturbs the check-in itself.
func (a *App) recordCheckin(ctx context.Context, j *session.Join, result *api.SubmitResult) {
	rec := &checkins.Record{
		ID:            uuid.NewString(),
		JoinToken:     j.Token(),
		CourseTitle:   j.Snapshot().CourseTitle,
		Mood:          result.Mood,
		ActivityName:  result.RecommendedActivity.Activity.Name,
		LearningStyle: result.LearningStyle,
		CreatedAt:     time.Now(),
	}
	if err := a.history.Add(ctx, rec); err != nil {
		a.log.Warn(ctx, "failed to record check-in history", "error", err)
	}
}

// showResult prints the recommendation and offers a retake. The result view
// is only reachable with a fresh submission in hand; a retake re-enters the
// same session carrying the confirmed guest identity so the server updates
// the earlier submission instead of minting a new guest.
func (a *App) showResult(ctx context.Context, j *session.Join, result *api.SubmitResult) error {
	activity := result.RecommendedActivity.Activity
	printlnFn("")
	printlnFn("Recommended activity:", activity.Name)
	if activity.Summary != "" {
		printlnFn(activity.Summary)
	}
	if activity.Type != "" {
		printlnFn("Type:", activity.Type)
	}
	printlnFn("Mood:", result.Mood)
	if result.LearningStyle != "" {
		printlnFn("Learning style:", result.LearningStyle)
	}
	if result.IsBaselineUpdate {
		printlnFn("Your learning profile baseline was updated.")
	}
	if result.Message != "" {
		printlnFn(result.Message)
	}

	if !confirmFn(a.reader, "Retake this check-in?", os.Stdout) {
		return nil
	}

	if j.Mode().Kind == identity.AuthenticatedStudent {
		return a.runSession(ctx, j.Token(), nil)
	}
	hint := &joinHint{forceGuest: true}
	if g := j.GuestIdentity(); g != nil {
		hint.guestName = g.GuestName
	}
	return a.runSession(ctx, j.Token(), hint)
}
