package cli

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classpulse/classpulse/internal/client/api"
	"github.com/classpulse/classpulse/internal/client/auth"
	"github.com/classpulse/classpulse/internal/client/config"
	"github.com/classpulse/classpulse/internal/client/guest"
	"github.com/classpulse/classpulse/internal/client/repositories/checkins"
	"github.com/classpulse/classpulse/internal/client/storage"
	"github.com/classpulse/classpulse/internal/logging"
)

// fakeAPI implements the slice of api.Client the commands exercise.
// Unimplemented methods panic via the embedded interface.
type fakeAPI struct {
	api.Client

	snapshot  *api.SessionSnapshot
	loadErr   error
	result    *api.SubmitResult
	submitErr error
	login     *api.LoginResult
	loginErr  error
	profile   *api.StudentProfile

	dashboard   *api.SessionDashboard
	submissions []api.Submission
	sessions    []api.SessionMeta

	requestedToken string
	submitted      []*api.CheckinPayload
}

func (f *fakeAPI) GetJoinSession(ctx context.Context, token string) (*api.SessionSnapshot, error) {
	f.requestedToken = token
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.snapshot, nil
}

func (f *fakeAPI) SubmitJoinSession(ctx context.Context, token string, payload *api.CheckinPayload) (*api.SubmitResult, error) {
	f.submitted = append(f.submitted, payload)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.result, nil
}

func (f *fakeAPI) Login(ctx context.Context, email string, password []byte) (*api.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.login, nil
}

func (f *fakeAPI) GetStudentProfile(ctx context.Context) (*api.StudentProfile, error) {
	return f.profile, nil
}

func (f *fakeAPI) GetSessionDashboard(ctx context.Context, sessionID string) (*api.SessionDashboard, error) {
	return f.dashboard, nil
}

func (f *fakeAPI) GetSessionSubmissions(ctx context.Context, sessionID string) ([]api.Submission, error) {
	return f.submissions, nil
}

func (f *fakeAPI) ListCourseSessions(ctx context.Context, courseID string) ([]api.SessionMeta, error) {
	return f.sessions, nil
}

func openSnapshot() *api.SessionSnapshot {
	return &api.SessionSnapshot{
		CourseTitle: "Algebra II",
		Status:      api.SessionOpen,
		MoodCheckSchema: api.MoodCheckSchema{
			Prompt:  "How are you feeling?",
			Options: []string{"Happy", "Tired", "Stressed"},
		},
	}
}

func newTestApp(t *testing.T, apiClient api.Client) *App {
	t.Helper()
	ctx := context.Background()

	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	state, err := auth.NewState(ctx, db, log, func() {})
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.LoadDefaults()

	return &App{
		config:  cfg,
		api:     apiClient,
		auth:    state,
		guests:  guest.NewMemoryStore(),
		history: checkins.NewSQLiteRepository(db),
		log:     log,
		reader:  bufio.NewReader(strings.NewReader("")),
		db:      db,
	}
}

// scriptText queues answers for getSimpleText, consumed in order.
func scriptText(t *testing.T, answers ...string) {
	t.Helper()
	orig := getSimpleText
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		require.NotEmpty(t, answers, "unexpected text prompt")
		next := answers[0]
		answers = answers[1:]
		return next, nil
	}
	t.Cleanup(func() { getSimpleText = orig })
}

// scriptChoices queues answers for getChoice, consumed in order.
func scriptChoices(t *testing.T, picks ...int) {
	t.Helper()
	orig := getChoice
	getChoice = func(_ *bufio.Reader, _ string, _ []string, _ bool, _ io.Writer) (int, error) {
		require.NotEmpty(t, picks, "unexpected choice prompt")
		next := picks[0]
		picks = picks[1:]
		return next, nil
	}
	t.Cleanup(func() { getChoice = orig })
}

// scriptConfirm queues answers for confirmFn, consumed in order.
func scriptConfirm(t *testing.T, answers ...bool) {
	t.Helper()
	orig := confirmFn
	confirmFn = func(_ *bufio.Reader, _ string, _ io.Writer) bool {
		require.NotEmpty(t, answers, "unexpected confirmation prompt")
		next := answers[0]
		answers = answers[1:]
		return next
	}
	t.Cleanup(func() { confirmFn = orig })
}

func TestJoin_GuestCheckinRecordsHistoryAndIdentity(t *testing.T) {
	silencePrintln(t)
	guestID := "g-77"
	fake := &fakeAPI{
		snapshot: openSnapshot(),
		result: &api.SubmitResult{
			GuestID:             &guestID,
			Mood:                "Happy",
			RecommendedActivity: api.RecommendedActivity{Activity: api.Activity{Name: "Group puzzle"}},
		},
	}
	app := newTestApp(t, fake)

	scriptChoices(t, 0)
	scriptText(t, "Ana")
	scriptConfirm(t, false) // no retake

	require.NoError(t, app.Join(context.Background(), "tok-1"))

	require.Len(t, fake.submitted, 1)
	payload := fake.submitted[0]
	assert.True(t, payload.IsGuest)
	assert.Equal(t, "Ana", payload.StudentName)
	assert.Nil(t, payload.GuestID)

	stored, err := app.guests.Load(context.Background(), "tok-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "g-77", *stored.GuestID)
	assert.Equal(t, "Ana", stored.GuestName)

	records, err := app.history.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Algebra II", records[0].CourseTitle)
	assert.Equal(t, "Group puzzle", records[0].ActivityName)
}

func TestJoin_RetakeCarriesGuestIdentity(t *testing.T) {
	silencePrintln(t)
	guestID := "g-77"
	fake := &fakeAPI{
		snapshot: openSnapshot(),
		result: &api.SubmitResult{
			GuestID:             &guestID,
			Mood:                "Tired",
			RecommendedActivity: api.RecommendedActivity{Activity: api.Activity{Name: "Stretch break"}},
		},
	}
	app := newTestApp(t, fake)

	scriptChoices(t, 0, 1)         // mood on first pass, mood on retake
	scriptText(t, "Ana")           // name asked only on first pass
	scriptConfirm(t, true, false)  // retake once, then stop

	require.NoError(t, app.Join(context.Background(), "tok-1"))

	require.Len(t, fake.submitted, 2)
	second := fake.submitted[1]
	assert.True(t, second.IsGuest)
	require.NotNil(t, second.GuestID)
	assert.Equal(t, "g-77", *second.GuestID)
	assert.Equal(t, "Ana", second.StudentName)
}

func TestJoin_ClosedSessionReportedWithoutSubmit(t *testing.T) {
	lines := silencePrintln(t)
	fake := &fakeAPI{snapshot: &api.SessionSnapshot{CourseTitle: "Algebra II", Status: api.SessionClosed}}
	app := newTestApp(t, fake)

	require.NoError(t, app.Join(context.Background(), "tok-1"))

	assert.Empty(t, fake.submitted)
	assert.Contains(t, strings.Join(lines(), "\n"), "closed")
}

func TestJoin_ResolvesTokenFromLink(t *testing.T) {
	silencePrintln(t)
	fake := &fakeAPI{snapshot: &api.SessionSnapshot{Status: api.SessionClosed}}
	app := newTestApp(t, fake)

	require.NoError(t, app.Join(context.Background(), "https://example.com/session/run/tok-42?x=1"))

	assert.Equal(t, "tok-42", fake.requestedToken)
}

func TestScan_UnreadablePayloadStaysPut(t *testing.T) {
	lines := silencePrintln(t)
	fake := &fakeAPI{}
	app := newTestApp(t, fake)

	scriptText(t, "???")

	require.NoError(t, app.Scan(context.Background()))

	assert.Empty(t, fake.requestedToken)
	assert.Contains(t, strings.Join(lines(), "\n"), "Unable to read")
}

func TestLogin_PersistsSession(t *testing.T) {
	silencePrintln(t)
	fake := &fakeAPI{login: &api.LoginResult{AccessToken: "tok", Role: "teacher"}}
	app := newTestApp(t, fake)

	scriptText(t, "t@example.com")
	origPw := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte("secret"), nil }
	t.Cleanup(func() { getPassword = origPw })

	require.NoError(t, app.Login(context.Background()))

	assert.True(t, app.auth.IsTeacher())
	assert.Equal(t, "tok", app.auth.AccessToken())
}

func TestLogin_UnknownRoleRejected(t *testing.T) {
	silencePrintln(t)
	fake := &fakeAPI{login: &api.LoginResult{AccessToken: "tok", Role: "admin"}}
	app := newTestApp(t, fake)

	scriptText(t, "t@example.com")
	origPw := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte("secret"), nil }
	t.Cleanup(func() { getPassword = origPw })

	require.Error(t, app.Login(context.Background()))
	assert.False(t, app.auth.Authenticated())
}

func TestWatch_ReportsClosureWithoutKeystroke(t *testing.T) {
	lines := silencePrintln(t)
	closedAt := time.Now()
	fake := &fakeAPI{
		dashboard: &api.SessionDashboard{SessionID: "sess-1", CourseID: "c-1", CourseTitle: "Algebra II"},
		sessions:  []api.SessionMeta{{SessionID: "sess-1", JoinToken: "tok-1", ClosedAt: &closedAt}},
	}
	app := newTestApp(t, fake)
	app.config.DashboardPollInterval = 10 * time.Millisecond

	// a reader that never delivers a line; closure must surface anyway
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	app.reader = bufio.NewReader(pr)

	returned := make(chan error, 1)
	go func() { returned <- app.Watch(context.Background(), "sess-1") }()

	select {
	case err := <-returned:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not return after polling observed the close")
	}
	assert.Contains(t, strings.Join(lines(), "\n"), "Session is closed.")
}

func TestHistory_EmptyMessage(t *testing.T) {
	lines := silencePrintln(t)
	app := newTestApp(t, &fakeAPI{})

	require.NoError(t, app.History(context.Background()))

	assert.Contains(t, strings.Join(lines(), "\n"), "No check-ins recorded yet.")
}
