// Package api contains the HTTP client for the ClassPulse backend: the
// Client interface consumed by application services, the request/response
// DTOs, and an implementation that speaks JSON over HTTP.
package api

import "context"

// Client describes the backend operations the ClassPulse client depends on.
type Client interface {
	// Login authenticates with email/password and returns the access token
	// and role assigned by the server.
	Login(ctx context.Context, email string, password []byte) (*LoginResult, error)

	// GetStudentProfile returns the authenticated student's profile.
	GetStudentProfile(ctx context.Context) (*StudentProfile, error)

	// GetJoinSession fetches the session snapshot for a join token.
	GetJoinSession(ctx context.Context, token string) (*SessionSnapshot, error)

	// SubmitJoinSession submits a check-in for a join token.
	SubmitJoinSession(ctx context.Context, token string, payload *CheckinPayload) (*SubmitResult, error)

	// GetSessionDashboard returns the teacher's aggregate view of a session.
	GetSessionDashboard(ctx context.Context, sessionID string) (*SessionDashboard, error)

	// GetSessionSubmissions lists the submissions recorded for a session.
	GetSessionSubmissions(ctx context.Context, sessionID string) ([]Submission, error)

	// ListCourseSessions lists session metadata for a course.
	ListCourseSessions(ctx context.Context, courseID string) ([]SessionMeta, error)

	// CloseSession performs the one-way OPEN to CLOSED transition.
	CloseSession(ctx context.Context, sessionID string) error
}
