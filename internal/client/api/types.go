package api

import (
	"encoding/json"
	"time"
)

// SessionStatus is the lifecycle state reported by a session snapshot.
type SessionStatus string

const (
	SessionOpen   SessionStatus = "OPEN"
	SessionClosed SessionStatus = "CLOSED"
)

// MoodCheckSchema describes the single required mood prompt for a session.
type MoodCheckSchema struct {
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

type SurveyOption struct {
	OptionID string `json:"option_id"`
	Text     string `json:"text"`
}

type SurveyQuestion struct {
	QuestionID string         `json:"question_id"`
	Text       string         `json:"text"`
	Options    []SurveyOption `json:"options"`
}

// Survey is the optional questionnaire attached to a session. Question order
// is meaningful and must be preserved exactly as received.
type Survey struct {
	SurveyID  string           `json:"survey_id"`
	Title     string           `json:"title"`
	Questions []SurveyQuestion `json:"questions"`
}

// SessionSnapshot is the read-only description of a session fetched per join
// attempt. It is never cached across tokens.
type SessionSnapshot struct {
	CourseTitle     string          `json:"course_title"`
	Status          SessionStatus   `json:"status"`
	RequireSurvey   bool            `json:"require_survey"`
	MoodCheckSchema MoodCheckSchema `json:"mood_check_schema"`
	Survey          *Survey         `json:"survey,omitempty"`
}

// CheckinPayload is the submission body for a join. Exactly one framing is
// used per submission: authenticated (IsGuest=false, no guest fields) or
// guest (IsGuest=true, StudentName always set, GuestID set only for a
// returning guest so the server can mint one otherwise).
type CheckinPayload struct {
	Mood        string            `json:"mood"`
	Answers     map[string]string `json:"answers,omitempty"`
	IsGuest     bool              `json:"is_guest"`
	StudentName string            `json:"student_name,omitempty"`
	GuestID     *string           `json:"guest_id,omitempty"`
}

type Activity struct {
	Name        string          `json:"name"`
	Summary     string          `json:"summary"`
	Type        string          `json:"type"`
	ContentJSON json.RawMessage `json:"content_json,omitempty"`
}

type RecommendedActivity struct {
	Activity Activity `json:"activity"`
}

// SubmitResult is the server response to a successful check-in.
type SubmitResult struct {
	GuestID             *string             `json:"guest_id,omitempty"`
	RecommendedActivity RecommendedActivity `json:"recommended_activity"`
	Mood                string              `json:"mood"`
	LearningStyle       string              `json:"learning_style,omitempty"`
	IsBaselineUpdate    bool                `json:"is_baseline_update,omitempty"`
	Message             string              `json:"message,omitempty"`
}

type LoginResult struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
}

type StudentProfile struct {
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
}

// SessionDashboard is the teacher's aggregate view of one session.
type SessionDashboard struct {
	SessionID       string         `json:"session_id"`
	CourseID        string         `json:"course_id"`
	CourseTitle     string         `json:"course_title"`
	SubmissionCount int            `json:"submission_count"`
	MoodBreakdown   map[string]int `json:"mood_breakdown,omitempty"`
}

type Submission struct {
	SubmissionID string    `json:"submission_id"`
	StudentName  string    `json:"student_name"`
	IsGuest      bool      `json:"is_guest"`
	Mood         string    `json:"mood"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// SessionMeta is the teacher-side listing entry for a session. ClosedAt is a
// one-way latch: once the server reports it set, the client never clears it.
type SessionMeta struct {
	SessionID string     `json:"session_id"`
	JoinToken string     `json:"join_token"`
	StartedAt time.Time  `json:"started_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// Closed reports whether the session has been closed.
func (m *SessionMeta) Closed() bool {
	return m != nil && m.ClosedAt != nil
}
