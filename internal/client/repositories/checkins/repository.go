// Package checkins keeps a local record of every successful check-in.
// The history is a client-side convenience and is never sent to the server.
package checkins

import (
	"context"
	"time"
)

// Record is one successful check-in as seen from this client.
type Record struct {
	ID            string
	JoinToken     string
	CourseTitle   string
	Mood          string
	ActivityName  string
	LearningStyle string
	CreatedAt     time.Time
}

// Repository describes storage operations for check-in records.
type Repository interface {
	// Add inserts a new record.
	Add(ctx context.Context, record *Record) error

	// List returns all records, newest first.
	List(ctx context.Context) ([]Record, error)
}
