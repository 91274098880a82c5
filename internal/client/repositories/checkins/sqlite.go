package checkins

import (
	"context"
	"fmt"

	"github.com/classpulse/classpulse/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, record *Record) error {
	query := `INSERT INTO checkins (id, join_token, course_title, mood, activity_name, learning_style, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		record.ID, record.JoinToken, record.CourseTitle, record.Mood,
		record.ActivityName, record.LearningStyle, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert checkin: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]Record, error) {
	query := `SELECT id, join_token, course_title, mood, activity_name, learning_style, created_at
		FROM checkins ORDER BY created_at DESC, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select checkins: %w", err)
	}
	defer rows.Close()

	var result []Record
	for rows.Next() {
		var item Record
		if err := rows.Scan(&item.ID, &item.JoinToken, &item.CourseTitle, &item.Mood,
			&item.ActivityName, &item.LearningStyle, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
