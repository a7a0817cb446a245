package postgres

import (
	"SkillTrack/internal/app_errors"
	"SkillTrack/internal/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProgressPostgres stores each completed lesson as its own row, so
// concurrent mark/unmark requests merge instead of overwriting a set.
type ProgressPostgres struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewProgressPostgres(db *pgxpool.Pool, timeout time.Duration) *ProgressPostgres {
	return &ProgressPostgres{db: db, timeout: timeout}
}

func (r *ProgressPostgres) AddCompletion(ctx context.Context, studentID, courseID, lessonID uuid.UUID, at time.Time) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `
        INSERT INTO lesson_completions (student_id, course_id, lesson_id, completed_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (student_id, course_id, lesson_id) DO NOTHING
    `, studentID, courseID, lessonID, at)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == codeForeignKeyViolation {
			if pgErr.ConstraintName == "lesson_completions_lesson_id_fkey" {
				return app_errors.ErrLessonNotFound
			}
			return app_errors.ErrNotEnrolled
		}
		return classify(fmt.Errorf("failed to add completion: %w", err))
	}
	return nil
}

func (r *ProgressPostgres) RemoveCompletion(ctx context.Context, studentID, courseID, lessonID uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `
        DELETE FROM lesson_completions
         WHERE student_id = $1 AND course_id = $2 AND lesson_id = $3
    `, studentID, courseID, lessonID)
	return classify(err)
}

func (r *ProgressPostgres) ClearCompletions(ctx context.Context, studentID, courseID uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `
        DELETE FROM lesson_completions WHERE student_id = $1 AND course_id = $2
    `, studentID, courseID)
	return classify(err)
}

func (r *ProgressPostgres) Progress(ctx context.Context, studentID, courseID uuid.UUID) (*models.ProgressRecord, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
        SELECT p.percentage,
               p.last_accessed_at,
               COALESCE(array_agg(lc.lesson_id) FILTER (WHERE lc.lesson_id IS NOT NULL), '{}')
          FROM progress_records p
          LEFT JOIN lesson_completions lc
            ON lc.student_id = p.student_id AND lc.course_id = p.course_id
         WHERE p.student_id = $1 AND p.course_id = $2
         GROUP BY p.student_id, p.course_id
    `
	rec := &models.ProgressRecord{StudentID: studentID, CourseID: courseID}
	err := r.db.QueryRow(ctx, query, studentID, courseID).Scan(&rec.Percentage, &rec.LastAccessedAt, &rec.CompletedLessonIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrProgressNotFound
		}
		return nil, classify(err)
	}
	return rec, nil
}

func (r *ProgressPostgres) SaveProgress(ctx context.Context, studentID, courseID uuid.UUID, percentage int, lastAccessed time.Time) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `
        INSERT INTO progress_records (student_id, course_id, percentage, last_accessed_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (student_id, course_id)
        DO UPDATE SET percentage = EXCLUDED.percentage,
                      last_accessed_at = EXCLUDED.last_accessed_at
    `, studentID, courseID, percentage, lastAccessed)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == codeForeignKeyViolation {
			return app_errors.ErrNotEnrolled
		}
		return classify(err)
	}
	return nil
}

// ProgressByCourse returns the records of every enrolled student, including
// students who never completed anything.
func (r *ProgressPostgres) ProgressByCourse(ctx context.Context, courseID uuid.UUID) ([]models.ProgressRecord, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
        SELECT e.student_id,
               COALESCE(p.percentage, 0),
               COALESCE(p.last_accessed_at, e.created_at),
               COALESCE(array_agg(lc.lesson_id) FILTER (WHERE lc.lesson_id IS NOT NULL), '{}')
          FROM enrollments e
          LEFT JOIN progress_records p
            ON p.student_id = e.student_id AND p.course_id = e.course_id
          LEFT JOIN lesson_completions lc
            ON lc.student_id = e.student_id AND lc.course_id = e.course_id
         WHERE e.course_id = $1
         GROUP BY e.student_id, p.percentage, p.last_accessed_at, e.created_at
    `
	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query course progress: %w", err))
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ProgressRecord, error) {
		rec := models.ProgressRecord{CourseID: courseID}
		err := row.Scan(&rec.StudentID, &rec.Percentage, &rec.LastAccessedAt, &rec.CompletedLessonIDs)
		return rec, err
	})
	if err != nil {
		return nil, classify(err)
	}
	return records, nil
}
