package postgres

import (
	"SkillTrack/internal/app_errors"
	"SkillTrack/internal/models"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EnrollmentPostgres struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewEnrollmentPostgres(db *pgxpool.Pool, timeout time.Duration) *EnrollmentPostgres {
	return &EnrollmentPostgres{db: db, timeout: timeout}
}

// CreateEnrollment inserts the enrollment, bumps the course counter and
// creates an empty progress record in one transaction. Duplicate pairs are
// rejected by the enrollments_student_course_key constraint, so concurrent
// callers cannot both succeed.
func (r *EnrollmentPostgres) CreateEnrollment(ctx context.Context, e *models.Enrollment) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return classify(err)
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO enrollments (id, student_id, course_id, amount_paid, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err = tx.Exec(ctx, query, e.ID, e.StudentID, e.CourseID, e.AmountPaid, e.CreatedAt)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil {
			switch pgErr.Code {
			case codeUniqueViolation:
				return app_errors.ErrAlreadyEnrolled
			case codeForeignKeyViolation:
				return app_errors.ErrCourseNotFound
			}
		}
		return classify(fmt.Errorf("failed to enroll: %w", err))
	}

	tag, err := tx.Exec(ctx, `
        UPDATE courses SET enrollments_count = enrollments_count + 1, updated_at = NOW()
         WHERE id = $1
    `, e.CourseID)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrCourseNotFound
	}

	_, err = tx.Exec(ctx, `
        INSERT INTO progress_records (student_id, course_id, percentage, last_accessed_at)
        VALUES ($1, $2, 0, $3)
        ON CONFLICT (student_id, course_id) DO NOTHING
    `, e.StudentID, e.CourseID, e.CreatedAt)
	if err != nil {
		return classify(err)
	}

	if err := tx.Commit(ctx); err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == codeUniqueViolation {
			return app_errors.ErrAlreadyEnrolled
		}
		return classify(err)
	}
	return nil
}

func (r *EnrollmentPostgres) IsEnrolled(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var exists bool
	err := r.db.QueryRow(ctx, `
        SELECT EXISTS(
            SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2
        )
    `, studentID, courseID).Scan(&exists)
	if err != nil {
		return false, classify(err)
	}
	return exists, nil
}

func (r *EnrollmentPostgres) EnrollmentsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Enrollment, error) {
	return r.list(ctx, `
        SELECT id, student_id, course_id, amount_paid, created_at
          FROM enrollments
         WHERE course_id = $1
         ORDER BY created_at
    `, courseID)
}

func (r *EnrollmentPostgres) EnrollmentsByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Enrollment, error) {
	return r.list(ctx, `
        SELECT id, student_id, course_id, amount_paid, created_at
          FROM enrollments
         WHERE student_id = $1
         ORDER BY created_at DESC
    `, studentID)
}

func (r *EnrollmentPostgres) list(ctx context.Context, query string, arg uuid.UUID) ([]models.Enrollment, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query enrollments: %w", err))
	}
	enrollments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Enrollment, error) {
		var e models.Enrollment
		err := row.Scan(&e.ID, &e.StudentID, &e.CourseID, &e.AmountPaid, &e.CreatedAt)
		return e, err
	})
	if err != nil {
		return nil, classify(err)
	}
	return enrollments, nil
}
