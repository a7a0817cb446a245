package postgres

import (
	"SkillTrack/internal/app_errors"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CourseRatingPostgres struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewCourseRatingPostgres(db *pgxpool.Pool, timeout time.Duration) *CourseRatingPostgres {
	return &CourseRatingPostgres{db: db, timeout: timeout}
}

func (r *CourseRatingPostgres) UpsertRating(ctx context.Context, courseID, userID uuid.UUID, stars int) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `
        INSERT INTO course_ratings (course_id, user_id, stars)
        VALUES ($1, $2, $3)
        ON CONFLICT (course_id, user_id)
        DO UPDATE SET stars = EXCLUDED.stars, updated_at = NOW()
    `, courseID, userID, stars)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil && pgErr.Code == codeForeignKeyViolation {
			return app_errors.ErrCourseNotFound
		}
		return classify(err)
	}
	return nil
}

func (r *CourseRatingPostgres) RemoveRating(ctx context.Context, courseID, userID uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `
        DELETE FROM course_ratings WHERE course_id = $1 AND user_id = $2
    `, courseID, userID)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrNotRated
	}
	return nil
}
