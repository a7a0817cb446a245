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

type CoursePostgres struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewCoursePostgres(db *pgxpool.Pool, timeout time.Duration) *CoursePostgres {
	return &CoursePostgres{db: db, timeout: timeout}
}

const courseColumns = `
            c.id,
            c.author_id,
            c.title,
            c.price,
            c.status,
            c.enrollments_count,
            COALESCE(r.avg_stars, 0),
            COALESCE(r.ratings, 0),
            c.created_at,
            c.updated_at
        FROM courses c
        LEFT JOIN (
            SELECT course_id, AVG(stars)::float8 AS avg_stars, COUNT(*) AS ratings
              FROM course_ratings
             GROUP BY course_id
        ) r ON r.course_id = c.id`

func (r *CoursePostgres) NewCourse(ctx context.Context, course *models.Course) (uuid.UUID, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	if course.Status == "" {
		course.Status = models.StatusHidden
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	query := `
		INSERT INTO courses (
			id, author_id, title, price, status, enrollments_count, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, 0, $6, $7
		)
		RETURNING id
	`
	var returnedID uuid.UUID
	err := r.db.QueryRow(ctx, query,
		course.ID,
		course.AuthorID,
		course.Title,
		course.Price,
		course.Status,
		course.CreatedAt,
		course.UpdatedAt,
	).Scan(&returnedID)
	if err != nil {
		return uuid.Nil, classify(fmt.Errorf("failed to insert course: %w", err))
	}
	return returnedID, nil
}

func (r *CoursePostgres) CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + courseColumns + ` WHERE c.id = $1`
	course, err := scanCourse(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrCourseNotFound
		}
		return nil, classify(err)
	}
	return course, nil
}

func (r *CoursePostgres) CoursesByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Course, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT ` + courseColumns + ` WHERE c.author_id = $1 ORDER BY c.created_at`
	rows, err := r.db.Query(ctx, query, authorID)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query courses by author: %w", err))
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, classify(err)
		}
		courses = append(courses, *c)
	}
	return courses, classify(rows.Err())
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	course := &models.Course{}
	err := row.Scan(
		&course.ID,
		&course.AuthorID,
		&course.Title,
		&course.Price,
		&course.Status,
		&course.EnrollmentsCount,
		&course.RatingAvg,
		&course.RatingCount,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return course, nil
}
