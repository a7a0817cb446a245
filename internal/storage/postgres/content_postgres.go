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

type ContentPostgres struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewContentPostgres(db *pgxpool.Pool, timeout time.Duration) *ContentPostgres {
	return &ContentPostgres{db: db, timeout: timeout}
}

func (r *ContentPostgres) ContentTree(ctx context.Context, courseID uuid.UUID) (models.ContentTree, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE id = $1)`, courseID).Scan(&exists); err != nil {
		return models.ContentTree{}, classify(fmt.Errorf("failed to check course: %w", err))
	}
	if !exists {
		return models.ContentTree{}, app_errors.ErrCourseNotFound
	}

	sectionsQuery := `
        SELECT id, course_id, title, module_order, created_at, updated_at
        FROM modules
        WHERE course_id = $1
        ORDER BY module_order
    `
	rows, err := r.db.Query(ctx, sectionsQuery, courseID)
	if err != nil {
		return models.ContentTree{}, classify(fmt.Errorf("failed to query sections: %w", err))
	}
	var sections []models.Section
	for rows.Next() {
		var s models.Section
		if err := rows.Scan(&s.ID, &s.CourseID, &s.Title, &s.Order, &s.CreatedAt, &s.UpdatedAt); err != nil {
			rows.Close()
			return models.ContentTree{}, classify(err)
		}
		sections = append(sections, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return models.ContentTree{}, classify(err)
	}

	lessonsQuery := `
        SELECT id, course_id, module_id, lesson_title, lesson_order, lesson_type,
               duration_seconds, is_preview, created_at, updated_at
        FROM lessons
        WHERE course_id = $1
        ORDER BY module_id, lesson_order
    `
	lessonRows, err := r.db.Query(ctx, lessonsQuery, courseID)
	if err != nil {
		return models.ContentTree{}, classify(fmt.Errorf("failed to query lessons: %w", err))
	}
	defer lessonRows.Close()

	lessonsBySection := make(map[uuid.UUID][]models.Lesson)
	for lessonRows.Next() {
		l, err := scanLesson(lessonRows)
		if err != nil {
			return models.ContentTree{}, classify(err)
		}
		lessonsBySection[l.SectionID] = append(lessonsBySection[l.SectionID], l)
	}
	if err := lessonRows.Err(); err != nil {
		return models.ContentTree{}, classify(err)
	}

	tree := models.ContentTree{CourseID: courseID, Sections: make([]models.SectionContent, 0, len(sections))}
	for _, s := range sections {
		lessons := lessonsBySection[s.ID]
		if lessons == nil {
			lessons = []models.Lesson{}
		}
		tree.Sections = append(tree.Sections, models.SectionContent{Section: s, Lessons: lessons})
	}
	return tree, nil
}

func (r *ContentPostgres) CreateSection(ctx context.Context, section models.Section) (*models.Section, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, classify(err)
	}
	defer tx.Rollback(ctx)

	// Serialise concurrent appends to the same course.
	if _, err := tx.Exec(ctx, `SELECT id FROM courses WHERE id = $1 FOR UPDATE`, section.CourseID); err != nil {
		return nil, classify(err)
	}
	var maxOrder int
	err = tx.QueryRow(ctx, `SELECT COALESCE(MAX(module_order), 0) FROM modules WHERE course_id = $1`, section.CourseID).Scan(&maxOrder)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to get max section order: %w", err))
	}

	now := time.Now().UTC()
	if section.ID == uuid.Nil {
		section.ID = uuid.New()
	}
	section.Order = maxOrder + 1
	section.CreatedAt = now
	section.UpdatedAt = now

	insertQuery := `
    INSERT INTO modules (
        id, course_id, title, module_order, created_at, updated_at
    ) VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err = tx.Exec(ctx, insertQuery,
		section.ID, section.CourseID, section.Title,
		section.Order, section.CreatedAt, section.UpdatedAt,
	)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil {
			switch pgErr.Code {
			case codeUniqueViolation:
				return nil, app_errors.ErrDuplicateSection
			case codeForeignKeyViolation:
				return nil, app_errors.ErrCourseNotFound
			}
		}
		return nil, classify(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classify(err)
	}
	return &section, nil
}

func (r *ContentPostgres) CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, classify(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT id FROM modules WHERE id = $1 FOR UPDATE`, lesson.SectionID); err != nil {
		return nil, classify(err)
	}
	var maxOrder int
	err = tx.QueryRow(ctx, `SELECT COALESCE(MAX(lesson_order), 0) FROM lessons WHERE module_id = $1`, lesson.SectionID).Scan(&maxOrder)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to get max lesson order: %w", err))
	}

	now := time.Now().UTC()
	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	lesson.Order = maxOrder + 1
	lesson.CreatedAt = now
	lesson.UpdatedAt = now

	insertQuery := `
    INSERT INTO lessons (
        id, course_id, module_id, lesson_title, lesson_order, lesson_type,
        duration_seconds, is_preview, created_at, updated_at
    ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
    `
	_, err = tx.Exec(ctx, insertQuery,
		lesson.ID, lesson.CourseID, lesson.SectionID,
		lesson.Title, lesson.Order, lesson.Type,
		lesson.DurationSeconds, lesson.IsPreview, lesson.CreatedAt, lesson.UpdatedAt,
	)
	if err != nil {
		if pgErr := UnwrapPgError(err); pgErr != nil {
			switch pgErr.Code {
			case codeUniqueViolation:
				return nil, app_errors.ErrDuplicateLesson
			case codeForeignKeyViolation:
				return nil, app_errors.ErrSectionNotFound
			}
		}
		return nil, classify(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classify(err)
	}
	return &lesson, nil
}

func (r *ContentPostgres) SectionByID(ctx context.Context, id uuid.UUID) (models.Section, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var s models.Section
	query := `
        SELECT id, course_id, title, module_order, created_at, updated_at
          FROM modules
         WHERE id = $1
    `
	err := r.db.QueryRow(ctx, query, id).Scan(&s.ID, &s.CourseID, &s.Title, &s.Order, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Section{}, app_errors.ErrSectionNotFound
		}
		return models.Section{}, classify(err)
	}
	return s, nil
}

func (r *ContentPostgres) LessonByID(ctx context.Context, id uuid.UUID) (models.Lesson, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	query := `
    SELECT id, course_id, module_id, lesson_title, lesson_order, lesson_type,
           duration_seconds, is_preview, created_at, updated_at
      FROM lessons
     WHERE id = $1
    `
	lesson, err := scanLesson(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Lesson{}, app_errors.ErrLessonNotFound
		}
		return models.Lesson{}, classify(err)
	}
	return lesson, nil
}

// DeleteLessonAndUpdateOrder removes a lesson and closes the gap it leaves
// in its section. Completions of the lesson go with it (ON DELETE CASCADE).
func (r *ContentPostgres) DeleteLessonAndUpdateOrder(ctx context.Context, lessonID, sectionID uuid.UUID, lessonOrder int) error {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return classify(err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM lessons WHERE id = $1`, lessonID)
	if err != nil {
		return classify(err)
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrLessonNotFound
	}

	updateQuery := `
        UPDATE lessons SET lesson_order = lesson_order - 1, updated_at = NOW()
         WHERE module_id = $1 AND lesson_order > $2
    `
	if _, err = tx.Exec(ctx, updateQuery, sectionID, lessonOrder); err != nil {
		return classify(err)
	}

	return classify(tx.Commit(ctx))
}

func scanLesson(row pgx.Row) (models.Lesson, error) {
	var l models.Lesson
	err := row.Scan(
		&l.ID, &l.CourseID, &l.SectionID, &l.Title, &l.Order, &l.Type,
		&l.DurationSeconds, &l.IsPreview, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}
