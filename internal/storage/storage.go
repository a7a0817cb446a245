package storage

import (
	"SkillTrack/internal/models"
	"context"
	"time"

	"github.com/google/uuid"
)

type CourseRepository interface {
	NewCourse(ctx context.Context, course *models.Course) (uuid.UUID, error)
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	CoursesByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Course, error)
}

type ContentRepository interface {
	ContentTree(ctx context.Context, courseID uuid.UUID) (models.ContentTree, error)
	CreateSection(ctx context.Context, section models.Section) (*models.Section, error)
	CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error)
	SectionByID(ctx context.Context, id uuid.UUID) (models.Section, error)
	LessonByID(ctx context.Context, id uuid.UUID) (models.Lesson, error)
	DeleteLessonAndUpdateOrder(ctx context.Context, lessonID, sectionID uuid.UUID, lessonOrder int) error
}

type EnrollmentRepository interface {
	CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	IsEnrolled(ctx context.Context, studentID, courseID uuid.UUID) (bool, error)
	EnrollmentsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Enrollment, error)
	EnrollmentsByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Enrollment, error)
}

type ProgressRepository interface {
	AddCompletion(ctx context.Context, studentID, courseID, lessonID uuid.UUID, at time.Time) error
	RemoveCompletion(ctx context.Context, studentID, courseID, lessonID uuid.UUID) error
	ClearCompletions(ctx context.Context, studentID, courseID uuid.UUID) error
	Progress(ctx context.Context, studentID, courseID uuid.UUID) (*models.ProgressRecord, error)
	SaveProgress(ctx context.Context, studentID, courseID uuid.UUID, percentage int, lastAccessed time.Time) error
	ProgressByCourse(ctx context.Context, courseID uuid.UUID) ([]models.ProgressRecord, error)
}

type RatingRepository interface {
	UpsertRating(ctx context.Context, courseID, userID uuid.UUID, stars int) error
	RemoveRating(ctx context.Context, courseID, userID uuid.UUID) error
}

// Repositories groups one backend's implementations so the app can switch
// between Postgres and the in-memory store.
type Repositories struct {
	Courses     CourseRepository
	Content     ContentRepository
	Enrollments EnrollmentRepository
	Progress    ProgressRepository
	Ratings     RatingRepository
	Close       func()
}
