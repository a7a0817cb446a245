package content

import (
	"SkillTrack/internal/app_errors"
	"SkillTrack/internal/models"
	"SkillTrack/pkg/logger"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type contentRepo interface {
	ContentTree(ctx context.Context, courseID uuid.UUID) (models.ContentTree, error)
	CreateSection(ctx context.Context, section models.Section) (*models.Section, error)
	CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error)
	SectionByID(ctx context.Context, id uuid.UUID) (models.Section, error)
	LessonByID(ctx context.Context, id uuid.UUID) (models.Lesson, error)
	DeleteLessonAndUpdateOrder(ctx context.Context, lessonID, sectionID uuid.UUID, lessonOrder int) error
}

// ContentService reads a course's section/lesson tree and lets the course
// author append or remove entries.
type ContentService struct {
	log         logger.Log
	courseRepo  courseRepo
	contentRepo contentRepo
}

func NewContentService(log logger.Log, c courseRepo, content contentRepo) *ContentService {
	return &ContentService{
		log:         log,
		courseRepo:  c,
		contentRepo: content,
	}
}

func (s *ContentService) Tree(ctx context.Context, courseID uuid.UUID) (models.ContentTree, error) {
	tree, err := s.contentRepo.ContentTree(ctx, courseID)
	if err != nil {
		return models.ContentTree{}, err
	}
	if err := tree.Validate(); err != nil {
		s.log.Warn("content tree is not dense", "course_id", courseID, "reason", err.Error())
	}
	return tree, nil
}

func (s *ContentService) AddSection(ctx context.Context, caller models.Identity, courseID uuid.UUID, title string) (*models.Section, error) {
	if err := s.checkAuthor(ctx, caller, courseID); err != nil {
		return nil, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, app_errors.Validation("section title is required")
	}
	return s.contentRepo.CreateSection(ctx, models.Section{CourseID: courseID, Title: title})
}

func (s *ContentService) AddLesson(ctx context.Context, caller models.Identity, lesson models.Lesson) (*models.Lesson, error) {
	if err := s.checkAuthor(ctx, caller, lesson.CourseID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(lesson.Title) == "" {
		return nil, app_errors.Validation("lesson title is required")
	}
	if !models.ValidLessonType(lesson.Type) {
		return nil, app_errors.ErrInvalidLessonType
	}
	if lesson.DurationSeconds < 0 {
		return nil, app_errors.ErrInvalidDuration
	}

	section, err := s.contentRepo.SectionByID(ctx, lesson.SectionID)
	if err != nil {
		return nil, err
	}
	if section.CourseID != lesson.CourseID {
		return nil, fmt.Errorf("section %s: %w", lesson.SectionID, app_errors.ErrSectionNotFound)
	}

	created, err := s.contentRepo.CreateLesson(ctx, lesson)
	if err != nil {
		return nil, err
	}
	s.log.Info("lesson added", "course_id", lesson.CourseID, "lesson_id", created.ID)
	return created, nil
}

func (s *ContentService) DeleteLesson(ctx context.Context, caller models.Identity, courseID, lessonID uuid.UUID) error {
	if err := s.checkAuthor(ctx, caller, courseID); err != nil {
		return err
	}
	lesson, err := s.contentRepo.LessonByID(ctx, lessonID)
	if err != nil {
		return err
	}
	if lesson.CourseID != courseID {
		return app_errors.ErrLessonNotFound
	}
	if err := s.contentRepo.DeleteLessonAndUpdateOrder(ctx, lessonID, lesson.SectionID, lesson.Order); err != nil {
		return err
	}
	s.log.Info("lesson deleted", "course_id", courseID, "lesson_id", lessonID)
	return nil
}

func (s *ContentService) checkAuthor(ctx context.Context, caller models.Identity, courseID uuid.UUID) error {
	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course.AuthorID != caller.UserID && !caller.IsAdmin() {
		return app_errors.ErrNotCourseAuthor
	}
	return nil
}
