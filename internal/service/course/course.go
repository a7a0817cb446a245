package course

import (
	"SkillTrack/internal/app_errors"
	"SkillTrack/internal/models"
	"SkillTrack/pkg/logger"
	"context"
	"strings"

	"github.com/google/uuid"
)

type courseRepo interface {
	NewCourse(ctx context.Context, course *models.Course) (uuid.UUID, error)
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	CoursesByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Course, error)
}

type CourseService struct {
	log        logger.Log
	courseRepo courseRepo
}

func NewCourseService(log logger.Log, courseRepo courseRepo) *CourseService {
	return &CourseService{
		log:        log,
		courseRepo: courseRepo,
	}
}

func (s *CourseService) CreateCourse(ctx context.Context, caller models.Identity, title string, price int64) (*models.Course, error) {
	if !caller.HasRole(models.InstructorRole) && !caller.IsAdmin() {
		return nil, app_errors.ErrForbidden
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, app_errors.Validation("title is required")
	}
	if price < 0 {
		return nil, app_errors.ErrInvalidPrice
	}

	course := models.Course{
		AuthorID: caller.UserID,
		Title:    title,
		Price:    price,
		Status:   models.StatusPublic,
	}
	if _, err := s.courseRepo.NewCourse(ctx, &course); err != nil {
		return nil, err
	}
	s.log.Info("course created", "course_id", course.ID, "author_id", course.AuthorID)
	return &course, nil
}

func (s *CourseService) CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return s.courseRepo.CourseByID(ctx, id)
}

func (s *CourseService) GetMyCourses(ctx context.Context, caller models.Identity) ([]models.Course, error) {
	courses, err := s.courseRepo.CoursesByAuthor(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}
