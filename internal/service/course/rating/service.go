package rating

import (
	"SkillTrack/internal/app_errors"
	"SkillTrack/internal/models"
	"SkillTrack/pkg/logger"
	"context"

	"github.com/google/uuid"
)

type enrollmentRepo interface {
	IsEnrolled(ctx context.Context, studentID, courseID uuid.UUID) (bool, error)
}

type ratingRepo interface {
	UpsertRating(ctx context.Context, courseID, userID uuid.UUID, stars int) error
	RemoveRating(ctx context.Context, courseID, userID uuid.UUID) error
}

type CourseRatingService struct {
	log            logger.Log
	enrollmentRepo enrollmentRepo
	ratingRepo     ratingRepo
}

func NewCourseRatingService(l logger.Log, e enrollmentRepo, r ratingRepo) *CourseRatingService {
	return &CourseRatingService{
		log:            l,
		enrollmentRepo: e,
		ratingRepo:     r,
	}
}

// RateCourse stores the caller's star rating, replacing any earlier one.
func (s *CourseRatingService) RateCourse(ctx context.Context, caller models.Identity, courseID uuid.UUID, stars int) error {
	if stars < 1 || stars > 5 {
		return app_errors.ErrInvalidStars
	}
	if err := s.checkEnrolled(ctx, caller.UserID, courseID); err != nil {
		return err
	}
	if err := s.ratingRepo.UpsertRating(ctx, courseID, caller.UserID, stars); err != nil {
		return err
	}
	s.log.Info("course rated", "course_id", courseID, "user_id", caller.UserID, "stars", stars)
	return nil
}

func (s *CourseRatingService) RemoveRating(ctx context.Context, caller models.Identity, courseID uuid.UUID) error {
	if err := s.checkEnrolled(ctx, caller.UserID, courseID); err != nil {
		return err
	}
	return s.ratingRepo.RemoveRating(ctx, courseID, caller.UserID)
}

func (s *CourseRatingService) checkEnrolled(ctx context.Context, userID, courseID uuid.UUID) error {
	ok, err := s.enrollmentRepo.IsEnrolled(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if !ok {
		return app_errors.ErrNotEnrolled
	}
	return nil
}
