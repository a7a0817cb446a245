package memory

import (
	"SkillTrack/internal/app_errors"
	"context"

	"github.com/google/uuid"
)

func (s *Store) UpsertRating(ctx context.Context, courseID, userID uuid.UUID, stars int) error {
	if err := ctx.Err(); err != nil {
		return app_errors.Upstream(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[courseID]; !ok {
		return app_errors.ErrCourseNotFound
	}
	s.ratings[ratingKey{courseID: courseID, userID: userID}] = stars
	return nil
}

func (s *Store) RemoveRating(ctx context.Context, courseID, userID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return app_errors.Upstream(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ratingKey{courseID: courseID, userID: userID}
	if _, ok := s.ratings[key]; !ok {
		return app_errors.ErrNotRated
	}
	delete(s.ratings, key)
	return nil
}
