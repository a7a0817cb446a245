package memory

import (
	"SkillTrack/internal/app_errors"
	"SkillTrack/internal/models"
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

// CreateEnrollment performs the duplicate check and the insert under one
// write lock.
func (s *Store) CreateEnrollment(ctx context.Context, e *models.Enrollment) error {
	if err := ctx.Err(); err != nil {
		return app_errors.Upstream(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	course, ok := s.courses[e.CourseID]
	if !ok {
		return app_errors.ErrCourseNotFound
	}
	key := pairKey{studentID: e.StudentID, courseID: e.CourseID}
	if _, exists := s.enrollments[key]; exists {
		return app_errors.ErrAlreadyEnrolled
	}

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.enrollments[key] = *e
	course.EnrollmentsCount++
	if _, ok := s.progress[key]; !ok {
		s.progress[key] = &progressRow{lastAccessed: e.CreatedAt, completed: make(map[uuid.UUID]time.Time)}
	}
	return nil
}

func (s *Store) IsEnrolled(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, app_errors.Upstream(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.enrollments[pairKey{studentID: studentID, courseID: courseID}]
	return ok, nil
}

func (s *Store) EnrollmentsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Enrollment, error) {
	return s.filterEnrollments(ctx, func(e models.Enrollment) bool { return e.CourseID == courseID }, false)
}

func (s *Store) EnrollmentsByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Enrollment, error) {
	return s.filterEnrollments(ctx, func(e models.Enrollment) bool { return e.StudentID == studentID }, true)
}

func (s *Store) filterEnrollments(ctx context.Context, keep func(models.Enrollment) bool, newestFirst bool) ([]models.Enrollment, error) {
	if err := ctx.Err(); err != nil {
		return nil, app_errors.Upstream(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Enrollment
	for _, e := range s.enrollments {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
