// Package memory is a mutex-guarded store for local runs and tests. It keeps
// the same guarantees the Postgres schema enforces: one enrollment per
// (student, course) and completions keyed by (student, course, lesson).
package memory

import (
	"SkillTrack/internal/app_errors"
	"SkillTrack/internal/models"
	"SkillTrack/internal/storage"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type pairKey struct {
	studentID uuid.UUID
	courseID  uuid.UUID
}

type ratingKey struct {
	courseID uuid.UUID
	userID   uuid.UUID
}

type progressRow struct {
	percentage   int
	lastAccessed time.Time
	completed    map[uuid.UUID]time.Time
}

type Store struct {
	mu          sync.RWMutex
	courses     map[uuid.UUID]*models.Course
	sections    map[uuid.UUID]*models.Section
	lessons     map[uuid.UUID]*models.Lesson
	enrollments map[pairKey]models.Enrollment
	progress    map[pairKey]*progressRow
	ratings     map[ratingKey]int
}

func New() *Store {
	return &Store{
		courses:     make(map[uuid.UUID]*models.Course),
		sections:    make(map[uuid.UUID]*models.Section),
		lessons:     make(map[uuid.UUID]*models.Lesson),
		enrollments: make(map[pairKey]models.Enrollment),
		progress:    make(map[pairKey]*progressRow),
		ratings:     make(map[ratingKey]int),
	}
}

func (s *Store) Repositories() storage.Repositories {
	return storage.Repositories{
		Courses:     s,
		Content:     s,
		Enrollments: s,
		Progress:    s,
		Ratings:     s,
		Close:       func() {},
	}
}

func (s *Store) NewCourse(ctx context.Context, course *models.Course) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, app_errors.Upstream(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	if course.Status == "" {
		course.Status = models.StatusHidden
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	stored := *course
	s.courses[course.ID] = &stored
	return course.ID, nil
}

func (s *Store) CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, app_errors.Upstream(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.courses[id]
	if !ok {
		return nil, app_errors.ErrCourseNotFound
	}
	out := s.withRating(*c)
	return &out, nil
}

func (s *Store) CoursesByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Course, error) {
	if err := ctx.Err(); err != nil {
		return nil, app_errors.Upstream(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Course
	for _, c := range s.courses {
		if c.AuthorID == authorID {
			out = append(out, s.withRating(*c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// withRating must be called with s.mu held.
func (s *Store) withRating(c models.Course) models.Course {
	var sum, n int
	for k, stars := range s.ratings {
		if k.courseID == c.ID {
			sum += stars
			n++
		}
	}
	c.RatingCount = n
	c.RatingAvg = 0
	if n > 0 {
		c.RatingAvg = float64(sum) / float64(n)
	}
	return c
}
