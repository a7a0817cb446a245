package memory

import (
	"SkillTrack/internal/app_errors"
	"SkillTrack/internal/models"
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

func (s *Store) AddCompletion(ctx context.Context, studentID, courseID, lessonID uuid.UUID, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return app_errors.Upstream(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{studentID: studentID, courseID: courseID}
	if _, ok := s.enrollments[key]; !ok {
		return app_errors.ErrNotEnrolled
	}
	if _, ok := s.lessons[lessonID]; !ok {
		return app_errors.ErrLessonNotFound
	}
	row := s.row(key, at)
	if _, done := row.completed[lessonID]; !done {
		row.completed[lessonID] = at
	}
	return nil
}

func (s *Store) RemoveCompletion(ctx context.Context, studentID, courseID, lessonID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return app_errors.Upstream(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if row, ok := s.progress[pairKey{studentID: studentID, courseID: courseID}]; ok {
		delete(row.completed, lessonID)
	}
	return nil
}

func (s *Store) ClearCompletions(ctx context.Context, studentID, courseID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return app_errors.Upstream(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if row, ok := s.progress[pairKey{studentID: studentID, courseID: courseID}]; ok {
		row.completed = make(map[uuid.UUID]time.Time)
	}
	return nil
}

func (s *Store) Progress(ctx context.Context, studentID, courseID uuid.UUID) (*models.ProgressRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, app_errors.Upstream(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.progress[pairKey{studentID: studentID, courseID: courseID}]
	if !ok {
		return nil, app_errors.ErrProgressNotFound
	}
	rec := toRecord(studentID, courseID, row)
	return &rec, nil
}

func (s *Store) SaveProgress(ctx context.Context, studentID, courseID uuid.UUID, percentage int, lastAccessed time.Time) error {
	if err := ctx.Err(); err != nil {
		return app_errors.Upstream(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{studentID: studentID, courseID: courseID}
	if _, ok := s.enrollments[key]; !ok {
		return app_errors.ErrNotEnrolled
	}
	row := s.row(key, lastAccessed)
	row.percentage = percentage
	row.lastAccessed = lastAccessed
	return nil
}

func (s *Store) ProgressByCourse(ctx context.Context, courseID uuid.UUID) ([]models.ProgressRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, app_errors.Upstream(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.ProgressRecord
	for key, e := range s.enrollments {
		if key.courseID != courseID {
			continue
		}
		row, ok := s.progress[key]
		if !ok {
			out = append(out, models.ProgressRecord{StudentID: key.studentID, CourseID: courseID, LastAccessedAt: e.CreatedAt})
			continue
		}
		out = append(out, toRecord(key.studentID, courseID, row))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID.String() < out[j].StudentID.String() })
	return out, nil
}

// row must be called with the write lock held.
func (s *Store) row(key pairKey, at time.Time) *progressRow {
	row, ok := s.progress[key]
	if !ok {
		row = &progressRow{lastAccessed: at, completed: make(map[uuid.UUID]time.Time)}
		s.progress[key] = row
	}
	return row
}

func toRecord(studentID, courseID uuid.UUID, row *progressRow) models.ProgressRecord {
	ids := make([]uuid.UUID, 0, len(row.completed))
	for id := range row.completed {
		ids = append(ids, id)
	}
	return models.ProgressRecord{
		StudentID:          studentID,
		CourseID:           courseID,
		CompletedLessonIDs: ids,
		Percentage:         row.percentage,
		LastAccessedAt:     row.lastAccessed,
	}
}
