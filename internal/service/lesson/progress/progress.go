package progress

import (
	"SkillTrack/internal/app_errors"
	"SkillTrack/internal/events"
	"SkillTrack/internal/models"
	"SkillTrack/pkg/logger"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type contentRepo interface {
	ContentTree(ctx context.Context, courseID uuid.UUID) (models.ContentTree, error)
}

type enrollmentRepo interface {
	IsEnrolled(ctx context.Context, studentID, courseID uuid.UUID) (bool, error)
}

type progressRepo interface {
	AddCompletion(ctx context.Context, studentID, courseID, lessonID uuid.UUID, at time.Time) error
	RemoveCompletion(ctx context.Context, studentID, courseID, lessonID uuid.UUID) error
	ClearCompletions(ctx context.Context, studentID, courseID uuid.UUID) error
	Progress(ctx context.Context, studentID, courseID uuid.UUID) (*models.ProgressRecord, error)
	SaveProgress(ctx context.Context, studentID, courseID uuid.UUID, percentage int, lastAccessed time.Time) error
}

// ProgressService tracks which lessons of a course a student has finished.
// Completions are stored as a set so concurrent marks from several devices
// merge; the percentage is always derived from the course's current tree.
type ProgressService struct {
	log            logger.Log
	courseRepo     courseRepo
	contentRepo    contentRepo
	enrollmentRepo enrollmentRepo
	progressRepo   progressRepo
	publisher      events.Publisher
	now            func() time.Time
}

func NewProgressService(log logger.Log, c courseRepo, content contentRepo, e enrollmentRepo, p progressRepo, pub events.Publisher) *ProgressService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &ProgressService{
		log:            log,
		courseRepo:     c,
		contentRepo:    content,
		enrollmentRepo: e,
		progressRepo:   p,
		publisher:      pub,
		now:            time.Now,
	}
}

func (s *ProgressService) MarkComplete(ctx context.Context, caller models.Identity, studentID, courseID, lessonID uuid.UUID) (*models.ProgressRecord, error) {
	tree, err := s.prepareWrite(ctx, caller, studentID, courseID)
	if err != nil {
		return nil, err
	}
	if !tree.HasLesson(lessonID) {
		return nil, app_errors.ErrLessonNotFound
	}

	now := s.now().UTC()
	if err := s.progressRepo.AddCompletion(ctx, studentID, courseID, lessonID, now); err != nil {
		return nil, err
	}
	rec, err := s.refresh(ctx, tree, studentID, courseID, now)
	if err != nil {
		return nil, err
	}

	s.log.Debug("lesson completed", "student_id", studentID, "course_id", courseID, "lesson_id", lessonID, "percentage", rec.Percentage)
	s.publish(ctx, rec, &lessonID)
	return rec, nil
}

func (s *ProgressService) UnmarkComplete(ctx context.Context, caller models.Identity, studentID, courseID, lessonID uuid.UUID) (*models.ProgressRecord, error) {
	tree, err := s.prepareWrite(ctx, caller, studentID, courseID)
	if err != nil {
		return nil, err
	}
	if !tree.HasLesson(lessonID) {
		return nil, app_errors.ErrLessonNotFound
	}

	now := s.now().UTC()
	if err := s.progressRepo.RemoveCompletion(ctx, studentID, courseID, lessonID); err != nil {
		return nil, err
	}
	rec, err := s.refresh(ctx, tree, studentID, courseID, now)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, rec, &lessonID)
	return rec, nil
}

func (s *ProgressService) ResetProgress(ctx context.Context, caller models.Identity, studentID, courseID uuid.UUID) (*models.ProgressRecord, error) {
	tree, err := s.prepareWrite(ctx, caller, studentID, courseID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.progressRepo.ClearCompletions(ctx, studentID, courseID); err != nil {
		return nil, err
	}
	rec, err := s.refresh(ctx, tree, studentID, courseID, now)
	if err != nil {
		return nil, err
	}
	s.log.Info("progress reset", "student_id", studentID, "course_id", courseID)
	s.publish(ctx, rec, nil)
	return rec, nil
}

// GetProgress returns a zero record for an enrolled student who has not
// completed anything yet.
func (s *ProgressService) GetProgress(ctx context.Context, caller models.Identity, studentID, courseID uuid.UUID) (*models.ProgressRecord, error) {
	if !caller.Acts(studentID) {
		if err := s.checkInstructor(ctx, caller, courseID); err != nil {
			return nil, err
		}
	}
	if err := s.checkEnrolled(ctx, studentID, courseID); err != nil {
		return nil, err
	}
	tree, err := s.contentRepo.ContentTree(ctx, courseID)
	if err != nil {
		return nil, err
	}

	rec, err := s.progressRepo.Progress(ctx, studentID, courseID)
	if errors.Is(err, app_errors.ErrProgressNotFound) {
		rec = &models.ProgressRecord{StudentID: studentID, CourseID: courseID}
	} else if err != nil {
		return nil, err
	}
	rec.Recompute(tree)
	return rec, nil
}

func (s *ProgressService) prepareWrite(ctx context.Context, caller models.Identity, studentID, courseID uuid.UUID) (models.ContentTree, error) {
	if !caller.Acts(studentID) {
		return models.ContentTree{}, app_errors.ErrForbidden
	}
	if err := s.checkEnrolled(ctx, studentID, courseID); err != nil {
		return models.ContentTree{}, err
	}
	return s.contentRepo.ContentTree(ctx, courseID)
}

func (s *ProgressService) refresh(ctx context.Context, tree models.ContentTree, studentID, courseID uuid.UUID, now time.Time) (*models.ProgressRecord, error) {
	rec, err := s.progressRepo.Progress(ctx, studentID, courseID)
	if errors.Is(err, app_errors.ErrProgressNotFound) {
		rec = &models.ProgressRecord{StudentID: studentID, CourseID: courseID}
	} else if err != nil {
		return nil, err
	}
	rec.Recompute(tree)
	rec.LastAccessedAt = now

	if err := s.progressRepo.SaveProgress(ctx, studentID, courseID, rec.Percentage, now); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *ProgressService) checkEnrolled(ctx context.Context, studentID, courseID uuid.UUID) error {
	ok, err := s.enrollmentRepo.IsEnrolled(ctx, studentID, courseID)
	if err != nil {
		return err
	}
	if !ok {
		return app_errors.ErrNotEnrolled
	}
	return nil
}

func (s *ProgressService) checkInstructor(ctx context.Context, caller models.Identity, courseID uuid.UUID) error {
	if !caller.HasRole(models.InstructorRole) {
		return app_errors.ErrForbidden
	}
	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return err
	}
	if course.AuthorID != caller.UserID {
		return app_errors.ErrForbidden
	}
	return nil
}

func (s *ProgressService) publish(ctx context.Context, rec *models.ProgressRecord, lessonID *uuid.UUID) {
	pct := rec.Percentage
	err := s.publisher.Publish(ctx, events.Event{
		Type:       events.TypeProgressUpdated,
		StudentID:  rec.StudentID,
		CourseID:   rec.CourseID,
		LessonID:   lessonID,
		Percentage: &pct,
		OccurredAt: rec.LastAccessedAt,
	})
	if err != nil {
		s.log.Warn("publish event failed", "type", events.TypeProgressUpdated, "err", err.Error())
	}
}
