package progress

import (
	"SkillTrack/internal/app_errors"
	"SkillTrack/internal/events"
	"SkillTrack/internal/models"
	"SkillTrack/internal/storage/memory"
	"SkillTrack/pkg/logger"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store     *memory.Store
	svc       *ProgressService
	courseID  uuid.UUID
	authorID  uuid.UUID
	sections  []uuid.UUID
	lessons   []uuid.UUID
	studentID uuid.UUID
}

// newFixture builds a course with 2 sections of 3 lessons each and one
// enrolled student.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	f := &fixture{store: store, authorID: uuid.New(), studentID: uuid.New()}

	course := models.Course{AuthorID: f.authorID, Title: "Concurrency in Go", Price: 10}
	courseID, err := store.NewCourse(ctx, &course)
	require.NoError(t, err)
	f.courseID = courseID

	for i := 0; i < 2; i++ {
		sec, err := store.CreateSection(ctx, models.Section{CourseID: courseID, Title: "section"})
		require.NoError(t, err)
		f.sections = append(f.sections, sec.ID)
		for j := 0; j < 3; j++ {
			f.addLesson(t, sec.ID)
		}
	}

	require.NoError(t, store.CreateEnrollment(ctx, &models.Enrollment{StudentID: f.studentID, CourseID: courseID}))

	f.svc = NewProgressService(logger.NewNop(), store, store, store, store, events.NopPublisher{})
	f.svc.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) addLesson(t *testing.T, sectionID uuid.UUID) uuid.UUID {
	t.Helper()
	l, err := f.store.CreateLesson(context.Background(), models.Lesson{
		CourseID:        f.courseID,
		SectionID:       sectionID,
		Title:           "lesson",
		Type:            models.LessonTypeVideo,
		DurationSeconds: 300,
	})
	require.NoError(t, err)
	f.lessons = append(f.lessons, l.ID)
	return l.ID
}

func (f *fixture) caller() models.Identity {
	return models.Identity{UserID: f.studentID, Roles: []string{models.StudentRole}}
}

func TestMarkCompleteRecomputesAfterLessonAdded(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var rec *models.ProgressRecord
	var err error
	for _, id := range f.lessons[:4] {
		rec, err = f.svc.MarkComplete(ctx, f.caller(), f.studentID, f.courseID, id)
		require.NoError(t, err)
	}
	assert.Equal(t, 67, rec.Percentage)
	assert.Equal(t, 6, rec.TotalLessons)

	f.addLesson(t, f.sections[1])

	rec, err = f.svc.GetProgress(ctx, f.caller(), f.studentID, f.courseID)
	require.NoError(t, err)
	assert.Equal(t, 57, rec.Percentage)
	assert.Equal(t, 7, rec.TotalLessons)
	assert.Len(t, rec.CompletedLessonIDs, 4)
}

func TestMarkCompleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.MarkComplete(ctx, f.caller(), f.studentID, f.courseID, f.lessons[0])
	require.NoError(t, err)
	second, err := f.svc.MarkComplete(ctx, f.caller(), f.studentID, f.courseID, f.lessons[0])
	require.NoError(t, err)

	assert.Equal(t, first.CompletedLessonIDs, second.CompletedLessonIDs)
	assert.Equal(t, 17, second.Percentage)
}

func TestUnmarkThenMarkRestoresState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.MarkComplete(ctx, f.caller(), f.studentID, f.courseID, f.lessons[0])
	require.NoError(t, err)
	before, err := f.svc.MarkComplete(ctx, f.caller(), f.studentID, f.courseID, f.lessons[1])
	require.NoError(t, err)

	mid, err := f.svc.UnmarkComplete(ctx, f.caller(), f.studentID, f.courseID, f.lessons[1])
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.lessons[0]}, mid.CompletedLessonIDs)

	after, err := f.svc.MarkComplete(ctx, f.caller(), f.studentID, f.courseID, f.lessons[1])
	require.NoError(t, err)
	assert.Equal(t, before.CompletedLessonIDs, after.CompletedLessonIDs)
	assert.Equal(t, before.Percentage, after.Percentage)
}

func TestMarkCompleteUnknownLessonLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.MarkComplete(ctx, f.caller(), f.studentID, f.courseID, f.lessons[0])
	require.NoError(t, err)

	_, err = f.svc.MarkComplete(ctx, f.caller(), f.studentID, f.courseID, uuid.New())
	assert.ErrorIs(t, err, app_errors.ErrLessonNotFound)

	rec, err := f.svc.GetProgress(ctx, f.caller(), f.studentID, f.courseID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{f.lessons[0]}, rec.CompletedLessonIDs)
}

func TestMarkCompleteLessonFromAnotherCourse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	other := models.Course{AuthorID: f.authorID, Title: "Other"}
	otherID, err := f.store.NewCourse(ctx, &other)
	require.NoError(t, err)
	sec, err := f.store.CreateSection(ctx, models.Section{CourseID: otherID, Title: "s"})
	require.NoError(t, err)
	foreign, err := f.store.CreateLesson(ctx, models.Lesson{CourseID: otherID, SectionID: sec.ID, Title: "l", Type: models.LessonTypeText})
	require.NoError(t, err)

	_, err = f.svc.MarkComplete(ctx, f.caller(), f.studentID, f.courseID, foreign.ID)
	assert.ErrorIs(t, err, app_errors.ErrLessonNotFound)
}

func TestNotEnrolled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	stranger := uuid.New()
	caller := models.Identity{UserID: stranger, Roles: []string{models.StudentRole}}

	_, err := f.svc.MarkComplete(ctx, caller, stranger, f.courseID, f.lessons[0])
	assert.ErrorIs(t, err, app_errors.ErrNotEnrolled)

	_, err = f.svc.GetProgress(ctx, caller, stranger, f.courseID)
	assert.ErrorIs(t, err, app_errors.ErrNotEnrolled)
}

func TestGetProgressZeroRecord(t *testing.T) {
	f := newFixture(t)

	rec, err := f.svc.GetProgress(context.Background(), f.caller(), f.studentID, f.courseID)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Percentage)
	assert.Empty(t, rec.CompletedLessonIDs)
	assert.Equal(t, 6, rec.TotalLessons)
}

func TestGetProgressAccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	author := models.Identity{UserID: f.authorID, Roles: []string{models.InstructorRole}}
	_, err := f.svc.GetProgress(ctx, author, f.studentID, f.courseID)
	assert.NoError(t, err)

	_, err = f.svc.MarkComplete(ctx, author, f.studentID, f.courseID, f.lessons[0])
	assert.ErrorIs(t, err, app_errors.ErrForbidden)

	otherInstructor := models.Identity{UserID: uuid.New(), Roles: []string{models.InstructorRole}}
	_, err = f.svc.GetProgress(ctx, otherInstructor, f.studentID, f.courseID)
	assert.ErrorIs(t, err, app_errors.ErrForbidden)

	admin := models.Identity{UserID: uuid.New(), Roles: []string{models.AdminRole}}
	_, err = f.svc.MarkComplete(ctx, admin, f.studentID, f.courseID, f.lessons[0])
	assert.NoError(t, err)
}

func TestResetProgress(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, id := range f.lessons {
		_, err := f.svc.MarkComplete(ctx, f.caller(), f.studentID, f.courseID, id)
		require.NoError(t, err)
	}
	rec, err := f.svc.GetProgress(ctx, f.caller(), f.studentID, f.courseID)
	require.NoError(t, err)
	assert.Equal(t, 100, rec.Percentage)

	rec, err = f.svc.ResetProgress(ctx, f.caller(), f.studentID, f.courseID)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Percentage)
	assert.Empty(t, rec.CompletedLessonIDs)
}

func TestConcurrentMarksMerge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var wg sync.WaitGroup
	for _, id := range f.lessons {
		wg.Add(1)
		go func(lessonID uuid.UUID) {
			defer wg.Done()
			_, err := f.svc.MarkComplete(ctx, f.caller(), f.studentID, f.courseID, lessonID)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	rec, err := f.svc.GetProgress(ctx, f.caller(), f.studentID, f.courseID)
	require.NoError(t, err)
	assert.Len(t, rec.CompletedLessonIDs, len(f.lessons))
	assert.Equal(t, 100, rec.Percentage)
}
