package analytics

import (
	"SkillTrack/internal/app_errors"
	"SkillTrack/internal/config"
	"SkillTrack/internal/models"
	"SkillTrack/internal/storage/memory"
	"SkillTrack/pkg/logger"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC)

type flakyEnrollments struct {
	*memory.Store
	failFor uuid.UUID
}

func (f flakyEnrollments) EnrollmentsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Enrollment, error) {
	if courseID == f.failFor {
		return nil, app_errors.Upstream(errors.New("connection reset"))
	}
	return f.Store.EnrollmentsByCourse(ctx, courseID)
}

type fakeReports struct {
	got *models.AnalyticsSnapshot
}

func (f *fakeReports) UploadReport(_ context.Context, s models.AnalyticsSnapshot) (*models.ReportExport, error) {
	f.got = &s
	return &models.ReportExport{ObjectKey: "k", URL: "http://minio/k", ExpiresAt: now.Add(time.Minute)}, nil
}

func newService(store *memory.Store, enrollments enrollmentRepo, reports ReportStorage) *AnalyticsService {
	svc := NewAnalyticsService(logger.NewNop(), config.Analytics{DefaultWindowMonths: 6, MaxWindowMonths: 24, FetchConcurrency: 2},
		store, enrollments, store, store, reports)
	svc.now = func() time.Time { return now }
	return svc
}

func addCourse(t *testing.T, store *memory.Store, author uuid.UUID, title string, price int64) uuid.UUID {
	t.Helper()
	c := models.Course{AuthorID: author, Title: title, Price: price, Status: models.StatusPublic}
	id, err := store.NewCourse(context.Background(), &c)
	require.NoError(t, err)
	return id
}

func enroll(t *testing.T, store *memory.Store, courseID uuid.UUID, at time.Time) uuid.UUID {
	t.Helper()
	student := uuid.New()
	require.NoError(t, store.CreateEnrollment(context.Background(), &models.Enrollment{
		ID: uuid.New(), StudentID: student, CourseID: courseID, CreatedAt: at,
	}))
	return student
}

func row(t *testing.T, snap *models.AnalyticsSnapshot, courseID uuid.UUID) models.CourseComparison {
	t.Helper()
	for _, r := range snap.Courses {
		if r.CourseID == courseID {
			return r
		}
	}
	t.Fatalf("no row for course %s", courseID)
	return models.CourseComparison{}
}

func instructor(id uuid.UUID) models.Identity {
	return models.Identity{UserID: id, Roles: []string{models.InstructorRole}}
}

func TestMonthWindow(t *testing.T) {
	assert.Equal(t, []string{"2026-04"}, MonthWindow(now, 1))
	assert.Equal(t, []string{"2025-11", "2025-12", "2026-01", "2026-02", "2026-03", "2026-04"}, MonthWindow(now, 6))

	endOfMonth := time.Date(2026, 3, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{"2026-02", "2026-03"}, MonthWindow(endOfMonth, 2))
}

func TestRatingStars(t *testing.T) {
	tests := map[float64]int{0: 0, 1.49: 1, 2.5: 3, 4.6: 5, 5: 5}
	for avg, want := range tests {
		assert.Equal(t, want, RatingStars(avg), "avg %v", avg)
	}
}

func TestReportSingleMonth(t *testing.T) {
	store := memory.New()
	author := uuid.New()
	a := addCourse(t, store, author, "A", 10)
	b := addCourse(t, store, author, "B", 20)
	for i := 0; i < 3; i++ {
		enroll(t, store, a, now.AddDate(0, 0, -i))
	}

	snap, err := newService(store, store, nil).BuildInstructorReport(context.Background(), instructor(author), author, 1)
	require.NoError(t, err)

	require.Len(t, snap.EnrollmentTrend, 1)
	assert.Equal(t, models.MonthlyEnrollments{Month: "2026-04", Enrollments: 3}, snap.EnrollmentTrend[0])
	require.Len(t, snap.RevenueTrend, 1)
	assert.Equal(t, int64(30), snap.RevenueTrend[0].Revenue)

	require.Len(t, snap.Courses, 2)
	assert.Equal(t, 3, row(t, snap, a).Students)
	assert.Equal(t, int64(30), row(t, snap, a).Revenue)
	assert.Equal(t, 0, row(t, snap, b).Students)
	assert.False(t, snap.Partial())
}

func TestReportZeroFilledWindow(t *testing.T) {
	store := memory.New()
	author := uuid.New()
	addCourse(t, store, author, "Empty", 15)

	snap, err := newService(store, store, nil).BuildInstructorReport(context.Background(), instructor(author), author, 0)
	require.NoError(t, err)

	assert.Equal(t, 6, snap.WindowMonths)
	require.Len(t, snap.EnrollmentTrend, 6)
	require.Len(t, snap.RevenueTrend, 6)
	for i, m := range MonthWindow(now, 6) {
		assert.Equal(t, m, snap.EnrollmentTrend[i].Month)
		assert.Zero(t, snap.EnrollmentTrend[i].Enrollments)
		assert.Zero(t, snap.RevenueTrend[i].Revenue)
	}
}

func TestReportNoCourses(t *testing.T) {
	store := memory.New()
	author := uuid.New()

	snap, err := newService(store, store, nil).BuildInstructorReport(context.Background(), instructor(author), author, 3)
	require.NoError(t, err)
	assert.Len(t, snap.EnrollmentTrend, 3)
	assert.Empty(t, snap.Courses)
	assert.Len(t, snap.RatingHistogram, 6)
}

func TestReportBucketsByMonth(t *testing.T) {
	store := memory.New()
	author := uuid.New()
	c := addCourse(t, store, author, "Go", 100)
	enroll(t, store, c, time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC))
	enroll(t, store, c, time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC))
	enroll(t, store, c, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))
	enroll(t, store, c, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	snap, err := newService(store, store, nil).BuildInstructorReport(context.Background(), instructor(author), author, 3)
	require.NoError(t, err)

	assert.Equal(t, []models.MonthlyEnrollments{
		{Month: "2026-02", Enrollments: 2},
		{Month: "2026-03", Enrollments: 0},
		{Month: "2026-04", Enrollments: 1},
	}, snap.EnrollmentTrend)
	assert.Equal(t, int64(200), snap.RevenueTrend[0].Revenue)
	assert.Equal(t, 4, snap.Courses[0].Students)
	assert.Equal(t, int64(400), snap.Courses[0].Revenue)
}

func TestReportActivityAndHistogram(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	author := uuid.New()
	a := addCourse(t, store, author, "A", 0)
	b := addCourse(t, store, author, "B", 0)

	sec, err := store.CreateSection(ctx, models.Section{CourseID: a, Title: "s"})
	require.NoError(t, err)
	lesson, err := store.CreateLesson(ctx, models.Lesson{CourseID: a, SectionID: sec.ID, Title: "l", Type: models.LessonTypeText})
	require.NoError(t, err)

	busy := enroll(t, store, a, now)
	enroll(t, store, a, now)
	require.NoError(t, store.CreateEnrollment(ctx, &models.Enrollment{StudentID: busy, CourseID: b, CreatedAt: now}))
	require.NoError(t, store.AddCompletion(ctx, busy, a, lesson.ID, now))

	require.NoError(t, store.UpsertRating(ctx, a, busy, 4))
	require.NoError(t, store.UpsertRating(ctx, a, uuid.New(), 5))

	snap, err := newService(store, store, nil).BuildInstructorReport(ctx, instructor(author), author, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, snap.Active)
	assert.Equal(t, 2, snap.Inactive)

	want := []models.RatingBucket{
		{Stars: 0, Courses: 1},
		{Stars: 1, Courses: 0},
		{Stars: 2, Courses: 0},
		{Stars: 3, Courses: 0},
		{Stars: 4, Courses: 0},
		{Stars: 5, Courses: 1},
	}
	assert.Equal(t, want, snap.RatingHistogram)
}

func TestReportPartialFailure(t *testing.T) {
	store := memory.New()
	author := uuid.New()
	good := addCourse(t, store, author, "good", 10)
	bad := addCourse(t, store, author, "bad", 10)
	enroll(t, store, good, now)
	enroll(t, store, bad, now)

	svc := newService(store, flakyEnrollments{Store: store, failFor: bad}, nil)
	snap, err := svc.BuildInstructorReport(context.Background(), instructor(author), author, 1)
	require.NoError(t, err)

	assert.True(t, snap.Partial())
	assert.Equal(t, []uuid.UUID{bad}, snap.FailedCourses)
	assert.Equal(t, 1, snap.EnrollmentTrend[0].Enrollments)
	require.Len(t, snap.Courses, 2)
	assert.Equal(t, 0, row(t, snap, bad).Students)
	assert.Equal(t, 1, row(t, snap, good).Students)
}

func TestReportRejects(t *testing.T) {
	store := memory.New()
	author := uuid.New()
	svc := newService(store, store, nil)
	ctx := context.Background()

	_, err := svc.BuildInstructorReport(ctx, instructor(author), author, 25)
	assert.ErrorIs(t, err, app_errors.ErrInvalidWindow)
	_, err = svc.BuildInstructorReport(ctx, instructor(author), author, -1)
	assert.ErrorIs(t, err, app_errors.ErrInvalidWindow)

	_, err = svc.BuildInstructorReport(ctx, instructor(uuid.New()), author, 1)
	assert.ErrorIs(t, err, app_errors.ErrForbidden)

	admin := models.Identity{UserID: uuid.New(), Roles: []string{models.AdminRole}}
	_, err = svc.BuildInstructorReport(ctx, admin, author, 1)
	assert.NoError(t, err)
}

func TestReportCancelled(t *testing.T) {
	store := memory.New()
	author := uuid.New()
	addCourse(t, store, author, "A", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newService(store, store, nil).BuildInstructorReport(ctx, instructor(author), author, 1)
	require.Error(t, err)
	assert.True(t, app_errors.Retryable(err) || errors.Is(err, context.Canceled))
}

func TestExportInstructorReport(t *testing.T) {
	store := memory.New()
	author := uuid.New()
	addCourse(t, store, author, "A", 1)
	ctx := context.Background()

	_, err := newService(store, store, nil).ExportInstructorReport(ctx, instructor(author), author, 1)
	assert.ErrorIs(t, err, app_errors.ErrReportStorageDisabled)
	assert.False(t, app_errors.Retryable(err))

	reports := &fakeReports{}
	export, err := newService(store, store, reports).ExportInstructorReport(ctx, instructor(author), author, 2)
	require.NoError(t, err)
	assert.Equal(t, "k", export.ObjectKey)
	require.NotNil(t, reports.got)
	assert.Len(t, reports.got.EnrollmentTrend, 2)
}
