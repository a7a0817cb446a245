package analytics

import (
	"SkillTrack/internal/app_errors"
	"SkillTrack/internal/config"
	"SkillTrack/internal/models"
	"SkillTrack/pkg/logger"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

const monthLayout = "2006-01"

type courseRepo interface {
	CoursesByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.Course, error)
}

type enrollmentRepo interface {
	EnrollmentsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Enrollment, error)
}

type contentRepo interface {
	ContentTree(ctx context.Context, courseID uuid.UUID) (models.ContentTree, error)
}

type progressRepo interface {
	ProgressByCourse(ctx context.Context, courseID uuid.UUID) ([]models.ProgressRecord, error)
}

// ReportStorage persists exported snapshots.
type ReportStorage interface {
	UploadReport(ctx context.Context, snapshot models.AnalyticsSnapshot) (*models.ReportExport, error)
}

type AnalyticsService struct {
	log            logger.Log
	cfg            config.Analytics
	courseRepo     courseRepo
	enrollmentRepo enrollmentRepo
	contentRepo    contentRepo
	progressRepo   progressRepo
	reports        ReportStorage
	now            func() time.Time
}

// NewAnalyticsService accepts a nil reports storage; exports then fail with
// app_errors.ErrReportStorageDisabled.
func NewAnalyticsService(log logger.Log, cfg config.Analytics, c courseRepo, e enrollmentRepo, content contentRepo, p progressRepo, reports ReportStorage) *AnalyticsService {
	if cfg.DefaultWindowMonths <= 0 {
		cfg.DefaultWindowMonths = 6
	}
	if cfg.MaxWindowMonths <= 0 {
		cfg.MaxWindowMonths = 24
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = 4
	}
	return &AnalyticsService{
		log:            log,
		cfg:            cfg,
		courseRepo:     c,
		enrollmentRepo: e,
		contentRepo:    content,
		progressRepo:   p,
		reports:        reports,
		now:            time.Now,
	}
}

type courseData struct {
	enrollments []models.Enrollment
	tree        models.ContentTree
	progress    []models.ProgressRecord
	failed      bool
}

// BuildInstructorReport aggregates every course owned by instructorID.
// windowMonths 0 selects the configured default. A course whose data cannot
// be read is reported with zeros and listed in FailedCourses.
func (s *AnalyticsService) BuildInstructorReport(ctx context.Context, caller models.Identity, instructorID uuid.UUID, windowMonths int) (*models.AnalyticsSnapshot, error) {
	ctx, span := otel.Tracer("SkillTrack/analytics").Start(ctx, "BuildInstructorReport")
	defer span.End()

	if !caller.Acts(instructorID) {
		return nil, app_errors.ErrForbidden
	}
	if windowMonths == 0 {
		windowMonths = s.cfg.DefaultWindowMonths
	}
	if windowMonths < 1 || windowMonths > s.cfg.MaxWindowMonths {
		return nil, fmt.Errorf("%w: got %d, allowed 1..%d", app_errors.ErrInvalidWindow, windowMonths, s.cfg.MaxWindowMonths)
	}
	span.SetAttributes(
		attribute.String("instructor_id", instructorID.String()),
		attribute.Int("window_months", windowMonths),
	)

	courses, err := s.courseRepo.CoursesByAuthor(ctx, instructorID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list courses")
		return nil, err
	}

	data, err := s.fetch(ctx, courses)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch course data")
		return nil, err
	}

	snapshot := aggregate(instructorID, windowMonths, s.now().UTC(), courses, data)
	span.SetAttributes(
		attribute.Int("courses", len(courses)),
		attribute.Int("failed_courses", len(snapshot.FailedCourses)),
	)
	if snapshot.Partial() {
		s.log.Warn("analytics report is partial", "instructor_id", instructorID, "failed_courses", len(snapshot.FailedCourses))
	}
	return snapshot, nil
}

// ExportInstructorReport builds the report and stores it as a JSON object.
func (s *AnalyticsService) ExportInstructorReport(ctx context.Context, caller models.Identity, instructorID uuid.UUID, windowMonths int) (*models.ReportExport, error) {
	if s.reports == nil {
		return nil, app_errors.ErrReportStorageDisabled
	}
	snapshot, err := s.BuildInstructorReport(ctx, caller, instructorID, windowMonths)
	if err != nil {
		return nil, err
	}
	export, err := s.reports.UploadReport(ctx, *snapshot)
	if err != nil {
		return nil, err
	}
	s.log.Info("analytics report exported", "instructor_id", instructorID, "object_key", export.ObjectKey)
	return export, nil
}

// fetch loads each course's data with bounded concurrency. Per-course read
// errors are logged and recorded; only cancellation of ctx stops the fan-out.
func (s *AnalyticsService) fetch(ctx context.Context, courses []models.Course) ([]courseData, error) {
	out := make([]courseData, len(courses))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FetchConcurrency)

	for i := range courses {
		i := i
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			d, err := s.fetchCourse(gctx, courses[i].ID)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				s.log.Warn("analytics course fetch failed", "course_id", courses[i].ID, "err", err.Error())
				out[i] = courseData{failed: true}
				return nil
			}
			out[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AnalyticsService) fetchCourse(ctx context.Context, courseID uuid.UUID) (courseData, error) {
	enrollments, err := s.enrollmentRepo.EnrollmentsByCourse(ctx, courseID)
	if err != nil {
		return courseData{}, fmt.Errorf("enrollments: %w", err)
	}
	tree, err := s.contentRepo.ContentTree(ctx, courseID)
	if err != nil {
		return courseData{}, fmt.Errorf("content tree: %w", err)
	}
	progress, err := s.progressRepo.ProgressByCourse(ctx, courseID)
	if err != nil {
		return courseData{}, fmt.Errorf("progress: %w", err)
	}
	return courseData{enrollments: enrollments, tree: tree, progress: progress}, nil
}

func aggregate(instructorID uuid.UUID, windowMonths int, now time.Time, courses []models.Course, data []courseData) *models.AnalyticsSnapshot {
	months := MonthWindow(now, windowMonths)
	counts := make(map[string]int, len(months))
	revenue := make(map[string]int64, len(months))

	snapshot := &models.AnalyticsSnapshot{
		InstructorID: instructorID,
		WindowMonths: windowMonths,
		GeneratedAt:  now,
		Courses:      make([]models.CourseComparison, 0, len(courses)),
	}
	histogram := make([]int, 6)

	for i, c := range courses {
		d := data[i]
		if d.failed {
			snapshot.FailedCourses = append(snapshot.FailedCourses, c.ID)
		}

		for _, e := range d.enrollments {
			key := e.CreatedAt.UTC().Format(monthLayout)
			counts[key]++
			revenue[key] += c.Price
		}

		for _, rec := range d.progress {
			rec.Recompute(d.tree)
			if rec.Percentage > 0 {
				snapshot.Active++
			} else {
				snapshot.Inactive++
			}
		}

		students := len(d.enrollments)
		snapshot.Courses = append(snapshot.Courses, models.CourseComparison{
			CourseID: c.ID,
			Title:    c.Title,
			Students: students,
			Revenue:  c.Price * int64(students),
			Rating:   c.RatingAvg,
		})
		histogram[RatingStars(c.RatingAvg)]++
	}

	snapshot.EnrollmentTrend = make([]models.MonthlyEnrollments, len(months))
	snapshot.RevenueTrend = make([]models.MonthlyRevenue, len(months))
	for i, m := range months {
		snapshot.EnrollmentTrend[i] = models.MonthlyEnrollments{Month: m, Enrollments: counts[m]}
		snapshot.RevenueTrend[i] = models.MonthlyRevenue{Month: m, Revenue: revenue[m]}
	}

	snapshot.RatingHistogram = make([]models.RatingBucket, len(histogram))
	for stars, n := range histogram {
		snapshot.RatingHistogram[stars] = models.RatingBucket{Stars: stars, Courses: n}
	}
	return snapshot
}

// MonthWindow returns n consecutive "YYYY-MM" keys ending with now's month,
// oldest first.
func MonthWindow(now time.Time, n int) []string {
	now = now.UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = first.AddDate(0, i-n+1, 0).Format(monthLayout)
	}
	return keys
}

// RatingStars rounds an average rating to the nearest whole star in 0..5.
func RatingStars(avg float64) int {
	stars := int(math.Round(avg))
	if stars < 0 {
		return 0
	}
	if stars > 5 {
		return 5
	}
	return stars
}
