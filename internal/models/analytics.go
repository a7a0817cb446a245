package models

import (
	"time"

	"github.com/google/uuid"
)

type MonthlyEnrollments struct {
	Month       string `json:"month"`
	Enrollments int    `json:"enrollments"`
}

type MonthlyRevenue struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenue"`
}

type CourseComparison struct {
	CourseID uuid.UUID `json:"course_id"`
	Title    string    `json:"title"`
	Students int       `json:"students"`
	Revenue  int64     `json:"revenue"`
	Rating   float64   `json:"rating"`
}

type RatingBucket struct {
	Stars   int `json:"stars"`
	Courses int `json:"courses"`
}

// AnalyticsSnapshot is derived on every request and never stored.
// Active and Inactive count enrollments, not distinct students.
type AnalyticsSnapshot struct {
	InstructorID    uuid.UUID            `json:"instructor_id"`
	WindowMonths    int                  `json:"window_months"`
	GeneratedAt     time.Time            `json:"generated_at"`
	EnrollmentTrend []MonthlyEnrollments `json:"enrollment_trend"`
	RevenueTrend    []MonthlyRevenue     `json:"revenue_trend"`
	Courses         []CourseComparison   `json:"courses"`
	RatingHistogram []RatingBucket       `json:"rating_histogram"`
	Active          int                  `json:"active"`
	Inactive        int                  `json:"inactive"`
	FailedCourses   []uuid.UUID          `json:"failed_courses,omitempty"`
}

func (s AnalyticsSnapshot) Partial() bool {
	return len(s.FailedCourses) > 0
}

type ReportExport struct {
	ObjectKey string    `json:"object_key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
