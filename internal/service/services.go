package service

import (
	"SkillTrack/internal/service/analytics"
	"SkillTrack/internal/service/auth"
	"SkillTrack/internal/service/content"
	"SkillTrack/internal/service/course"
	"SkillTrack/internal/service/course/enrollment"
	"SkillTrack/internal/service/course/rating"
	"SkillTrack/internal/service/lesson/progress"
)

type Collection struct {
	Tokens      *auth.JWTManager
	Courses     *course.CourseService
	Content     *content.ContentService
	Enrollments *enrollment.EnrollmentService
	Progress    *progress.ProgressService
	Ratings     *rating.CourseRatingService
	Analytics   *analytics.AnalyticsService
}
