package http

import (
	"SkillTrack/internal/delivery/http/controllers"
	"SkillTrack/internal/delivery/http/controllers/analytics"
	"SkillTrack/internal/delivery/http/controllers/auth"
	"SkillTrack/internal/delivery/http/controllers/course"
	"SkillTrack/internal/delivery/http/controllers/lesson"
	"SkillTrack/internal/delivery/http/controllers/middleware"
	"SkillTrack/internal/models"
	"SkillTrack/internal/service"
	"SkillTrack/pkg/logger"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type RouterOptions struct {
	AllowedOrigins []string
	ServiceName    string
}

func InitRoutes(l logger.Log, u service.Collection, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	config := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(config))

	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = "skilltrack"
	}
	r.Use(otelgin.Middleware(serviceName))

	authProvider := middleware.NewAuthMiddlewareProvider(l, u.Tokens)

	statusController := controllers.NewStatusHandler()
	authController := auth.NewAuthHandler()
	courseController := course.NewManagementHandler(l, u.Courses)
	enrollmentController := course.NewEnrollmentHandler(l, u.Enrollments)
	ratingController := course.NewRatingHandler(l, u.Ratings)
	contentController := lesson.NewContentHandler(l, u.Content)
	progressController := lesson.NewProgressHandler(l, u.Progress)
	analyticsController := analytics.NewAnalyticsHandler(l, u.Analytics)

	v1 := r.Group("/v1", middleware.LoggingMiddleware(l))
	{
		v1.GET("/status", statusController.Status)
		v1.GET("/me", authProvider.AuthMiddleware, authController.Me)

		courses := v1.Group("/courses")
		{
			courses.GET("/:course_id", courseController.CourseByID)
			courses.GET("/:course_id/content", contentController.CourseContent)

			authed := courses.Group("", authProvider.AuthMiddleware)
			{
				authed.GET("/:course_id/enrollment", enrollmentController.EnrollmentStatus)
			}

			author := courses.Group("", authProvider.AuthMiddleware, middleware.RequireRoles(models.InstructorRole))
			{
				author.POST("", courseController.CreateCourse)
				author.GET("/mine", courseController.GetMyCourses)
				author.POST("/:course_id/sections", contentController.CreateSection)
				author.POST("/:course_id/sections/:section_id/lessons", contentController.CreateLesson)
				author.DELETE("/:course_id/lessons/:lesson_id", contentController.DeleteLesson)
			}

			student := courses.Group("", authProvider.AuthMiddleware, middleware.RequireRoles(models.StudentRole))
			{
				student.POST("/:course_id/checkout", enrollmentController.Checkout)
				student.POST("/:course_id/rating", ratingController.RateCourse)
				student.DELETE("/:course_id/rating", ratingController.RemoveRating)
			}
		}

		enrollments := v1.Group("", authProvider.AuthMiddleware, middleware.RequireRoles(models.StudentRole))
		{
			enrollments.POST("/enrollments", enrollmentController.Enroll)
			enrollments.GET("/students/:student_id/enrollments", enrollmentController.ListByStudent)
		}

		progress := v1.Group("/progress", authProvider.AuthMiddleware)
		{
			progress.GET("", progressController.GetProgress)
			progress.POST("/complete", middleware.RequireRoles(models.StudentRole), progressController.MarkComplete)
			progress.POST("/uncomplete", middleware.RequireRoles(models.StudentRole), progressController.UnmarkComplete)
			progress.POST("/reset", middleware.RequireRoles(models.StudentRole), progressController.ResetProgress)
		}

		instructors := v1.Group("/instructors", authProvider.AuthMiddleware, middleware.RequireRoles(models.InstructorRole))
		{
			instructors.GET("/:instructor_id/analytics", analyticsController.Report)
			instructors.POST("/:instructor_id/analytics/export", analyticsController.Export)
		}
	}
	return r
}
