package lesson

import (
	"SkillTrack/internal/delivery/http/controllers"
	"SkillTrack/internal/delivery/http/controllers/middleware"
	"SkillTrack/internal/models"
	"SkillTrack/pkg/logger"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ContentService interface {
	Tree(ctx context.Context, courseID uuid.UUID) (models.ContentTree, error)
	AddSection(ctx context.Context, caller models.Identity, courseID uuid.UUID, title string) (*models.Section, error)
	AddLesson(ctx context.Context, caller models.Identity, lesson models.Lesson) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, caller models.Identity, courseID, lessonID uuid.UUID) error
}

type ContentHandler struct {
	log     logger.Log
	service ContentService
}

func NewContentHandler(log logger.Log, service ContentService) *ContentHandler {
	return &ContentHandler{
		log:     log,
		service: service,
	}
}

func (h *ContentHandler) CourseContent(c *gin.Context) {
	courseID, ok := controllers.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	tree, err := h.service.Tree(c.Request.Context(), courseID)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"course_id":              tree.CourseID,
		"sections":               tree.Sections,
		"total_lessons":          tree.TotalLessons(),
		"total_duration_seconds": tree.TotalDurationSeconds(),
	})
}

type createSectionRequest struct {
	Title string `json:"title" binding:"required"`
}

func (h *ContentHandler) CreateSection(c *gin.Context) {
	courseID, ok := controllers.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	var req createSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controllers.WriteBindError(c, err)
		return
	}
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	section, err := h.service.AddSection(c.Request.Context(), caller, courseID, req.Title)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, section)
}

type createLessonRequest struct {
	Title           string `json:"title" binding:"required"`
	Type            string `json:"type" binding:"required,oneof=video quiz text"`
	DurationSeconds int    `json:"duration_seconds" binding:"min=0"`
	IsPreview       bool   `json:"is_preview"`
}

func (h *ContentHandler) CreateLesson(c *gin.Context) {
	courseID, ok := controllers.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	sectionID, ok := controllers.UUIDParam(c, "section_id")
	if !ok {
		return
	}
	var req createLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controllers.WriteBindError(c, err)
		return
	}
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}

	lesson, err := h.service.AddLesson(c.Request.Context(), caller, models.Lesson{
		CourseID:        courseID,
		SectionID:       sectionID,
		Title:           req.Title,
		Type:            req.Type,
		DurationSeconds: req.DurationSeconds,
		IsPreview:       req.IsPreview,
	})
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

func (h *ContentHandler) DeleteLesson(c *gin.Context) {
	courseID, ok := controllers.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	lessonID, ok := controllers.UUIDParam(c, "lesson_id")
	if !ok {
		return
	}
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	if err := h.service.DeleteLesson(c.Request.Context(), caller, courseID, lessonID); err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "lesson deleted"})
}
