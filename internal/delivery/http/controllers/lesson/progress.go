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

type ProgressService interface {
	MarkComplete(ctx context.Context, caller models.Identity, studentID, courseID, lessonID uuid.UUID) (*models.ProgressRecord, error)
	UnmarkComplete(ctx context.Context, caller models.Identity, studentID, courseID, lessonID uuid.UUID) (*models.ProgressRecord, error)
	ResetProgress(ctx context.Context, caller models.Identity, studentID, courseID uuid.UUID) (*models.ProgressRecord, error)
	GetProgress(ctx context.Context, caller models.Identity, studentID, courseID uuid.UUID) (*models.ProgressRecord, error)
}

type ProgressHandler struct {
	log     logger.Log
	service ProgressService
}

func NewProgressHandler(log logger.Log, service ProgressService) *ProgressHandler {
	return &ProgressHandler{log, service}
}

type lessonProgressRequest struct {
	StudentID uuid.UUID `json:"student_id" binding:"required"`
	CourseID  uuid.UUID `json:"course_id" binding:"required"`
	LessonID  uuid.UUID `json:"lesson_id" binding:"required"`
}

type courseProgressRequest struct {
	StudentID uuid.UUID `json:"student_id" binding:"required"`
	CourseID  uuid.UUID `json:"course_id" binding:"required"`
}

func (h *ProgressHandler) MarkComplete(c *gin.Context) {
	h.lessonMutation(c, h.service.MarkComplete)
}

func (h *ProgressHandler) UnmarkComplete(c *gin.Context) {
	h.lessonMutation(c, h.service.UnmarkComplete)
}

func (h *ProgressHandler) lessonMutation(c *gin.Context, op func(context.Context, models.Identity, uuid.UUID, uuid.UUID, uuid.UUID) (*models.ProgressRecord, error)) {
	var req lessonProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controllers.WriteBindError(c, err)
		return
	}
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	rec, err := op(c.Request.Context(), caller, req.StudentID, req.CourseID, req.LessonID)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *ProgressHandler) ResetProgress(c *gin.Context) {
	var req courseProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controllers.WriteBindError(c, err)
		return
	}
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	rec, err := h.service.ResetProgress(c.Request.Context(), caller, req.StudentID, req.CourseID)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *ProgressHandler) GetProgress(c *gin.Context) {
	studentID, ok := controllers.UUIDQuery(c, "student_id")
	if !ok {
		return
	}
	courseID, ok := controllers.UUIDQuery(c, "course_id")
	if !ok {
		return
	}
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	rec, err := h.service.GetProgress(c.Request.Context(), caller, studentID, courseID)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}
