package course

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

type ManagementService interface {
	CreateCourse(ctx context.Context, caller models.Identity, title string, price int64) (*models.Course, error)
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
	GetMyCourses(ctx context.Context, caller models.Identity) ([]models.Course, error)
}

type ManagementHandler struct {
	log     logger.Log
	service ManagementService
}

func NewManagementHandler(l logger.Log, s ManagementService) *ManagementHandler {
	return &ManagementHandler{
		log:     l,
		service: s,
	}
}

type newCourseRequest struct {
	Title string `json:"title" binding:"required"`
	Price int64  `json:"price" binding:"min=0"`
}

func (h *ManagementHandler) CreateCourse(c *gin.Context) {
	var input newCourseRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		controllers.WriteBindError(c, err)
		return
	}
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	course, err := h.service.CreateCourse(c.Request.Context(), caller, input.Title, input.Price)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

func (h *ManagementHandler) CourseByID(c *gin.Context) {
	courseID, ok := controllers.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	course, err := h.service.CourseByID(c.Request.Context(), courseID)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *ManagementHandler) GetMyCourses(c *gin.Context) {
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	courses, err := h.service.GetMyCourses(c.Request.Context(), caller)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}
