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

type RatingService interface {
	RateCourse(ctx context.Context, caller models.Identity, courseID uuid.UUID, stars int) error
	RemoveRating(ctx context.Context, caller models.Identity, courseID uuid.UUID) error
}

type RatingHandler struct {
	log     logger.Log
	service RatingService
}

func NewRatingHandler(log logger.Log, s RatingService) *RatingHandler {
	return &RatingHandler{
		log:     log,
		service: s,
	}
}

type rateRequest struct {
	Stars int `json:"stars" binding:"required,min=1,max=5"`
}

func (h *RatingHandler) RateCourse(c *gin.Context) {
	courseID, ok := controllers.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controllers.WriteBindError(c, err)
		return
	}
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	if err := h.service.RateCourse(c.Request.Context(), caller, courseID, req.Stars); err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rated"})
}

func (h *RatingHandler) RemoveRating(c *gin.Context) {
	courseID, ok := controllers.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	if err := h.service.RemoveRating(c.Request.Context(), caller, courseID); err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unrated"})
}
