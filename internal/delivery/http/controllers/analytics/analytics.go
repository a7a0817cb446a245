package analytics

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

type AnalyticsService interface {
	BuildInstructorReport(ctx context.Context, caller models.Identity, instructorID uuid.UUID, windowMonths int) (*models.AnalyticsSnapshot, error)
	ExportInstructorReport(ctx context.Context, caller models.Identity, instructorID uuid.UUID, windowMonths int) (*models.ReportExport, error)
}

type AnalyticsHandler struct {
	log     logger.Log
	service AnalyticsService
}

func NewAnalyticsHandler(log logger.Log, s AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		log:     log,
		service: s,
	}
}

type windowQuery struct {
	WindowMonths int `form:"window_months" binding:"min=0"`
}

func (h *AnalyticsHandler) Report(c *gin.Context) {
	instructorID, caller, window, ok := h.parse(c)
	if !ok {
		return
	}
	snapshot, err := h.service.BuildInstructorReport(c.Request.Context(), caller, instructorID, window)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *AnalyticsHandler) Export(c *gin.Context) {
	instructorID, caller, window, ok := h.parse(c)
	if !ok {
		return
	}
	export, err := h.service.ExportInstructorReport(c.Request.Context(), caller, instructorID, window)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, export)
}

func (h *AnalyticsHandler) parse(c *gin.Context) (uuid.UUID, models.Identity, int, bool) {
	instructorID, ok := controllers.UUIDParam(c, "instructor_id")
	if !ok {
		return uuid.Nil, models.Identity{}, 0, false
	}
	var q windowQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		controllers.WriteBindError(c, err)
		return uuid.Nil, models.Identity{}, 0, false
	}
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return uuid.Nil, models.Identity{}, 0, false
	}
	return instructorID, caller, q.WindowMonths, true
}
