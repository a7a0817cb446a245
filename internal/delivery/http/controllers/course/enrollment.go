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

type EnrollmentService interface {
	Enroll(ctx context.Context, caller models.Identity, studentID, courseID uuid.UUID, amountPaid int64) (*models.Enrollment, error)
	IsEnrolled(ctx context.Context, studentID, courseID uuid.UUID) (bool, error)
	Checkout(ctx context.Context, caller models.Identity, courseID uuid.UUID, paymentToken string) (*models.Enrollment, error)
	ListByStudent(ctx context.Context, caller models.Identity, studentID uuid.UUID) ([]models.Enrollment, error)
}

type EnrollmentHandler struct {
	log     logger.Log
	service EnrollmentService
}

func NewEnrollmentHandler(log logger.Log, s EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{
		log:     log,
		service: s,
	}
}

type enrollRequest struct {
	StudentID  uuid.UUID `json:"student_id" binding:"required"`
	CourseID   uuid.UUID `json:"course_id" binding:"required"`
	AmountPaid int64     `json:"amount_paid" binding:"min=0"`
}

// Enroll is the payment-success callback shape: the amount has already
// been collected elsewhere.
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req enrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controllers.WriteBindError(c, err)
		return
	}
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	enrollment, err := h.service.Enroll(c.Request.Context(), caller, req.StudentID, req.CourseID, req.AmountPaid)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

type checkoutRequest struct {
	PaymentToken string `json:"payment_token" binding:"required"`
}

func (h *EnrollmentHandler) Checkout(c *gin.Context) {
	courseID, ok := controllers.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		controllers.WriteBindError(c, err)
		return
	}
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	enrollment, err := h.service.Checkout(c.Request.Context(), caller, courseID, req.PaymentToken)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

func (h *EnrollmentHandler) EnrollmentStatus(c *gin.Context) {
	courseID, ok := controllers.UUIDParam(c, "course_id")
	if !ok {
		return
	}
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	enrolled, err := h.service.IsEnrolled(c.Request.Context(), caller.UserID, courseID)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course_id": courseID, "enrolled": enrolled})
}

func (h *EnrollmentHandler) ListByStudent(c *gin.Context) {
	studentID, ok := controllers.UUIDParam(c, "student_id")
	if !ok {
		return
	}
	caller, ok := middleware.MustIdentity(c)
	if !ok {
		return
	}
	enrollments, err := h.service.ListByStudent(c.Request.Context(), caller, studentID)
	if err != nil {
		controllers.WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollments": enrollments})
}
