package enrollment

import (
	"SkillTrack/internal/app_errors"
	"SkillTrack/internal/events"
	"SkillTrack/internal/models"
	"SkillTrack/internal/service/payment"
	"SkillTrack/pkg/logger"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const refundTimeout = 10 * time.Second

type courseRepo interface {
	CourseByID(ctx context.Context, id uuid.UUID) (*models.Course, error)
}

type enrollmentRepo interface {
	CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	IsEnrolled(ctx context.Context, studentID, courseID uuid.UUID) (bool, error)
	EnrollmentsByStudent(ctx context.Context, studentID uuid.UUID) ([]models.Enrollment, error)
}

type EnrollmentService struct {
	log            logger.Log
	courseRepo     courseRepo
	enrollmentRepo enrollmentRepo
	gateway        payment.Gateway
	publisher      events.Publisher
	now            func() time.Time
}

func NewEnrollmentService(log logger.Log, c courseRepo, e enrollmentRepo, g payment.Gateway, p events.Publisher) *EnrollmentService {
	if p == nil {
		p = events.NopPublisher{}
	}
	return &EnrollmentService{
		log:            log,
		courseRepo:     c,
		enrollmentRepo: e,
		gateway:        g,
		publisher:      p,
		now:            time.Now,
	}
}

// Enroll records a paid enrollment. Uniqueness of (student, course) is
// decided by the repository in the same step as the insert, so of two
// concurrent calls for the same pair exactly one succeeds.
func (s *EnrollmentService) Enroll(ctx context.Context, caller models.Identity, studentID, courseID uuid.UUID, amountPaid int64) (*models.Enrollment, error) {
	if !caller.Acts(studentID) {
		return nil, app_errors.ErrForbidden
	}
	if amountPaid < 0 {
		return nil, app_errors.ErrInvalidAmount
	}
	if studentID == uuid.Nil || courseID == uuid.Nil {
		return nil, app_errors.Validation("student_id and course_id are required")
	}

	e := models.Enrollment{
		ID:         uuid.New(),
		StudentID:  studentID,
		CourseID:   courseID,
		AmountPaid: amountPaid,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.enrollmentRepo.CreateEnrollment(ctx, &e); err != nil {
		return nil, err
	}
	s.log.Info("student enrolled", "student_id", studentID, "course_id", courseID, "amount_paid", amountPaid)

	amount := e.AmountPaid
	s.publish(ctx, events.Event{
		Type:       events.TypeEnrollmentCreated,
		StudentID:  studentID,
		CourseID:   courseID,
		AmountPaid: &amount,
		OccurredAt: e.CreatedAt,
	})
	return &e, nil
}

func (s *EnrollmentService) IsEnrolled(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	return s.enrollmentRepo.IsEnrolled(ctx, studentID, courseID)
}

// Checkout charges the course price for the caller and enrolls them with the
// charged amount. A declined charge leaves no enrollment behind, and a charge
// whose enrollment fails (a concurrent checkout won) is refunded.
func (s *EnrollmentService) Checkout(ctx context.Context, caller models.Identity, courseID uuid.UUID, paymentToken string) (*models.Enrollment, error) {
	if caller.UserID == uuid.Nil {
		return nil, app_errors.ErrUnauthorized
	}
	course, err := s.courseRepo.CourseByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	enrolled, err := s.enrollmentRepo.IsEnrolled(ctx, caller.UserID, courseID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, app_errors.ErrAlreadyEnrolled
	}

	receipt, err := s.gateway.Charge(ctx, payment.ChargeRequest{
		StudentID: caller.UserID,
		CourseID:  courseID,
		Amount:    course.Price,
		Token:     paymentToken,
	})
	if err != nil {
		s.log.Warn("charge failed", "student_id", caller.UserID, "course_id", courseID, "err", err.Error())
		return nil, fmt.Errorf("checkout: %w", err)
	}

	e, err := s.Enroll(ctx, caller, caller.UserID, courseID, receipt.Amount)
	if err != nil {
		s.refund(ctx, receipt, caller.UserID, courseID, err)
		return nil, err
	}
	return e, nil
}

// refund reverses a charge that did not become an enrollment. It runs even
// when the request context is already done.
func (s *EnrollmentService) refund(ctx context.Context, receipt *payment.Receipt, studentID, courseID uuid.UUID, cause error) {
	refundCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), refundTimeout)
	defer cancel()

	if err := s.gateway.Refund(refundCtx, receipt.ID); err != nil {
		s.log.ErrorErr("refund after failed enrollment", err, "receipt_id", receipt.ID, "student_id", studentID, "course_id", courseID, "cause", cause.Error())
		return
	}
	s.log.Warn("charge refunded, enrollment failed", "receipt_id", receipt.ID, "student_id", studentID, "course_id", courseID, "cause", cause.Error())
}

func (s *EnrollmentService) ListByStudent(ctx context.Context, caller models.Identity, studentID uuid.UUID) ([]models.Enrollment, error) {
	if !caller.Acts(studentID) {
		return nil, app_errors.ErrForbidden
	}
	enrollments, err := s.enrollmentRepo.EnrollmentsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if enrollments == nil {
		enrollments = []models.Enrollment{}
	}
	return enrollments, nil
}

func (s *EnrollmentService) publish(ctx context.Context, e events.Event) {
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Warn("publish event failed", "type", e.Type, "err", err.Error())
	}
}
