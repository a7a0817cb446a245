package models

import (
	"time"

	"github.com/google/uuid"
)

type Enrollment struct {
	ID         uuid.UUID `json:"id"`
	StudentID  uuid.UUID `json:"student_id"`
	CourseID   uuid.UUID `json:"course_id"`
	AmountPaid int64     `json:"amount_paid"`
	CreatedAt  time.Time `json:"created_at"`
}
