package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	TypeEnrollmentCreated = "enrollment.created"
	TypeProgressUpdated   = "progress.updated"
)

type Event struct {
	Type       string     `json:"type"`
	StudentID  uuid.UUID  `json:"student_id"`
	CourseID   uuid.UUID  `json:"course_id"`
	LessonID   *uuid.UUID `json:"lesson_id,omitempty"`
	Percentage *int       `json:"percentage,omitempty"`
	AmountPaid *int64     `json:"amount_paid,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
