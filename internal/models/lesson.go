package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	LessonTypeVideo = "video"
	LessonTypeQuiz  = "quiz"
	LessonTypeText  = "text"
)

type Lesson struct {
	ID              uuid.UUID `json:"id"`
	CourseID        uuid.UUID `json:"course_id"`
	SectionID       uuid.UUID `json:"section_id"`
	Title           string    `json:"title"`
	Order           int       `json:"order"`
	Type            string    `json:"type"`
	DurationSeconds int       `json:"duration_seconds"`
	IsPreview       bool      `json:"is_preview"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func ValidLessonType(t string) bool {
	switch t {
	case LessonTypeVideo, LessonTypeQuiz, LessonTypeText:
		return true
	}
	return false
}
