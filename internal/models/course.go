package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusHidden = "hidden"
	StatusPublic = "public"
)

// Course price is kept in minor currency units.
type Course struct {
	ID               uuid.UUID `json:"id"`
	AuthorID         uuid.UUID `json:"author_id"`
	Title            string    `json:"title"`
	Price            int64     `json:"price"`
	Status           string    `json:"status"`
	EnrollmentsCount int       `json:"enrollments_count"`
	RatingAvg        float64   `json:"rating_avg"`
	RatingCount      int       `json:"rating_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Section struct {
	ID        uuid.UUID `json:"id"`
	CourseID  uuid.UUID `json:"course_id"`
	Title     string    `json:"title"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
