package models

import (
	"fmt"

	"github.com/google/uuid"
)

type SectionContent struct {
	Section Section  `json:"section"`
	Lessons []Lesson `json:"lessons"`
}

// ContentTree is the ordered section/lesson structure of one course.
// Sections and their lessons are expected in ascending order.
type ContentTree struct {
	CourseID uuid.UUID        `json:"course_id"`
	Sections []SectionContent `json:"sections"`
}

func (t ContentTree) TotalLessons() int {
	n := 0
	for _, s := range t.Sections {
		n += len(s.Lessons)
	}
	return n
}

func (t ContentTree) TotalDurationSeconds() int {
	total := 0
	for _, s := range t.Sections {
		for _, l := range s.Lessons {
			total += l.DurationSeconds
		}
	}
	return total
}

func (t ContentTree) Lesson(id uuid.UUID) (Lesson, bool) {
	for _, s := range t.Sections {
		for _, l := range s.Lessons {
			if l.ID == id {
				return l, true
			}
		}
	}
	return Lesson{}, false
}

func (t ContentTree) HasLesson(id uuid.UUID) bool {
	_, ok := t.Lesson(id)
	return ok
}

func (t ContentTree) LessonIDs() map[uuid.UUID]struct{} {
	ids := make(map[uuid.UUID]struct{}, t.TotalLessons())
	for _, s := range t.Sections {
		for _, l := range s.Lessons {
			ids[l.ID] = struct{}{}
		}
	}
	return ids
}

// Validate checks that lesson ids are unique within the course and that
// section and lesson order indices run 1..n without gaps.
func (t ContentTree) Validate() error {
	seen := make(map[uuid.UUID]struct{})
	for i, s := range t.Sections {
		if s.Section.Order != i+1 {
			return fmt.Errorf("section %s has order %d, want %d", s.Section.ID, s.Section.Order, i+1)
		}
		for j, l := range s.Lessons {
			if l.Order != j+1 {
				return fmt.Errorf("lesson %s has order %d, want %d", l.ID, l.Order, j+1)
			}
			if _, dup := seen[l.ID]; dup {
				return fmt.Errorf("lesson %s appears twice", l.ID)
			}
			seen[l.ID] = struct{}{}
		}
	}
	return nil
}
