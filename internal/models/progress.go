package models

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

type ProgressRecord struct {
	StudentID          uuid.UUID   `json:"student_id"`
	CourseID           uuid.UUID   `json:"course_id"`
	CompletedLessonIDs []uuid.UUID `json:"completed_lesson_ids"`
	Percentage         int         `json:"percentage"`
	TotalLessons       int         `json:"total_lessons"`
	LastAccessedAt     time.Time   `json:"last_accessed_at"`
}

// CompletionPercentage returns round(100*completed/total) clamped to [0,100].
func CompletionPercentage(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(completed) / float64(total)))
	if p > 100 {
		return 100
	}
	return p
}

// Recompute drops completions that are no longer part of the tree and
// derives the percentage from the tree's current lesson count. Adding
// lessons to a course lowers the percentage of students who already
// finished the old ones.
func (p *ProgressRecord) Recompute(tree ContentTree) {
	valid := tree.LessonIDs()
	kept := make([]uuid.UUID, 0, len(p.CompletedLessonIDs))
	seen := make(map[uuid.UUID]struct{}, len(p.CompletedLessonIDs))
	for _, id := range p.CompletedLessonIDs {
		if _, ok := valid[id]; !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, id)
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].String() < kept[j].String() })

	p.CompletedLessonIDs = kept
	p.TotalLessons = len(valid)
	p.Percentage = CompletionPercentage(len(kept), len(valid))
}
