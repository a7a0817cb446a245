package memory

import (
	"SkillTrack/internal/app_errors"
	"SkillTrack/internal/models"
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
)

func (s *Store) ContentTree(ctx context.Context, courseID uuid.UUID) (models.ContentTree, error) {
	if err := ctx.Err(); err != nil {
		return models.ContentTree{}, app_errors.Upstream(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.courses[courseID]; !ok {
		return models.ContentTree{}, app_errors.ErrCourseNotFound
	}

	var sections []models.Section
	for _, sec := range s.sections {
		if sec.CourseID == courseID {
			sections = append(sections, *sec)
		}
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].Order < sections[j].Order })

	tree := models.ContentTree{CourseID: courseID, Sections: make([]models.SectionContent, 0, len(sections))}
	for _, sec := range sections {
		lessons := []models.Lesson{}
		for _, l := range s.lessons {
			if l.SectionID == sec.ID {
				lessons = append(lessons, *l)
			}
		}
		sort.Slice(lessons, func(i, j int) bool { return lessons[i].Order < lessons[j].Order })
		tree.Sections = append(tree.Sections, models.SectionContent{Section: sec, Lessons: lessons})
	}
	return tree, nil
}

func (s *Store) CreateSection(ctx context.Context, section models.Section) (*models.Section, error) {
	if err := ctx.Err(); err != nil {
		return nil, app_errors.Upstream(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[section.CourseID]; !ok {
		return nil, app_errors.ErrCourseNotFound
	}
	maxOrder := 0
	for _, sec := range s.sections {
		if sec.CourseID == section.CourseID && sec.Order > maxOrder {
			maxOrder = sec.Order
		}
	}
	if section.ID == uuid.Nil {
		section.ID = uuid.New()
	}
	now := time.Now().UTC()
	section.Order = maxOrder + 1
	section.CreatedAt = now
	section.UpdatedAt = now
	stored := section
	s.sections[section.ID] = &stored
	return &section, nil
}

func (s *Store) CreateLesson(ctx context.Context, lesson models.Lesson) (*models.Lesson, error) {
	if err := ctx.Err(); err != nil {
		return nil, app_errors.Upstream(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, ok := s.sections[lesson.SectionID]
	if !ok {
		return nil, app_errors.ErrSectionNotFound
	}
	if _, dup := s.lessons[lesson.ID]; dup && lesson.ID != uuid.Nil {
		return nil, app_errors.ErrDuplicateLesson
	}
	maxOrder := 0
	for _, l := range s.lessons {
		if l.SectionID == sec.ID && l.Order > maxOrder {
			maxOrder = l.Order
		}
	}
	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	now := time.Now().UTC()
	lesson.CourseID = sec.CourseID
	lesson.Order = maxOrder + 1
	lesson.CreatedAt = now
	lesson.UpdatedAt = now
	stored := lesson
	s.lessons[lesson.ID] = &stored
	return &lesson, nil
}

func (s *Store) SectionByID(ctx context.Context, id uuid.UUID) (models.Section, error) {
	if err := ctx.Err(); err != nil {
		return models.Section{}, app_errors.Upstream(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	sec, ok := s.sections[id]
	if !ok {
		return models.Section{}, app_errors.ErrSectionNotFound
	}
	return *sec, nil
}

func (s *Store) LessonByID(ctx context.Context, id uuid.UUID) (models.Lesson, error) {
	if err := ctx.Err(); err != nil {
		return models.Lesson{}, app_errors.Upstream(err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.lessons[id]
	if !ok {
		return models.Lesson{}, app_errors.ErrLessonNotFound
	}
	return *l, nil
}

func (s *Store) DeleteLessonAndUpdateOrder(ctx context.Context, lessonID, sectionID uuid.UUID, lessonOrder int) error {
	if err := ctx.Err(); err != nil {
		return app_errors.Upstream(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.lessons[lessonID]; !ok {
		return app_errors.ErrLessonNotFound
	}
	delete(s.lessons, lessonID)
	for _, l := range s.lessons {
		if l.SectionID == sectionID && l.Order > lessonOrder {
			l.Order--
		}
	}
	for _, row := range s.progress {
		delete(row.completed, lessonID)
	}
	return nil
}
