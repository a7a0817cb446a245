package rating

import (
	"SkillTrack/internal/app_errors"
	"SkillTrack/internal/models"
	"SkillTrack/internal/storage/memory"
	"SkillTrack/pkg/logger"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateCourse(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	course := models.Course{AuthorID: uuid.New(), Title: "SQL"}
	courseID, err := store.NewCourse(ctx, &course)
	require.NoError(t, err)

	alice := models.Identity{UserID: uuid.New(), Roles: []string{models.StudentRole}}
	bob := models.Identity{UserID: uuid.New(), Roles: []string{models.StudentRole}}
	for _, id := range []uuid.UUID{alice.UserID, bob.UserID} {
		require.NoError(t, store.CreateEnrollment(ctx, &models.Enrollment{StudentID: id, CourseID: courseID}))
	}

	svc := NewCourseRatingService(logger.NewNop(), store, store)

	require.NoError(t, svc.RateCourse(ctx, alice, courseID, 5))
	require.NoError(t, svc.RateCourse(ctx, bob, courseID, 2))
	require.NoError(t, svc.RateCourse(ctx, bob, courseID, 4))

	got, err := store.CourseByID(ctx, courseID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.RatingCount)
	assert.InDelta(t, 4.5, got.RatingAvg, 0.001)

	require.NoError(t, svc.RemoveRating(ctx, bob, courseID))
	assert.ErrorIs(t, svc.RemoveRating(ctx, bob, courseID), app_errors.ErrNotRated)

	got, err = store.CourseByID(ctx, courseID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.RatingCount)
}

func TestRateCourseRejects(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	course := models.Course{AuthorID: uuid.New(), Title: "SQL"}
	courseID, err := store.NewCourse(ctx, &course)
	require.NoError(t, err)
	svc := NewCourseRatingService(logger.NewNop(), store, store)
	stranger := models.Identity{UserID: uuid.New(), Roles: []string{models.StudentRole}}

	assert.ErrorIs(t, svc.RateCourse(ctx, stranger, courseID, 0), app_errors.ErrInvalidStars)
	assert.ErrorIs(t, svc.RateCourse(ctx, stranger, courseID, 6), app_errors.ErrInvalidStars)
	assert.ErrorIs(t, svc.RateCourse(ctx, stranger, courseID, 3), app_errors.ErrNotEnrolled)
}
