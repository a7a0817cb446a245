package minio_storage

import (
	"SkillTrack/internal/models"
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportObjectKey(t *testing.T) {
	instructor := uuid.MustParse("6f1c1d5e-8a0e-4a33-9f51-2a4b9a6b1c01")
	key := ReportObjectKey(models.AnalyticsSnapshot{
		InstructorID: instructor,
		WindowMonths: 6,
		GeneratedAt:  time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC),
	})
	assert.Equal(t, "instructors/6f1c1d5e-8a0e-4a33-9f51-2a4b9a6b1c01/analytics-6m-20260502T093000Z.json", key)
}

func TestUploadReport(t *testing.T) {
	endpoint := os.Getenv("TEST_MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("TEST_MINIO_ENDPOINT is not set")
	}
	ctx := context.Background()
	ms, err := NewMinioStorage(endpoint, os.Getenv("TEST_MINIO_ACCESS_KEY"), os.Getenv("TEST_MINIO_SECRET_KEY"), false)
	require.NoError(t, err)
	reports, err := NewReportStorage(ctx, ms, "test-reports", time.Minute)
	require.NoError(t, err)

	export, err := reports.UploadReport(ctx, models.AnalyticsSnapshot{InstructorID: uuid.New(), WindowMonths: 1, GeneratedAt: time.Now()})
	require.NoError(t, err)
	assert.NotEmpty(t, export.URL)
	assert.True(t, export.ExpiresAt.After(time.Now()))
}
