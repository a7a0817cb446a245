package minio_storage

import (
	"SkillTrack/internal/app_errors"
	"SkillTrack/internal/models"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
)

// ReportStorage keeps exported analytics snapshots as JSON objects and hands
// out presigned download links.
type ReportStorage struct {
	storage      *MinioStorage
	bucket       string
	presignedTTL time.Duration
}

func NewReportStorage(ctx context.Context, storage *MinioStorage, bucketName string, presignedTTL time.Duration) (*ReportStorage, error) {
	if err := storage.ensureBucket(ctx, bucketName); err != nil {
		return nil, err
	}
	return &ReportStorage{storage: storage, bucket: bucketName, presignedTTL: presignedTTL}, nil
}

func ReportObjectKey(snapshot models.AnalyticsSnapshot) string {
	return fmt.Sprintf("instructors/%s/analytics-%dm-%s.json",
		snapshot.InstructorID, snapshot.WindowMonths, snapshot.GeneratedAt.UTC().Format("20060102T150405Z"))
}

func (s *ReportStorage) UploadReport(ctx context.Context, snapshot models.AnalyticsSnapshot) (*models.ReportExport, error) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	objectKey := ReportObjectKey(snapshot)
	_, err = s.storage.client.PutObject(
		ctx,
		s.bucket,
		objectKey,
		bytes.NewReader(raw),
		int64(len(raw)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)
	if err != nil {
		return nil, app_errors.Upstream(fmt.Errorf("put report: %w", err))
	}

	presignedURL, err := s.storage.client.PresignedGetObject(ctx, s.bucket, objectKey, s.presignedTTL, make(url.Values))
	if err != nil {
		return nil, app_errors.Upstream(fmt.Errorf("presign report: %w", err))
	}
	return &models.ReportExport{
		ObjectKey: objectKey,
		URL:       presignedURL.String(),
		ExpiresAt: time.Now().UTC().Add(s.presignedTTL),
	}, nil
}
