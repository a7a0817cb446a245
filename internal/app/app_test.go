package app

import (
	"SkillTrack/internal/config"
	"SkillTrack/internal/events"
	"SkillTrack/pkg/logger"
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenPublisherFallsBackToNop(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Redis
	}{
		{name: "not configured", cfg: config.Redis{}},
		{name: "unreachable", cfg: config.Redis{Addr: "127.0.0.1:1", Channel: "learning-events", DialTimeout: 200 * time.Millisecond}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub, closePublisher := openPublisher(logger.NewNop(), tt.cfg)
			assert.IsType(t, events.NopPublisher{}, pub)
			assert.NoError(t, closePublisher())
		})
	}
}

func TestOpenPublisherClosesRedis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}
	pub, closePublisher := openPublisher(logger.NewNop(), config.Redis{Addr: addr, Channel: "app-test", DialTimeout: time.Second})
	require.IsType(t, &events.RedisPublisher{}, pub)
	require.NoError(t, closePublisher())

	err := pub.Publish(context.Background(), events.Event{Type: events.TypeProgressUpdated})
	assert.Error(t, err)
}

func TestOpenReportStorageDisabledWithoutEndpoint(t *testing.T) {
	reports := openReportStorage(context.Background(), logger.NewNop(), config.Minio{})
	assert.Nil(t, reports)
}
