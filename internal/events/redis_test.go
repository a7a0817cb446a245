package events

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisPublisherDeliversEvent(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	channel := "test-" + uuid.NewString()
	pub, err := NewRedisPublisher(addr, channel, time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pub.Close() })

	sub := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = sub.Close() })
	ps := sub.Subscribe(ctx, channel)
	_, err = ps.Receive(ctx)
	require.NoError(t, err)

	want := Event{Type: TypeEnrollmentCreated, StudentID: uuid.New(), CourseID: uuid.New(), OccurredAt: time.Now().UTC()}
	require.NoError(t, pub.Publish(ctx, want))

	msg, err := ps.ReceiveMessage(ctx)
	require.NoError(t, err)
	var got Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, want.Type, got.Type)
	assert.Equal(t, want.StudentID, got.StudentID)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), Event{}))
}
