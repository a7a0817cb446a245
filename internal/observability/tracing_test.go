package observability

import (
	"SkillTrack/internal/config"
	"SkillTrack/pkg/logger"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracingDisabled(t *testing.T) {
	shutdown, err := InitTracing(logger.NewNop(), "local", config.Tracing{})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
