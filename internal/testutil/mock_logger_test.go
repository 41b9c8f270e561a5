package testutil_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/druglike/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/druglike/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	require.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)
	v, ok := messages[0].Field("key")
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	logger.Clear()
	assert.Empty(t, logger.GetMessages())

	logger.Error("test error", logging.Err(errors.New("boom")))
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLogger_ChildrenShareStore(t *testing.T) {
	root := testutil.NewMockLogger()
	child := root.Named("http").Named("client").With(logging.String("request_id", "r1"))

	child.Warn("slow")
	m, ok := root.Find("warn", "slow")
	require.True(t, ok)
	assert.Equal(t, "http.client", m.Logger)
	_, ok = m.Field("request_id")
	assert.True(t, ok)
}

func TestNewEvaluator(t *testing.T) {
	out, err := testutil.NewEvaluator(t).Evaluate("CCO")
	require.NoError(t, err)
	assert.True(t, out.PassesAll)
}
