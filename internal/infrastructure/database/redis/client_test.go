package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/druglike/internal/config"
	"github.com/turtacn/druglike/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/druglike/pkg/errors"
)

func TestNewClient_ConnectionFailed(t *testing.T) {
	cfg := config.Default().Redis
	cfg.Addr = "127.0.0.1:1"
	cfg.DialTimeout = 100 * time.Millisecond

	client, err := NewClient(cfg, logging.NewNopLogger())
	assert.Nil(t, client)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeServiceUnavailable))
}

func TestClient_PingAndCheck(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewClientFrom(db, nil)

	mock.ExpectPing().SetVal("PONG")
	mock.ExpectPing().SetErr(errors.New("down"))

	assert.NoError(t, c.Ping(context.Background()))
	assert.Error(t, c.Check(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_CommandsAfterClose(t *testing.T) {
	db, _ := redismock.NewClientMock()
	c := NewClientFrom(db, logging.NewNopLogger())
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	ctx := context.Background()
	assert.ErrorIs(t, c.Ping(ctx), ErrClientClosed)
	assert.ErrorIs(t, c.Get(ctx, "k").Err(), ErrClientClosed)
	assert.ErrorIs(t, c.Set(ctx, "k", "v", 0).Err(), ErrClientClosed)
	assert.ErrorIs(t, c.Del(ctx, "k").Err(), ErrClientClosed)
	assert.ErrorIs(t, c.Scan(ctx, 0, "*", 10).Err(), ErrClientClosed)
}
