package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KelvenPer/Aura/internal/config"
	"github.com/KelvenPer/Aura/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestConnect_RetriesUntilDatabaseIsUp(t *testing.T) {
	db, _ := testutil.NewMockDB(t)

	calls := 0
	open := func(dsn string) (*gorm.DB, error) {
		calls++
		assert.Equal(t, "postgres://test", dsn)
		if calls < 3 {
			return nil, errors.New("connection refused")
		}
		return db, nil
	}

	cfg := config.DatabaseConfig{DSN: "postgres://test", ConnectRetries: 5, MaxOpenConns: 3, MaxIdleConns: 1}
	got, err := connect(context.Background(), cfg, open, time.Millisecond)

	require.NoError(t, err)
	assert.Same(t, db, got)
	assert.Equal(t, 3, calls)

	sqlDB, err := got.DB()
	require.NoError(t, err)
	assert.Equal(t, 3, sqlDB.Stats().MaxOpenConnections)
}

func TestConnect_GivesUp(t *testing.T) {
	calls := 0
	open := func(string) (*gorm.DB, error) {
		calls++
		return nil, errors.New("connection refused")
	}

	cfg := config.DatabaseConfig{DSN: "postgres://test", ConnectRetries: 2}
	_, err := connect(context.Background(), cfg, open, time.Millisecond)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	// первая попытка плюс два повтора
	assert.Equal(t, 3, calls)
}

func TestConnect_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	open := func(string) (*gorm.DB, error) {
		return nil, errors.New("connection refused")
	}

	_, err := connect(ctx, config.DatabaseConfig{DSN: "x", ConnectRetries: 10}, open, time.Hour)
	require.Error(t, err)
}

func TestAutoMigrate_PropagatesErrors(t *testing.T) {
	db, mock := testutil.NewMockDB(t)
	mock.MatchExpectationsInOrder(false)
	mock.ExpectQuery(".*").WillReturnError(errors.New("permission denied"))

	err := AutoMigrate(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auto migrate")
}
