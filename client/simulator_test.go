package client

import (
	"context"
	"testing"
	"time"

	"pastillero-service/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSimulate(t *testing.T) {
	c, store := setupClient(t)
	ctx := context.Background()

	summary, err := Simulate(ctx, c, SimulatorConfig{
		Modules:     []int{1, 2},
		Events:      3,
		PickupDelay: 30 * time.Second,
		Interval:    time.Hour,
		Start:       time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		Seed:        true,
	}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Seeded)
	assert.Equal(t, 6, summary.Published)
	assert.Zero(t, summary.Failed)

	module := 2
	stats, err := store.ListStatistics(ctx, database.StatisticFilter{Module: &module})
	require.NoError(t, err)
	require.Len(t, stats, 3)
	for _, s := range stats {
		assert.Equal(t, 30*time.Second, s.PickupDelay())
	}

	summary, err = Simulate(ctx, c, SimulatorConfig{Modules: []int{1}, Events: 1, Clear: true}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, int64(7), summary.Cleared)
}

func TestSimulate_CancelledContext(t *testing.T) {
	c, _ := setupClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := Simulate(ctx, c, SimulatorConfig{Modules: []int{1, 2}, Events: 5}, zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Published)
}
