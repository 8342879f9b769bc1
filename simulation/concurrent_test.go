package simulation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glbter/distributed-systems/advisor/entities"
	"github.com/glbter/distributed-systems/advisor/simulation"
)

func TestSimulateConcurrent_IndependentOfWorkers(t *testing.T) {
	alloc := entities.Allocation{"bonds": 0.4, "stocks": 0.6}

	single, err := simulation.SimulateConcurrent(context.Background(), alloc, testAssets(), 24, 500, 99, 1)
	require.NoError(t, err)
	many, err := simulation.SimulateConcurrent(context.Background(), alloc, testAssets(), 24, 500, 99, 8)
	require.NoError(t, err)

	require.Len(t, many.Returns, 500)
	assert.Equal(t, single, many)
}

func TestSimulateConcurrent_ZeroRisk(t *testing.T) {
	res, err := simulation.SimulateConcurrent(context.Background(), entities.Allocation{"cash": 1}, testAssets(), 1, 130, 1, 4)

	require.NoError(t, err)
	for _, r := range res.Returns {
		assert.InDelta(t, 0.015, r, 1e-15)
	}
}

func TestSimulateConcurrent_InvalidInput(t *testing.T) {
	_, err := simulation.SimulateConcurrent(context.Background(), entities.Allocation{"bonds": 0.9}, testAssets(), 1, 1, 1, 2)
	require.ErrorIs(t, err, entities.ErrInvalidInput)

	_, err = simulation.SimulateConcurrent(context.Background(), entities.Allocation{"bonds": 1}, testAssets(), 1, 0, 1, 2)
	require.ErrorIs(t, err, entities.ErrInvalidInput)
}

func TestSimulateConcurrent_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := simulation.SimulateConcurrent(ctx, entities.Allocation{"bonds": 1}, testAssets(), 10, 1000, 1, 4)

	require.ErrorIs(t, err, context.Canceled)
}
