package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pastillero-service/database"
	"pastillero-service/handlers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupClient(t *testing.T) (*Client, *database.GormStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, err := database.OpenSQLite(database.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close(context.Background()) })

	srv := httptest.NewServer(handlers.NewRouter(handlers.RouterOptions{Store: store}))
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second), store
}

func TestClient_RoundTrip(t *testing.T) {
	c, _ := setupClient(t)
	ctx := context.Background()

	pills, err := c.SeedPills(ctx)
	require.NoError(t, err)
	require.Len(t, pills, 2)
	assert.Equal(t, "Paracetamol", pills[0].Name)

	buckets, err := c.ListPills(ctx)
	require.NoError(t, err)
	assert.Len(t, buckets.Modulo1, 1)
	assert.Len(t, buckets.Modulo2, 1)

	dispensed := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	stat, err := c.PublishDispense(ctx, 2, dispensed, dispensed.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, stat.Module)
	assert.Equal(t, "2024-01-01T08:00:00.000Z", stat.DispensedAt)
	assert.Equal(t, "2024-01-01T08:01:00.000Z", stat.PickedUpAt)

	deleted, err := c.ClearStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestClient_APIError(t *testing.T) {
	c, store := setupClient(t)
	require.NoError(t, store.Close(context.Background()))

	_, err := c.SeedPills(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 500, apiErr.StatusCode)
	assert.Equal(t, "No hay conexión a la base de datos", apiErr.Message)
}

func TestClient_CancelAbortsInFlightRequest(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	done := make(chan error, 1)
	go func() {
		_, err := c.PublishDispense(ctx, 1, time.Now(), time.Now())
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("request was not aborted after cancel")
	}
}
