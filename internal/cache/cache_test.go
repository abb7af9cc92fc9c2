package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"meshsync/internal/cache"
)

// setupRedis spins up a Redis container and returns a connected RedisCache.
func setupRedis(t *testing.T) *cache.RedisCache {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, container.Terminate(ctx)) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	rc, err := cache.NewRedisCache("redis://" + host + ":" + port.Port())
	require.NoError(t, err)

	return rc
}

func TestPing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	assert.NoError(t, rc.Ping(context.Background()))
}

func TestJobStatusRoundtrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, rc.SetJobStatus(ctx, "tripo-123", "RUN", time.Minute))

	status, found, err := rc.GetJobStatus(ctx, "tripo-123")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "RUN", status)
}

func TestGetJobStatus_Miss(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)

	status, found, err := rc.GetJobStatus(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, status)
}

func TestSetJobStatus_Overwrite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, rc.SetJobStatus(ctx, "J1", "WAIT", time.Minute))
	require.NoError(t, rc.SetJobStatus(ctx, "J1", "DONE", time.Minute))

	status, found, err := rc.GetJobStatus(ctx, "J1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "DONE", status)
}

func TestDeleteJobStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, rc.SetJobStatus(ctx, "J1", "RUN", time.Minute))
	require.NoError(t, rc.DeleteJobStatus(ctx, "J1"))

	_, found, err := rc.GetJobStatus(ctx, "J1")
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting an absent key is not an error.
	assert.NoError(t, rc.DeleteJobStatus(ctx, "ghost"))
}

func TestSetJobStatus_TTLExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	rc := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, rc.SetJobStatus(ctx, "J1", "RUN", 500*time.Millisecond))
	time.Sleep(time.Second)

	_, found, err := rc.GetJobStatus(ctx, "J1")
	require.NoError(t, err)
	assert.False(t, found)
}
