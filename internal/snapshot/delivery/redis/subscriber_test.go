package redis

import (
	"context"
	"testing"
	"time"

	"station-alert-srv/internal/model"
	"station-alert-srv/internal/snapshot"
	"station-alert-srv/pkg/log"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// newTestClient starts a throwaway Redis.
func newTestClient(t *testing.T) *goredis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("starts a redis container")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, c)
	require.NoError(t, err)

	endpoint, err := c.Endpoint(ctx, "")
	require.NoError(t, err)

	client := goredis.NewClient(&goredis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	require.Eventually(t, func() bool { return client.Ping(ctx).Err() == nil }, 30*time.Second, 100*time.Millisecond)
	return client
}

func snapshotAt(minute, bikes int) model.StationSnapshot {
	return model.StationSnapshot{
		StationCode:    "16107",
		Timestamp:      time.Date(2025, 3, 14, 8, minute, 0, 0, time.UTC),
		BikesAvailable: bikes,
	}
}

// receiveWhilePublishing publishes s until it comes out of ch.
func receiveWhilePublishing(t *testing.T, pub snapshot.Publisher, ch <-chan model.StationSnapshot, s model.StationSnapshot) {
	t.Helper()
	ctx := context.Background()
	deadline := time.After(20 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	require.NoError(t, pub.Publish(ctx, s))
	for {
		select {
		case got, ok := <-ch:
			require.True(t, ok, "snapshot channel closed")
			if got.Timestamp.Equal(s.Timestamp) {
				assert.Equal(t, s.BikesAvailable, got.BikesAvailable)
				return
			}
		case <-tick.C:
			require.NoError(t, pub.Publish(ctx, s))
		case <-deadline:
			t.Fatalf("snapshot at %s never delivered", s.Timestamp)
		}
	}
}

func TestSubscribe_ResubscribesAfterDisconnect(t *testing.T) {
	client := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := NewSource(log.NewNop(), client, Options{
		InitialBackoff: 10 * time.Millisecond,
		MaxBackoff:     100 * time.Millisecond,
	})
	pub := NewPublisher(log.NewNop(), client)

	ch, err := src.Subscribe(ctx, "16107")
	require.NoError(t, err)
	receiveWhilePublishing(t, pub, ch, snapshotAt(0, 4))

	killed, err := client.ClientKillByFilter(ctx, "TYPE", "pubsub").Result()
	require.NoError(t, err)
	require.EqualValues(t, 1, killed)

	require.Eventually(t, func() bool {
		subs, err := client.PubSubNumSub(ctx, channelFor("16107")).Result()
		return err == nil && subs[channelFor("16107")] == 1
	}, 10*time.Second, 20*time.Millisecond)

	receiveWhilePublishing(t, pub, ch, snapshotAt(1, 6))

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}
