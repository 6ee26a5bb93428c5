package services

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/teamups/domain"
	"github.com/fastygo/teamups/internal/infrastructure/outbox"
)

type fakeBroker struct {
	mu       sync.Mutex
	fail     bool
	channels []string
	payloads [][]byte
}

func (b *fakeBroker) Publish(_ context.Context, channel string, message interface{}) *redislib.IntCmd {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return redislib.NewIntResult(0, errors.New("connection refused"))
	}
	b.channels = append(b.channels, channel)
	b.payloads = append(b.payloads, message.([]byte))
	return redislib.NewIntResult(1, nil)
}

func (b *fakeBroker) setFail(fail bool) {
	b.mu.Lock()
	b.fail = fail
	b.mu.Unlock()
}

type staticHealth bool

func (h staticHealth) IsOnline() bool { return bool(h) }

func openOutbox(t *testing.T) *outbox.Store {
	t.Helper()
	box, err := outbox.Open(filepath.Join(t.TempDir(), "outbox.db"))
	require.NoError(t, err)
	t.Cleanup(func() { box.Close() })
	return box
}

func testNotification() *domain.Notification {
	n := domain.NewNotification("u1", "Invited to core")
	n.ID = "n1"
	return n
}

func TestRedisPublisherSendsOnUserChannel(t *testing.T) {
	broker := &fakeBroker{}
	box := openOutbox(t)
	pub := NewRedisPublisher(broker, box, staticHealth(true), "notify:", nil)

	require.NoError(t, pub.Publish(context.Background(), testNotification()))

	require.Equal(t, []string{"notify:u1"}, broker.channels)
	var got domain.Notification
	require.NoError(t, json.Unmarshal(broker.payloads[0], &got))
	assert.Equal(t, "Invited to core", got.Message)

	size, err := box.Size()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestRedisPublisherParksWhenBrokerFails(t *testing.T) {
	broker := &fakeBroker{fail: true}
	box := openOutbox(t)
	pub := NewRedisPublisher(broker, box, staticHealth(true), "", nil)

	require.NoError(t, pub.Publish(context.Background(), testNotification()))

	msgs, err := box.Peek(10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "notifications:u1", msgs[0].Channel)
	assert.Equal(t, "n1", msgs[0].ID)
}

func TestRedisPublisherParksWhenOffline(t *testing.T) {
	broker := &fakeBroker{}
	box := openOutbox(t)
	pub := NewRedisPublisher(broker, box, staticHealth(false), "", nil)

	require.NoError(t, pub.Publish(context.Background(), testNotification()))
	assert.Empty(t, broker.channels)

	size, err := box.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, size)
}

func TestRelayDrain(t *testing.T) {
	ctx := context.Background()
	broker := &fakeBroker{fail: true}
	box := openOutbox(t)
	pub := NewRedisPublisher(broker, box, staticHealth(true), "", nil)
	relay := NewRelay(box, pub, staticHealth(true), nil, RelayConfig{MaxRetries: 2})

	require.NoError(t, pub.Publish(ctx, testNotification()))
	require.Equal(t, 1, relay.Size())

	require.NoError(t, relay.Drain(ctx))
	msgs, err := box.Peek(10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, 1, msgs[0].Attempts)

	broker.setFail(false)
	require.NoError(t, relay.Drain(ctx))
	assert.Zero(t, relay.Size())
	assert.Equal(t, []string{"notifications:u1"}, broker.channels)
}

func TestRelayDropsAfterMaxRetries(t *testing.T) {
	ctx := context.Background()
	broker := &fakeBroker{fail: true}
	box := openOutbox(t)
	pub := NewRedisPublisher(broker, box, staticHealth(true), "", nil)
	relay := NewRelay(box, pub, staticHealth(true), nil, RelayConfig{MaxRetries: 2})

	require.NoError(t, pub.Publish(ctx, testNotification()))
	require.NoError(t, relay.Drain(ctx))
	require.NoError(t, relay.Drain(ctx))
	assert.Zero(t, relay.Size())
}

func TestRelaySkipsWhileOffline(t *testing.T) {
	ctx := context.Background()
	box := openOutbox(t)
	pub := NewRedisPublisher(&fakeBroker{}, box, staticHealth(false), "", nil)
	relay := NewRelay(box, pub, staticHealth(false), nil, RelayConfig{})

	require.NoError(t, pub.Publish(ctx, testNotification()))
	require.NoError(t, relay.Drain(ctx))
	assert.Equal(t, 1, relay.Size())
}
