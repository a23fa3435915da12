package redis_test

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reactive/core/logger"
	"github.com/dmitrymomot/reactive/core/stream"
	"github.com/dmitrymomot/reactive/core/stream/streamtest"
	"github.com/dmitrymomot/reactive/integration/database/redis"
)

// unreachableClient points at a port nothing listens on and never retries.
func unreachableClient(t *testing.T) goredis.UniversalClient {
	t.Helper()
	client := goredis.NewClient(&goredis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 200 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func integrationClient(t *testing.T) goredis.UniversalClient {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL is not set")
	}

	client, err := redis.Connect(context.Background(), redis.Config{
		ConnectionURL:  url,
		RetryAttempts:  1,
		ConnectTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("empty url", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(context.Background(), redis.Config{})
		assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
	})

	t.Run("malformed url", func(t *testing.T) {
		t.Parallel()
		_, err := redis.Connect(context.Background(), redis.Config{ConnectionURL: "http://localhost"})
		assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
	})

	t.Run("unreachable server logs every retry", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithJSONFormatter(), logger.WithOutput(&buf))

		_, err := redis.Connect(context.Background(), redis.Config{
			ConnectionURL:  "redis://127.0.0.1:1/0",
			RetryAttempts:  3,
			RetryInterval:  10 * time.Millisecond,
			ConnectTimeout: 2 * time.Second,
		}, redis.WithLogger(log))
		assert.ErrorIs(t, err, redis.ErrRedisNotReady)

		out := buf.String()
		assert.Equal(t, 2, strings.Count(out, `"msg":"redis ping failed, retrying"`))
		assert.Contains(t, out, `"retry_count":1`)
		assert.Contains(t, out, `"retry_count":2`)
		assert.Contains(t, out, `"duration":10000000`)
		assert.Contains(t, out, `"duration":20000000`)
	})
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	check := redis.Healthcheck(unreachableClient(t))
	assert.ErrorIs(t, check(context.Background()), redis.ErrHealthcheckFailed)
}

func TestNewPublisher(t *testing.T) {
	t.Parallel()

	t.Run("requires channels", func(t *testing.T) {
		t.Parallel()
		_, err := redis.NewPublisher(unreachableClient(t), nil)
		assert.ErrorIs(t, err, redis.ErrNoChannels)

		_, err = redis.NewPublisher(unreachableClient(t), []string{"a", ""})
		assert.ErrorIs(t, err, redis.ErrEmptyChannel)
	})

	t.Run("unconfirmed subscribe fails the stream", func(t *testing.T) {
		t.Parallel()

		publisher, err := redis.NewPublisher(unreachableClient(t), []string{"events"})
		require.NoError(t, err)

		rec := streamtest.NewRecorder[redis.Message](stream.Unlimited)
		publisher.Subscribe(rec)

		require.Eventually(t, rec.Completed, 5*time.Second, 10*time.Millisecond)
		assert.ErrorIs(t, rec.Completions()[0].Err(), redis.ErrSubscribeFailed)
	})
}

func TestNewSubscriber(t *testing.T) {
	t.Parallel()

	t.Run("requires a channel", func(t *testing.T) {
		t.Parallel()
		_, err := redis.NewSubscriber[string](context.Background(), unreachableClient(t), "", nil)
		assert.ErrorIs(t, err, redis.ErrEmptyChannel)
	})

	t.Run("publish error is reported", func(t *testing.T) {
		t.Parallel()

		out, err := redis.NewSubscriber[string](context.Background(), unreachableClient(t), "events", nil)
		require.NoError(t, err)

		stream.Sequence("a", "b").Subscribe(out)

		<-out.Done()
		assert.ErrorIs(t, out.Err(), redis.ErrPublishFailed)
		assert.Zero(t, out.Processed())
	})

	t.Run("encoding error is reported", func(t *testing.T) {
		t.Parallel()

		out, err := redis.NewSubscriber(context.Background(), unreachableClient(t), "events", func(v chan int) ([]byte, error) {
			return nil, assert.AnError
		})
		require.NoError(t, err)

		stream.Just(make(chan int)).Subscribe(out)

		<-out.Done()
		assert.ErrorIs(t, out.Err(), redis.ErrEncodingFailed)
	})
}

func TestDecode(t *testing.T) {
	t.Parallel()

	type order struct {
		ID    string `json:"id"`
		Total int    `json:"total"`
	}

	got, err := redis.Decode[order](redis.Message{Payload: `{"id":"o-1","total":42}`})
	require.NoError(t, err)
	assert.Equal(t, order{ID: "o-1", Total: 42}, got)

	_, err = redis.Decode[order](redis.Message{Payload: "not json"})
	assert.ErrorIs(t, err, redis.ErrDecodingFailed)
}

func TestPubSub_Integration(t *testing.T) {
	client := integrationClient(t)
	ctx := context.Background()

	channel := "reactive-test-" + time.Now().Format("150405.000000000")
	publisher, err := redis.NewPublisher(client, []string{channel})
	require.NoError(t, err)

	rec := streamtest.NewRecorder[redis.Message](stream.Max(2))
	sub := publisher.Subscribe(rec)
	defer sub.Cancel()

	// Wait until the server registered the subscription.
	require.Eventually(t, func() bool {
		n, err := client.PubSubNumSub(ctx, channel).Result()
		return err == nil && n[channel] == 1
	}, 5*time.Second, 10*time.Millisecond)

	out, err := redis.NewSubscriber[string](ctx, client, channel, nil)
	require.NoError(t, err)
	stream.Sequence("one", "two", "three").Subscribe(out)
	require.NoError(t, out.Wait(ctx))

	require.Eventually(t, func() bool { return len(rec.Values()) == 2 }, 5*time.Second, 10*time.Millisecond)
	first, err := redis.Decode[string](rec.Values()[0])
	require.NoError(t, err)
	assert.Equal(t, "one", first)
	assert.Equal(t, channel, rec.Values()[1].Channel)
}
