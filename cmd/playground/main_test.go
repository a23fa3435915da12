package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reactive/core/logger"
)

func TestRunExamples(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), appConfig{}, logger.Discard(), &out))

	want := strings.Join([]string{
		"",
		"——— Example of: Publisher ———",
		"Notification received!",
		"",
		"——— Example of: Subscriber ———",
		"Notification received from a publisher!",
		"",
		"——— Example of: Just ———",
		"Received value Hello world!",
		"Received completion finished",
		"Received value (another) Hello world!",
		"Received completion (another) finished",
		"",
		"——— Example of: assign(to:on:) ———",
		"Hello",
		"world!",
		"",
		"——— Example of: assign(to:) ———",
		"0", "0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
		"",
		"——— Example of: Custom Subscriber ———",
		"Received value 1",
		"Received value 2",
		"Received value 3",
		"",
		"——— Example of: PassthroughSubject ———",
		"Received value Hello",
		"Received value (sink) Hello",
		"Received value World",
		"Received value (sink) World",
		"Received value Still there?",
		"Received completion failure(test)",
		"",
	}, "\n")
	assert.Equal(t, want, out.String())
}

func TestRunExamples_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	assert.ErrorIs(t, runExamples(ctx, &out, examples()), context.Canceled)
	assert.Empty(t, out.String())
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := newLogger(appConfig{AppEnv: "production"}, &buf)
	log.Info("ready", logger.Component("playground"))

	assert.Contains(t, buf.String(), `"env":"production"`)
	assert.Contains(t, buf.String(), `"component":"playground"`)
}
