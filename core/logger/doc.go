// Package logger provides structured logging utilities built on Go's standard slog package.
// It offers a logger factory with environment presets, context-aware attribute
// extraction, and attribute helpers for streams, errors, and timing.
//
// # Features
//
//   - Built on Go's standard slog for compatibility and performance
//   - Environment presets (development, staging, production)
//   - Support for both JSON and text output formats
//   - Handler decoration for automatic context attribute injection
//   - Attribute helpers with nil safety (empty attrs are dropped by slog)
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/reactive/core/logger"
//
//	log := logger.New(
//		logger.WithDevelopment("playground"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("subject created", logger.Component("notification"))
//
// # Environment Configurations
//
//	// Development: text format, debug level, stdout
//	devLogger := logger.New(logger.WithDevelopment("myapp"))
//
//	// Production: JSON format, info level, stdout
//	prodLogger := logger.New(logger.WithProduction("myapp"))
//
//	// Custom configuration
//	customLogger := logger.New(
//		logger.WithLevel(slog.LevelWarn),
//		logger.WithJSONFormatter(),
//		logger.WithAttr(slog.String("service", "worker")),
//		logger.WithOutput(os.Stderr),
//	)
//
// # Context-Aware Logging
//
// Extract and inject attributes automatically from context values:
//
//	type correlationKey struct{}
//
//	log := logger.New(
//		logger.WithProduction("myapp"),
//		logger.WithContextValue("correlation_id", correlationKey{}),
//	)
//
//	ctx := context.WithValue(context.Background(), correlationKey{}, "corr-12345")
//	log.InfoContext(ctx, "message received")
//	// Output: {"level":"INFO","msg":"message received","correlation_id":"corr-12345",...}
//
// # Stream Attributes
//
// Helpers render stream types consistently across packages:
//
//	log.Debug("subscriber attached",
//		logger.SubscriptionID(sub.ID()),
//		logger.Demand(stream.Max(2)),
//	)
//
//	log.Error("bridge source failed",
//		logger.Channel("orders"),
//		logger.Completion(stream.Failed(err)),
//		logger.Error(err),
//	)
//
// # Testing with Custom Output
//
//	var buf bytes.Buffer
//	log := logger.New(
//		logger.WithJSONFormatter(),
//		logger.WithOutput(&buf),
//	)
//
//	log.Info("Test message", logger.Component("test"))
//	assert.Contains(t, buf.String(), `"component":"test"`)
package logger
