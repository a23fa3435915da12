package redis

import "errors"

// Domain-specific Redis errors for consistent error handling across the application.
// Use errors.Is() to check error types for retry logic and user-facing messages.
var (
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready within the given time period")
	ErrEmptyConnectionURL           = errors.New("empty redis connection URL")
	ErrHealthcheckFailed            = errors.New("redis healthcheck failed")

	ErrNoChannels      = errors.New("at least one redis channel is required")
	ErrEmptyChannel    = errors.New("redis channel must not be empty")
	ErrSubscribeFailed = errors.New("redis subscribe failed")
	ErrPublishFailed   = errors.New("redis publish failed")
	ErrEncodingFailed  = errors.New("failed to encode redis message")
	ErrDecodingFailed  = errors.New("failed to decode redis message")
)
