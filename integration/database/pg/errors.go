package pg

import "errors"

var (
	ErrFailedToOpenDBConnection = errors.New("failed to open db connection")
	ErrEmptyConnectionString    = errors.New("empty postgres connection string, use DATABASE_URL env var")
	ErrHealthcheckFailed        = errors.New("healthcheck failed, connection is not available")
	ErrFailedToParseDBConfig    = errors.New("failed to parse db config")

	ErrEmptyChannel    = errors.New("notification channel must not be empty")
	ErrPayloadTooLarge = errors.New("notification payload exceeds the postgres limit")
	ErrListenFailed    = errors.New("failed to listen for notifications")
	ErrNotifyFailed    = errors.New("failed to send notification")
	ErrEncodingFailed  = errors.New("failed to encode notification payload")
)
