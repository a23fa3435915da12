// Package pg provides PostgreSQL connection management, health checking, and a
// LISTEN/NOTIFY bridge to reactive streams.
//
// This package wraps the pgx driver with retry logic and pool configuration, and
// adapts notification channels to stream publishers and subscribers.
//
// # Key Features
//
//   - Connect: Creates a connection pool with retry logic and connection verification
//   - Healthcheck: Returns a health check function for monitoring connectivity
//   - NewListener: Exposes a LISTEN channel as a stream.Publisher[Notification]
//   - Notify / NewNotifier: Send pg_notify messages, optionally inside a transaction
//
// # Configuration
//
//	type Config struct {
//		ConnectionString  string        `env:"DATABASE_URL,required"`
//		MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
//		MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
//		HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
//		MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
//		MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`
//		RetryAttempts     int           `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval     time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`
//	}
//
// # Usage Example
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	changes, err := pg.NewListener(pool, "orders_changed")
//	if err != nil {
//		return err
//	}
//	sub := changes.Subscribe(stream.NewLogSubscriber[pg.Notification](log, stream.Unlimited))
//	defer sub.Cancel()
//
// Each active subscription holds one pooled connection; size MaxOpenConns accordingly.
//
// # Transactional Notifications
//
// Attach a transaction to the context with WithTx and Notify sends through it.
// PostgreSQL delivers the notification only when the transaction commits:
//
//	tx, err := pool.Begin(ctx)
//	if err != nil {
//		return err
//	}
//	defer tx.Rollback(ctx)
//
//	ctx = pg.WithTx(ctx, tx)
//	if _, err := tx.Exec(ctx, "UPDATE orders SET status = 'paid' WHERE id = $1", id); err != nil {
//		return err
//	}
//	if err := pg.Notify(ctx, pool, "orders_changed", id.String()); err != nil {
//		return err
//	}
//	return tx.Commit(ctx)
//
// # Error Handling
//
// The package defines domain-specific errors that can be checked using errors.Is():
//
//   - ErrEmptyConnectionString, ErrFailedToParseDBConfig, ErrFailedToOpenDBConnection: Connect failures
//   - ErrHealthcheckFailed: Returned when the health check ping fails
//   - ErrListenFailed: Carried by the Failed completion of a broken listener
//   - ErrNotifyFailed, ErrPayloadTooLarge, ErrEncodingFailed: Notify and notifier failures
package pg
