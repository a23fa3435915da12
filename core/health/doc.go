// Package health checks service dependencies and publishes their readiness.
//
// A check is any func(context.Context) error, such as the ones returned by
// redis.Healthcheck and pg.Healthcheck.
//
// One-shot readiness:
//
//	if err := health.Readiness(ctx, log, pg.Healthcheck(pool), redis.Healthcheck(client)); err != nil {
//		return err
//	}
//
// Continuous monitoring publishes status changes to any stream subscriber:
//
//	mon := health.NewMonitor(5*time.Second, []health.Check{pg.Healthcheck(pool)})
//	mon.Publisher().Subscribe(stream.Sink(func(s health.Status) {
//		log.Info("readiness changed", slog.String("status", s.String()))
//	}, nil))
//	go mon.Run(ctx)
package health
