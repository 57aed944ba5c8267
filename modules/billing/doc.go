// Package billing is the composition root of the webhook billing pipeline.
//
// It wires the pkg-level building blocks into a runnable module: signature
// verification, deduplicating event intake, a PostgreSQL-backed task queue,
// the dispatch/retry engine, and the subscription service with its event
// publisher. The module owns no connection pool or HTTP server; both are
// injected so the application controls their lifecycle.
//
//	pool, err := pg.Connect(ctx, pgCfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := pg.Migrate(ctx, pool, pgCfg, logger); err != nil {
//		log.Fatal(err)
//	}
//
//	module, err := billing.New(pool, cfg, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := module.Start(ctx); err != nil {
//		log.Fatal(err)
//	}
//	defer module.Stop()
//
//	r := chi.NewRouter()
//	r.Mount("/billing", module.Handler())
//
// Schema migrations for the module's three tables (stripe_events,
// subscriptions, billing_tasks) live under migrations/ in goose SQL format.
package billing
