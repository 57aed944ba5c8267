package billing

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/billingkit/pkg/events"
	"github.com/dmitrymomot/billingkit/pkg/ingest"
	"github.com/dmitrymomot/billingkit/pkg/queue"
	"github.com/dmitrymomot/billingkit/pkg/subscription"
	"github.com/dmitrymomot/billingkit/pkg/verifier"
)

// Module is the assembled billing pipeline: webhook endpoint, dedup store,
// task queue, dispatcher, and subscription service, wired over one
// connection pool. Construct it with New, mount Handler on the application
// router, and run Start/Stop around the application lifecycle.
type Module struct {
	handler   *WebhookHandler
	worker    *queue.Worker
	publisher *events.Publisher
	service   *subscription.Service
}

// New assembles the billing module.
func New(pool *pgxpool.Pool, cfg Config, log *slog.Logger) (*Module, error) {
	if pool == nil {
		return nil, ErrPoolNil
	}
	if log == nil {
		return nil, ErrLoggerNil
	}

	v, err := verifier.New(cfg.WebhookSecret, verifier.WithTolerance(cfg.SignatureTolerance))
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook verifier: %w", err)
	}

	eventStore, err := NewPostgresEventStore(pool)
	if err != nil {
		return nil, err
	}
	subStore, err := NewPostgresSubscriptionStore(pool)
	if err != nil {
		return nil, err
	}
	taskStorage, err := NewPostgresTaskStorage(pool)
	if err != nil {
		return nil, err
	}

	enqueuer, err := queue.NewEnqueuer(taskStorage)
	if err != nil {
		return nil, fmt.Errorf("failed to create task enqueuer: %w", err)
	}
	queueEnqueuer, err := ingest.NewQueueEnqueuer(enqueuer)
	if err != nil {
		return nil, fmt.Errorf("failed to create dispatch enqueuer: %w", err)
	}

	publisher := events.NewPublisher(log)
	audit := events.NewLogSubscriber(log)
	publisher.Subscribe(events.TypeSubscriptionCreated, audit)
	publisher.Subscribe(events.TypePaymentSucceeded, audit)
	publisher.Subscribe(events.TypeSubscriptionCanceled, audit)

	service := subscription.NewService(subStore, publisher)
	dispatcher := ingest.NewDispatcher(service, eventStore, queueEnqueuer, log)
	processor := ingest.NewProcessor(eventStore, dispatcher, log)

	intake, err := ingest.NewIntake(eventStore, queueEnqueuer, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create intake: %w", err)
	}

	worker, err := queue.NewWorker(taskStorage,
		queue.WithPullInterval(cfg.QueuePullInterval),
		queue.WithLockTimeout(cfg.QueueLockTimeout),
		queue.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("failed to create queue worker: %w", err)
	}
	if err := worker.RegisterHandler(ingest.NewDispatchHandler(processor)); err != nil {
		return nil, fmt.Errorf("failed to register dispatch handler: %w", err)
	}

	handler, err := NewWebhookHandler(v, intake, log, cfg.MaxBodyBytes)
	if err != nil {
		return nil, err
	}

	return &Module{
		handler:   handler,
		worker:    worker,
		publisher: publisher,
		service:   service,
	}, nil
}

// WebhookHandler returns the HTTP handler for the webhook endpoint; mount it
// via Router.
func (m *Module) WebhookHandler() http.Handler {
	return m.handler
}

// Handler returns the module's complete router.
func (m *Module) Handler() http.Handler {
	return Router(m.handler)
}

// Service exposes the subscription operations for direct (non-webhook) use.
func (m *Module) Service() *subscription.Service {
	return m.service
}

// Publisher exposes the event registry so the application can attach its own
// subscribers before Start.
func (m *Module) Publisher() *events.Publisher {
	return m.publisher
}

// Start launches the background queue worker.
func (m *Module) Start(ctx context.Context) error {
	return m.worker.Start(ctx)
}

// Stop gracefully shuts down the background queue worker.
func (m *Module) Stop() error {
	return m.worker.Stop()
}
