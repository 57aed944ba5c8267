package billing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Router creates the billing module router.
//
// Example:
//
//	module, _ := billing.New(pool, cfg, log)
//	r := chi.NewRouter()
//	r.Mount("/billing", billing.Router(module.WebhookHandler()))
func Router(webhooks http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Route("/webhooks", func(wh chi.Router) {
		if webhooks != nil {
			wh.Method(http.MethodPost, "/stripe", webhooks)
		}
	})

	return r
}
