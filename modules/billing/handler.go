package billing

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/billingkit/pkg/ingest"
	"github.com/dmitrymomot/billingkit/pkg/verifier"
)

// SignatureHeader is the request header carrying the webhook signature.
const SignatureHeader = "Stripe-Signature"

// WebhookHandler terminates the provider's webhook transport: it verifies
// the signature, hands the event to the intake stage, and acknowledges.
// The response never reveals whether an event was a duplicate; the provider
// only needs to know the delivery was accepted.
type WebhookHandler struct {
	verifier     *verifier.Verifier
	intake       *ingest.Intake
	log          *slog.Logger
	maxBodyBytes int64
}

// NewWebhookHandler creates the webhook endpoint handler.
func NewWebhookHandler(v *verifier.Verifier, intake *ingest.Intake, log *slog.Logger, maxBodyBytes int64) (*WebhookHandler, error) {
	if v == nil {
		return nil, errors.New("billing: verifier is required")
	}
	if intake == nil {
		return nil, errors.New("billing: intake is required")
	}
	if log == nil {
		log = slog.Default()
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = 64 << 10
	}

	return &WebhookHandler{
		verifier:     v,
		intake:       intake,
		log:          log,
		maxBodyBytes: maxBodyBytes,
	}, nil
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	payload, err := io.ReadAll(io.LimitReader(r.Body, h.maxBodyBytes+1))
	if err != nil {
		h.respond(w, http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
		return
	}
	if int64(len(payload)) > h.maxBodyBytes {
		h.respond(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body too large"})
		return
	}

	event, err := h.verifier.Verify(payload, r.Header.Get(SignatureHeader))
	if err != nil {
		h.log.WarnContext(ctx, "webhook verification failed",
			slog.String("error", err.Error()))
		h.respond(w, http.StatusBadRequest, map[string]string{"error": "invalid webhook request"})
		return
	}

	if _, err := h.intake.Process(ctx, event); err != nil {
		h.log.ErrorContext(ctx, "webhook intake failed",
			slog.String("event_id", event.ID),
			slog.String("error", err.Error()))
		h.respond(w, http.StatusInternalServerError, map[string]string{"error": "failed to accept event"})
		return
	}

	h.respond(w, http.StatusOK, map[string]string{"status": "received"})
}

func (h *WebhookHandler) respond(w http.ResponseWriter, code int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("failed to write webhook response", slog.String("error", err.Error()))
	}
}
