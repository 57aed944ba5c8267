package billing

import "time"

// Config holds the billing module's settings. Populate it with
// pkg/config.Load; all fields carry env tags.
type Config struct {
	WebhookSecret      string        `env:"STRIPE_WEBHOOK_SECRET,required"`                 // WebhookSecret is the endpoint secret used to verify inbound webhook signatures.
	SignatureTolerance time.Duration `env:"STRIPE_SIGNATURE_TOLERANCE" envDefault:"5m"`     // SignatureTolerance bounds the age of a signed request.
	MaxBodyBytes       int64         `env:"BILLING_WEBHOOK_MAX_BODY" envDefault:"65536"`    // MaxBodyBytes caps the webhook request body size.
	QueuePullInterval  time.Duration `env:"BILLING_QUEUE_PULL_INTERVAL" envDefault:"500ms"` // QueuePullInterval is how often the worker polls for due tasks.
	QueueLockTimeout   time.Duration `env:"BILLING_QUEUE_LOCK_TIMEOUT" envDefault:"1m"`     // QueueLockTimeout is how long a claimed task stays locked.
}
