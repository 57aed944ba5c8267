package subscription

// Transition failure messages. The cancellation message is intentionally the
// same for unpaid and already-canceled subscriptions.
const (
	msgAlreadyPaid      = "Subscription is already paid"
	msgPayCanceled      = "Cannot pay for a canceled subscription"
	msgOnlyPaidCanceled = "Only paid subscriptions can be canceled"
)

// Validator encapsulates the transition rules for a subscription. Each
// validity check resets the accumulated error list before evaluating, so
// Errors always reflects the most recent call only.
type Validator interface {
	ValidForPayment(s *Subscription) bool
	ValidForCancellation(s *Subscription) bool
	Errors() []string
}

// StateValidator is the standard rule set for the three-state lifecycle.
// It is not safe for concurrent use; each operation should use its own
// instance or serialize access.
type StateValidator struct {
	errs []string
}

// NewStateValidator creates the default transition validator.
func NewStateValidator() *StateValidator {
	return &StateValidator{}
}

// ValidForPayment checks whether the subscription may be marked as paid.
func (v *StateValidator) ValidForPayment(s *Subscription) bool {
	v.errs = v.errs[:0]

	if s.Status == StatusPaid {
		v.errs = append(v.errs, msgAlreadyPaid)
	}
	if s.Status == StatusCanceled {
		v.errs = append(v.errs, msgPayCanceled)
	}

	return len(v.errs) == 0
}

// ValidForCancellation checks whether the subscription may be canceled.
func (v *StateValidator) ValidForCancellation(s *Subscription) bool {
	v.errs = v.errs[:0]

	if s.Status != StatusPaid {
		v.errs = append(v.errs, msgOnlyPaidCanceled)
	}

	return len(v.errs) == 0
}

// Errors returns the messages accumulated by the last validity check.
func (v *StateValidator) Errors() []string {
	return v.errs
}
