package verifier

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTolerance bounds the age of a signed request to limit replays.
const DefaultTolerance = 5 * time.Minute

// Event is a verified, typed webhook event. The core only ever sees this
// form, never raw transport bytes.
type Event struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// DataObject returns the nested "data.object" document of the event payload.
func (e Event) DataObject() (map[string]any, error) {
	var data struct {
		Object map[string]any `json:"object"`
	}
	if len(e.Data) > 0 {
		if err := json.Unmarshal(e.Data, &data); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPayload, err)
		}
	}
	return data.Object, nil
}

// Verifier authenticates webhook payloads against an endpoint secret.
type Verifier struct {
	secret    string
	tolerance time.Duration
	now       func() time.Time
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithTolerance overrides the replay window. Zero disables the check.
func WithTolerance(d time.Duration) Option {
	return func(v *Verifier) {
		if d >= 0 {
			v.tolerance = d
		}
	}
}

// WithNow substitutes the clock. Useful for testing with fixed time values.
func WithNow(now func() time.Time) Option {
	return func(v *Verifier) {
		if now != nil {
			v.now = now
		}
	}
}

// New creates a verifier for the given endpoint secret.
func New(secret string, opts ...Option) (*Verifier, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	v := &Verifier{
		secret:    secret,
		tolerance: DefaultTolerance,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v, nil
}

// Verify authenticates the raw payload against the signature header and
// decodes it into an Event. It returns ErrInvalidSignature for any
// signature or replay-window problem and ErrInvalidPayload when the body is
// not a well-formed event.
func (v *Verifier) Verify(payload []byte, sigHeader string) (Event, error) {
	timestamp, signature, err := parseSigHeader(sigHeader)
	if err != nil {
		return Event{}, err
	}

	if v.tolerance > 0 {
		age := v.now().Sub(time.Unix(timestamp, 0))
		if age > v.tolerance {
			return Event{}, fmt.Errorf("%w: timestamp outside tolerance", ErrInvalidSignature)
		}
		// Allow modest clock skew but reject far-future timestamps.
		if age < -1*time.Minute {
			return Event{}, fmt.Errorf("%w: timestamp is in the future", ErrInvalidSignature)
		}
	}

	if !hmac.Equal([]byte(Sign(v.secret, timestamp, payload)), []byte(signature)) {
		return Event{}, fmt.Errorf("%w: signature mismatch", ErrInvalidSignature)
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return Event{}, fmt.Errorf("%w: %s", ErrInvalidPayload, err)
	}
	if event.ID == "" || event.Type == "" {
		return Event{}, fmt.Errorf("%w: missing event id or type", ErrInvalidPayload)
	}

	return event, nil
}

// Sign computes the hex HMAC-SHA256 signature over "<timestamp>.<payload>".
// Exposed so tests and outbound tooling can produce valid headers.
func Sign(secret string, timestamp int64, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(h, "%d.%s", timestamp, payload)
	return hex.EncodeToString(h.Sum(nil))
}

// SignatureHeader renders a complete signature header for the payload,
// signed at the given time.
func SignatureHeader(secret string, at time.Time, payload []byte) string {
	ts := at.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, Sign(secret, ts, payload))
}

// parseSigHeader extracts the timestamp and v1 signature from a header of
// the form "t=<unix>,v1=<hex>". Unknown elements are ignored.
func parseSigHeader(header string) (int64, string, error) {
	var (
		timestamp int64
		signature string
	)

	for _, part := range strings.Split(header, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			ts, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return 0, "", fmt.Errorf("%w: malformed timestamp", ErrInvalidSignature)
			}
			timestamp = ts
		case "v1":
			signature = val
		}
	}

	if timestamp == 0 || signature == "" {
		return 0, "", fmt.Errorf("%w: missing signature header elements", ErrInvalidSignature)
	}

	return timestamp, signature, nil
}
