package opensearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PaymentEvent is a structured audit document describing one checkout or
// webhook reconciliation outcome.
type PaymentEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	EventID   string         `json:"event_id"`
	Kind      string         `json:"kind"` // "checkout" | "webhook"
	Provider  string         `json:"provider"`
	OrderID   string         `json:"order_id,omitempty"`
	PlanID    string         `json:"plan_id,omitempty"`
	Status    string         `json:"status,omitempty"`
	Reason    string         `json:"reason,omitempty"`
	Amount    int64          `json:"amount,omitempty"`
	Currency  string         `json:"currency,omitempty"`
	Error     string         `json:"error,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Logger handles OpenSearch event indexing
type Logger struct {
	client *Client
}

// NewLogger creates a new OpenSearch event logger
func NewLogger(client *Client) *Logger {
	return &Logger{client: client}
}

// Client exposes the underlying client for health checks
func (l *Logger) Client() *Client {
	if l == nil {
		return nil
	}
	return l.client
}

// LogPaymentEvent indexes a payment event. When indexing is disabled the call
// is a no-op so callers never need a nil check around auditing.
func (l *Logger) LogPaymentEvent(ctx context.Context, event PaymentEvent) error {
	if l == nil || !l.client.IsEnabled() {
		return nil
	}

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}

	doc, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return l.client.index(ctx, l.client.EventIndexName(event.Timestamp), event.EventID, strings.NewReader(string(doc)))
}

// LogSystemEvent indexes an arbitrary system log document into the event index
func (l *Logger) LogSystemEvent(ctx context.Context, log any) error {
	if l == nil || !l.client.IsEnabled() {
		return nil
	}

	doc, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("failed to marshal system log: %w", err)
	}

	return l.client.index(ctx, l.client.EventIndexName(time.Now()), uuid.New().String(), strings.NewReader(string(doc)))
}
