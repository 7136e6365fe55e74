package payment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Plan is a priced subscription plan a checkout can be started for. Amounts
// are kept arbitrary-precision until checkout normalizes them to whole
// currency units.
type Plan struct {
	ID          string
	Slug        string
	Name        string
	Description string
	Amount      decimal.Decimal
	Currency    string
	Interval    string
	Active      bool
	PriceID     string
}

// Record is a stored payment. One record exists per order id; gross amount
// and currency are captured at creation time and never change afterwards.
type Record struct {
	ID            int64
	OrderID       string
	PlanID        string
	PayerID       string
	EmployerID    string
	GrossAmount   int64
	Currency      string
	Status        Status
	Method        string
	TransactionID string
	FraudStatus   string
	Token         string
	RedirectURL   string
	RawMeta       json.RawMessage
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NotificationUpdate carries the fields a verified webhook notification may
// apply to a record. Nil optional fields leave the stored value untouched;
// RawMeta replaces the previous payload wholesale.
type NotificationUpdate struct {
	OrderID       string
	Status        Status
	Method        *string
	TransactionID *string
	FraudStatus   *string
	RawMeta       json.RawMessage
}

// ListOptions filters the admin payment listing.
type ListOptions struct {
	Take   int
	Cursor int64
	Status string
}

// ListEntry is a payment row joined with its plan for the admin listing.
type ListEntry struct {
	Record
	PlanSlug     string
	PlanName     string
	PlanInterval string
}

// Store is the durable payment record storage. Creation enforces order id
// uniqueness; ApplyNotification performs a single conditional update scoped
// by order id and reports how many rows it touched.
type Store interface {
	CreatePayment(ctx context.Context, rec *Record) error
	PaymentByOrderID(ctx context.Context, orderID string) (*Record, error)
	ApplyNotification(ctx context.Context, upd NotificationUpdate) (int64, error)
	ListPayments(ctx context.Context, opts ListOptions) ([]ListEntry, error)
}

// PlanStore resolves plans for checkout and the public plan listing.
type PlanStore interface {
	ResolvePlan(ctx context.Context, idOrSlug string) (*Plan, error)
	ActivePlans(ctx context.Context) ([]Plan, error)
}
