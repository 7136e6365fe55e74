package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/workhub/paysnap/infra/logger"
	"github.com/workhub/paysnap/infra/opensearch"
	"github.com/workhub/paysnap/provider"
)

// Reconciliation outcome reasons reported alongside the webhook acknowledgement.
const (
	ReasonBadPayload       = "BAD_PAYLOAD"
	ReasonInvalidSignature = "INVALID_SIGNATURE"
	ReasonOrderNotFound    = "ORDER_NOT_FOUND"
	ReasonStaleTransition  = "STALE_TRANSITION"
	ReasonStoreError       = "STORE_ERROR"
)

// CustomerInfo is the payer identity forwarded to the gateway's hosted page.
// All fields are optional; the gateway requires a name, so missing ones get
// placeholder defaults.
type CustomerInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
}

// CheckoutRequest starts a payment for one plan on behalf of a payer.
type CheckoutRequest struct {
	PlanID          string       `json:"planId" validate:"required"`
	PayerID         string       `json:"payerId"`
	EmployerID      string       `json:"employerId"`
	Customer        CustomerInfo `json:"customer"`
	EnabledPayments []string     `json:"enabledPayments"`
}

// CheckoutResult is what the client needs to continue on the hosted page.
type CheckoutResult struct {
	OrderID     string `json:"orderId"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirectUrl"`
	Status      Status `json:"status"`
	GrossAmount int64  `json:"grossAmount"`
	Currency    string `json:"currency"`
}

// ReconcileResult reports how a webhook notification was handled. OK is true
// whenever the notification was processed to a definite outcome, including
// benign ones like a duplicate delivery arriving out of order.
type ReconcileResult struct {
	OK      bool   `json:"ok"`
	OrderID string `json:"orderId,omitempty"`
	Status  Status `json:"status,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// PaymentView is the client-facing projection of a stored payment. The raw
// gateway payload stays internal.
type PaymentView struct {
	OrderID       string `json:"orderId"`
	PlanID        string `json:"planId"`
	Status        Status `json:"status"`
	GrossAmount   int64  `json:"grossAmount"`
	Currency      string `json:"currency"`
	Method        string `json:"method,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	FraudStatus   string `json:"fraudStatus,omitempty"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// ListItem is one row of the admin payment listing.
type ListItem struct {
	OrderID       string `json:"orderId"`
	Status        Status `json:"status"`
	Method        string `json:"method,omitempty"`
	GrossAmount   int64  `json:"grossAmount"`
	Currency      string `json:"currency"`
	TransactionID string `json:"transactionId,omitempty"`
	PlanSlug      string `json:"planSlug,omitempty"`
	PlanName      string `json:"planName,omitempty"`
	PlanInterval  string `json:"planInterval,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

// ListPage is a cursor page of the admin payment listing.
type ListPage struct {
	Items      []ListItem `json:"items"`
	NextCursor int64      `json:"nextCursor,omitempty"`
}

// PlanView is the public projection of a purchasable plan.
type PlanView struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Amount      int64  `json:"amount"`
	Currency    string `json:"currency"`
	Interval    string `json:"interval"`
}

// Service drives the payment lifecycle: it opens gateway transactions for
// checkouts and reconciles webhook notifications into stored records.
type Service struct {
	gateway      provider.PaymentProvider
	providerName string
	store        Store
	plans        PlanStore
	events       *opensearch.Logger
}

// NewService wires a payment service around one gateway provider. events may
// be nil when audit indexing is disabled.
func NewService(providerName string, gateway provider.PaymentProvider, store Store, plans PlanStore, events *opensearch.Logger) *Service {
	return &Service{
		gateway:      gateway,
		providerName: providerName,
		store:        store,
		plans:        plans,
		events:       events,
	}
}

// Checkout resolves the requested plan, opens a gateway transaction for it and
// persists a pending payment record carrying the gateway's token. An order id
// collision is returned as ErrDuplicateOrder for the caller to retry.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	plan, err := s.plans.ResolvePlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	amount, err := NormalizeAmount(plan.Amount)
	if err != nil {
		return nil, fmt.Errorf("plan %s: %w", plan.Slug, err)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("plan %s: %w: amount must be positive", plan.Slug, ErrInvalidAmount)
	}

	orderID := NewOrderID("plan", plan.Slug)

	customer := provider.Customer{
		FirstName: req.Customer.FirstName,
		LastName:  req.Customer.LastName,
		Email:     req.Customer.Email,
		Phone:     req.Customer.Phone,
	}
	if customer.FirstName == "" {
		customer.FirstName = "User"
	}
	if customer.LastName == "" {
		customer.LastName = req.PayerID
		if customer.LastName == "" {
			customer.LastName = "guest"
		}
	}

	txn, err := s.gateway.CreateTransaction(ctx, provider.TransactionRequest{
		OrderID:     orderID,
		GrossAmount: amount,
		Currency:    plan.Currency,
		Items: []provider.Item{{
			ID:       plan.ID,
			Name:     plan.Name,
			Price:    amount,
			Quantity: 1,
		}},
		Customer:        customer,
		EnabledPayments: req.EnabledPayments,
	})
	if err != nil {
		s.logEvent(ctx, opensearch.PaymentEvent{
			Kind: "checkout", OrderID: orderID, PlanID: plan.ID,
			Amount: amount, Currency: plan.Currency, Error: err.Error(),
		})
		var gwErr *GatewayError
		if !errors.As(err, &gwErr) {
			err = &GatewayError{Err: err}
		}
		return nil, err
	}

	createdMeta, _ := json.Marshal(map[string]string{
		"provider":  s.providerName,
		"createdAt": time.Now().UTC().Format(time.RFC3339),
	})

	rec := &Record{
		OrderID:     orderID,
		PlanID:      plan.ID,
		PayerID:     req.PayerID,
		EmployerID:  req.EmployerID,
		GrossAmount: amount,
		Currency:    plan.Currency,
		Status:      StatusPending,
		Token:       txn.Token,
		RedirectURL: txn.RedirectURL,
		RawMeta:     createdMeta,
	}
	if err := s.store.CreatePayment(ctx, rec); err != nil {
		logger.Error("failed to persist checkout", err, logger.LogContext{
			Provider: s.providerName, OrderID: orderID,
		})
		return nil, err
	}

	wireAmount, err := SafeWireAmount(amount)
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, opensearch.PaymentEvent{
		Kind: "checkout", OrderID: orderID, PlanID: plan.ID,
		Status: string(StatusPending), Amount: wireAmount, Currency: plan.Currency,
	})

	return &CheckoutResult{
		OrderID:     orderID,
		Token:       txn.Token,
		RedirectURL: txn.RedirectURL,
		Status:      StatusPending,
		GrossAmount: wireAmount,
		Currency:    plan.Currency,
	}, nil
}

// Reconcile verifies a gateway notification and applies it to the matching
// record. Every outcome yields a result; the transport layer acknowledges the
// gateway regardless, so notifications are never redelivered for reasons the
// service already handled.
func (s *Service) Reconcile(ctx context.Context, payload map[string]string) ReconcileResult {
	valid, data, err := s.gateway.ValidateWebhook(ctx, payload)
	if err != nil {
		logger.Warn("webhook payload rejected", logger.LogContext{
			Provider: s.providerName, Fields: map[string]any{"error": err.Error()},
		})
		return s.webhookOutcome(ctx, ReconcileResult{Reason: ReasonBadPayload}, payload)
	}
	if !valid {
		logger.Warn("webhook signature mismatch", logger.LogContext{
			Provider: s.providerName, OrderID: payload["order_id"],
		})
		return s.webhookOutcome(ctx, ReconcileResult{
			OrderID: payload["order_id"], Reason: ReasonInvalidSignature,
		}, payload)
	}

	orderID := data["orderId"]
	status := Status(data["status"])

	meta := make(map[string]string, len(payload)+1)
	for key, value := range payload {
		meta[key] = value
	}
	meta["processed_at"] = time.Now().UTC().Format(time.RFC3339)
	rawMeta, err := json.Marshal(meta)
	if err != nil {
		rawMeta = []byte("{}")
	}

	upd := NotificationUpdate{
		OrderID:       orderID,
		Status:        status,
		Method:        optional(data["paymentType"]),
		TransactionID: optional(data["transactionId"]),
		FraudStatus:   optional(data["fraudStatus"]),
		RawMeta:       rawMeta,
	}

	affected, err := s.store.ApplyNotification(ctx, upd)
	if err != nil {
		logger.Error("failed to apply notification", err, logger.LogContext{
			Provider: s.providerName, OrderID: orderID,
		})
		return s.webhookOutcome(ctx, ReconcileResult{
			OrderID: orderID, Status: status, Reason: ReasonStoreError,
		}, payload)
	}

	if affected == 0 {
		_, getErr := s.store.PaymentByOrderID(ctx, orderID)
		if errors.Is(getErr, ErrPaymentNotFound) {
			logger.Warn("notification for unknown order", logger.LogContext{
				Provider: s.providerName, OrderID: orderID,
			})
			return s.webhookOutcome(ctx, ReconcileResult{
				OK: true, OrderID: orderID, Status: status, Reason: ReasonOrderNotFound,
			}, payload)
		}
		if getErr != nil {
			return s.webhookOutcome(ctx, ReconcileResult{
				OrderID: orderID, Status: status, Reason: ReasonStoreError,
			}, payload)
		}
		return s.webhookOutcome(ctx, ReconcileResult{
			OK: true, OrderID: orderID, Status: status, Reason: ReasonStaleTransition,
		}, payload)
	}

	logger.Info("payment reconciled", logger.LogContext{
		Provider: s.providerName, OrderID: orderID,
		Fields: map[string]any{"status": string(status)},
	})
	return s.webhookOutcome(ctx, ReconcileResult{
		OK: true, OrderID: orderID, Status: status,
	}, payload)
}

// PaymentByOrderID returns the client-facing view of one payment.
func (s *Service) PaymentByOrderID(ctx context.Context, orderID string) (*PaymentView, error) {
	rec, err := s.store.PaymentByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	wireAmount, err := SafeWireAmount(rec.GrossAmount)
	if err != nil {
		return nil, err
	}

	return &PaymentView{
		OrderID:       rec.OrderID,
		PlanID:        rec.PlanID,
		Status:        rec.Status,
		GrossAmount:   wireAmount,
		Currency:      rec.Currency,
		Method:        rec.Method,
		TransactionID: rec.TransactionID,
		FraudStatus:   rec.FraudStatus,
		CreatedAt:     rec.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     rec.UpdatedAt.UTC().Format(time.RFC3339),
	}, nil
}

// ListPayments returns one cursor page of payments, newest first.
func (s *Service) ListPayments(ctx context.Context, opts ListOptions) (*ListPage, error) {
	if opts.Take < 1 {
		opts.Take = 20
	}
	if opts.Take > 100 {
		opts.Take = 100
	}

	entries, err := s.store.ListPayments(ctx, opts)
	if err != nil {
		return nil, err
	}

	page := &ListPage{Items: make([]ListItem, 0, len(entries))}
	for _, entry := range entries {
		wireAmount, err := SafeWireAmount(entry.GrossAmount)
		if err != nil {
			return nil, err
		}
		page.Items = append(page.Items, ListItem{
			OrderID:       entry.OrderID,
			Status:        entry.Status,
			Method:        entry.Method,
			GrossAmount:   wireAmount,
			Currency:      entry.Currency,
			TransactionID: entry.TransactionID,
			PlanSlug:      entry.PlanSlug,
			PlanName:      entry.PlanName,
			PlanInterval:  entry.PlanInterval,
			CreatedAt:     entry.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	if len(entries) == opts.Take {
		page.NextCursor = entries[len(entries)-1].ID
	}

	return page, nil
}

// ActivePlans returns the purchasable plan catalog. Plan amounts are admin
// controlled and truncated to whole currency units for display.
func (s *Service) ActivePlans(ctx context.Context) ([]PlanView, error) {
	plans, err := s.plans.ActivePlans(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]PlanView, 0, len(plans))
	for _, plan := range plans {
		amount, err := TruncateAmount(plan.Amount)
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", plan.Slug, err)
		}
		views = append(views, PlanView{
			ID:          plan.ID,
			Slug:        plan.Slug,
			Name:        plan.Name,
			Description: plan.Description,
			Amount:      amount,
			Currency:    plan.Currency,
			Interval:    plan.Interval,
		})
	}

	return views, nil
}

func (s *Service) webhookOutcome(ctx context.Context, result ReconcileResult, payload map[string]string) ReconcileResult {
	s.logEvent(ctx, opensearch.PaymentEvent{
		Kind:    "webhook",
		OrderID: result.OrderID,
		Status:  string(result.Status),
		Reason:  result.Reason,
		Fields:  map[string]any{"transactionStatus": payload["transaction_status"]},
	})
	return result
}

func (s *Service) logEvent(ctx context.Context, event opensearch.PaymentEvent) {
	event.Provider = s.providerName
	if err := s.events.LogPaymentEvent(ctx, event); err != nil {
		logger.Debug("event indexing failed", logger.LogContext{
			Provider: s.providerName, Fields: map[string]any{"error": err.Error()},
		})
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
