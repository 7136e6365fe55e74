package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"

	"github.com/workhub/paysnap/infra/logger"
	"github.com/workhub/paysnap/infra/response"
	"github.com/workhub/paysnap/payment"
)

// PaymentServiceInterface defines the interface for payment lifecycle operations
type PaymentServiceInterface interface {
	Checkout(ctx context.Context, req payment.CheckoutRequest) (*payment.CheckoutResult, error)
	Reconcile(ctx context.Context, payload map[string]string) payment.ReconcileResult
	PaymentByOrderID(ctx context.Context, orderID string) (*payment.PaymentView, error)
	ListPayments(ctx context.Context, opts payment.ListOptions) (*payment.ListPage, error)
	ActivePlans(ctx context.Context) ([]payment.PlanView, error)
}

// signatureFields are the notification fields the gateway signs; they must
// arrive as JSON strings.
var signatureFields = map[string]bool{
	"order_id":      true,
	"status_code":   true,
	"gross_amount":  true,
	"signature_key": true,
}

// PaymentHandler handles payment related HTTP requests
type PaymentHandler struct {
	paymentService PaymentServiceInterface
	validate       *validator.Validate
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService PaymentServiceInterface, validate *validator.Validate) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		validate:       validate,
	}
}

// Checkout starts a payment for a plan and returns the gateway token plus the
// hosted payment page URL.
func (h *PaymentHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var req payment.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation error", err)
		return
	}

	result, err := h.paymentService.Checkout(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrPlanNotFound):
			response.Error(w, http.StatusNotFound, "Plan not found", err)
		case errors.Is(err, payment.ErrInvalidAmount):
			response.Error(w, http.StatusUnprocessableEntity, "Plan amount is not chargeable", err)
		case errors.Is(err, payment.ErrDuplicateOrder):
			response.Error(w, http.StatusConflict, "Order id collision, retry the checkout", err)
		default:
			var gwErr *payment.GatewayError
			if errors.As(err, &gwErr) {
				response.Error(w, http.StatusBadGateway, "Payment gateway rejected the transaction", err)
				return
			}
			response.Error(w, http.StatusInternalServerError, "Checkout failed", err)
		}
		return
	}

	response.Success(w, http.StatusCreated, "Checkout created", result)
}

// HandleWebhook processes gateway payment notifications. It always answers
// HTTP 200: a non-2xx status would make the gateway retry deliveries the
// service has already classified, and rejected ones are logged instead.
func (h *PaymentHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.Warn("webhook body is not valid JSON", logger.LogContext{
			Fields: map[string]any{"error": err.Error()},
		})
		response.Ack(w)
		return
	}

	// Midtrans sends the signature's base fields as strings; any other JSON
	// type there is a malformed notification, so those values are dropped and
	// the reconciler classifies the payload instead of verifying a coerced
	// one. Remaining fields may legitimately arrive as numbers.
	payload := make(map[string]string, len(body))
	for key, value := range body {
		if str, ok := value.(string); ok {
			payload[key] = str
			continue
		}
		if signatureFields[key] {
			continue
		}
		payload[key] = cast.ToString(value)
	}

	result := h.paymentService.Reconcile(ctx, payload)
	if !result.OK {
		logger.Warn("webhook not applied", logger.LogContext{
			OrderID: result.OrderID,
			Fields:  map[string]any{"reason": result.Reason},
		})
	}

	response.Ack(w)
}

// GetPayment returns the status view of one payment by order id.
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		response.Error(w, http.StatusBadRequest, "Order ID is required", nil)
		return
	}

	view, err := h.paymentService.PaymentByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotFound) {
			response.Error(w, http.StatusNotFound, "Payment not found", err)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to load payment", err)
		return
	}

	response.Success(w, http.StatusOK, "Payment retrieved", view)
}

// ListPayments returns a cursor page of payments for back office use.
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := payment.ListOptions{
		Take:   cast.ToInt(r.URL.Query().Get("take")),
		Cursor: cast.ToInt64(r.URL.Query().Get("cursor")),
		Status: r.URL.Query().Get("status"),
	}

	page, err := h.paymentService.ListPayments(ctx, opts)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}

	response.Success(w, http.StatusOK, "Payments retrieved", page)
}

// ListPlans returns the purchasable plan catalog.
func (h *PaymentHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	plans, err := h.paymentService.ActivePlans(ctx)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to list plans", err)
		return
	}

	response.Success(w, http.StatusOK, "Plans retrieved", plans)
}
