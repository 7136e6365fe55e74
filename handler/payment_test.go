package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workhub/paysnap/payment"
)

type mockPaymentService struct {
	checkoutResult *payment.CheckoutResult
	checkoutErr    error
	reconcile      payment.ReconcileResult
	lastPayload    map[string]string
	view           *payment.PaymentView
	viewErr        error
	page           *payment.ListPage
	listErr        error
	plans          []payment.PlanView
	plansErr       error
}

func (m *mockPaymentService) Checkout(_ context.Context, req payment.CheckoutRequest) (*payment.CheckoutResult, error) {
	return m.checkoutResult, m.checkoutErr
}

func (m *mockPaymentService) Reconcile(_ context.Context, payload map[string]string) payment.ReconcileResult {
	m.lastPayload = payload
	return m.reconcile
}

func (m *mockPaymentService) PaymentByOrderID(_ context.Context, orderID string) (*payment.PaymentView, error) {
	return m.view, m.viewErr
}

func (m *mockPaymentService) ListPayments(_ context.Context, opts payment.ListOptions) (*payment.ListPage, error) {
	return m.page, m.listErr
}

func (m *mockPaymentService) ActivePlans(_ context.Context) ([]payment.PlanView, error) {
	return m.plans, m.plansErr
}

func newTestHandler(svc *mockPaymentService) *PaymentHandler {
	return NewPaymentHandler(svc, validator.New())
}

func checkoutBody() string {
	return `{
		"planId": "basic",
		"payerId": "user-1",
		"customer": {"firstName": "Ada", "email": "ada@example.com"}
	}`
}

func TestCheckoutHandler(t *testing.T) {
	svc := &mockPaymentService{
		checkoutResult: &payment.CheckoutResult{
			OrderID:     "plan-basic-1700000000000",
			Token:       "snap-token",
			RedirectURL: "https://pay.example/redirect",
			Status:      payment.StatusPending,
			GrossAmount: 50000,
			Currency:    "IDR",
		},
	}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/payments/checkout", strings.NewReader(checkoutBody()))
	rec := httptest.NewRecorder()
	h.Checkout(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "snap-token")
	assert.Contains(t, rec.Body.String(), "plan-basic-1700000000000")
}

func TestCheckoutHandlerInvalidJSON(t *testing.T) {
	h := newTestHandler(&mockPaymentService{})

	req := httptest.NewRequest(http.MethodPost, "/v1/payments/checkout", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Checkout(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutHandlerValidation(t *testing.T) {
	h := newTestHandler(&mockPaymentService{})

	tests := []struct {
		name string
		body string
	}{
		{"missing plan", `{"payerId": "u1", "customer": {"firstName": "Ada"}}`},
		{"empty plan", `{"planId": "", "payerId": "u1"}`},
		{"bad email", `{"planId": "basic", "customer": {"firstName": "Ada", "email": "nope"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/payments/checkout", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Checkout(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCheckoutHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"plan not found", payment.ErrPlanNotFound, http.StatusNotFound},
		{"invalid amount", payment.ErrInvalidAmount, http.StatusUnprocessableEntity},
		{"duplicate order", payment.ErrDuplicateOrder, http.StatusConflict},
		{"gateway error", &payment.GatewayError{Message: "merchant disabled"}, http.StatusBadGateway},
		{"store error", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&mockPaymentService{checkoutErr: tt.err})

			req := httptest.NewRequest(http.MethodPost, "/v1/payments/checkout", strings.NewReader(checkoutBody()))
			rec := httptest.NewRecorder()
			h.Checkout(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestWebhookHandlerAlwaysAcks(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		result payment.ReconcileResult
	}{
		{"applied", `{"order_id": "PAY-1", "transaction_status": "settlement"}`, payment.ReconcileResult{OK: true}},
		{"invalid signature", `{"order_id": "PAY-1"}`, payment.ReconcileResult{Reason: payment.ReasonInvalidSignature}},
		{"unknown order", `{"order_id": "PAY-x"}`, payment.ReconcileResult{OK: true, Reason: payment.ReasonOrderNotFound}},
		{"malformed body", `{not json`, payment.ReconcileResult{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&mockPaymentService{reconcile: tt.result})

			req := httptest.NewRequest(http.MethodPost, "/webhooks/midtrans", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.HandleWebhook(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"ok": true}`, rec.Body.String())
		})
	}
}

func TestWebhookHandlerCoercesNumbers(t *testing.T) {
	svc := &mockPaymentService{reconcile: payment.ReconcileResult{OK: true}}
	h := newTestHandler(svc)

	body := `{"order_id": "PAY-1", "status_code": "200", "gross_amount": "50000.00", "merchant_id": 145}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/midtrans", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleWebhook(rec, req)

	require.NotNil(t, svc.lastPayload)
	assert.Equal(t, "200", svc.lastPayload["status_code"])
	assert.Equal(t, "50000.00", svc.lastPayload["gross_amount"])
	assert.Equal(t, "145", svc.lastPayload["merchant_id"])
}

func TestWebhookHandlerRejectsWrongTypedSignatureFields(t *testing.T) {
	svc := &mockPaymentService{reconcile: payment.ReconcileResult{Reason: payment.ReasonBadPayload}}
	h := newTestHandler(svc)

	// Signature base fields sent as JSON numbers must not be coerced into a
	// verifiable string; dropping them makes the reconciler report the
	// payload as malformed.
	body := `{"order_id": "PAY-1", "status_code": 200, "gross_amount": 50000.00, "signature_key": "abc", "transaction_status": "settlement"}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/midtrans", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleWebhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.lastPayload)
	assert.NotContains(t, svc.lastPayload, "status_code")
	assert.NotContains(t, svc.lastPayload, "gross_amount")
	assert.Equal(t, "PAY-1", svc.lastPayload["order_id"])
	assert.Equal(t, "settlement", svc.lastPayload["transaction_status"])
}

func getPaymentRequest(orderID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/v1/payments/"+orderID, nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("orderID", orderID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestGetPaymentHandler(t *testing.T) {
	h := newTestHandler(&mockPaymentService{
		view: &payment.PaymentView{
			OrderID: "plan-basic-1700000000000",
			Status:  payment.StatusSettlement,
		},
	})

	rec := httptest.NewRecorder()
	h.GetPayment(rec, getPaymentRequest("plan-basic-1700000000000"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "settlement")
}

func TestGetPaymentHandlerNotFound(t *testing.T) {
	h := newTestHandler(&mockPaymentService{viewErr: payment.ErrPaymentNotFound})

	rec := httptest.NewRecorder()
	h.GetPayment(rec, getPaymentRequest("PAY-missing"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPaymentsHandler(t *testing.T) {
	h := newTestHandler(&mockPaymentService{
		page: &payment.ListPage{
			Items:      []payment.ListItem{{OrderID: "PAY-1", Status: payment.StatusPending}},
			NextCursor: 7,
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/payments?take=1&status=pending", nil)
	rec := httptest.NewRecorder()
	h.ListPayments(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "PAY-1")
	assert.Contains(t, rec.Body.String(), `"nextCursor":7`)
}

func TestListPlansHandler(t *testing.T) {
	h := newTestHandler(&mockPaymentService{
		plans: []payment.PlanView{
			{ID: "plan-basic", Slug: "basic", Name: "Basic", Amount: 50000, Currency: "IDR", Interval: "month"},
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/plans", nil)
	rec := httptest.NewRecorder()
	h.ListPlans(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "basic")
}
