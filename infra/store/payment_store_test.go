package store

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workhub/paysnap/payment"
)

func strPtr(s string) *string { return &s }

func newTestRecord(orderID string) *payment.Record {
	return &payment.Record{
		OrderID:     orderID,
		PlanID:      "plan-basic",
		PayerID:     "user-1",
		EmployerID:  "employer-1",
		GrossAmount: 50000,
		Currency:    "IDR",
		Status:      payment.StatusPending,
		RawMeta:     json.RawMessage(`{}`),
	}
}

func TestCreateAndGetPayment(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := newTestRecord("PAY-basic-1700000000000")
	rec.Token = "snap-token"
	rec.RedirectURL = "https://app.sandbox.midtrans.com/snap/v4/redirection/snap-token"
	require.NoError(t, s.CreatePayment(ctx, rec))
	assert.NotZero(t, rec.ID)

	got, err := s.PaymentByOrderID(ctx, "PAY-basic-1700000000000")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, got.Status)
	assert.Equal(t, int64(50000), got.GrossAmount)
	assert.Equal(t, "snap-token", got.Token)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreatePaymentDuplicateOrderID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePayment(ctx, newTestRecord("PAY-dup-1")))

	err := s.CreatePayment(ctx, newTestRecord("PAY-dup-1"))
	assert.ErrorIs(t, err, payment.ErrDuplicateOrder)
}

func TestPaymentByOrderIDNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.PaymentByOrderID(context.Background(), "PAY-missing")
	assert.ErrorIs(t, err, payment.ErrPaymentNotFound)
}

func TestApplyNotificationUpdatesFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePayment(ctx, newTestRecord("PAY-n-1")))

	affected, err := s.ApplyNotification(ctx, payment.NotificationUpdate{
		OrderID:       "PAY-n-1",
		Status:        payment.StatusSettlement,
		Method:        strPtr("gopay"),
		TransactionID: strPtr("txn-123"),
		FraudStatus:   strPtr("accept"),
		RawMeta:       json.RawMessage(`{"transaction_status":"settlement"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := s.PaymentByOrderID(ctx, "PAY-n-1")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusSettlement, got.Status)
	assert.Equal(t, "gopay", got.Method)
	assert.Equal(t, "txn-123", got.TransactionID)
	assert.Equal(t, "accept", got.FraudStatus)
	assert.JSONEq(t, `{"transaction_status":"settlement"}`, string(got.RawMeta))
}

func TestApplyNotificationKeepsFieldsWhenNil(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePayment(ctx, newTestRecord("PAY-n-2")))

	_, err := s.ApplyNotification(ctx, payment.NotificationUpdate{
		OrderID:       "PAY-n-2",
		Status:        payment.StatusPending,
		Method:        strPtr("bank_transfer"),
		TransactionID: strPtr("txn-aaa"),
	})
	require.NoError(t, err)

	affected, err := s.ApplyNotification(ctx, payment.NotificationUpdate{
		OrderID: "PAY-n-2",
		Status:  payment.StatusExpire,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := s.PaymentByOrderID(ctx, "PAY-n-2")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusExpire, got.Status)
	assert.Equal(t, "bank_transfer", got.Method)
	assert.Equal(t, "txn-aaa", got.TransactionID)
}

func TestApplyNotificationBlocksPendingRegression(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePayment(ctx, newTestRecord("PAY-n-3")))

	_, err := s.ApplyNotification(ctx, payment.NotificationUpdate{
		OrderID: "PAY-n-3",
		Status:  payment.StatusSettlement,
	})
	require.NoError(t, err)

	affected, err := s.ApplyNotification(ctx, payment.NotificationUpdate{
		OrderID: "PAY-n-3",
		Status:  payment.StatusPending,
	})
	require.NoError(t, err)
	assert.Zero(t, affected)

	got, err := s.PaymentByOrderID(ctx, "PAY-n-3")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusSettlement, got.Status)
}

func TestApplyNotificationAllowsPendingFromChallenge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePayment(ctx, newTestRecord("PAY-n-4")))

	_, err := s.ApplyNotification(ctx, payment.NotificationUpdate{
		OrderID: "PAY-n-4",
		Status:  payment.StatusChallenge,
	})
	require.NoError(t, err)

	affected, err := s.ApplyNotification(ctx, payment.NotificationUpdate{
		OrderID: "PAY-n-4",
		Status:  payment.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
}

func TestApplyNotificationUnknownOrder(t *testing.T) {
	s := newTestStore(t)

	affected, err := s.ApplyNotification(context.Background(), payment.NotificationUpdate{
		OrderID: "PAY-unknown",
		Status:  payment.StatusSettlement,
	})
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestApplyNotificationIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePayment(ctx, newTestRecord("PAY-n-5")))

	upd := payment.NotificationUpdate{
		OrderID:       "PAY-n-5",
		Status:        payment.StatusSettlement,
		Method:        strPtr("credit_card"),
		TransactionID: strPtr("txn-777"),
	}
	for i := 0; i < 3; i++ {
		affected, err := s.ApplyNotification(ctx, upd)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)
	}

	got, err := s.PaymentByOrderID(ctx, "PAY-n-5")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusSettlement, got.Status)
	assert.Equal(t, "txn-777", got.TransactionID)
}

func TestListPaymentsPaginationAndFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertPlan(ctx, &payment.Plan{
		ID: "plan-basic", Slug: "basic", Name: "Basic",
		Amount: decimal.NewFromInt(50000), Active: true,
	}))

	for i := 0; i < 5; i++ {
		require.NoError(t, s.CreatePayment(ctx, newTestRecord(fmt.Sprintf("PAY-list-%d", i))))
	}
	_, err := s.ApplyNotification(ctx, payment.NotificationUpdate{
		OrderID: "PAY-list-2",
		Status:  payment.StatusSettlement,
	})
	require.NoError(t, err)

	page, err := s.ListPayments(ctx, payment.ListOptions{Take: 3})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "PAY-list-4", page[0].OrderID)
	assert.Equal(t, "basic", page[0].PlanSlug)

	next, err := s.ListPayments(ctx, payment.ListOptions{Take: 3, Cursor: page[2].ID})
	require.NoError(t, err)
	require.Len(t, next, 2)
	assert.Equal(t, "PAY-list-1", next[0].OrderID)

	settled, err := s.ListPayments(ctx, payment.ListOptions{Status: "settlement"})
	require.NoError(t, err)
	require.Len(t, settled, 1)
	assert.Equal(t, "PAY-list-2", settled[0].OrderID)
}

func TestListPaymentsEmpty(t *testing.T) {
	s := newTestStore(t)

	page, err := s.ListPayments(context.Background(), payment.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, page)
}
