package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/workhub/paysnap/payment"
)

// CreatePayment inserts a new payment record. The UNIQUE constraint on
// order_id is the authoritative guard against generator collisions; a
// violation surfaces as payment.ErrDuplicateOrder and is never retried here.
func (s *Store) CreatePayment(ctx context.Context, rec *payment.Record) error {
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = rec.CreatedAt

	rawMeta := string(rec.RawMeta)
	if rawMeta == "" {
		rawMeta = "{}"
	}

	return s.retryOperation(func() error {
		query := `
		INSERT INTO payments (
			order_id, plan_id, payer_id, employer_id, gross_amount, currency,
			status, method, transaction_id, fraud_status, token, redirect_url,
			raw_meta, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`

		result, err := s.db.ExecContext(ctx, query,
			rec.OrderID, rec.PlanID, rec.PayerID, rec.EmployerID, rec.GrossAmount, rec.Currency,
			string(rec.Status), rec.Method, rec.TransactionID, rec.FraudStatus, rec.Token, rec.RedirectURL,
			rawMeta, rec.CreatedAt, rec.UpdatedAt,
		)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return payment.ErrDuplicateOrder
			}
			return fmt.Errorf("failed to create payment %s: %w", rec.OrderID, err)
		}

		rec.ID, _ = result.LastInsertId()
		return nil
	}, 3)
}

// PaymentByOrderID fetches a single payment record by its order id.
func (s *Store) PaymentByOrderID(ctx context.Context, orderID string) (*payment.Record, error) {
	query := `
	SELECT id, order_id, plan_id, payer_id, employer_id, gross_amount, currency,
		status, method, transaction_id, fraud_status, token, redirect_url,
		raw_meta, created_at, updated_at
	FROM payments WHERE order_id = ?
	`

	var rec payment.Record
	var status, rawMeta string

	err := s.db.QueryRowContext(ctx, query, orderID).Scan(
		&rec.ID, &rec.OrderID, &rec.PlanID, &rec.PayerID, &rec.EmployerID, &rec.GrossAmount, &rec.Currency,
		&status, &rec.Method, &rec.TransactionID, &rec.FraudStatus, &rec.Token, &rec.RedirectURL,
		&rawMeta, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, payment.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment %s: %w", orderID, err)
	}

	rec.Status = payment.Status(status)
	rec.RawMeta = []byte(rawMeta)

	return &rec, nil
}

// ApplyNotification performs the single conditional update a verified webhook
// notification maps to. The WHERE clause scopes the write to one order id and
// blocks regressions into pending from any terminal state, so concurrent
// duplicate deliveries converge without a read-modify-write race. Returns the
// number of rows touched: zero means either an unknown order id or a blocked
// stale transition, which the caller distinguishes with a follow-up read.
func (s *Store) ApplyNotification(ctx context.Context, upd payment.NotificationUpdate) (int64, error) {
	rawMeta := string(upd.RawMeta)
	if rawMeta == "" {
		rawMeta = "{}"
	}

	var affected int64
	err := s.retryOperation(func() error {
		query := `
		UPDATE payments SET
			status = ?,
			method = COALESCE(?, method),
			transaction_id = COALESCE(?, transaction_id),
			fraud_status = COALESCE(?, fraud_status),
			raw_meta = ?,
			updated_at = ?
		WHERE order_id = ?
			AND NOT (? = ? AND status NOT IN (?, ?))
		`

		result, err := s.db.ExecContext(ctx, query,
			string(upd.Status), upd.Method, upd.TransactionID, upd.FraudStatus,
			rawMeta, time.Now().UTC(),
			upd.OrderID,
			string(upd.Status), string(payment.StatusPending),
			string(payment.StatusPending), string(payment.StatusChallenge),
		)
		if err != nil {
			return fmt.Errorf("failed to apply notification for %s: %w", upd.OrderID, err)
		}

		affected, err = result.RowsAffected()
		return err
	}, 3)

	return affected, err
}

// ListPayments returns payment rows joined with their plan, newest first,
// using keyset pagination on the row id.
func (s *Store) ListPayments(ctx context.Context, opts payment.ListOptions) ([]payment.ListEntry, error) {
	take := opts.Take
	if take < 1 {
		take = 20
	}
	if take > 100 {
		take = 100
	}

	query := `
	SELECT p.id, p.order_id, p.status, p.method, p.gross_amount, p.currency,
		p.created_at, p.transaction_id,
		COALESCE(pl.slug, ''), COALESCE(pl.name, ''), COALESCE(pl.interval, '')
	FROM payments p
	LEFT JOIN plans pl ON pl.id = p.plan_id
	WHERE (? = '' OR p.status = ?)
		AND (? = 0 OR p.id < ?)
	ORDER BY p.id DESC
	LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query,
		opts.Status, opts.Status, opts.Cursor, opts.Cursor, take)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var entries []payment.ListEntry
	for rows.Next() {
		var entry payment.ListEntry
		var status string

		err := rows.Scan(&entry.ID, &entry.OrderID, &status, &entry.Method,
			&entry.GrossAmount, &entry.Currency, &entry.CreatedAt, &entry.TransactionID,
			&entry.PlanSlug, &entry.PlanName, &entry.PlanInterval)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}

		entry.Status = payment.Status(status)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
