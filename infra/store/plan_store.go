package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/workhub/paysnap/payment"
)

const planColumns = "id, slug, name, description, amount, currency, interval, active, price_id"

// ResolvePlan looks a plan up by id first, then by slug, matching how
// checkout requests may carry either.
func (s *Store) ResolvePlan(ctx context.Context, idOrSlug string) (*payment.Plan, error) {
	plan, err := s.planBy(ctx, "id", idOrSlug)
	if err == nil {
		return plan, nil
	}
	if err != payment.ErrPlanNotFound {
		return nil, err
	}
	return s.planBy(ctx, "slug", idOrSlug)
}

// ActivePlans returns all active plans, cheapest first.
func (s *Store) ActivePlans(ctx context.Context) ([]payment.Plan, error) {
	query := fmt.Sprintf("SELECT %s FROM plans WHERE active = 1 ORDER BY CAST(amount AS INTEGER) ASC, id ASC", planColumns)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var plans []payment.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}

	return plans, rows.Err()
}

// UpsertPlan inserts or updates a plan keyed by slug. Used for startup
// seeding and by tests; plan administration itself lives outside this service.
func (s *Store) UpsertPlan(ctx context.Context, plan *payment.Plan) error {
	if plan.ID == "" {
		plan.ID = uuid.New().String()
	}
	if plan.Currency == "" {
		plan.Currency = "IDR"
	}
	if plan.Interval == "" {
		plan.Interval = "month"
	}

	return s.retryOperation(func() error {
		query := `
		INSERT INTO plans (id, slug, name, description, amount, currency, interval, active, price_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slug) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			amount = excluded.amount,
			currency = excluded.currency,
			interval = excluded.interval,
			active = excluded.active,
			price_id = excluded.price_id
		`

		_, err := s.db.ExecContext(ctx, query,
			plan.ID, plan.Slug, plan.Name, plan.Description, plan.Amount.String(),
			plan.Currency, plan.Interval, boolToInt(plan.Active), plan.PriceID,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert plan %s: %w", plan.Slug, err)
		}
		return nil
	}, 3)
}

// SeedPlansFromFile loads plan definitions from a JSON file and upserts them.
// Missing path is not an error; the service can run against an already
// populated database.
func (s *Store) SeedPlansFromFile(ctx context.Context, path string) (int, error) {
	if path == "" {
		return 0, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read plans file %s: %w", path, err)
	}

	var seeds []struct {
		ID          string          `json:"id"`
		Slug        string          `json:"slug"`
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Currency    string          `json:"currency"`
		Interval    string          `json:"interval"`
		Active      *bool           `json:"active"`
		PriceID     string          `json:"priceId"`
	}
	if err := json.Unmarshal(data, &seeds); err != nil {
		return 0, fmt.Errorf("failed to parse plans file %s: %w", path, err)
	}

	for _, seed := range seeds {
		active := true
		if seed.Active != nil {
			active = *seed.Active
		}
		plan := &payment.Plan{
			ID:          seed.ID,
			Slug:        seed.Slug,
			Name:        seed.Name,
			Description: seed.Description,
			Amount:      seed.Amount,
			Currency:    seed.Currency,
			Interval:    seed.Interval,
			Active:      active,
			PriceID:     seed.PriceID,
		}
		if err := s.UpsertPlan(ctx, plan); err != nil {
			return 0, err
		}
	}

	return len(seeds), nil
}

func (s *Store) planBy(ctx context.Context, column, value string) (*payment.Plan, error) {
	query := fmt.Sprintf("SELECT %s FROM plans WHERE %s = ?", planColumns, column)

	row := s.db.QueryRowContext(ctx, query, value)
	plan, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, payment.ErrPlanNotFound
	}
	return plan, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (*payment.Plan, error) {
	var plan payment.Plan
	var amount string
	var active int

	err := row.Scan(&plan.ID, &plan.Slug, &plan.Name, &plan.Description, &amount,
		&plan.Currency, &plan.Interval, &active, &plan.PriceID)
	if err != nil {
		return nil, err
	}

	plan.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("plan %s has a non-numeric amount %q: %w", plan.Slug, amount, err)
	}
	plan.Active = active == 1

	return &plan, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
