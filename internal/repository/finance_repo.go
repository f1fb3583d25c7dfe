package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"finbot-backend/internal/models"
)

const dateLayout = "2006-01-02"

// FinanceRepo reads and writes the SQLite ledger backing the finance tools.
type FinanceRepo struct {
	db *sql.DB
}

func NewFinanceRepo(db *sql.DB) *FinanceRepo {
	return &FinanceRepo{db: db}
}

func (r *FinanceRepo) AddTransaction(ctx context.Context, t *models.Transaction) error {
	if t.Kind != models.KindIncome && t.Kind != models.KindExpense {
		return fmt.Errorf("invalid transaction kind %q", t.Kind)
	}
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO transactions (date, category, description, amount, kind) VALUES (?, ?, ?, ?, ?)",
		t.Date.Format(dateLayout), t.Category, t.Description, t.Amount, t.Kind,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	t.ID, _ = res.LastInsertId()
	return nil
}

// Total sums transactions of one kind inside [from, to]. An empty category
// matches everything.
func (r *FinanceRepo) Total(ctx context.Context, kind, category string, from, to time.Time) (float64, error) {
	query := "SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE kind = ? AND date >= ? AND date <= ?"
	args := []any{kind, from.Format(dateLayout), to.Format(dateLayout)}
	if category != "" {
		query += " AND category = ? COLLATE NOCASE"
		args = append(args, category)
	}

	var total float64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum transactions: %w", err)
	}
	return total, nil
}

// Balance is lifetime income minus lifetime expenses.
func (r *FinanceRepo) Balance(ctx context.Context) (float64, error) {
	query := `SELECT
		COALESCE(SUM(CASE WHEN kind = 'income' THEN amount ELSE 0 END), 0) -
		COALESCE(SUM(CASE WHEN kind = 'expense' THEN amount ELSE 0 END), 0)
		FROM transactions`

	var balance float64
	if err := r.db.QueryRowContext(ctx, query).Scan(&balance); err != nil {
		return 0, fmt.Errorf("compute balance: %w", err)
	}
	return balance, nil
}

// ExpenseBreakdown returns per-category expense totals inside [from, to],
// largest first.
func (r *FinanceRepo) ExpenseBreakdown(ctx context.Context, from, to time.Time) ([]models.CategoryTotal, error) {
	query := `SELECT category, SUM(amount) AS total FROM transactions
		WHERE kind = 'expense' AND date >= ? AND date <= ?
		GROUP BY category ORDER BY total DESC`

	rows, err := r.db.QueryContext(ctx, query, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("expense breakdown: %w", err)
	}
	defer rows.Close()

	var out []models.CategoryTotal
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

// TopSpendingCategory returns the largest expense category inside [from, to].
// sql.ErrNoRows when there are no expenses in the range.
func (r *FinanceRepo) TopSpendingCategory(ctx context.Context, from, to time.Time) (models.CategoryTotal, error) {
	breakdown, err := r.ExpenseBreakdown(ctx, from, to)
	if err != nil {
		return models.CategoryTotal{}, err
	}
	if len(breakdown) == 0 {
		return models.CategoryTotal{}, sql.ErrNoRows
	}
	return breakdown[0], nil
}

// PeakSpendingDay finds the day with the highest expense total for a
// category inside [from, to].
func (r *FinanceRepo) PeakSpendingDay(ctx context.Context, category string, from, to time.Time) (time.Time, float64, error) {
	query := `SELECT date, SUM(amount) AS total FROM transactions
		WHERE kind = 'expense' AND category = ? COLLATE NOCASE AND date >= ? AND date <= ?
		GROUP BY date ORDER BY total DESC LIMIT 1`

	var dateStr string
	var total float64
	err := r.db.QueryRowContext(ctx, query, category, from.Format(dateLayout), to.Format(dateLayout)).Scan(&dateStr, &total)
	if err != nil {
		return time.Time{}, 0, err
	}
	day, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("parse peak day %q: %w", dateStr, err)
	}
	return day, total, nil
}

// FindTransactions matches transactions whose description contains the given
// text, newest first.
func (r *FinanceRepo) FindTransactions(ctx context.Context, descContains string, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT id, date, category, description, amount, kind FROM transactions
		WHERE description LIKE ? COLLATE NOCASE ORDER BY date DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, "%"+descContains+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var dateStr string
		if err := rows.Scan(&t.ID, &dateStr, &t.Category, &t.Description, &t.Amount, &t.Kind); err != nil {
			return nil, err
		}
		if t.Date, err = time.Parse(dateLayout, dateStr); err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", dateStr, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Transactions returns expense rows inside [from, to], oldest first. Used by
// the unnecessary-spending heuristic.
func (r *FinanceRepo) Transactions(ctx context.Context, from, to time.Time) ([]models.Transaction, error) {
	query := `SELECT id, date, category, description, amount, kind FROM transactions
		WHERE date >= ? AND date <= ? ORDER BY date ASC`

	rows, err := r.db.QueryContext(ctx, query, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		var t models.Transaction
		var dateStr string
		if err := rows.Scan(&t.ID, &dateStr, &t.Category, &t.Description, &t.Amount, &t.Kind); err != nil {
			return nil, err
		}
		if t.Date, err = time.Parse(dateLayout, dateStr); err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", dateStr, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *FinanceRepo) AddBudget(ctx context.Context, category string, limit float64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (category, max_amount) VALUES (?, ?)
		ON CONFLICT(category) DO UPDATE SET max_amount = excluded.max_amount`,
		category, limit,
	)
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}
	return nil
}

// BudgetStatuses joins each budget with its spend inside [from, to].
func (r *FinanceRepo) BudgetStatuses(ctx context.Context, from, to time.Time) ([]models.BudgetStatus, error) {
	query := `SELECT b.id, b.category, b.max_amount,
		COALESCE((SELECT SUM(t.amount) FROM transactions t
			WHERE t.kind = 'expense' AND t.category = b.category COLLATE NOCASE
			AND t.date >= ? AND t.date <= ?), 0) AS spent
		FROM budgets b ORDER BY b.category`

	rows, err := r.db.QueryContext(ctx, query, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("budget statuses: %w", err)
	}
	defer rows.Close()

	var out []models.BudgetStatus
	for rows.Next() {
		var bs models.BudgetStatus
		if err := rows.Scan(&bs.ID, &bs.Category, &bs.Limit, &bs.Spent); err != nil {
			return nil, err
		}
		out = append(out, bs)
	}
	return out, rows.Err()
}

func (r *FinanceRepo) AddGoal(ctx context.Context, name string, target float64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (name, target, saved) VALUES (?, ?, 0)
		ON CONFLICT(name) DO UPDATE SET target = excluded.target`,
		name, target,
	)
	if err != nil {
		return fmt.Errorf("upsert goal: %w", err)
	}
	return nil
}

func (r *FinanceRepo) Goals(ctx context.Context) ([]models.Goal, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, target, saved FROM goals ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []models.Goal
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.Name, &g.Target, &g.Saved); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ContributeToGoal adds amount to a goal's saved balance and returns the
// updated goal.
func (r *FinanceRepo) ContributeToGoal(ctx context.Context, name string, amount float64) (models.Goal, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE goals SET saved = saved + ? WHERE name = ? COLLATE NOCASE",
		amount, name,
	)
	if err != nil {
		return models.Goal{}, fmt.Errorf("contribute to goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Goal{}, fmt.Errorf("no goal named %q", name)
	}

	var g models.Goal
	err = r.db.QueryRowContext(ctx,
		"SELECT id, name, target, saved FROM goals WHERE name = ? COLLATE NOCASE", name,
	).Scan(&g.ID, &g.Name, &g.Target, &g.Saved)
	if err != nil {
		return models.Goal{}, fmt.Errorf("reload goal: %w", err)
	}
	return g, nil
}
