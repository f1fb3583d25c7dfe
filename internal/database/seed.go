package database

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedDemoData inserts a small demo ledger on first run so the bot has
// something to answer about. It is a no-op when transactions already exist.
func SeedDemoData(db *sql.DB) (bool, error) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&count); err != nil {
		return false, fmt.Errorf("count transactions: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	type seedTx struct {
		day         int
		category    string
		description string
		amount      float64
		kind        string
	}
	txs := []seedTx{
		{1, "Salary", "Monthly salary", 3200, "income"},
		{1, "Rent", "Apartment rent", 950, "expense"},
		{2, "Groceries", "Supermarket", 86.40, "expense"},
		{3, "Transport", "Monthly transit pass", 49, "expense"},
		{5, "Dining", "Dinner out", 42.75, "expense"},
		{6, "Groceries", "Supermarket", 54.10, "expense"},
		{8, "Entertainment", "Streaming subscriptions", 27.97, "expense"},
		{9, "Dining", "Coffee and lunch", 18.50, "expense"},
		{11, "Utilities", "Electricity bill", 78.20, "expense"},
		{12, "Groceries", "Farmers market", 33.60, "expense"},
		{14, "Shopping", "Clothing", 119.99, "expense"},
		{15, "Freelance", "Side project invoice", 400, "income"},
		{16, "Dining", "Takeout", 25.30, "expense"},
		{18, "Transport", "Ride share", 16.80, "expense"},
		{20, "Groceries", "Supermarket", 71.25, "expense"},
		{21, "Entertainment", "Cinema", 24, "expense"},
		{23, "Health", "Pharmacy", 31.45, "expense"},
		{25, "Dining", "Dinner out", 58.90, "expense"},
	}

	tx, err := db.Begin()
	if err != nil {
		return false, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, s := range txs {
		date := monthStart.AddDate(0, 0, s.day-1).Format("2006-01-02")
		if _, err := tx.Exec(
			"INSERT INTO transactions (date, category, description, amount, kind) VALUES (?, ?, ?, ?, ?)",
			date, s.category, s.description, s.amount, s.kind,
		); err != nil {
			return false, fmt.Errorf("seed transaction: %w", err)
		}
	}

	budgets := map[string]float64{
		"Groceries":     300,
		"Dining":        150,
		"Entertainment": 80,
	}
	for category, limit := range budgets {
		if _, err := tx.Exec(
			"INSERT INTO budgets (category, max_amount) VALUES (?, ?)",
			category, limit,
		); err != nil {
			return false, fmt.Errorf("seed budget: %w", err)
		}
	}

	if _, err := tx.Exec(
		"INSERT INTO goals (name, target, saved) VALUES (?, ?, ?)",
		"Emergency fund", 5000, 1250,
	); err != nil {
		return false, fmt.Errorf("seed goal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit seed: %w", err)
	}
	return true, nil
}
