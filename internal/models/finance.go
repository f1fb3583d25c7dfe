package models

import "time"

// Transaction kinds.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

type Transaction struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Kind        string    `json:"kind"` // "income" or "expense"
}

type Budget struct {
	ID       int64   `json:"id"`
	Category string  `json:"category"`
	Limit    float64 `json:"limit"`
}

// BudgetStatus pairs a budget with the current month's spend against it.
type BudgetStatus struct {
	Budget
	Spent float64 `json:"spent"`
}

type Goal struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Target float64 `json:"target"`
	Saved  float64 `json:"saved"`
}

// CategoryTotal is one slice of a spending breakdown.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// ToolCall is the planner's output: which finance tool to run and with what
// arguments. Arguments is a free-form JSON object; each tool decodes the keys
// it understands and ignores the rest.
type ToolCall struct {
	ToolName  string         `json:"tool_name"`
	Arguments map[string]any `json:"arguments"`
}
