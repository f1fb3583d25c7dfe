package finbot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"finbot-backend/internal/models"
)

// chartFileName is the scratch name visualize_spending writes; the web layer
// extracts it from the response text and moves it into the media dir.
const chartFileName = "spending_chart.png"

func money(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}

func (e *Engine) getSummary(ctx context.Context, args Args) (string, error) {
	period := args.String("period", "month")
	from, to := periodRange(period)

	income, err := e.repo.Total(ctx, models.KindIncome, "", from, to)
	if err != nil {
		return "", err
	}
	expenses, err := e.repo.Total(ctx, models.KindExpense, "", from, to)
	if err != nil {
		return "", err
	}
	breakdown, err := e.repo.ExpenseBreakdown(ctx, from, to)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Financial Summary (%s)\n\n", periodLabel(period))
	fmt.Fprintf(&sb, "- Income: **%s**\n", money(income))
	fmt.Fprintf(&sb, "- Expenses: **%s**\n", money(expenses))
	fmt.Fprintf(&sb, "- Net: **%s**\n", money(income-expenses))
	if len(breakdown) > 0 {
		sb.WriteString("\n\n### Spending by category\n\n")
		for _, ct := range breakdown {
			fmt.Fprintf(&sb, "- %s: %s\n", ct.Category, money(ct.Total))
		}
	}
	return sb.String(), nil
}

func (e *Engine) getFinancialTotal(ctx context.Context, args Args) (string, error) {
	kind := args.String("kind", models.KindExpense)
	if kind != models.KindIncome && kind != models.KindExpense {
		kind = models.KindExpense
	}
	category := args.String("category", "")
	period := args.String("period", "month")
	from, to := periodRange(period)

	total, err := e.repo.Total(ctx, kind, category, from, to)
	if err != nil {
		return "", err
	}

	verb := "spent"
	if kind == models.KindIncome {
		verb = "earned"
	}
	if category != "" {
		return fmt.Sprintf("You %s **%s** on %s %s.", verb, money(total), category, periodLabel(period)), nil
	}
	return fmt.Sprintf("You %s **%s** in total %s.", verb, money(total), periodLabel(period)), nil
}

func (e *Engine) getTopSpendingCategory(ctx context.Context, args Args) (string, error) {
	period := args.String("period", "month")
	from, to := periodRange(period)

	top, err := e.repo.TopSpendingCategory(ctx, from, to)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Sprintf("No expenses recorded %s.", periodLabel(period)), nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Your top spending category %s is **%s** at **%s**.",
		periodLabel(period), top.Category, money(top.Total)), nil
}

func (e *Engine) findPeakSpendingDayForCategory(ctx context.Context, args Args) (string, error) {
	category := args.String("category", "")
	if category == "" {
		return "", fmt.Errorf("category is required")
	}
	period := args.String("period", "month")
	from, to := periodRange(period)

	day, total, err := e.repo.PeakSpendingDay(ctx, category, from, to)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Sprintf("No %s expenses recorded %s.", category, periodLabel(period)), nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Your peak %s spending day %s was **%s** with **%s**.",
		category, periodLabel(period), day.Format("January 2, 2006"), money(total)), nil
}

func (e *Engine) visualizeSpending(ctx context.Context, args Args) (string, error) {
	period := args.String("period", "month")
	from, to := periodRange(period)

	breakdown, err := e.repo.ExpenseBreakdown(ctx, from, to)
	if err != nil {
		return "", err
	}
	if len(breakdown) == 0 {
		return fmt.Sprintf("No expenses to chart %s.", periodLabel(period)), nil
	}

	path := filepath.Join(e.chartDir, chartFileName)
	if err := renderSpendingChart(breakdown, path); err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}
	return fmt.Sprintf("Here is your spending by category %s: *%s*", periodLabel(period), chartFileName), nil
}

func (e *Engine) findTransactionDate(ctx context.Context, args Args) (string, error) {
	desc := args.String("description", "")
	if desc == "" {
		return "", fmt.Errorf("description is required")
	}

	matches, err := e.repo.FindTransactions(ctx, desc, 5)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return fmt.Sprintf("I couldn't find any transaction matching \"%s\".", desc), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Transactions matching \"%s\":\n\n", desc)
	for _, t := range matches {
		fmt.Fprintf(&sb, "- %s: %s (%s, %s)\n",
			t.Date.Format("January 2, 2006"), t.Description, t.Category, money(t.Amount))
	}
	return sb.String(), nil
}

func (e *Engine) getFinancialAdvice(ctx context.Context, args Args) (string, error) {
	topic := args.String("topic", "general spending habits")

	summary, err := e.getSummary(ctx, Args{"period": "month"})
	if err != nil {
		return "", err
	}
	budgets, err := e.checkBudgets(ctx, Args{})
	if err != nil {
		return "", err
	}
	ledgerContext := summary + "\n\n" + budgets

	return e.advisor.GenerateAdvice(ctx, ledgerContext, topic)
}

func (e *Engine) addTransaction(ctx context.Context, args Args) (string, error) {
	amount, ok := args.Float("amount")
	if !ok || amount <= 0 {
		return "", fmt.Errorf("a positive amount is required")
	}
	kind := args.String("kind", models.KindExpense)
	if kind != models.KindIncome && kind != models.KindExpense {
		kind = models.KindExpense
	}

	t := models.Transaction{
		Date:        args.Date("date"),
		Category:    args.String("category", "Misc"),
		Description: args.String("description", ""),
		Amount:      amount,
		Kind:        kind,
	}
	if err := e.repo.AddTransaction(ctx, &t); err != nil {
		return "", err
	}
	return fmt.Sprintf("Recorded %s of **%s** in %s on %s.",
		t.Kind, money(t.Amount), t.Category, t.Date.Format("January 2, 2006")), nil
}

func (e *Engine) getBalance(ctx context.Context, args Args) (string, error) {
	balance, err := e.repo.Balance(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Your current balance is **%s**.", money(balance)), nil
}

func (e *Engine) checkBudgets(ctx context.Context, args Args) (string, error) {
	from, to := periodRange("month")
	statuses, err := e.repo.BudgetStatuses(ctx, from, to)
	if err != nil {
		return "", err
	}
	if len(statuses) == 0 {
		return "You have no budgets set. Try \"add a budget of $200 for groceries\".", nil
	}

	var sb strings.Builder
	sb.WriteString("### Budgets (this month)\n\n")
	for _, bs := range statuses {
		pct := 0.0
		if bs.Limit > 0 {
			pct = bs.Spent / bs.Limit * 100
		}
		fmt.Fprintf(&sb, "- %s: %s of %s (%.0f%%)", bs.Category, money(bs.Spent), money(bs.Limit), pct)
		if bs.Spent > bs.Limit {
			fmt.Fprintf(&sb, " — **over budget by %s**", money(bs.Spent-bs.Limit))
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func (e *Engine) addBudget(ctx context.Context, args Args) (string, error) {
	category := args.String("category", "")
	if category == "" {
		return "", fmt.Errorf("category is required")
	}
	limit, ok := args.Float("limit")
	if !ok || limit <= 0 {
		return "", fmt.Errorf("a positive limit is required")
	}

	if err := e.repo.AddBudget(ctx, category, limit); err != nil {
		return "", err
	}
	return fmt.Sprintf("Budget set: **%s** per month for %s.", money(limit), category), nil
}

func (e *Engine) checkGoals(ctx context.Context, args Args) (string, error) {
	goals, err := e.repo.Goals(ctx)
	if err != nil {
		return "", err
	}
	if len(goals) == 0 {
		return "You have no savings goals yet. Try \"add a savings goal of $1000 for a vacation\".", nil
	}

	var sb strings.Builder
	sb.WriteString("### Savings goals\n\n")
	for _, g := range goals {
		pct := 0.0
		if g.Target > 0 {
			pct = g.Saved / g.Target * 100
		}
		fmt.Fprintf(&sb, "- %s: %s of %s (%.0f%%)\n", g.Name, money(g.Saved), money(g.Target), pct)
	}
	return sb.String(), nil
}

func (e *Engine) contributeToGoal(ctx context.Context, args Args) (string, error) {
	name := args.String("name", "")
	if name == "" {
		return "", fmt.Errorf("goal name is required")
	}
	amount, ok := args.Float("amount")
	if !ok || amount <= 0 {
		return "", fmt.Errorf("a positive amount is required")
	}

	g, err := e.repo.ContributeToGoal(ctx, name, amount)
	if err != nil {
		return "", err
	}
	msg := fmt.Sprintf("Added **%s** to %s. Now at %s of %s.",
		money(amount), g.Name, money(g.Saved), money(g.Target))
	if g.Saved >= g.Target {
		msg += " **Goal reached!**"
	}
	return msg, nil
}

func (e *Engine) calculateSavingsPlan(ctx context.Context, args Args) (string, error) {
	name := args.String("name", "")
	if name == "" {
		return "", fmt.Errorf("goal name is required")
	}
	months := args.Int("months", 12)
	if months < 1 {
		months = 1
	}

	goals, err := e.repo.Goals(ctx)
	if err != nil {
		return "", err
	}
	for _, g := range goals {
		if strings.EqualFold(g.Name, name) {
			remaining := g.Target - g.Saved
			if remaining <= 0 {
				return fmt.Sprintf("**%s** is already fully funded at %s.", g.Name, money(g.Saved)), nil
			}
			monthly := math.Ceil(remaining/float64(months)*100) / 100
			return fmt.Sprintf("To reach **%s** (%s remaining) in %d months, save **%s** per month.",
				g.Name, money(remaining), months, money(monthly)), nil
		}
	}
	return "", fmt.Errorf("no goal named %q", name)
}

func (e *Engine) addSavingsGoal(ctx context.Context, args Args) (string, error) {
	name := args.String("name", "")
	if name == "" {
		return "", fmt.Errorf("goal name is required")
	}
	target, ok := args.Float("target")
	if !ok || target <= 0 {
		return "", fmt.Errorf("a positive target is required")
	}

	if err := e.repo.AddGoal(ctx, name, target); err != nil {
		return "", err
	}
	return fmt.Sprintf("Savings goal created: **%s** with a target of %s.", name, money(target)), nil
}

// Discretionary categories flagged by identify_unnecessary_spending.
var discretionaryCategories = map[string]bool{
	"dining":        true,
	"entertainment": true,
	"shopping":      true,
	"takeout":       true,
	"subscriptions": true,
}

func (e *Engine) identifyUnnecessarySpending(ctx context.Context, args Args) (string, error) {
	period := args.String("period", "month")
	from, to := periodRange(period)

	txs, err := e.repo.Transactions(ctx, from, to)
	if err != nil {
		return "", err
	}

	var total float64
	byCategory := map[string]float64{}
	for _, t := range txs {
		if t.Kind != models.KindExpense {
			continue
		}
		if discretionaryCategories[strings.ToLower(t.Category)] {
			byCategory[t.Category] += t.Amount
			total += t.Amount
		}
	}

	if total == 0 {
		return fmt.Sprintf("No obviously discretionary spending found %s. Nice work!", periodLabel(period)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "I found **%s** of discretionary spending %s:\n\n", money(total), periodLabel(period))
	for category, amount := range byCategory {
		fmt.Fprintf(&sb, "- %s: %s\n", category, money(amount))
	}
	sb.WriteString("\nCutting even half of this would free up real savings.")
	return sb.String(), nil
}
