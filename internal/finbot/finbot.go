// Package finbot holds the tool belt: the dispatch table from planner tool
// names to finance functions, and the respond loop that turns a user query
// into markdown.
package finbot

import (
	"context"
	"fmt"

	"finbot-backend/internal/models"
	"finbot-backend/internal/repository"
)

// Planner selects a tool call for a user query.
type Planner interface {
	PlanToolCall(ctx context.Context, query string) (*models.ToolCall, error)
}

// Advisor generates freeform advice text from ledger context.
type Advisor interface {
	GenerateAdvice(ctx context.Context, ledgerContext, topic string) (string, error)
}

type toolFunc func(ctx context.Context, args Args) (string, error)

// Engine wires the planner to the finance tools. Responses are markdown; the
// web layer renders them.
type Engine struct {
	planner  Planner
	advisor  Advisor
	repo     *repository.FinanceRepo
	chartDir string
	tools    map[string]toolFunc
}

func NewEngine(planner Planner, advisor Advisor, repo *repository.FinanceRepo, chartDir string) *Engine {
	e := &Engine{
		planner:  planner,
		advisor:  advisor,
		repo:     repo,
		chartDir: chartDir,
	}
	e.tools = map[string]toolFunc{
		"get_summary":                         e.getSummary,
		"get_financial_total":                 e.getFinancialTotal,
		"get_top_spending_category":           e.getTopSpendingCategory,
		"find_peak_spending_day_for_category": e.findPeakSpendingDayForCategory,
		"visualize_spending":                  e.visualizeSpending,
		"find_transaction_date":               e.findTransactionDate,
		"get_financial_advice":                e.getFinancialAdvice,
		"add_transaction":                     e.addTransaction,
		"get_balance":                         e.getBalance,
		"check_budgets":                       e.checkBudgets,
		"add_budget":                          e.addBudget,
		"check_goals":                         e.checkGoals,
		"contribute_to_goal":                  e.contributeToGoal,
		"calculate_savings_plan":              e.calculateSavingsPlan,
		"add_savings_goal":                    e.addSavingsGoal,
		"identify_unnecessary_spending":       e.identifyUnnecessarySpending,
	}
	return e
}

// Respond runs one chat turn and returns markdown. Failures never surface as
// errors; they become inline text for the user, per the best-effort design.
func (e *Engine) Respond(ctx context.Context, userQuery string) string {
	plan, err := e.planner.PlanToolCall(ctx, userQuery)
	if err != nil {
		return fmt.Sprintf("**Error planning tool call:** %v", err)
	}

	args := Args(plan.Arguments)
	if args == nil {
		args = Args{}
	}

	if plan.ToolName == "greeting_response" {
		if response := args.String("response", ""); response != "" {
			return response
		}
		return "Hi! How can I help?"
	}

	fn, ok := e.tools[plan.ToolName]
	if !ok {
		return "I'm not sure how to do that. Please try rephrasing."
	}

	response, err := fn(ctx, args)
	if err != nil {
		return fmt.Sprintf("An error occurred while running the tool: %v", err)
	}
	return response
}

// ToolNames lists the registered tools, for logging at startup.
func (e *Engine) ToolNames() []string {
	names := make([]string, 0, len(e.tools))
	for name := range e.tools {
		names = append(names, name)
	}
	return names
}
