package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"finbot-backend/internal/models"
)

// toolCatalog is sent with every planning request so the model picks from the
// exact set of tools the dispatcher knows.
const toolCatalog = `You are the tool planner for a personal-finance chatbot.
Given the user's question, choose exactly one tool and its arguments.

Available tools:
- greeting_response(response): the user is greeting or making small talk; put a short friendly reply in "response".
- get_summary(period): overall spending/income summary. period is "month" (default) or "all".
- get_financial_total(kind, category, period): total amount. kind is "expense" or "income"; category optional.
- get_top_spending_category(period): the category with the most spending.
- find_peak_spending_day_for_category(category, period): the day with the highest spending for a category.
- visualize_spending(period): render a spending-by-category chart.
- find_transaction_date(description): when a transaction matching the description happened.
- get_financial_advice(topic): freeform advice about the user's finances.
- add_transaction(date, category, description, amount, kind): record a transaction. date is YYYY-MM-DD (today if omitted).
- get_balance(): lifetime income minus expenses.
- check_budgets(): budget utilization for the current month.
- add_budget(category, limit): set a monthly budget.
- check_goals(): savings goal progress.
- contribute_to_goal(name, amount): add money toward a goal.
- calculate_savings_plan(name, months): monthly amount needed to hit a goal in the given months.
- add_savings_goal(name, target): create a savings goal.
- identify_unnecessary_spending(period): flag discretionary spending.

Reply with ONLY a JSON object, no prose and no code fences:
{"tool_name": "...", "arguments": {...}}`

// GeminiService plans tool calls and generates freeform advice. A token
// bucket caps concurrent requests against the API.
type GeminiService struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	rateChan chan struct{}
}

func NewGeminiService(apiKey, modelName string, concurrentReqs int) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.2)
	model.SetTopP(0.95)

	if concurrentReqs < 1 {
		concurrentReqs = 1
	}
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:   client,
		model:    model,
		rateChan: rateChan,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(2 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// PlanToolCall asks the model which finance tool answers the query.
func (s *GeminiService) PlanToolCall(ctx context.Context, query string) (*models.ToolCall, error) {
	if err := s.acquireRate(ctx); err != nil {
		return nil, err
	}
	defer s.releaseRate()

	prompt := toolCatalog + "\n\nUser question: " + query
	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	raw := extractText(resp)
	if raw == "" {
		return nil, fmt.Errorf("empty planner response")
	}

	plan, err := ParseToolCall(raw)
	if err != nil {
		return nil, fmt.Errorf("parse planner response: %w", err)
	}
	return plan, nil
}

// GenerateAdvice produces freeform financial advice grounded in the provided
// ledger context.
func (s *GeminiService) GenerateAdvice(ctx context.Context, ledgerContext, topic string) (string, error) {
	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	prompt := fmt.Sprintf(`You are a pragmatic personal-finance assistant.
Using the data below, give short actionable advice in markdown (bold, headings, dashes for lists).

%s

Topic: %s`, ledgerContext, topic)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		return "", fmt.Errorf("empty advice response")
	}
	return text, nil
}

// ParseToolCall decodes a planner reply, tolerating markdown code fences and
// surrounding prose.
func ParseToolCall(raw string) (*models.ToolCall, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	// Fall back to the outermost object if the model wrapped it in prose
	if !strings.HasPrefix(cleaned, "{") {
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("no JSON object in %q", raw)
		}
		cleaned = cleaned[start : end+1]
	}

	var plan models.ToolCall
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return nil, err
	}
	if plan.Arguments == nil {
		plan.Arguments = map[string]any{}
	}
	return &plan, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}
