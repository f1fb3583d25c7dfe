package services

import "testing"

func TestParseToolCall(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantTool string
		wantErr  bool
	}{
		{
			"plain json",
			`{"tool_name": "get_balance", "arguments": {}}`,
			"get_balance", false,
		},
		{
			"fenced json",
			"```json\n{\"tool_name\": \"get_summary\", \"arguments\": {\"period\": \"month\"}}\n```",
			"get_summary", false,
		},
		{
			"json with prose around it",
			`Sure! Here is the plan: {"tool_name": "check_budgets", "arguments": {}} Hope that helps.`,
			"check_budgets", false,
		},
		{
			"null arguments normalized",
			`{"tool_name": "get_balance", "arguments": null}`,
			"get_balance", false,
		},
		{"no json at all", "I cannot answer that.", "", true},
		{"broken json", `{"tool_name": `, "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := ParseToolCall(tc.raw)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got %+v", plan)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if plan.ToolName != tc.wantTool {
				t.Errorf("Expected tool %q, got %q", tc.wantTool, plan.ToolName)
			}
			if plan.Arguments == nil {
				t.Error("Arguments should never be nil after parsing")
			}
		})
	}
}

func TestParseToolCallArguments(t *testing.T) {
	plan, err := ParseToolCall(`{"tool_name": "add_budget", "arguments": {"category": "Dining", "limit": 150}}`)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Arguments["category"] != "Dining" {
		t.Errorf("Expected category Dining, got %v", plan.Arguments["category"])
	}
	if limit, ok := plan.Arguments["limit"].(float64); !ok || limit != 150 {
		t.Errorf("Expected numeric limit 150, got %v", plan.Arguments["limit"])
	}
}
