package finbot

import (
	"strconv"
	"time"
)

// Args is a planner-produced argument object. The planner is an LLM, so
// values arrive loosely typed; accessors coerce what they reasonably can.
type Args map[string]any

func (a Args) String(key, def string) string {
	if v, ok := a[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return def
}

func (a Args) Float(key string) (float64, bool) {
	switch v := a[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func (a Args) Int(key string, def int) int {
	if f, ok := a.Float(key); ok {
		return int(f)
	}
	return def
}

// Date parses a YYYY-MM-DD argument, falling back to today.
func (a Args) Date(key string) time.Time {
	if s := a.String(key, ""); s != "" {
		if d, err := time.Parse("2006-01-02", s); err == nil {
			return d
		}
	}
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// periodRange maps a period argument to a date window. "month" (the default)
// is the current calendar month; anything else means the whole ledger.
func periodRange(period string) (time.Time, time.Time) {
	now := time.Now()
	switch period {
	case "", "month", "this month", "current month":
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, -1)
		return from, to
	default:
		from := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return from, to
	}
}

func periodLabel(period string) string {
	switch period {
	case "", "month", "this month", "current month":
		return "this month"
	default:
		return "overall"
	}
}
