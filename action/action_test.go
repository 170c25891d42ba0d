package action_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stevemurr/sustainability-tracker/action"
)

func containsMention(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		a       action.Action
		mention string // "" means expect valid
	}{
		{"valid", action.Action{Action: "Recycle", Date: "2025-01-08", Points: 5}, ""},
		{"valid zero points", action.Action{Action: "Recycle", Date: "2025-01-08", Points: 0}, ""},
		{"empty action", action.Action{Action: "", Date: "2025-01-08", Points: 5}, "Action"},
		{"whitespace action", action.Action{Action: "   ", Date: "2025-01-08", Points: 5}, "Action"},
		{"overlong action", action.Action{Action: strings.Repeat("x", 256), Date: "2025-01-08", Points: 5}, "255"},
		{"missing date", action.Action{Action: "Recycle", Date: "", Points: 5}, "Date"},
		{"bad date", action.Action{Action: "Recycle", Date: "not-a-date", Points: 5}, "Date"},
		{"impossible date", action.Action{Action: "Recycle", Date: "2025-02-30", Points: 5}, "Date"},
		{"negative points", action.Action{Action: "Recycle", Date: "2025-01-08", Points: -1}, "Points"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.a.Validate()
			if tc.mention == "" {
				if len(errs) != 0 {
					t.Fatalf("expected valid, got %v", errs)
				}
				return
			}
			if !containsMention(errs, tc.mention) {
				t.Fatalf("expected an error mentioning %q, got %v", tc.mention, errs)
			}
		})
	}
}

func TestValidateReportsAllViolations(t *testing.T) {
	a := action.Action{Action: "", Date: "invalid-date", Points: -5}
	errs := a.Validate()
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
}

func TestValidateStrict(t *testing.T) {
	future := time.Now().AddDate(0, 0, 1).Format(action.DateFormat)
	today := time.Now().Format(action.DateFormat)

	tests := []struct {
		name    string
		a       action.Action
		mention string
	}{
		{"valid", action.Action{Action: "Recycling bottles", Date: "2025-01-08", Points: 25}, ""},
		{"today is allowed", action.Action{Action: "Recycling bottles", Date: today, Points: 25}, ""},
		{"max points allowed", action.Action{Action: "Recycling bottles", Date: "2025-01-08", Points: 1000}, ""},
		{"too short", action.Action{Action: "Go", Date: "2025-01-08", Points: 5}, "at least 3 characters"},
		{"short after trim", action.Action{Action: "  a  ", Date: "2025-01-08", Points: 5}, "at least 3 characters"},
		{"future date", action.Action{Action: "Recycling bottles", Date: future, Points: 5}, "future"},
		{"too many points", action.Action{Action: "Recycling bottles", Date: "2025-01-08", Points: 1001}, "1000"},
		{"negative points", action.Action{Action: "Recycling bottles", Date: "2025-01-08", Points: -1}, "negative"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := action.ValidateStrict(tc.a)
			if tc.mention == "" {
				if len(errs) != 0 {
					t.Fatalf("expected valid, got %v", errs)
				}
				return
			}
			if !containsMention(errs, tc.mention) {
				t.Fatalf("expected an error mentioning %q, got %v", tc.mention, errs)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("plain fields", func(t *testing.T) {
		a, errs := action.Decode(map[string]any{
			"action": "Recycle",
			"date":   "2025-01-08",
			"points": json.Number("25"),
		})
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if a.Action != "Recycle" || a.Date != "2025-01-08" || a.Points != 25 {
			t.Fatalf("unexpected action: %+v", a)
		}
	})

	t.Run("points as string is coerced", func(t *testing.T) {
		a, errs := action.Decode(map[string]any{"points": "30"})
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if a.Points != 30 {
			t.Fatalf("expected points=30, got %d", a.Points)
		}
	})

	t.Run("points as whole float is coerced", func(t *testing.T) {
		a, errs := action.Decode(map[string]any{"points": float64(30)})
		if len(errs) != 0 {
			t.Fatalf("unexpected errors: %v", errs)
		}
		if a.Points != 30 {
			t.Fatalf("expected points=30, got %d", a.Points)
		}
	})

	t.Run("non-integer points fail", func(t *testing.T) {
		for _, bad := range []any{"abc", float64(2.5), true, []any{1}} {
			_, errs := action.Decode(map[string]any{"points": bad})
			if !containsMention(errs, "Points") {
				t.Fatalf("expected a points error for %v, got %v", bad, errs)
			}
		}
	})

	t.Run("non-string action fails", func(t *testing.T) {
		_, errs := action.Decode(map[string]any{"action": float64(7)})
		if !containsMention(errs, "Action") {
			t.Fatalf("expected an action error, got %v", errs)
		}
	})

	t.Run("payload id is ignored", func(t *testing.T) {
		a, _ := action.Decode(map[string]any{"id": json.Number("99"), "action": "Recycle"})
		if a.ID != 0 {
			t.Fatalf("expected id untouched, got %d", a.ID)
		}
	})
}
