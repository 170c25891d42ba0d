// Package action defines the sustainability action record and its
// validation rules.
//
// Two validation tiers exist on purpose. Validate is the lenient,
// model-level rule set that every store backend applies before
// persisting anything. ValidateStrict is the request-facing rule set
// the HTTP layer applies first. The store re-validating data the
// handler already checked is a deliberate second line of defense
// against corrupt records reaching disk.
package action

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the only accepted date layout (YYYY-MM-DD).
const DateFormat = "2006-01-02"

// MaxActionLength caps the description field.
const MaxActionLength = 255

// MaxPoints is the request-facing upper bound on points per action.
const MaxPoints = 1000

// Action is one sustainability action record. ID is assigned by the
// store on first save and is immutable afterwards.
type Action struct {
	ID     int    `json:"id"`
	Action string `json:"action"`
	Date   string `json:"date"`
	Points int    `json:"points"`
}

// ValidationError carries the complete list of field-level violations
// found in a record. Every rule is checked independently so callers
// always see all problems at once, not just the first.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// Validate applies the lenient model-level rules. An empty slice means
// the record may be persisted.
func (a Action) Validate() []string {
	var errs []string

	if strings.TrimSpace(a.Action) == "" {
		errs = append(errs, "Action description is required")
	} else if len(a.Action) > MaxActionLength {
		errs = append(errs, fmt.Sprintf("Action description must be %d characters or less", MaxActionLength))
	}

	if a.Date == "" {
		errs = append(errs, "Date is required")
	} else if _, err := time.Parse(DateFormat, a.Date); err != nil {
		errs = append(errs, "Date must be in YYYY-MM-DD format")
	}

	if a.Points < 0 {
		errs = append(errs, "Points cannot be negative")
	}

	return errs
}

// ValidateStrict applies the request-facing rules: everything Validate
// checks plus a minimum description length, a future-date check and an
// upper bound on points. The handler runs this before a record reaches
// the store.
func ValidateStrict(a Action) []string {
	var errs []string

	trimmed := strings.TrimSpace(a.Action)
	if trimmed == "" {
		errs = append(errs, "Action description cannot be empty or only whitespace")
	} else if len(trimmed) < 3 {
		errs = append(errs, "Action description must be at least 3 characters long")
	}
	if len(a.Action) > MaxActionLength {
		errs = append(errs, fmt.Sprintf("Action description must be %d characters or less", MaxActionLength))
	}

	if a.Date == "" {
		errs = append(errs, "Date is required")
	} else if d, err := time.Parse(DateFormat, a.Date); err != nil {
		errs = append(errs, "Date must be in YYYY-MM-DD format")
	} else if d.Format(DateFormat) > time.Now().Format(DateFormat) {
		errs = append(errs, "Action date cannot be in the future")
	}

	if a.Points < 0 {
		errs = append(errs, "Points cannot be negative")
	} else if a.Points > MaxPoints {
		errs = append(errs, fmt.Sprintf("Points cannot exceed %d per action", MaxPoints))
	}

	return errs
}

// Decode builds an Action from a loosely typed JSON payload. Numeric
// fields arriving as strings are coerced; values that cannot be
// coerced become field errors rather than panics. A payload "id" is
// ignored: ids are server-assigned only.
func Decode(data map[string]any) (Action, []string) {
	var a Action
	var errs []string

	if v, ok := data["action"]; ok {
		s, ok := v.(string)
		if !ok {
			errs = append(errs, "Action description must be a string")
		} else {
			a.Action = s
		}
	}

	if v, ok := data["date"]; ok {
		s, ok := v.(string)
		if !ok {
			errs = append(errs, "Date must be a string in YYYY-MM-DD format")
		} else {
			a.Date = s
		}
	}

	if v, ok := data["points"]; ok {
		p, err := coerceInt(v)
		if err != nil {
			errs = append(errs, "Points must be a valid integer")
		} else {
			a.Points = p
		}
	}

	return a, errs
}

func coerceInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		return int(i), err
	case float64:
		if n != float64(int64(n)) {
			return 0, fmt.Errorf("not an integer: %v", n)
		}
		return int(n), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	default:
		return 0, fmt.Errorf("not an integer: %v", v)
	}
}
