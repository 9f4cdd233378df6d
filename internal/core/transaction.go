package core

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// DefaultCategory labels transactions that carry no category of their own.
const DefaultCategory = "Other"

type (
	// Identity is the verified caller of a request.
	Identity struct {
		Email string `json:"email"`
		Name  string `json:"name,omitempty"`
	}

	// Transaction is a single income or expense record owned by one identity.
	// Owner fields, ID, and CreatedAt are stamped once and never change.
	Transaction struct {
		ID          string    `json:"id"`
		Type        string    `json:"type"`
		Amount      Amount    `json:"amount"`
		Description string    `json:"description,omitempty"`
		Category    string    `json:"category,omitempty"`
		Date        string    `json:"date,omitempty"`
		OwnerEmail  string    `json:"owner_email"`
		OwnerName   string    `json:"owner_name,omitempty"`
		CreatedAt   time.Time `json:"created_at"`
	}
)

// Amount is a monetary quantity tolerant of sloppy input. JSON numbers,
// numeric strings, and garbage all decode without error; anything that does
// not parse as a finite number becomes zero.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*a = 0
		return nil
	}
	*a = CoerceAmount(v)
	return nil
}

// CoerceAmount converts an arbitrary decoded JSON value to an Amount.
// It never fails: missing, boolean, and non-numeric values coerce to zero.
func CoerceAmount(v any) Amount {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0
		}
		return Amount(val)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return Amount(f)
	case int:
		return Amount(val)
	case int64:
		return Amount(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0
		}
		return Amount(f)
	default:
		return 0
	}
}

// dateLayouts are the accepted ingestion formats, normalized to zero-padded
// ISO so that lexicographic comparison stays equivalent to chronological.
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006/01/02",
	"2006/1/2",
}

// NormalizeDate rewrites a calendar date string to YYYY-MM-DD form.
// The second return is false for empty or unparseable input.
func NormalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
