package core

import (
	"fmt"
	"math"
	"time"
)

type (
	// Summary holds the all-time totals for one owner.
	Summary struct {
		TotalIncome   float64 `json:"totalIncome"`
		TotalExpenses float64 `json:"totalExpenses"`
		NetBalance    float64 `json:"netBalance"`
	}

	// MonthBucket is one calendar month of the trailing trend window.
	MonthBucket struct {
		Month      string  `json:"month"`
		MonthLabel string  `json:"monthLabel"`
		Income     float64 `json:"income"`
		Expenses   float64 `json:"expenses"`
	}

	// CategoryEntry is one slice of the category breakdown, keyed by
	// "<category> (<type>)".
	CategoryEntry struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
	}

	// Report is the full aggregation output for one owner's transactions.
	Report struct {
		Summary      Summary         `json:"summary"`
		MonthlyData  []MonthBucket   `json:"monthlyData"`
		CategoryData []CategoryEntry `json:"categoryData"`
	}
)

// monthWindow is the number of trailing calendar months in the trend,
// including the current month.
const monthWindow = 6

// BuildReport aggregates a single owner's transactions into summary totals,
// a trailing six-month trend, and a per-category breakdown. It is a pure
// function of its inputs: the same transactions and reference time always
// produce the same report.
//
// Amounts accumulate as raw float64 and are rounded to two decimals only at
// the summary and category outputs; monthly buckets carry the raw sums.
// Transactions whose type is neither income nor expense contribute nothing
// to the totals or buckets, but still appear in the category breakdown.
func BuildReport(txs []Transaction, now time.Time) Report {
	var totalIncome, totalExpenses float64
	for _, t := range txs {
		switch t.Type {
		case TypeIncome:
			totalIncome += float64(t.Amount)
		case TypeExpense:
			totalExpenses += float64(t.Amount)
		}
	}

	monthly := make([]MonthBucket, 0, monthWindow)
	year, month := now.Year(), int(now.Month())
	for i := monthWindow - 1; i >= 0; i-- {
		y, m := shiftMonth(year, month, -i)
		key := fmt.Sprintf("%04d-%02d", y, m)

		// Day zero of the next month is the last day of this one.
		lastDay := time.Date(y, time.Month(m)+1, 0, 0, 0, 0, 0, time.UTC).Day()
		start := key + "-01"
		end := fmt.Sprintf("%s-%02d", key, lastDay)

		var income, expenses float64
		for _, t := range txs {
			if t.Date == "" || t.Date < start || t.Date > end {
				continue
			}
			switch t.Type {
			case TypeIncome:
				income += float64(t.Amount)
			case TypeExpense:
				expenses += float64(t.Amount)
			}
		}

		monthly = append(monthly, MonthBucket{
			Month:      key,
			MonthLabel: time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006"),
			Income:     income,
			Expenses:   expenses,
		})
	}

	// Category keys keep first-seen order so repeated runs over the same
	// input serialize identically.
	var names []string
	sums := make(map[string]float64)
	for _, t := range txs {
		category := t.Category
		if category == "" {
			category = DefaultCategory
		}
		txType := t.Type
		if txType == "" {
			txType = TypeExpense
		}
		key := fmt.Sprintf("%s (%s)", category, txType)
		if _, seen := sums[key]; !seen {
			names = append(names, key)
		}
		sums[key] += float64(t.Amount)
	}
	categories := make([]CategoryEntry, 0, len(names))
	for _, name := range names {
		categories = append(categories, CategoryEntry{Name: name, Value: round2(sums[name])})
	}

	roundedIncome := round2(totalIncome)
	roundedExpenses := round2(totalExpenses)
	return Report{
		Summary: Summary{
			TotalIncome:   roundedIncome,
			TotalExpenses: roundedExpenses,
			NetBalance:    round2(roundedIncome - roundedExpenses),
		},
		MonthlyData:  monthly,
		CategoryData: categories,
	}
}

// shiftMonth moves a (year, month) pair by delta months, month in 1..12.
func shiftMonth(year, month, delta int) (int, int) {
	total := year*12 + (month - 1) + delta
	return total / 12, total%12 + 1
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
