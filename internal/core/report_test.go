package core

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestBuildReportEmptyInput(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	report := BuildReport(nil, now)

	if report.Summary.TotalIncome != 0 || report.Summary.TotalExpenses != 0 || report.Summary.NetBalance != 0 {
		t.Errorf("summary = %+v, want all zero", report.Summary)
	}
	if len(report.MonthlyData) != 6 {
		t.Fatalf("monthly buckets = %d, want 6", len(report.MonthlyData))
	}
	wantMonths := []string{"2023-10", "2023-11", "2023-12", "2024-01", "2024-02", "2024-03"}
	for i, bucket := range report.MonthlyData {
		if bucket.Month != wantMonths[i] {
			t.Errorf("bucket[%d].Month = %q, want %q", i, bucket.Month, wantMonths[i])
		}
		if bucket.Income != 0 || bucket.Expenses != 0 {
			t.Errorf("bucket[%d] has non-zero sums: %+v", i, bucket)
		}
	}
	if len(report.CategoryData) != 0 {
		t.Errorf("category entries = %d, want 0", len(report.CategoryData))
	}
}

func TestBuildReportScenario(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{Type: TypeIncome, Amount: 1000, Category: "Salary", Date: "2024-01-01"},
		{Type: TypeExpense, Amount: 300, Category: "Food", Date: "2024-01-01"},
	}
	report := BuildReport(txs, now)

	if report.Summary.TotalIncome != 1000 {
		t.Errorf("totalIncome = %v, want 1000", report.Summary.TotalIncome)
	}
	if report.Summary.TotalExpenses != 300 {
		t.Errorf("totalExpenses = %v, want 300", report.Summary.TotalExpenses)
	}
	if report.Summary.NetBalance != 700 {
		t.Errorf("netBalance = %v, want 700", report.Summary.NetBalance)
	}

	current := report.MonthlyData[5]
	if current.Month != "2024-01" {
		t.Fatalf("current bucket = %q, want 2024-01", current.Month)
	}
	if current.MonthLabel != "Jan 2024" {
		t.Errorf("monthLabel = %q, want Jan 2024", current.MonthLabel)
	}
	if current.Income != 1000 || current.Expenses != 300 {
		t.Errorf("current bucket sums = %+v", current)
	}

	wantCategories := []CategoryEntry{
		{Name: "Salary (income)", Value: 1000},
		{Name: "Food (expense)", Value: 300},
	}
	if len(report.CategoryData) != len(wantCategories) {
		t.Fatalf("category entries = %d, want %d", len(report.CategoryData), len(wantCategories))
	}
	for i, want := range wantCategories {
		if report.CategoryData[i] != want {
			t.Errorf("category[%d] = %+v, want %+v", i, report.CategoryData[i], want)
		}
	}
}

func TestBuildReportMonthBoundariesInclusive(t *testing.T) {
	now := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{Type: TypeIncome, Amount: 10, Date: "2024-02-01"},
		{Type: TypeIncome, Amount: 20, Date: "2024-02-29"},
		{Type: TypeIncome, Amount: 40, Date: "2024-03-01"},
		{Type: TypeExpense, Amount: 5, Date: ""},
	}
	report := BuildReport(txs, now)

	current := report.MonthlyData[5]
	if current.Month != "2024-02" {
		t.Fatalf("current bucket = %q, want 2024-02", current.Month)
	}
	if current.Income != 30 {
		t.Errorf("february income = %v, want 30 (both boundary days included)", current.Income)
	}
	for _, bucket := range report.MonthlyData {
		if bucket.Expenses != 0 {
			t.Errorf("dateless transaction leaked into bucket %q", bucket.Month)
		}
	}
	// The out-of-window transaction still counts toward the totals.
	if report.Summary.TotalIncome != 70 {
		t.Errorf("totalIncome = %v, want 70", report.Summary.TotalIncome)
	}
}

func TestBuildReportUnknownTypeSkipsTotals(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{Type: "transfer", Amount: 500, Category: "Savings", Date: "2024-06-01"},
	}
	report := BuildReport(txs, now)

	if report.Summary.TotalIncome != 0 || report.Summary.TotalExpenses != 0 {
		t.Errorf("unknown type reached totals: %+v", report.Summary)
	}
	if report.MonthlyData[5].Income != 0 || report.MonthlyData[5].Expenses != 0 {
		t.Errorf("unknown type reached month bucket: %+v", report.MonthlyData[5])
	}
	if len(report.CategoryData) != 1 || report.CategoryData[0].Name != "Savings (transfer)" {
		t.Errorf("categoryData = %+v, want single Savings (transfer) entry", report.CategoryData)
	}
}

func TestBuildReportCategoryDefaults(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{Type: TypeExpense, Amount: 10},
		{Type: "", Amount: 5, Category: "Misc"},
	}
	report := BuildReport(txs, now)

	want := []string{"Other (expense)", "Misc (expense)"}
	if len(report.CategoryData) != len(want) {
		t.Fatalf("category entries = %d, want %d", len(report.CategoryData), len(want))
	}
	for i, name := range want {
		if report.CategoryData[i].Name != name {
			t.Errorf("category[%d].Name = %q, want %q", i, report.CategoryData[i].Name, name)
		}
	}
}

func TestBuildReportSummaryRounding(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{Type: TypeIncome, Amount: 0.1},
		{Type: TypeIncome, Amount: 0.2},
		{Type: TypeExpense, Amount: 0.1},
	}
	report := BuildReport(txs, now)

	if report.Summary.TotalIncome != 0.3 {
		t.Errorf("totalIncome = %v, want 0.3", report.Summary.TotalIncome)
	}
	if report.Summary.NetBalance != 0.2 {
		t.Errorf("netBalance = %v, want 0.2", report.Summary.NetBalance)
	}
}

func TestBuildReportIdempotent(t *testing.T) {
	now := time.Date(2024, time.April, 20, 8, 30, 0, 0, time.UTC)
	txs := []Transaction{
		{Type: TypeIncome, Amount: 1234.56, Category: "Salary", Date: "2024-04-01"},
		{Type: TypeExpense, Amount: 78.9, Category: "Food", Date: "2024-04-15"},
		{Type: TypeExpense, Amount: 12.34, Date: "2024-03-31"},
	}

	first, err := json.Marshal(BuildReport(txs, now))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(BuildReport(txs, now))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("reports differ between runs:\n%s\n%s", first, second)
	}
}

func TestShiftMonth(t *testing.T) {
	tests := []struct {
		year, month, delta  int
		wantYear, wantMonth int
	}{
		{2024, 3, 0, 2024, 3},
		{2024, 3, -2, 2024, 1},
		{2024, 3, -3, 2023, 12},
		{2024, 1, -5, 2023, 8},
		{2023, 12, -5, 2023, 7},
	}
	for _, tt := range tests {
		y, m := shiftMonth(tt.year, tt.month, tt.delta)
		if y != tt.wantYear || m != tt.wantMonth {
			t.Errorf("shiftMonth(%d, %d, %d) = (%d, %d), want (%d, %d)",
				tt.year, tt.month, tt.delta, y, m, tt.wantYear, tt.wantMonth)
		}
	}
}
