package ratios

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/core/dart"
)

func wantRatio(t *testing.T, name string, got *decimal.Decimal, want string) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s = nil, want %s", name, want)
	}
	if got.StringFixed(2) != want {
		t.Errorf("%s = %s, want %s", name, got.StringFixed(2), want)
	}
}

func wantNil(t *testing.T, name string, got *decimal.Decimal) {
	t.Helper()
	if got != nil {
		t.Errorf("%s = %s, want nil", name, got.StringFixed(2))
	}
}

func TestComputeAllFourRatios(t *testing.T) {
	items := []dart.LineItem{
		{AccountID: "ifrs-full_Revenue", AccountName: "매출액", CurrentAmount: "1,000"},
		{AccountID: "ifrs-full_OperatingProfitLoss", AccountName: "영업이익", CurrentAmount: "150"},
		{AccountID: "ifrs-full_Liabilities", AccountName: "부채총계", CurrentAmount: "400"},
		{AccountID: "ifrs-full_Equity", AccountName: "자본총계", CurrentAmount: "600"},
		{AccountID: "ifrs-full_ProfitLoss", AccountName: "당기순이익", CurrentAmount: "90"},
	}

	res := NewEngine(DefaultKeys(), Options{}).Compute(items, "005930")

	wantRatio(t, "OperatingMargin", res.OperatingMargin, "15.00")
	wantRatio(t, "ROE", res.ROE, "15.00")
	wantRatio(t, "DebtRatio", res.DebtRatio, "40.00")
	// No parent-specific equity tag, so the controlling ratio falls back
	// to total equity: 400/600.
	wantRatio(t, "ControllingDebtRatio", res.ControllingDebtRatio, "66.67")
}

func TestComputeParentEquityWhenTagged(t *testing.T) {
	items := []dart.LineItem{
		{AccountID: "ifrs-full_Liabilities", CurrentAmount: "400"},
		{AccountID: "ifrs-full_Equity", AccountName: "자본총계", CurrentAmount: "600"},
		{AccountID: "ifrs-full_EquityAttributableToOwnersOfParent", AccountName: "지배기업 소유주지분", CurrentAmount: "500"},
	}

	res := NewEngine(DefaultKeys(), Options{}).Compute(items, "000660")

	wantRatio(t, "ControllingDebtRatio", res.ControllingDebtRatio, "80.00")
}

func TestComputeSumsLiabilityComponents(t *testing.T) {
	// No total-liabilities tag filed; the current and noncurrent parts
	// must add up instead of the first one winning.
	items := []dart.LineItem{
		{AccountID: "ifrs-full_CurrentLiabilities", AccountName: "유동부채", CurrentAmount: "150"},
		{AccountID: "ifrs-full_NoncurrentLiabilities", AccountName: "비유동부채", CurrentAmount: "250"},
		{AccountID: "ifrs-full_Equity", AccountName: "자본총계", CurrentAmount: "600"},
	}

	res := NewEngine(DefaultKeys(), Options{}).Compute(items, "035420")

	wantRatio(t, "DebtRatio", res.DebtRatio, "40.00")
}

func TestComputeSubstringNameFallback(t *testing.T) {
	// No taxonomy ids at all; "기타부채" matches the "부채" substring rule.
	items := []dart.LineItem{
		{AccountName: "기타부채", CurrentAmount: "400"},
		{AccountName: "자본총계", CurrentAmount: "600"},
	}

	res := NewEngine(DefaultKeys(), Options{}).Compute(items, "068270")

	wantRatio(t, "DebtRatio", res.DebtRatio, "40.00")
}

func TestComputeZeroRevenueYieldsNilMargin(t *testing.T) {
	items := []dart.LineItem{
		{AccountID: "ifrs-full_Revenue", CurrentAmount: "0"},
		{AccountID: "ifrs-full_OperatingProfitLoss", CurrentAmount: "150"},
	}

	res := NewEngine(DefaultKeys(), Options{}).Compute(items, "005380")

	wantNil(t, "OperatingMargin", res.OperatingMargin)
}

func TestComputeMissingQuantitiesDegradeToNil(t *testing.T) {
	items := []dart.LineItem{
		{AccountID: "ifrs-full_Revenue", CurrentAmount: "1000"},
	}

	res := NewEngine(DefaultKeys(), Options{}).Compute(items, "051910")

	wantNil(t, "OperatingMargin", res.OperatingMargin)
	wantNil(t, "ROE", res.ROE)
	wantNil(t, "DebtRatio", res.DebtRatio)
	wantNil(t, "ControllingDebtRatio", res.ControllingDebtRatio)
}

func TestComputeCountZeroOption(t *testing.T) {
	items := []dart.LineItem{
		{AccountID: "ifrs-full_Revenue", CurrentAmount: "1000"},
		{AccountID: "ifrs-full_OperatingProfitLoss", CurrentAmount: "0"},
	}

	// Default: a zero sum is treated as unresolved.
	res := NewEngine(DefaultKeys(), Options{}).Compute(items, "005930")
	wantNil(t, "OperatingMargin", res.OperatingMargin)

	// CountZero: a literal zero is a valid measurement.
	res = NewEngine(DefaultKeys(), Options{CountZero: true}).Compute(items, "005930")
	wantRatio(t, "OperatingMargin", res.OperatingMargin, "0.00")
}

func TestComputeNegativeRatios(t *testing.T) {
	items := []dart.LineItem{
		{AccountID: "ifrs-full_Revenue", CurrentAmount: "1000"},
		{AccountID: "ifrs-full_OperatingProfitLoss", CurrentAmount: "-250"},
	}

	res := NewEngine(DefaultKeys(), Options{}).Compute(items, "005930")

	wantRatio(t, "OperatingMargin", res.OperatingMargin, "-25.00")
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1,234,567", "1234567", true},
		{" 42 ", "42", true},
		{"-1,000", "-1000", true},
		{"", "", false},
		{"-", "", false},
		{"n/a", "", false},
	}
	for _, tc := range cases {
		got, ok := parseAmount(tc.in)
		if ok != tc.ok {
			t.Errorf("parseAmount(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if ok && got.String() != tc.want {
			t.Errorf("parseAmount(%q) = %s, want %s", tc.in, got.String(), tc.want)
		}
	}
}

func TestDefaultKeysEmbedded(t *testing.T) {
	keys := DefaultKeys()
	if len(keys.Revenue.IDs) == 0 {
		t.Error("embedded keys carry no revenue ids")
	}
	if len(keys.Liabilities.IDs) == 0 {
		t.Error("embedded keys carry no liability ids")
	}
	if len(keys.ParentEquity.IDs) == 0 {
		t.Error("embedded keys carry no parent-equity ids")
	}
}
