// Package ratios derives standardized financial ratios from heterogeneous,
// taxonomy-inconsistent statement line items.
//
// Resolution is heuristic: taxonomy codes first, then exact display names,
// then case-insensitive substring matches. A quantity no rule resolves is
// absent (nil), never zero, and any ratio depending on it degrades to nil
// instead of failing the computation.
package ratios

import (
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/core/dart"
)

var hundred = decimal.NewFromInt(100)

// Options tune resolution behavior.
type Options struct {
	// CountZero treats a literal zero sum as a resolved measurement.
	// Default off: zero sums are skipped at every tier and therefore
	// indistinguishable from "not found", matching the historical
	// behavior of this pipeline.
	CountZero bool
}

// Result holds the four derived ratios as percentages rounded to two
// decimals. A nil field means the required quantities could not be
// resolved from the line items (or a denominator was zero).
type Result struct {
	OperatingMargin      *decimal.Decimal `json:"operating_margin"`
	ROE                  *decimal.Decimal `json:"roe"`
	DebtRatio            *decimal.Decimal `json:"debt_ratio"`
	ControllingDebtRatio *decimal.Decimal `json:"controlling_debt_ratio"`
}

// Engine computes ratios from raw line items.
type Engine struct {
	keys Keys
	opts Options
}

// NewEngine creates an engine with the given alias tables.
func NewEngine(keys Keys, opts Options) *Engine {
	return &Engine{keys: keys, opts: opts}
}

// Compute derives the four ratios for one statement. It never fails on
// data-quality issues; unresolvable quantities produce nil ratios.
func (e *Engine) Compute(items []dart.LineItem, ticker string) Result {
	byID := make(map[string]decimal.Decimal)
	byName := make(map[string]decimal.Decimal)
	for _, it := range items {
		amt, ok := parseAmount(it.CurrentAmount)
		if !ok {
			continue
		}
		if id := strings.TrimSpace(it.AccountID); id != "" {
			byID[id] = byID[id].Add(amt)
		}
		if nm := strings.TrimSpace(it.AccountName); nm != "" {
			byName[nm] = byName[nm].Add(amt)
		}
	}

	revenue, revOK := e.resolve(byID, byName, e.keys.Revenue)
	opIncome, opOK := e.resolve(byID, byName, e.keys.OperatingIncome)
	netIncome, netOK := e.resolve(byID, byName, e.keys.NetIncome)
	liabilities, liabOK := e.resolveSum(byID, byName, e.keys.Liabilities)
	equity, eqOK := e.resolveSum(byID, byName, e.keys.Equity)

	// Parent-attributable equity falls back to total equity when the
	// parent-specific tag is absent or zero.
	parentEquity, parentOK := e.resolve(byID, byName, e.keys.ParentEquity)
	if !parentOK || parentEquity.IsZero() {
		parentEquity, parentOK = equity, eqOK
	}

	var res Result
	if revOK && opOK && !revenue.IsZero() {
		res.OperatingMargin = pct(opIncome, revenue)
	}
	if netOK && eqOK && !equity.IsZero() {
		res.ROE = pct(netIncome, equity)
	}
	if liabOK && eqOK {
		if total := liabilities.Add(equity); !total.IsZero() {
			res.DebtRatio = pct(liabilities, total)
		}
	}
	if liabOK && parentOK && !parentEquity.IsZero() {
		res.ControllingDebtRatio = pct(liabilities, parentEquity)
	}

	log.Printf("[RATIOS] %s → OM:%s ROE:%s DR:%s C-DR:%s",
		ticker, fmtRatio(res.OperatingMargin), fmtRatio(res.ROE),
		fmtRatio(res.DebtRatio), fmtRatio(res.ControllingDebtRatio))
	return res
}

// resolve finds one canonical value: first taxonomy id with a usable sum
// wins, then exact display names, then a case-insensitive substring scan
// over the grouped names (iteration order is map order; the tie-break is
// intentionally loose).
func (e *Engine) resolve(byID, byName map[string]decimal.Decimal, g AliasGroup) (decimal.Decimal, bool) {
	for _, id := range g.IDs {
		if v, ok := byID[id]; ok && e.usable(v) {
			return v, true
		}
	}
	return e.resolveNames(byName, g.Names)
}

// resolveSum adds up every id alias present. The same total is filed under
// different tags (current + noncurrent vs. a generic total) across
// companies and years, so a single lookup would undercount. When no id
// alias resolves, the display-name fallback applies to the whole group.
func (e *Engine) resolveSum(byID, byName map[string]decimal.Decimal, g AliasGroup) (decimal.Decimal, bool) {
	var total decimal.Decimal
	found := false
	for _, id := range g.IDs {
		if v, ok := byID[id]; ok && e.usable(v) {
			total = total.Add(v)
			found = true
		}
	}
	if found {
		return total, true
	}
	return e.resolveNames(byName, g.Names)
}

func (e *Engine) resolveNames(byName map[string]decimal.Decimal, names []string) (decimal.Decimal, bool) {
	for _, nm := range names {
		if v, ok := byName[nm]; ok && e.usable(v) {
			return v, true
		}
	}
	for _, nm := range names {
		lower := strings.ToLower(nm)
		for acct, v := range byName {
			if strings.Contains(strings.ToLower(acct), lower) && e.usable(v) {
				return v, true
			}
		}
	}
	return decimal.Decimal{}, false
}

func (e *Engine) usable(v decimal.Decimal) bool {
	return e.opts.CountZero || !v.IsZero()
}

// pct computes num/den*100 rounded to two decimals. Negative or
// out-of-range percentages pass through unclamped; ratios are
// informational, not validated against plausibility bounds.
func pct(num, den decimal.Decimal) *decimal.Decimal {
	v := num.Div(den).Mul(hundred).Round(2)
	return &v
}

// parseAmount converts a registry amount string to a decimal. The registry
// mixes thousands separators, signs and blanks; unparseable values are
// skipped, mirroring a numeric coercion with NaN dropping.
func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" || s == "-" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func fmtRatio(d *decimal.Decimal) string {
	if d == nil {
		return "null"
	}
	return d.StringFixed(2)
}
