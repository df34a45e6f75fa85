// Package summary serves the read-only dashboard API over the ingested
// tables: company search, ratio summaries, and raw line items.
package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/core/dart"
)

// Handler exposes the dashboard endpoints.
type Handler struct {
	pool *pgxpool.Pool
}

// NewHandler creates a handler over an existing pool.
func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{pool: pool}
}

// Register mounts all endpoints on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/companies", h.HandleCompanies)
	mux.HandleFunc("/api/summary", h.HandleSummary)
	mux.HandleFunc("/api/raw", h.HandleRaw)
	mux.HandleFunc("/healthz", h.HandleHealth)
}

// CompanyEntry is one searchable dashboard company.
type CompanyEntry struct {
	StockCode string `json:"stock_code"`
	CorpName  string `json:"corp_name"`
}

// SummaryRow mirrors one summary_financials row.
type SummaryRow struct {
	CorpName             string   `json:"corp_name"`
	Ticker               string   `json:"ticker"`
	Year                 int      `json:"year"`
	ReportCode           string   `json:"report_code"`
	Variant              string   `json:"fs_div"`
	OperatingMargin      *float64 `json:"operating_margin"`
	ROE                  *float64 `json:"roe"`
	DebtRatio            *float64 `json:"debt_ratio"`
	ControllingDebtRatio *float64 `json:"controlling_debt_ratio"`
}

// HandleCompanies lists companies that have summary data, optionally
// filtered by a substring of the stock code or name (?q=).
func (h *Handler) HandleCompanies(w http.ResponseWriter, r *http.Request) {
	allowCORS(w, r)
	if r.Method == http.MethodOptions {
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	rows, err := h.pool.Query(r.Context(), `
		SELECT DISTINCT c.stock_code, c.corp_name
		  FROM corp_codes c
		  JOIN summary_financials s ON s.ticker = c.stock_code
		 WHERE ($1 = '' OR c.stock_code LIKE '%' || $1 || '%' OR c.corp_name LIKE '%' || $1 || '%')
		 ORDER BY c.stock_code
	`, q)
	if err != nil {
		http.Error(w, fmt.Sprintf("query failed: %v", err), http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	entries := []CompanyEntry{}
	for rows.Next() {
		var e CompanyEntry
		if err := rows.Scan(&e.StockCode, &e.CorpName); err != nil {
			http.Error(w, fmt.Sprintf("scan failed: %v", err), http.StatusInternalServerError)
			return
		}
		entries = append(entries, e)
	}

	writeJSON(w, entries)
}

// HandleSummary returns summary rows for a ticker; ?year=, ?report_code=
// and ?fs_div= narrow the result.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	allowCORS(w, r)
	if r.Method == http.MethodOptions {
		return
	}

	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		http.Error(w, "ticker is required", http.StatusBadRequest)
		return
	}
	year := queryInt(r, "year")
	reportCode := r.URL.Query().Get("report_code")
	variant := r.URL.Query().Get("fs_div")

	rows, err := h.pool.Query(r.Context(), `
		SELECT corp_name, ticker, year, report_code, fs_div,
		       operating_margin, roe, debt_ratio, controlling_debt_ratio
		  FROM summary_financials
		 WHERE ticker = $1
		   AND ($2 = 0  OR year = $2)
		   AND ($3 = '' OR report_code = $3)
		   AND ($4 = '' OR fs_div = $4)
		 ORDER BY year DESC
	`, ticker, year, reportCode, variant)
	if err != nil {
		http.Error(w, fmt.Sprintf("query failed: %v", err), http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	result := []SummaryRow{}
	for rows.Next() {
		var row SummaryRow
		if err := rows.Scan(&row.CorpName, &row.Ticker, &row.Year, &row.ReportCode, &row.Variant,
			&row.OperatingMargin, &row.ROE, &row.DebtRatio, &row.ControllingDebtRatio); err != nil {
			http.Error(w, fmt.Sprintf("scan failed: %v", err), http.StatusInternalServerError)
			return
		}
		result = append(result, row)
	}

	writeJSON(w, result)
}

// HandleRaw returns the raw line items for one (ticker, year) statement.
func (h *Handler) HandleRaw(w http.ResponseWriter, r *http.Request) {
	allowCORS(w, r)
	if r.Method == http.MethodOptions {
		return
	}

	ticker := r.URL.Query().Get("ticker")
	year := queryInt(r, "year")
	if ticker == "" || year == 0 {
		http.Error(w, "ticker and year are required", http.StatusBadRequest)
		return
	}

	rows, err := h.pool.Query(r.Context(), `
		SELECT account_id, account_nm, thstrm_amount, frmtrm_amount, bfefrm_amount
		  FROM raw_financials
		 WHERE ticker = $1 AND year = $2
		 ORDER BY account_id
	`, ticker, year)
	if err != nil {
		http.Error(w, fmt.Sprintf("query failed: %v", err), http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	items := []dart.LineItem{}
	for rows.Next() {
		var it dart.LineItem
		var cur, prior, priorPrior *string
		if err := rows.Scan(&it.AccountID, &it.AccountName, &cur, &prior, &priorPrior); err != nil {
			http.Error(w, fmt.Sprintf("scan failed: %v", err), http.StatusInternalServerError)
			return
		}
		it.CurrentAmount = deref(cur)
		it.PriorAmount = deref(prior)
		it.PriorPriorAmount = deref(priorPrior)
		items = append(items, it)
	}

	writeJSON(w, items)
}

// HandleHealth reports database reachability.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.pool.Ping(ctx); err != nil {
		http.Error(w, fmt.Sprintf("db unreachable: %v", err), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

func allowCORS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
