package dart

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/core/metrics"
	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/core/quota"
)

// Client is the rate-limited registry fetcher. Every outbound call first
// reserves a slot from the daily budget tracker; on any transport failure
// the slot is released again, so the net budget cost is exactly one per
// successful call and zero per failed one.
type Client struct {
	apiKey     string
	tracker    quota.Tracker
	loc        *time.Location
	httpClient *http.Client

	statementURL string
	listURL      string
	corpCodeURL  string
}

// NewClient creates a registry client. timeout bounds a single call; the
// caller owns any overall-run deadline.
func NewClient(apiKey string, tracker quota.Tracker, loc *time.Location, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		tracker: tracker,
		loc:     loc,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		statementURL: StatementEndpoint,
		listURL:      ListEndpoint,
		corpCodeURL:  CorpCodeEndpoint,
	}
}

// Fetch performs one budget-governed GET against a registry endpoint and
// returns the raw body. The API key is appended to params automatically.
//
// Returns quota.ErrQuotaExceeded (wrapped) without touching the network
// once the day's budget is exhausted, or *TransportError after releasing
// the reserved slot.
func (c *Client) Fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	day := quota.Today(c.loc)
	if err := c.tracker.Reserve(ctx, day); err != nil {
		metrics.QuotaRejections.Inc()
		return nil, err
	}

	q := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("crtfc_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		c.releaseSlot(ctx, day)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.releaseSlot(ctx, day)
		metrics.RegistryCalls.WithLabelValues("transport_error").Inc()
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.releaseSlot(ctx, day)
		metrics.RegistryCalls.WithLabelValues("http_error").Inc()
		return nil, &TransportError{Endpoint: endpoint, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.releaseSlot(ctx, day)
		metrics.RegistryCalls.WithLabelValues("transport_error").Inc()
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	metrics.RegistryCalls.WithLabelValues("ok").Inc()
	return body, nil
}

// FetchStatement retrieves the full single-company financial statement for
// one (corp code, fiscal year, variant).
//
// A nil, nil return means the registry has no data for the combination
// (status "013", or "000" with an empty list) — a valid terminal outcome,
// not an error.
func (c *Client) FetchStatement(ctx context.Context, corpCode string, year int, reportCode, variant string) ([]LineItem, error) {
	params := url.Values{}
	params.Set("corp_code", corpCode)
	params.Set("bsns_year", fmt.Sprintf("%d", year))
	params.Set("reprt_code", reportCode)
	params.Set("fs_div", variant)

	body, err := c.Fetch(ctx, c.statementURL, params)
	if err != nil {
		return nil, err
	}

	var resp statementResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		// The call went through but the payload is unusable; give the
		// slot back so a later run can retry at no extra cost.
		c.releaseSlot(ctx, quota.Today(c.loc))
		metrics.RegistryCalls.WithLabelValues("malformed").Inc()
		return nil, &MalformedResponse{Endpoint: c.statementURL, Err: err}
	}

	switch {
	case resp.Status == StatusOK && len(resp.List) > 0:
		return resp.List, nil
	case resp.Status == StatusNoData || len(resp.List) == 0:
		return nil, nil
	default:
		return nil, &RegistryError{Status: resp.Status, Message: resp.Message}
	}
}

// ListReports pages through list.json and returns all disclosure metadata
// filed by a company within a calendar year.
func (c *Client) ListReports(ctx context.Context, corpCode string, year int) ([]ReportMeta, error) {
	var metas []ReportMeta
	for page := 1; ; page++ {
		params := url.Values{}
		params.Set("corp_code", corpCode)
		params.Set("bgn_de", fmt.Sprintf("%d0101", year))
		params.Set("end_de", fmt.Sprintf("%d1231", year))
		params.Set("corp_cls", "Y")
		params.Set("page_no", fmt.Sprintf("%d", page))
		params.Set("page_count", "100")
		params.Set("sort", "date")
		params.Set("sort_mthd", "D")

		body, err := c.Fetch(ctx, c.listURL, params)
		if err != nil {
			return nil, err
		}

		var resp listResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			c.releaseSlot(ctx, quota.Today(c.loc))
			return nil, &MalformedResponse{Endpoint: c.listURL, Err: err}
		}
		if resp.Status != StatusOK && resp.Status != StatusNoData {
			return nil, &RegistryError{Status: resp.Status, Message: resp.Message}
		}
		if len(resp.List) == 0 {
			break
		}
		metas = append(metas, resp.List...)
		if page >= resp.TotalPage {
			break
		}
	}
	return metas, nil
}

// releaseSlot rolls back a reservation. A failed rollback only logs: the
// counter then over-counts by one, which errs on the safe side of the
// external quota.
func (c *Client) releaseSlot(ctx context.Context, day string) {
	if err := c.tracker.Release(ctx, day); err != nil {
		log.Printf("[QUOTA] release failed for %s: %v", day, err)
	}
}
