// Package krx scrapes the KRX listed-company roster. It is a bootstrap
// collaborator: its output seeds the corp_codes registry but the core
// pipeline only ever sees companies through the store.
package krx

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/RohHeeMan/stock-analysis-dashboard-neon/pkg/core/dart"
)

// DownloadURL serves the full corporate list as an HTML table.
const DownloadURL = "https://kind.krx.co.kr/corpgeneral/corpList.do?method=download&searchType=13"

// Client fetches the listed-company table.
type Client struct {
	httpClient *http.Client
	url        string
}

// NewClient creates a KRX client with a bounded request timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		url:        DownloadURL,
	}
}

// FetchListedCompanies downloads and parses the roster. Returned entries
// carry corp name and 6-digit stock code; the DART corp code is filled in
// by the registry bootstrap, not here.
func (c *Client) FetchListedCompanies(ctx context.Context) ([]dart.Company, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("KRX request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("KRX returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse KRX table: %w", err)
	}

	return ParseCompanyTable(doc)
}

// ParseCompanyTable extracts (corp name, stock code) pairs from the first
// table in the document. Column positions are located by header text.
func ParseCompanyTable(doc *goquery.Document) ([]dart.Company, error) {
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("no table found in KRX response")
	}

	nameCol, codeCol := -1, -1
	table.Find("tr").First().Find("th, td").Each(func(i int, s *goquery.Selection) {
		switch strings.TrimSpace(s.Text()) {
		case "회사명":
			nameCol = i
		case "종목코드":
			codeCol = i
		}
	})
	if nameCol < 0 || codeCol < 0 {
		return nil, fmt.Errorf("KRX table is missing expected columns")
	}

	var companies []dart.Company
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		cells := row.Find("td")
		if cells.Length() <= nameCol || cells.Length() <= codeCol {
			return
		}
		name := strings.TrimSpace(cells.Eq(nameCol).Text())
		code := strings.TrimSpace(cells.Eq(codeCol).Text())
		if name == "" || code == "" {
			return
		}
		companies = append(companies, dart.Company{
			CorpName:  name,
			StockCode: fmt.Sprintf("%06s", code),
		})
	})
	return companies, nil
}
