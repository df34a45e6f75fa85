package dart

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// corpCodeDoc is the XML document inside the corpCode.xml ZIP bundle.
type corpCodeDoc struct {
	XMLName xml.Name       `xml:"result"`
	List    []corpCodeItem `xml:"list"`
}

type corpCodeItem struct {
	CorpCode  string `xml:"corp_code"`
	CorpName  string `xml:"corp_name"`
	StockCode string `xml:"stock_code"`
}

// DownloadCorpCodes fetches the full company registry. The registry ships
// it as a ZIP archive wrapping a single XML document; the download counts
// against the daily budget like every other call.
func (c *Client) DownloadCorpCodes(ctx context.Context) ([]Company, error) {
	body, err := c.Fetch(ctx, c.corpCodeURL, url.Values{})
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, &MalformedResponse{Endpoint: CorpCodeEndpoint, Err: err}
	}
	if len(zr.File) == 0 {
		return nil, &MalformedResponse{Endpoint: CorpCodeEndpoint, Err: fmt.Errorf("empty archive")}
	}

	f, err := zr.File[0].Open()
	if err != nil {
		return nil, &MalformedResponse{Endpoint: CorpCodeEndpoint, Err: err}
	}
	defer f.Close()

	xmlBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, &MalformedResponse{Endpoint: CorpCodeEndpoint, Err: err}
	}

	return ParseCorpCodes(xmlBytes)
}

// ParseCorpCodes decodes the registry XML into Company records. Stock
// codes are zero-padded to six digits; unlisted entries keep their blank
// code and are filtered later by the store layer.
func ParseCorpCodes(xmlBytes []byte) ([]Company, error) {
	var doc corpCodeDoc
	if err := xml.Unmarshal(xmlBytes, &doc); err != nil {
		return nil, &MalformedResponse{Endpoint: CorpCodeEndpoint, Err: err}
	}

	companies := make([]Company, 0, len(doc.List))
	for _, it := range doc.List {
		stock := strings.TrimSpace(it.StockCode)
		if stock != "" {
			stock = fmt.Sprintf("%06s", stock)
		}
		companies = append(companies, Company{
			CorpCode:  strings.TrimSpace(it.CorpCode),
			StockCode: stock,
			CorpName:  strings.TrimSpace(it.CorpName),
		})
	}
	return companies, nil
}
