package krx

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const rosterHTML = `<html><body><table>
<tr><th>회사명</th><th>업종</th><th>종목코드</th><th>상장일</th></tr>
<tr><td>삼성전자</td><td>통신 및 방송 장비 제조업</td><td>5930</td><td>1975-06-11</td></tr>
<tr><td>SK하이닉스</td><td>반도체 제조업</td><td>000660</td><td>1996-12-26</td></tr>
<tr><td></td><td></td><td></td><td></td></tr>
</table></body></html>`

func TestParseCompanyTable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rosterHTML))
	if err != nil {
		t.Fatal(err)
	}

	companies, err := ParseCompanyTable(doc)
	if err != nil {
		t.Fatalf("ParseCompanyTable: %v", err)
	}
	if len(companies) != 2 {
		t.Fatalf("companies = %d, want 2 (blank row skipped)", len(companies))
	}

	if companies[0].CorpName != "삼성전자" || companies[0].StockCode != "005930" {
		t.Errorf("first row = %+v, want 삼성전자 / 005930", companies[0])
	}
	if companies[1].StockCode != "000660" {
		t.Errorf("second code = %q, want 000660", companies[1].StockCode)
	}
}

func TestParseCompanyTableMissingColumns(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<table><tr><th>이름</th></tr><tr><td>foo</td></tr></table>`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseCompanyTable(doc); err == nil {
		t.Fatal("want error for a table without the expected headers")
	}
}

func TestParseCompanyTableNoTable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<html><body><p>nope</p></body></html>`))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ParseCompanyTable(doc); err == nil {
		t.Fatal("want error for a document without a table")
	}
}
