// Package dart integrates the DART OpenAPI (opendart.fss.or.kr), the
// Korean corporate filing registry.
// API documentation: https://opendart.fss.or.kr/guide/main.do
package dart

// Registry endpoints.
const (
	StatementEndpoint = "https://opendart.fss.or.kr/api/fnlttSinglAcntAll.json"
	ListEndpoint      = "https://opendart.fss.or.kr/api/list.json"
	CorpCodeEndpoint  = "https://opendart.fss.or.kr/api/corpCode.xml"
)

// Registry status codes. "013" is a definitive "no data for this
// combination", a valid terminal outcome rather than an error.
const (
	StatusOK     = "000"
	StatusNoData = "013"
)

// Statement variants, in fixed fetch priority order: consolidated first.
const (
	VariantConsolidated = "CFS"
	VariantStandalone   = "OFS"
)

// AnnualReportCode is the reprt_code for the annual business report.
const AnnualReportCode = "11011"

// VariantNames maps variant codes to their Korean display names.
var VariantNames = map[string]string{
	VariantConsolidated: "연결재무제표",
	VariantStandalone:   "개별재무제표",
}

// ReportNames maps report codes to their Korean display names.
var ReportNames = map[string]string{
	"11011": "연간사업보고서",
	"11014": "3분기보고서",
	"11012": "반기보고서",
	"11013": "1분기보고서",
}

// LineItem is one account/amount record of a filed statement. Amounts stay
// strings on the wire; the registry mixes empty strings, commas and signs,
// and parsing is the ratio engine's concern. Immutable once received.
type LineItem struct {
	AccountID        string `json:"account_id"`
	AccountName      string `json:"account_nm"`
	CurrentAmount    string `json:"thstrm_amount"`
	PriorAmount      string `json:"frmtrm_amount"`
	PriorPriorAmount string `json:"bfefrm_amount"`
}

// Company identifies one registry entry: the 8-digit DART corp code plus
// the 6-digit KRX stock code it trades under.
type Company struct {
	CorpCode  string `json:"corp_code"`
	StockCode string `json:"stock_code"`
	CorpName  string `json:"corp_name"`
}

// statementResponse is the wire shape of fnlttSinglAcntAll.json.
type statementResponse struct {
	Status  string     `json:"status"`
	Message string     `json:"message"`
	List    []LineItem `json:"list"`
}

// ReportMeta is one filing-disclosure entry from list.json.
type ReportMeta struct {
	ReportName   string `json:"report_nm"`
	ReportCode   string `json:"reprt_code"`
	ReceiptNo    string `json:"rcept_no"`
	ReceiptDate  string `json:"rcept_dt"`
	FilerName    string `json:"flr_nm"`
	Remark       string `json:"rm"`
	LastReportAt string `json:"last_reprt_at"`
}

// listResponse is the wire shape of list.json (paginated).
type listResponse struct {
	Status    string       `json:"status"`
	Message   string       `json:"message"`
	PageNo    int          `json:"page_no"`
	TotalPage int          `json:"total_page"`
	List      []ReportMeta `json:"list"`
}
