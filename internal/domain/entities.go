package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Error taxonomy (sentinels)
var (
	// ErrValidation covers local preconditions: empty working set, oversized
	// files, malformed manifests. No network call was issued.
	ErrValidation = errors.New("validation failed")
	// ErrNetwork covers failures before any HTTP response arrived: connection
	// refused, DNS, client-side timeout.
	ErrNetwork = errors.New("network error")
	// ErrRemote covers non-2xx HTTP responses.
	ErrRemote = errors.New("remote error")
	// ErrMalformedPayload covers 2xx responses whose body does not match the
	// expected schema.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrUnknown is the best-effort bucket for everything else.
	ErrUnknown = errors.New("unknown error")
)

// MaxDocumentBytes is the per-file size cap enforced before submission.
// Mirrors the backend's own 10 MB limit so oversized files fail locally.
const MaxDocumentBytes = 10 << 20

// allowedExtensions is the intake allow-list. Lowercased, no leading dot.
var allowedExtensions = map[string]struct{}{
	"pdf": {}, "png": {}, "jpg": {}, "jpeg": {}, "tif": {}, "tiff": {},
}

// ExtensionAllowed reports whether ext (any case, optional leading dot) is an
// accepted document type.
func ExtensionAllowed(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	_, ok := allowedExtensions[ext]
	return ok
}

// Document is a single staged file. Name is the unique key within the working
// set; a later file with the same name replaces the earlier one.
type Document struct {
	Name string
	Data []byte
	Ext  string // lowercased, no leading dot
	MIME string // sniffed from content, informational
}

// IsPDF reports whether the document will go through server-side OCR.
func (d Document) IsPDF() bool { return d.Ext == "pdf" }

// Metadata carries the optional pass-through fields of a submission.
type Metadata struct {
	UserID   string
	Category string
}

// UploadResult is the response of a successful batch submission.
type UploadResult struct {
	ReportID    string `json:"report_id"`
	Message     string `json:"message"`
	Eligibility bool   `json:"eligibility"`
}

// RuleDecision is a single rule-engine verdict within a report.
type RuleDecision struct {
	RuleID   string         `json:"rule_id"`
	RuleName string         `json:"rule_name"`
	Passed   bool           `json:"passed"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details,omitempty"`
}

// SalaryRow is one month of detected income.
type SalaryRow struct {
	Month      string  `json:"month"`
	Employer   string  `json:"employer"`
	Amount     float64 `json:"amount"`
	Confidence float64 `json:"confidence"` // in [0,1]
}

// ObligationRow is one detected recurring debt obligation.
type ObligationRow struct {
	Lender            string  `json:"lender"`
	ObligationType    string  `json:"obligation_type"`
	MonthlyAmount     float64 `json:"monthly_amount"`
	OutstandingAmount float64 `json:"outstanding_amount"`
}

// PendingForm is a follow-up form the applicant still has to provide.
type PendingForm struct {
	FormCode string `json:"form_code"`
	FormName string `json:"form_name"`
	Reason   string `json:"reason"`
}

// PredictedQuery is a question the credit desk is likely to raise.
type PredictedQuery struct {
	Query      string  `json:"query"`
	Confidence float64 `json:"confidence"` // in [0,1]
	Rationale  string  `json:"rationale,omitempty"`
}

// Keys of ExtractedData surfaced by the presentation layer.
const (
	MetricMonthlySalary      = "monthly_salary"
	MetricMonthlyObligations = "monthly_obligations"
	MetricCreditScore        = "credit_score"
	MetricEMIRatioPercent    = "emi_ratio_percent"
)

// Report is the derived eligibility report fetched by report id. Immutable
// once fetched; replaced wholesale by the next submission cycle.
type Report struct {
	ReportID          string           `json:"report_id"`
	CreatedAt         time.Time        `json:"created_at"`
	Eligibility       bool             `json:"eligibility"`
	Decisions         []RuleDecision   `json:"decisions"`
	ExtractedData     map[string]any   `json:"extracted_data"`
	SalaryBreakdown   []SalaryRow      `json:"salary_breakdown"`
	Obligations       []ObligationRow  `json:"obligations"`
	MissingDocuments  []string         `json:"missing_documents"`
	PendingForms      []PendingForm    `json:"pending_forms"`
	PredictedQueries  []PredictedQuery `json:"predicted_queries"`
	ConfidenceSummary map[string]any   `json:"confidence_summary"`
	Metadata          map[string]any   `json:"metadata"`
	PDFAvailable      bool             `json:"pdf_available"`
}

// ReportClient (port)

// ReportClient is the transport-facing contract the session depends on.
// Implementations normalize every transport failure into the sentinel
// taxonomy above; raw transport errors never cross this boundary.
type ReportClient interface {
	// Probe checks backend liveness. Informational only; never gates submits.
	Probe(ctx context.Context) error
	// Submit uploads a non-empty document batch. The non-empty precondition
	// is the caller's responsibility.
	Submit(ctx context.Context, docs []Document, meta Metadata) (UploadResult, error)
	// FetchReport retrieves a report by id. No retries built in.
	FetchReport(ctx context.Context, id string) (Report, error)
	// PDFLink builds the direct-download URL without issuing a request.
	PDFLink(id string) string
}
