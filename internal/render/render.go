// Package render projects a fetched report into display-ready rows.
//
// Every function here is a pure projection: the same report always yields the
// same rows, and nothing touches the network or session state.
package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/creditdesk/eligibility-intake/internal/domain"
)

// Row is one label/value pair of a report section.
type Row struct {
	Label string
	Value string
}

// Currency formats an amount as Indian rupees: two fixed decimals, en-IN
// digit grouping on the integer part only (last three digits, then groups of
// two). 1234567.5 renders as "₹12,34,567.50".
func Currency(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")
	grouped := groupIndian(intPart)
	if neg {
		return "-₹" + grouped + "." + fracPart
	}
	return "₹" + grouped + "." + fracPart
}

// groupIndian inserts en-IN thousand separators into a digit string.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}

// Percent renders an already-percent value with a trailing sign, keeping the
// server's precision: 41.5 -> "41.5%".
func Percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// Confidence renders a [0,1] confidence as a rounded whole-number percentage.
func Confidence(c float64) string {
	return strconv.Itoa(int(math.Round(c*100))) + "%"
}

// PassFail renders a decision verdict label.
func PassFail(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}

// Decisions renders each rule verdict as a pass/fail label paired with its
// rule name and message.
func Decisions(rep domain.Report) []Row {
	rows := make([]Row, 0, len(rep.Decisions))
	for _, d := range rep.Decisions {
		rows = append(rows, Row{
			Label: fmt.Sprintf("%s %s", PassFail(d.Passed), d.RuleName),
			Value: d.Message,
		})
	}
	return rows
}

// Summary renders the headline rows: eligibility verdict plus the extracted
// financial metrics. Metrics missing from the report are omitted rather than
// rendered as zeroes.
func Summary(rep domain.Report) []Row {
	verdict := "NOT ELIGIBLE"
	if rep.Eligibility {
		verdict = "ELIGIBLE"
	}
	rows := []Row{{Label: "Eligibility", Value: verdict}}
	if v, ok := metric(rep.ExtractedData, domain.MetricMonthlySalary); ok {
		rows = append(rows, Row{Label: "Monthly salary", Value: Currency(v)})
	}
	if v, ok := metric(rep.ExtractedData, domain.MetricMonthlyObligations); ok {
		rows = append(rows, Row{Label: "Monthly obligations", Value: Currency(v)})
	}
	if v, ok := metric(rep.ExtractedData, domain.MetricCreditScore); ok {
		rows = append(rows, Row{Label: "Credit score", Value: strconv.Itoa(int(v))})
	}
	if v, ok := metric(rep.ExtractedData, domain.MetricEMIRatioPercent); ok {
		rows = append(rows, Row{Label: "EMI ratio", Value: Percent(v)})
	}
	return rows
}

// SalaryRows renders the monthly salary breakdown.
func SalaryRows(rep domain.Report) []Row {
	rows := make([]Row, 0, len(rep.SalaryBreakdown))
	for _, s := range rep.SalaryBreakdown {
		rows = append(rows, Row{
			Label: fmt.Sprintf("%s %s", s.Month, s.Employer),
			Value: fmt.Sprintf("%s (confidence %s)", Currency(s.Amount), Confidence(s.Confidence)),
		})
	}
	return rows
}

// ObligationRows renders detected recurring obligations.
func ObligationRows(rep domain.Report) []Row {
	rows := make([]Row, 0, len(rep.Obligations))
	for _, o := range rep.Obligations {
		rows = append(rows, Row{
			Label: fmt.Sprintf("%s %s", o.Lender, o.ObligationType),
			Value: fmt.Sprintf("%s/month, %s outstanding", Currency(o.MonthlyAmount), Currency(o.OutstandingAmount)),
		})
	}
	return rows
}

// MissingDocuments renders the missing-document labels as-is.
func MissingDocuments(rep domain.Report) []string {
	out := make([]string, len(rep.MissingDocuments))
	copy(out, rep.MissingDocuments)
	return out
}

// PendingFormRows renders the outstanding forms.
func PendingFormRows(rep domain.Report) []Row {
	rows := make([]Row, 0, len(rep.PendingForms))
	for _, f := range rep.PendingForms {
		rows = append(rows, Row{
			Label: fmt.Sprintf("%s %s", f.FormCode, f.FormName),
			Value: f.Reason,
		})
	}
	return rows
}

// PredictedQueryRows renders likely credit-desk questions with confidence.
func PredictedQueryRows(rep domain.Report) []Row {
	rows := make([]Row, 0, len(rep.PredictedQueries))
	for _, q := range rep.PredictedQueries {
		rows = append(rows, Row{Label: Confidence(q.Confidence), Value: q.Query})
	}
	return rows
}

// metric pulls a numeric field out of the untyped extracted-data map. JSON
// decoding yields float64 for every number.
func metric(data map[string]any, key string) (float64, bool) {
	v, ok := data[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
