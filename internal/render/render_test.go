package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/creditdesk/eligibility-intake/internal/domain"
)

func Test_Currency_IndianGrouping(t *testing.T) {
	cases := map[float64]string{
		0:         "₹0.00",
		500:       "₹500.00",
		1234:      "₹1,234.00",
		52000:     "₹52,000.00",
		1234567.5: "₹12,34,567.50",
		12345678:  "₹1,23,45,678.00",
		-18000.25: "-₹18,000.25",
		999:       "₹999.00",
		1000:      "₹1,000.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, Currency(in), "input %v", in)
	}
}

func Test_Percent_KeepsServerPrecision(t *testing.T) {
	assert.Equal(t, "41.5%", Percent(41.5))
	assert.Equal(t, "34.62%", Percent(34.62))
	assert.Equal(t, "0%", Percent(0))
}

func Test_Confidence_RoundsToWholePercent(t *testing.T) {
	assert.Equal(t, "87%", Confidence(0.866))
	assert.Equal(t, "91%", Confidence(0.91))
	assert.Equal(t, "0%", Confidence(0))
	assert.Equal(t, "100%", Confidence(1))
	assert.Equal(t, "50%", Confidence(0.495))
}

func sampleReport() domain.Report {
	return domain.Report{
		ReportID:    "r1",
		Eligibility: true,
		ExtractedData: map[string]any{
			"monthly_salary":      52000.0,
			"monthly_obligations": 18000.0,
			"credit_score":        742.0,
			"emi_ratio_percent":   34.62,
		},
		Decisions: []domain.RuleDecision{
			{RuleID: "R1", RuleName: "Credit Score", Passed: true, Message: "credit_score=742 >= 650"},
			{RuleID: "R2", RuleName: "EMI Ratio", Passed: false, Message: "emi_ratio_percent=34.62 > 30"},
		},
		SalaryBreakdown: []domain.SalaryRow{
			{Month: "2026-05", Employer: "Acme Corp", Amount: 52000, Confidence: 0.91},
		},
		Obligations: []domain.ObligationRow{
			{Lender: "HDFC", ObligationType: "car_loan", MonthlyAmount: 12500, OutstandingAmount: 340000},
		},
		MissingDocuments: []string{"bank_statement"},
		PendingForms: []domain.PendingForm{
			{FormCode: "F16", FormName: "Form 16", Reason: "salary above taxable threshold"},
		},
		PredictedQueries: []domain.PredictedQuery{
			{Query: "Why is the EMI ratio above 30%?", Confidence: 0.72},
		},
	}
}

func Test_Summary(t *testing.T) {
	rows := Summary(sampleReport())
	require.Len(t, rows, 5)
	assert.Equal(t, Row{Label: "Eligibility", Value: "ELIGIBLE"}, rows[0])
	assert.Equal(t, Row{Label: "Monthly salary", Value: "₹52,000.00"}, rows[1])
	assert.Equal(t, Row{Label: "Monthly obligations", Value: "₹18,000.00"}, rows[2])
	assert.Equal(t, Row{Label: "Credit score", Value: "742"}, rows[3])
	assert.Equal(t, Row{Label: "EMI ratio", Value: "34.62%"}, rows[4])
}

func Test_Summary_OmitsMissingMetrics(t *testing.T) {
	rep := domain.Report{Eligibility: false, ExtractedData: map[string]any{}}
	rows := Summary(rep)
	require.Len(t, rows, 1)
	assert.Equal(t, "NOT ELIGIBLE", rows[0].Value)
}

func Test_Decisions_PassFailLabels(t *testing.T) {
	rows := Decisions(sampleReport())
	require.Len(t, rows, 2)
	assert.Equal(t, "PASS Credit Score", rows[0].Label)
	assert.Equal(t, "credit_score=742 >= 650", rows[0].Value)
	assert.Equal(t, "FAIL EMI Ratio", rows[1].Label)
}

func Test_SectionRows(t *testing.T) {
	rep := sampleReport()

	salary := SalaryRows(rep)
	require.Len(t, salary, 1)
	assert.Equal(t, "2026-05 Acme Corp", salary[0].Label)
	assert.Equal(t, "₹52,000.00 (confidence 91%)", salary[0].Value)

	obligations := ObligationRows(rep)
	require.Len(t, obligations, 1)
	assert.Equal(t, "HDFC car_loan", obligations[0].Label)
	assert.Equal(t, "₹12,500.00/month, ₹3,40,000.00 outstanding", obligations[0].Value)

	forms := PendingFormRows(rep)
	require.Len(t, forms, 1)
	assert.Equal(t, "F16 Form 16", forms[0].Label)

	queries := PredictedQueryRows(rep)
	require.Len(t, queries, 1)
	assert.Equal(t, "72%", queries[0].Label)
}

func Test_Projection_IsDeterministic(t *testing.T) {
	rep := sampleReport()
	assert.Equal(t, Summary(rep), Summary(rep))
	assert.Equal(t, Decisions(rep), Decisions(rep))
	assert.Equal(t, SalaryRows(rep), SalaryRows(rep))
	assert.Equal(t, ObligationRows(rep), ObligationRows(rep))
}
