package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/creditdesk/eligibility-intake/internal/domain"
	"github.com/creditdesk/eligibility-intake/internal/render"
)

// printReport writes the display rows of a report to w.
func printReport(w io.Writer, rep domain.Report, pdfLink string) {
	fmt.Fprintf(w, "\nReport %s\n\n", rep.ReportID)

	printRows(w, "Summary", render.Summary(rep))
	printRows(w, "Decisions", render.Decisions(rep))
	printRows(w, "Salary breakdown", render.SalaryRows(rep))
	printRows(w, "Obligations", render.ObligationRows(rep))

	if missing := render.MissingDocuments(rep); len(missing) > 0 {
		fmt.Fprintln(w, "Missing documents")
		for _, m := range missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}

	printRows(w, "Pending forms", render.PendingFormRows(rep))
	printRows(w, "Predicted queries", render.PredictedQueryRows(rep))

	if rep.PDFAvailable {
		fmt.Fprintf(w, "PDF: %s\n", pdfLink)
	}
}

func printRows(w io.Writer, title string, rows []render.Row) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintln(w, title)
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(tw, "  %s\t%s\n", r.Label, r.Value)
	}
	_ = tw.Flush()
	fmt.Fprintln(w)
}
