package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/creditdesk/eligibility-intake/internal/domain"
	"github.com/creditdesk/eligibility-intake/internal/intake"
	"github.com/creditdesk/eligibility-intake/internal/session"
)

var submitCmd = &cobra.Command{
	Use:   "submit [files...]",
	Short: "Submit a document batch and render the eligibility report",
	Long:  "Stage the given PDF/image documents, submit them as one batch, wait for the derived report, and render it. Files can also come from a YAML manifest.",
	RunE:  runSubmit,
}

var (
	submitUserID   string
	submitCategory string
	manifestPath   string
	pdfOut         string
)

func init() {
	submitCmd.Flags().StringVar(&submitUserID, "user-id", "", "Optional user id forwarded with the batch")
	submitCmd.Flags().StringVar(&submitCategory, "category", "", "Optional category forwarded with the batch")
	submitCmd.Flags().StringVarP(&manifestPath, "manifest", "m", "", "YAML manifest listing files and metadata")
	submitCmd.Flags().StringVar(&pdfOut, "pdf-out", "", "Also download the report PDF to this path")

	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	cfg, cl, err := setup()
	if err != nil {
		return err
	}

	paths := args
	meta := domain.Metadata{UserID: submitUserID, Category: submitCategory}
	if manifestPath != "" {
		man, err := intake.LoadManifest(manifestPath)
		if err != nil {
			return err
		}
		paths = append(man.Files, paths...)
		// Flags override manifest metadata when both are given.
		if meta.UserID == "" {
			meta.UserID = man.UserID
		}
		if meta.Category == "" {
			meta.Category = man.Category
		}
	}

	docs, err := intake.LoadPaths(paths)
	if err != nil {
		return err
	}

	machine := session.New(cl, cl.Endpoint(), cfg.Origin, cfg.ProbeMaxElapsed)
	if machine.ProbeBackend(cmd.Context()) {
		fmt.Fprintln(cmd.OutOrStdout(), "Backend reachable.")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Backend not reachable yet; submitting anyway.")
	}

	machine.AddFiles(docs...)
	staged := machine.Files()
	fmt.Fprintf(cmd.OutOrStdout(), "Staged %d document(s): %s\n", len(staged), names(staged))

	st := machine.Submit(cmd.Context(), meta)
	if st.Phase != session.PhaseSucceeded {
		return fmt.Errorf("%s", st.Message)
	}

	printReport(cmd.OutOrStdout(), *st.Report, cl.PDFLink(st.Result.ReportID))

	if pdfOut != "" {
		f, err := os.Create(pdfOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", pdfOut, err)
		}
		defer func() { _ = f.Close() }()
		if err := cl.DownloadPDF(cmd.Context(), st.Result.ReportID, f); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "PDF saved to %s\n", pdfOut)
	}
	return nil
}

func names(docs []domain.Document) string {
	s := ""
	for i, d := range docs {
		if i > 0 {
			s += ", "
		}
		s += d.Name
	}
	return s
}
