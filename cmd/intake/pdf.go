package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var pdfCmd = &cobra.Command{
	Use:   "pdf <report-id>",
	Short: "Download the report PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runPDF,
}

var pdfOutPath string

func init() {
	pdfCmd.Flags().StringVarP(&pdfOutPath, "out", "o", "", "Output path (default: eligibility-report-<id>.pdf)")

	rootCmd.AddCommand(pdfCmd)
}

func runPDF(cmd *cobra.Command, args []string) error {
	_, cl, err := setup()
	if err != nil {
		return err
	}
	id := args[0]
	out := pdfOutPath
	if out == "" {
		out = fmt.Sprintf("eligibility-report-%s.pdf", id)
	}
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	defer func() { _ = f.Close() }()
	if err := cl.DownloadPDF(cmd.Context(), id, f); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "PDF saved to %s\n", out)
	return nil
}
