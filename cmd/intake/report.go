package main

import (
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <report-id>",
	Short: "Fetch and render an existing report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	_, cl, err := setup()
	if err != nil {
		return err
	}
	rep, err := cl.FetchReport(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printReport(cmd.OutOrStdout(), rep, cl.PDFLink(rep.ReportID))
	return nil
}
