package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/creditdesk/eligibility-intake/internal/domain"
	"github.com/creditdesk/eligibility-intake/internal/transport"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check backend connectivity",
	RunE:  runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, _ []string) error {
	cfg, cl, err := setup()
	if err != nil {
		return err
	}
	ep := cl.Endpoint()
	fmt.Fprintf(cmd.OutOrStdout(), "Endpoint mode: %s, base: %s\n", ep.Mode, ep.Base)
	if err := cl.Probe(cmd.Context()); err != nil {
		return errors.New(probeFailureMessage(err, ep.Base, cfg.Origin))
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Backend reachable.")
	return nil
}

// probeFailureMessage renders a probe failure. The reconstructed-URL
// diagnostic is reserved for network-level failures; an HTTP-level error from
// the backend already names its own cause.
func probeFailureMessage(err error, base, origin string) string {
	if errors.Is(err, domain.ErrNetwork) {
		return transport.DescribeFailure(base, transport.PathProbe, origin)
	}
	return err.Error()
}
