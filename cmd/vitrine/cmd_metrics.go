package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/vitrine/pkg/metrics"
)

// vitrine metrics — dump the request metrics gathered during this
// invocation. Mostly useful with compound commands or when debugging
// latency against a remote store.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Dump client request metrics (Prometheus text format)",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := metrics.Dump()
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}
