package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"event-analytics-service/internal/analyticsclient"
	"event-analytics-service/internal/config"
	"event-analytics-service/internal/logger"
)

type rootOptions struct {
	baseURL string
	token   string
}

func newRootCmd() *cobra.Command {
	cfg := config.LoadClient()
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "eventctl",
		Short: "Query owner analytics of the event service",
		Long: `eventctl reads analytics, financials and metrics of an event and manages its
attendees through the event service API. Endpoints that are not deployed yield
built-in sample data.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetupWriter(cmd.ErrOrStderr(), cfg.LogLevel)
		},
	}
	root.PersistentFlags().StringVar(&opts.baseURL, "url", cfg.RemoteAnalyticsURL, "base URL of the event service API")
	root.PersistentFlags().StringVar(&opts.token, "token", cfg.RemoteAnalyticsToken, "bearer token")

	newClient := func() *analyticsclient.Client {
		return analyticsclient.New(opts.baseURL,
			analyticsclient.WithToken(opts.token),
			analyticsclient.WithTimeout(cfg.RemoteAnalyticsTimeout),
		)
	}

	root.AddCommand(
		newAnalyticsCmd(newClient),
		newRegistrationsCmd(newClient),
		newFinancialsCmd(newClient),
		newMetricsCmd(newClient),
		newExportCmd(newClient),
		newCheckInCmd(newClient),
		newNotifyCmd(newClient),
	)
	return root
}

func printResult[T any](w io.Writer, result analyticsclient.Result[T]) error {
	if result.Source == analyticsclient.SourceFallback {
		fmt.Fprintln(w, "# endpoint unavailable, showing sample data")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result.Data)
}
