package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"event-analytics-service/internal/analyticsclient"
	"event-analytics-service/internal/model"
)

type clientFactory func() *analyticsclient.Client

func newAnalyticsCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics EVENT_ID",
		Short: "Show views, registrations and ratings of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := newClient().FetchEventAnalytics(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}
}

func newRegistrationsCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "registrations EVENT_ID",
		Short: "List the registered attendees of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := newClient().FetchRegisteredUsers(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}
}

func newFinancialsCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "financials EVENT_ID",
		Short: "Show the revenue report of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := newClient().FetchEventFinancials(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}
}

func newMetricsCmd(newClient clientFactory) *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "metrics EVENT_ID",
		Short: "Show daily activity counts of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := newClient().FetchEventMetrics(cmd.Context(), args[0], model.Period(period))
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().StringVar(&period, "period", string(model.Period30Days), "window: 7d, 30d or 90d")
	return cmd
}

func newExportCmd(newClient clientFactory) *cobra.Command {
	var (
		kind   string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export EVENT_ID",
		Short: "Download a CSV export of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exportKind := model.ExportKind(kind)
			if !exportKind.Valid() {
				return fmt.Errorf("unknown export type %q", kind)
			}

			result, err := newClient().ExportEventData(cmd.Context(), args[0], exportKind)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(result.Data)
				return err
			}
			if err := os.WriteFile(output, result.Data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d bytes to %s\n", len(result.Data), output)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "type", string(model.ExportAttendees), "attendees, financials or analytics")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write, stdout when empty")
	return cmd
}

func newCheckInCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "checkin EVENT_ID REGISTRATION_ID",
		Short: "Check an attendee in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().CheckInAttendee(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "checked in %s\n", args[1])
			return nil
		},
	}
}

func newNotifyCmd(newClient clientFactory) *cobra.Command {
	var subject string
	cmd := &cobra.Command{
		Use:   "notify EVENT_ID MESSAGE",
		Short: "Send an update to every attendee of an event",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if subject == "" {
				return fmt.Errorf("--subject is required")
			}
			if err := newClient().SendEventUpdate(cmd.Context(), args[0], args[1], subject); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "update sent")
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "subject line of the update")
	return cmd
}
