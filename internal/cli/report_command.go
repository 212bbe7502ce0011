package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"intakehub/internal/metrics"
	"intakehub/internal/reports"
	"intakehub/internal/shared"

	"github.com/spf13/cobra"
)

type ReportOptions struct {
	Date    string
	Weekday string
}

func NewReportCommand(globalOptions *GlobalOptions) *cobra.Command {
	reportOptions := &ReportOptions{}

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print attendance counts as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), globalOptions, reportOptions, cmd.OutOrStdout())
		},
	}

	reportCmd.Flags().StringVar(&reportOptions.Date, "date", "today", "Day to count: YYYY-MM-DD, today or tomorrow.")
	reportCmd.Flags().StringVar(&reportOptions.Weekday, "weekday", "", "Also count records per date for this weekday, e.g. Saturday.")

	return reportCmd
}

func runReport(ctx context.Context, globalOptions *GlobalOptions, reportOptions *ReportOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	day, err := shared.ParseDate(reportOptions.Date, time.Now())
	if err != nil {
		return err
	}
	if reportOptions.Weekday != "" {
		if _, ok := reports.ParseWeekday(reportOptions.Weekday); !ok {
			return fmt.Errorf("unknown weekday %q", reportOptions.Weekday)
		}
	}

	store, err := openStore(ctx, globalOptions.Conf, globalOptions.Conf.AutoRepairEnabled())
	if err != nil {
		return err
	}
	defer store.Close()

	intake, err := newIntakeService(globalOptions.Conf, store, metrics.New(nil))
	if err != nil {
		return err
	}

	summary, err := intake.Report(ctx, day, reportOptions.Weekday)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
