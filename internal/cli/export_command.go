package cli

import (
	"context"
	"io"

	"intakehub/internal/metrics"
	"intakehub/internal/services"
	"intakehub/internal/storage"

	"github.com/spf13/cobra"
)

type ExportOptions struct {
	Format string
	Out    string // "-" writes to stdout
}

func NewExportCommand(globalOptions *GlobalOptions) *cobra.Command {
	exportOptions := &ExportOptions{}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export every record as CSV or XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), globalOptions, exportOptions, cmd.OutOrStdout())
		},
	}

	exportCmd.Flags().StringVar(&exportOptions.Format, "format", services.FormatCSV, "Output format: csv or xlsx.")
	exportCmd.Flags().StringVar(&exportOptions.Out, "out", "-", "Output file; '-' writes to stdout.")

	return exportCmd
}

func runExport(ctx context.Context, globalOptions *GlobalOptions, exportOptions *ExportOptions, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
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
	ctx, _ = operatorContext(ctx)

	if exportOptions.Out == "" || exportOptions.Out == "-" {
		return intake.ExportAll(ctx, exportOptions.Format, stdout)
	}

	pr, pw := io.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		pw.CloseWithError(intake.ExportAll(ctx, exportOptions.Format, pw))
	}()
	n, err := storage.SaveFile(pr, exportOptions.Out)
	// Unblocks the writer if SaveFile gave up early.
	pr.Close()
	<-done
	if err != nil {
		return err
	}
	globalOptions.Logger.Infof("Exported %d bytes to %s", n, exportOptions.Out)
	return nil
}
