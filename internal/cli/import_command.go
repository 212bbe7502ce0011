package cli

import (
	"context"
	"fmt"

	"intakehub/internal/importer"
	"intakehub/internal/metrics"
	"intakehub/internal/schema"

	"github.com/spf13/cobra"
)

type ImportOptions struct {
	File        string
	FromVersion int
}

func NewImportCommand(globalOptions *GlobalOptions) *cobra.Command {
	importOptions := &ImportOptions{}

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Append the rows of a legacy submissions CSV to the store",
		Long: `Reads a submissions file of any known layout, migrates its rows to the current schema
and appends them. Legacy timestamps are kept. The layout is taken from the header
when there is one, otherwise from --from-version.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runImport(cmd.Context(), globalOptions, importOptions)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows (layout v%d, %d realigned, %d skipped).\n",
				res.Imported, res.Version, res.Realigned, res.Skipped)
			return nil
		},
	}

	importCmd.Flags().StringVar(&importOptions.File, "file", "", "CSV file to import.")
	importCmd.Flags().IntVar(&importOptions.FromVersion, "from-version", 0, "Layout (1-5) of a headerless file.")
	_ = importCmd.MarkFlagRequired("file")

	return importCmd
}

func runImport(ctx context.Context, globalOptions *GlobalOptions, importOptions *ImportOptions) (*importer.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := importer.Options{}
	if importOptions.FromVersion != 0 {
		v, err := schema.ParseVersion(importOptions.FromVersion)
		if err != nil {
			return nil, err
		}
		opts.FromVersion = v
	}

	store, err := openStore(ctx, globalOptions.Conf, globalOptions.Conf.AutoRepairEnabled())
	if err != nil {
		return nil, err
	}
	defer store.Close()

	intake, err := newIntakeService(globalOptions.Conf, store, metrics.New(nil))
	if err != nil {
		return nil, err
	}

	ctx, _ = operatorContext(ctx)
	return importer.RunFile(ctx, intake, importOptions.File, opts)
}
