package cli

import (
	"context"
	"fmt"

	"intakehub/internal/metrics"

	"github.com/spf13/cobra"
)

type RepairOptions struct {
	DryRun bool // If true, report only without editing
}

func NewRepairCommand(globalOptions *GlobalOptions) *cobra.Command {

	repairOptions := &RepairOptions{DryRun: false}

	repairCommand := &cobra.Command{
		Use:   "repair",
		Short: "Fix schema drift in the record store",
		Long: `Realigns rows whose field count does not match the header, assigns missing IDs and
rewrites legacy layouts to the current schema. This does not start the HTTP server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := runRepair(cmd.Context(), globalOptions, repairOptions)
			if err != nil {
				return err
			}
			if repairOptions.DryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%d rows need repair.\n", n)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%d rows repaired.\n", n)
			}
			return nil
		},
	}

	repairOptions.registerFlags(repairCommand)

	return repairCommand

}

func (opt *RepairOptions) registerFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&opt.DryRun, "dryrun", false, "If true, report only without editing.")
}

func runRepair(ctx context.Context, globalOptions *GlobalOptions, repairOptions *RepairOptions) (int, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// Never repair on open: a dry run must see the file as it is.
	store, err := openStore(ctx, globalOptions.Conf, false)
	if err != nil {
		return 0, err
	}
	defer store.Close()

	intake, err := newIntakeService(globalOptions.Conf, store, metrics.New(nil))
	if err != nil {
		return 0, err
	}

	ctx, capability := operatorContext(ctx)
	globalOptions.Logger.Infof("Starting repair (dry run: %t)...", repairOptions.DryRun)
	return intake.Repair(ctx, capability, repairOptions.DryRun)
}
