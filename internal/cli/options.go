package cli

import (
	"github.com/spf13/cobra"

	"github.com/timzifer/ebos/report"
)

func newOptionsCmd(opts *globalOptions) *cobra.Command {
	var selections []string
	cmd := &cobra.Command{
		Use:   "options",
		Short: "Show which options remain available for a selection",
		Long: `Show every field of the wizard with its options. Selected values are
marked [x], values that can still be chosen [ ], and values ruled out by
the fields before them are dimmed.`,
		Example: `  ebos options --select module=first-solar
  ebos options -s module=bifacial -s inverter=central --json`,
		Args:    cobra.NoArgs,
		GroupID: "design",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := opts.outputFormat()
			if err != nil {
				return err
			}
			ropts, err := opts.reportOptions()
			if err != nil {
				return err
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			session, closeFn, err := opts.openSession(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := applySelections(session, selections); err != nil {
				return err
			}
			return report.State(cmd.OutOrStdout(), session.State(), format, ropts)
		},
	}
	cmd.Flags().StringArrayVarP(&selections, "select", "s", nil, "Toggle field=value, applied in order")
	return cmd
}
