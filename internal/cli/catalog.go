package cli

import (
	"github.com/spf13/cobra"

	"github.com/timzifer/ebos/report"
)

func newCatalogCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "catalog",
		Short:   "List the configurations and rules of the site catalog",
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
			cat, err := cfg.BuildCatalog()
			if err != nil {
				return err
			}
			return report.Catalog(cmd.OutOrStdout(), cat, format, ropts)
		},
	}
}
