package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timzifer/ebos/config"
)

func newSchemaCmd(*globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "schema",
		Short:   "Print the CUE schema site files are validated against",
		Args:    cobra.NoArgs,
		GroupID: "site",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), config.Schema())
			return err
		},
	}
}
