package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timzifer/ebos/catalog"
	"github.com/timzifer/ebos/report"
)

var errCheckFailed = errors.New("site check failed")

func newCheckCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate a site file and its catalog rules",
		Long: `Load the site file, evaluate every catalog rule against every entry and
confirm the initial selection can be made. Exits non-zero on any failure.`,
		Args:    cobra.NoArgs,
		GroupID: "site",
		RunE: func(cmd *cobra.Command, args []string) error {
			ropts, err := opts.reportOptions()
			if err != nil {
				return err
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			def, err := cfg.Definition()
			if err != nil {
				return err
			}
			rules, err := catalog.CompileRules(def.Rules)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			ok, err := report.Violations(out, def, catalog.Check(def.Entries, rules), ropts)
			if err != nil {
				return err
			}
			if !ok {
				return errCheckFailed
			}

			session, closeFn, err := opts.openSession(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer closeFn()
			if session.Selection().Count() > 0 {
				_, _ = fmt.Fprintf(out, "ok  selection: %s\n", session.Selection())
			}
			return nil
		},
	}
}
