package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timzifer/ebos/catalog"
	"github.com/timzifer/ebos/designer"
	"github.com/timzifer/ebos/report"
)

func newLayoutCmd(opts *globalOptions) *cobra.Command {
	var (
		selections []string
		params     []string
	)
	cmd := &cobra.Command{
		Use:   "layout [entry-id]",
		Short: "Generate the site layout of the matched configuration",
		Long: `Generate rows, equipment, cables and statistics for the configuration
matched by the site file and any --select toggles. An entry id selects
that configuration directly.

Spatial parameters: ` + parameterNames() + `.`,
		Example: `  ebos layout B6
  ebos layout -s module=bifacial -s inverter=distributed -s dcCollection=homeruns -s dcCombination=none
  ebos layout FS2 --set rowLength=180 --set blockCount=8 --format yaml`,
		Args:    cobra.MaximumNArgs(1),
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

			if len(args) == 1 {
				if err := selectEntry(session, args[0]); err != nil {
					return err
				}
			}
			if err := applySelections(session, selections); err != nil {
				return err
			}
			if err := applyParams(session, params); err != nil {
				return err
			}

			l, err := session.Layout()
			if err != nil {
				return fmt.Errorf("%w (%d configurations remain, selected %s)", err, len(session.Resolve().Remaining), session.Selection())
			}
			return report.Layout(cmd.OutOrStdout(), session.Catalog(), l, format, ropts)
		},
	}
	cmd.Flags().StringArrayVarP(&selections, "select", "s", nil, "Toggle field=value, applied in order")
	cmd.Flags().StringArrayVar(&params, "set", nil, "Set a spatial parameter name=value")
	return cmd
}

func selectEntry(s *designer.Session, id string) error {
	entry, ok := s.Catalog().Lookup(id)
	if !ok {
		return fmt.Errorf("catalog %s has no entry %q", s.Catalog().Name(), id)
	}
	for _, field := range catalog.Fields() {
		if s.Selection().Get(field) == entry.Value(field) {
			continue
		}
		if _, err := s.Toggle(field, entry.Value(field)); err != nil {
			return err
		}
	}
	return nil
}
