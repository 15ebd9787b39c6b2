package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	// Colors for help output sections
	groupTitleColor   = color.New(color.FgCyan, color.Bold)
	sectionTitleColor = color.New(color.FgBlue, color.Bold)
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	format     string
	jsonOutput bool
	noColor    bool
	locale     string
	verbose    bool
}

// SetVersion overrides the version printed by --version and the version
// command.
func SetVersion(v string) {
	if v == "" {
		return
	}
	version = v
}

// Execute runs the ebos command line.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:     "ebos",
		Version: version,
		Short:   "Solar site eBOS configurator and layout generator",
		Long: `ebos walks a solar site through its electrical balance-of-system choices
(module, inverter, DC collection, DC combination) and generates the row,
equipment and cable layout of the matched configuration.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")
	root.SetHelpFunc(customHelpFunc)

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Site file (yaml, cue or json); built-in defaults when empty")
	flags.StringVarP(&opts.format, "format", "o", "text", "Output format: text, json or yaml")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&opts.locale, "locale", "en", "Locale used to format numbers")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr using the site file's logging settings")

	root.AddGroup(&cobra.Group{ID: "design", Title: "Design:"})
	root.AddGroup(&cobra.Group{ID: "site", Title: "Site Files:"})
	root.AddGroup(&cobra.Group{ID: "cli-tooling", Title: "CLI & Tooling:"})

	root.AddCommand(
		newCatalogCmd(opts),
		newOptionsCmd(opts),
		newLayoutCmd(opts),
		newCheckCmd(opts),
		newSchemaCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)

	helpCmd := &cobra.Command{
		Use:     "help [command]",
		Short:   "Help about any command",
		GroupID: "cli-tooling",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, _, err := cmd.Root().Find(args)
			if err != nil || target == nil {
				return cmd.Root().Help()
			}
			return target.Help()
		},
	}
	root.SetHelpCommand(helpCmd)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print the ebos version",
		Args:    cobra.NoArgs,
		GroupID: "cli-tooling",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cmd.Root().Version)
		},
	}
}

// customHelpFunc colors group titles.
func customHelpFunc(cmd *cobra.Command, args []string) {
	var help strings.Builder

	if cmd.Long != "" {
		help.WriteString(cmd.Long)
		help.WriteString("\n\n")
	} else if cmd.Short != "" {
		help.WriteString(cmd.Short)
		help.WriteString("\n\n")
	}

	help.WriteString(sectionTitleColor.Sprint("Usage:"))
	help.WriteString("\n")
	fmt.Fprintf(&help, "  %s\n\n", cmd.UseLine())

	for _, group := range cmd.Groups() {
		help.WriteString(groupTitleColor.Sprint(group.Title))
		help.WriteString("\n")
		for _, c := range cmd.Commands() {
			if c.GroupID == group.ID && !c.Hidden {
				fmt.Fprintf(&help, "  %-11s %s\n", c.Name(), c.Short)
			}
		}
		help.WriteString("\n")
	}

	if cmd.HasAvailableLocalFlags() || cmd.HasAvailablePersistentFlags() {
		help.WriteString(sectionTitleColor.Sprint("Flags:"))
		help.WriteString("\n")
		help.WriteString(cmd.LocalFlags().FlagUsages())
		help.WriteString(cmd.InheritedFlags().FlagUsages())
		help.WriteString("\n")
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(&help, "Use \"%s [command] --help\" for more information about a command.\n", cmd.CommandPath())
	}
	fmt.Fprint(cmd.OutOrStdout(), help.String())
}
