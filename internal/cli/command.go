package cli

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idelchi/topsize/internal/config"
	"github.com/idelchi/topsize/internal/integration"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute(ctx context.Context) error {
	return c.Command().ExecuteContext(ctx)
}

// Command builds the root command.
func (c CLI) Command() *cobra.Command {
	var (
		flagged    = config.DefaultConfig()
		configPath string
		initScript bool
	)

	cmd := &cobra.Command{
		Use:   "topsize [flags] [path]",
		Short: "Report the largest files or folders under a directory",
		Long: heredoc.Doc(`
			topsize scans a directory tree and reports the largest items found.

			By default individual files are ranked. Use --folder-size to rank folders
			by the total size of everything below them instead.

			The directory can be given with --folder or as a positional argument.
			Exactly --track rows are printed; slots that were never filled show as
			empty rows of 0 Mb.

			Directories that cannot be read are reported on stderr and count as empty;
			the scan carries on with the rest of the tree.

			Values from --config are used unless the matching flag is set explicitly.
		`),
		Example: heredoc.Doc(`
			# Ten largest files below the current directory
			topsize

			# Twenty largest folders in /var, walked with 8 threads
			topsize -s -i 20 -t 8 /var
		`),
		Version:       c.version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if initScript {
				return printIntegration(cmd)
			}

			cfg := config.DefaultConfig()

			if configPath != "" {
				loaded, err := config.LoadConfig(configPath)
				if err != nil {
					return err
				}

				cfg = loaded
			}

			cfg.MergeFlags(cmd.Flags(), flagged)

			if len(args) == 1 {
				if cmd.Flags().Changed("folder") && args[0] != flagged.Folder {
					return fmt.Errorf("conflicting folders: --folder %q and argument %q", flagged.Folder, args[0])
				}

				cfg.Folder = args[0]
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			return logic(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&flagged.Folder, "folder", "f", flagged.Folder, "Directory to scan")
	flags.BoolVarP(&flagged.FolderSize, "folder-size", "s", flagged.FolderSize, "Rank folders by total size instead of files")
	flags.Uint8VarP(&flagged.Threads, "threads", "t", flagged.Threads, "Number of walker threads (1 = sequential)")
	flags.Uint8VarP(&flagged.Track, "track", "i", flagged.Track, "Number of largest entries to report (0-255)")
	flags.StringSliceVarP(&flagged.Excludes, "exclude", "e", flagged.Excludes, "Regex patterns for paths to skip")
	flags.StringVarP(&flagged.Output, "output", "o", flagged.Output, "Output format: text, table or json")
	flags.StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	flags.BoolVar(&flagged.Debug, "debug", flagged.Debug, "Enable debug output")
	flags.BoolVar(&initScript, "init", false, "Output init script for shell usage")
	flags.SortFlags = false

	cmd.SetVersionTemplate("{{ .Version }}\n")

	return cmd
}

func printIntegration(cmd *cobra.Command) error {
	rendered, err := integration.Render()
	if err != nil {
		return fmt.Errorf("rendering integration script: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)

	return err
}
