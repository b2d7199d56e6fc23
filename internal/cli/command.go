// Package cli provides the command line interface.
package cli

import (
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/dirtree/internal/config"
	"github.com/idelchi/dirtree/internal/dirtree"
	"github.com/idelchi/dirtree/internal/integration"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// Flag names, also used as configuration keys.
const (
	flagLevel     = "level"
	flagThreads   = "threads"
	flagFollow    = "follow"
	flagHidden    = "hidden"
	flagNoIgnore  = "no-ignore"
	flagGlob      = "glob"
	flagIGlob     = "iglob"
	flagPrune     = "prune"
	flagDirsOnly  = "dirs-only"
	flagSort      = "sort"
	flagReverse   = "reverse"
	flagDiskUsage = "disk-usage"
	flagUnit      = "unit"
	flagScale     = "scale"
	flagOutput    = "output"
	flagNoColor   = "no-color"
	flagDebug     = "debug"
	flagConfig    = "config"
	flagInit      = "init"
)

// maxScale bounds the number of decimals printed for sizes.
const maxScale = 9

//nolint:gochecknoglobals // Config constant
var allowedOutputs = []string{"tree", "report", "paths", "json"}

// settings is the validated configuration of one run.
type settings struct {
	dirtree.Options

	Output  string
	NoColor bool
	Debug   bool
}

// Execute runs the CLI with the process arguments.
func (c CLI) Execute() error {
	return c.Command().Execute()
}

// Command builds the root command.
func (c CLI) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dirtree [flags] [path]",
		Short: "Display a directory tree annotated with sizes",
		Long: heredoc.Doc(`
			dirtree walks a directory in parallel and prints it as a tree annotated with
			file sizes and aggregated directory sizes.

			Positional Arguments:
			  path                   Directory to display. Defaults to the current directory.

			Ignore files (.gitignore, .ignore) and hidden entries are skipped by default.
			Sizes of directories always include everything below them, even beyond --level.

			Defaults for every flag can be set in $XDG_CONFIG_HOME/dirtree/config.yaml
			or through DIRTREE_<FLAG> environment variables (dashes become underscores).

			The '--init' flag prints a zsh function that pipes directories into 'fzf'.
		`),
		Args:          cobra.MaximumNArgs(1),
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if initScript, _ := cmd.Flags().GetBool(flagInit); initScript {
				rendered, err := integration.Picker()
				if err != nil {
					return fmt.Errorf("rendering integration script: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), rendered)

				return nil
			}

			configPath, _ := cmd.Flags().GetString(flagConfig)

			reader, err := config.Load(cmd.Flags(), configPath)
			if err != nil {
				return err
			}

			options, err := settingsFrom(reader, args)
			if err != nil {
				return err
			}

			return logic(cmd.Context(), options, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	flags.IntP(flagLevel, "L", 0, "Maximum depth to display (0=unlimited)")
	flags.IntP(flagThreads, "T", runtime.NumCPU(), "Number of threads used for traversal")
	flags.BoolP(flagFollow, "f", false, "Follow symbolic links")
	flags.BoolP(flagHidden, "H", false, "Show hidden files and directories")
	flags.BoolP(flagNoIgnore, "i", false, "Do not respect .gitignore and .ignore files")
	flags.StringSliceP(flagGlob, "g", nil, "Include only matching paths; prefix with '!' to exclude (e.g., '*.go,!vendor')")
	flags.StringSlice(flagIGlob, nil, "Like --glob but case-insensitive")
	flags.BoolP(flagPrune, "P", false, "Remove empty directories from the output")
	flags.BoolP(flagDirsOnly, "d", false, "Only show directories")
	flags.StringP(flagSort, "s", "none", "Sort siblings by: none, name, size or type")
	flags.BoolP(flagReverse, "r", false, "Reverse the sort order")
	flags.StringP(flagDiskUsage, "u", "logical", "Size to report: logical or physical")
	flags.String(flagUnit, "bin", "Size units: bin (KiB, MiB) or si (KB, MB)")
	flags.Int(flagScale, 2, "Number of decimals for scaled sizes")
	flags.StringP(flagOutput, "o", "tree", "Output format: tree, report, paths or json")
	flags.Bool(flagNoColor, false, "Disable colored output")
	flags.Bool(flagDebug, false, "Enable debug output")
	flags.StringP(flagConfig, "c", "", "Path to a configuration file")
	flags.Bool(flagInit, false, "Output init script for shell usage")

	return cmd
}

// settingsFrom reads and validates the layered configuration.
//
//nolint:cyclop // Flat validation
func settingsFrom(reader *viper.Viper, args []string) (settings, error) {
	var s settings

	s.Path = "."
	if len(args) > 0 {
		s.Path = args[0]
	}

	s.Level = reader.GetInt(flagLevel)
	if s.Level < 0 {
		return s, errors.New("level cannot be negative")
	}

	s.Threads = reader.GetInt(flagThreads)
	if s.Threads < 1 {
		return s, errors.New("threads must be at least 1")
	}

	s.Scale = reader.GetInt(flagScale)
	if s.Scale < 0 || s.Scale > maxScale {
		return s, fmt.Errorf("scale must be between 0 and %d", maxScale)
	}

	var err error

	if s.Sort, err = dirtree.ParseSortKey(reader.GetString(flagSort)); err != nil {
		return s, err
	}

	if s.DiskUsage, err = dirtree.ParseDiskUsage(reader.GetString(flagDiskUsage)); err != nil {
		return s, err
	}

	if s.Prefix, err = dirtree.ParsePrefix(reader.GetString(flagUnit)); err != nil {
		return s, err
	}

	s.Output = reader.GetString(flagOutput)
	if !slices.Contains(allowedOutputs, s.Output) {
		return s, fmt.Errorf("invalid output format %q: must be one of %v", s.Output, allowedOutputs)
	}

	s.FollowLinks = reader.GetBool(flagFollow)
	s.Hidden = reader.GetBool(flagHidden)
	s.NoIgnore = reader.GetBool(flagNoIgnore)
	s.Globs = stringSlice(reader, flagGlob)
	s.IGlobs = stringSlice(reader, flagIGlob)
	s.Prune = reader.GetBool(flagPrune)
	s.DirsOnly = reader.GetBool(flagDirsOnly)
	s.Reverse = reader.GetBool(flagReverse)
	s.NoColor = reader.GetBool(flagNoColor)
	s.Debug = reader.GetBool(flagDebug)

	return s, nil
}

// stringSlice reads a list setting. A single string, as set through the
// environment, is split on commas like the flag value.
func stringSlice(reader *viper.Viper, key string) []string {
	raw, ok := reader.Get(key).(string)
	if !ok {
		return reader.GetStringSlice(key)
	}

	var values []string

	for part := range strings.SplitSeq(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}

	return values
}
