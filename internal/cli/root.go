package cli

import (
	"context"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/sqlfile"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string
	Config   string

	config Config
	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the epsql CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "epsql",
		Short:   "Read EnergyPlus SQLite result files",
		Version: ir.ToolVersion,
		Long: `epsql reads EnergyPlus SQLite result files.

It lists the environments, reporting frequencies and series a file holds,
rebuilds time series from the stored calendar, evaluates query files,
prints the tabular summary values and renders daylighting illuminance maps.

Settings may also come from a yaml config file (epsql.yaml in the working
directory, or --config). Flags win over the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to the result file (eplusout.sql)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "config file (default "+DefaultConfigFile+" if present)")

	// Add subcommands
	cmd.AddCommand(NewInfoCommand(opts))
	cmd.AddCommand(NewEnvsCommand(opts))
	cmd.AddCommand(NewFreqsCommand(opts))
	cmd.AddCommand(NewNamesCommand(opts))
	cmd.AddCommand(NewKeysCommand(opts))
	cmd.AddCommand(NewSeriesCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewSummaryCommand(opts))
	cmd.AddCommand(NewMapsCommand(opts))
	cmd.AddCommand(NewMapCommand(opts))
	cmd.AddCommand(NewIndexesCommand(opts))

	return cmd
}

// setup merges the config file under the flags and builds the logger.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	cfg, err := LoadConfig(o.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	o.config = cfg

	if cfg.Format != "" && !cmd.Flags().Changed("format") {
		o.Format = cfg.Format
	}
	if o.Database == "" {
		o.Database = cfg.Database
	}

	// Validate format flag
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, "invalid format "+o.Format+": must be one of text, json")
	}

	o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: cfg.Level(o.Verbose),
	}))
	return nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// open opens the result file named by --db. Failures are reported through
// out and returned as command errors.
func (o *RootOptions) open(cmd *cobra.Command, out *OutputFormatter) (*sqlfile.File, error) {
	if o.Database == "" {
		return nil, out.Fail(ExitCommandError, ErrCodeInvalidArgs, "no result file: pass --db or set db in the config file", nil)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}
	f, err := sqlfile.Open(commandContext(cmd), o.Database, sqlfile.Options{
		BusyTimeout:   o.config.BusyTimeout,
		CreateIndexes: o.config.CreateIndexes,
		Logger:        logger,
	})
	if err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeOpenFailed, "failed to open result file", err)
	}
	out.VerboseLog("Opened %s (session %s)", o.Database, f.Session())
	return f, nil
}

// closeFile closes f, logging a failure.
func (o *RootOptions) closeFile(f *sqlfile.File) {
	if err := f.Close(); err != nil && o.logger != nil {
		o.logger.Error("error closing result file", "error", err)
	}
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
