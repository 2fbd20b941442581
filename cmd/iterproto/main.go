// Command iterproto runs iteration scenario files against the runtime.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"iterproto/internal/builtins"
	"iterproto/internal/config"
	"iterproto/internal/runtimeio"
	"iterproto/internal/scenario"
)

var version = "dev"

var log = commonlog.GetLogger("iterproto.cli")

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "iterproto [subcommand]",
		Short: "Exercise the iteration protocols with scenario files",
		// Errors are printed once by main.
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.AddCommand(newRunCmd(), newBuiltinsCmd(), newVersionCmd())
	return root
}

// runFlags holds the command line of the run subcommand.
type runFlags struct {
	configPath string
	format     string
	parallel   int
	maxMemory  int64
	verbose    int
	files      []string
}

func (f runFlags) Validate() error {
	if len(f.files) == 0 {
		return errors.New("no scenario files given")
	}
	return nil
}

// runDeps carries what the run handler needs from its environment.
type runDeps struct {
	out      io.Writer
	colorize bool
}

func initRunDeps(cmd *cobra.Command) runDeps {
	out := cmd.OutOrStdout()
	return runDeps{out: out, colorize: runtimeio.Colorize(out)}
}

func newRunCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "run <file>... [--config=path] [--format=text|json] [--parallel=n] [--max-memory=bytes] [-v]",
		Short: "Run scenario files and report every check",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.files = args
			if err := flags.Validate(); err != nil {
				return err
			}
			cfg, err := resolveConfig(cmd, flags)
			if err != nil {
				return err
			}
			commonlog.Configure(cfg.Verbosity, nil)
			return runHandler(cmd.Context(), cfg, flags.files, initRunDeps(cmd))
		},
	}
	cmd.Flags().StringVar(&flags.configPath, "config", "", "YAML or TOML configuration file")
	cmd.Flags().StringVar(&flags.format, "format", config.FormatText, "report format [text, json]")
	cmd.Flags().IntVar(&flags.parallel, "parallel", 1, "number of scenario files run at once")
	cmd.Flags().Int64Var(&flags.maxMemory, "max-memory", 0, "bytes each scenario may charge (0 is unlimited)")
	cmd.Flags().CountVarP(&flags.verbose, "verbose", "v", "increase log verbosity")
	return cmd
}

// resolveConfig layers explicitly set flags over the configuration file
// (or the defaults when there is none).
func resolveConfig(cmd *cobra.Command, flags runFlags) (config.Config, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		var err error
		if cfg, err = config.Load(flags.configPath); err != nil {
			return cfg, err
		}
	}
	set := cmd.Flags().Changed
	if set("format") {
		cfg.Format = flags.format
	}
	if set("parallel") {
		cfg.Parallel = flags.parallel
	}
	if set("max-memory") {
		cfg.MaxMemory = flags.maxMemory
	}
	if set("verbose") {
		cfg.Verbosity = flags.verbose
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

func runHandler(ctx context.Context, cfg config.Config, files []string, deps runDeps) error {
	log.Infof("running %d scenario file(s), parallel=%d", len(files), cfg.Parallel)
	reports, err := scenario.RunFiles(ctx, files, scenario.Options{MaxMemory: cfg.MaxMemory}, cfg.Parallel)
	if err != nil {
		return err
	}
	switch cfg.Format {
	case config.FormatJSON:
		err = scenario.WriteJSON(deps.out, reports)
	default:
		err = scenario.WriteText(deps.out, reports, deps.colorize)
	}
	if err != nil {
		return err
	}
	failed := 0
	for _, r := range reports {
		failed += r.Failures()
	}
	if failed > 0 {
		return errors.Errorf("%d check(s) failed", failed)
	}
	return nil
}

func newBuiltinsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "builtins",
		Short: "List the builtin functions available to scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range builtins.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the iterproto version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}
