package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"

	"github.com/cruciblehq/twoliter/internal"
	"github.com/cruciblehq/twoliter/internal/paths"
	"github.com/cruciblehq/twoliter/internal/settings"
)

// Represents the root command for twoliter.
var RootCmd struct {
	Quiet   bool       `short:"q" help:"Only report errors."`
	Verbose bool       `short:"v" help:"Report progress and stream task output."`
	Debug   bool       `short:"d" help:"Enable debug output."`
	Config  string     `help:"Path to the settings file." placeholder:"PATH" type:"path"`
	Build   BuildCmd   `cmd:"" help:"Build variants and kits."`
	Install InstallCmd `cmd:"" help:"Install build components."`
	Exec    ExecCmd    `cmd:"" help:"Run a task in the build environment."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {
	return execute(os.Args[1:])
}

func execute(args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	parser, err := kong.New(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("A build tool for Bottlerocket variants and kits.\n\nBuilds run cargo-make tasks inside an environment image derived from the project's SDK."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err != nil {
		return err
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		parser.FatalIfErrorf(err)
	}

	configureLogger()

	s, err := loadSettings()
	if err != nil {
		return err
	}

	return kongCtx.Run(s)
}

// Reads the settings file named by --config, or the default one.
func loadSettings() (*settings.Settings, error) {
	path := RootCmd.Config
	if path == "" {
		path = paths.Settings()
	}
	return settings.Load(path)
}

// Configures the global logger based on CLI flags.
//
// Terminals get the text format; pipes and CI logs get JSON.
func configureLogger() {
	level := internal.LogLevel()
	switch {
	case RootCmd.Debug:
		level = slog.LevelDebug
	case RootCmd.Verbose:
		level = slog.LevelInfo
	case RootCmd.Quiet:
		level = slog.LevelError
	}
	internal.SetLogLevel(level)

	slog.SetDefault(NewLogger(os.Stderr, level))
}

// Creates a logger writing to f at the given level.
func NewLogger(f *os.File, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		handler = slog.NewTextHandler(f, opts)
	} else {
		handler = slog.NewJSONHandler(f, opts)
	}
	return slog.New(handler).With("app", internal.Name)
}
