// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Command plugconf inspects and edits plugin configuration documents.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	xglog "github.com/ManuGH/plugconf/internal/log"
	"github.com/ManuGH/plugconf/internal/telemetry"
	"github.com/ManuGH/plugconf/internal/version"
	"github.com/ManuGH/plugconf/pkg/codec"
	"github.com/ManuGH/plugconf/pkg/config"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// app holds the global flags and the resources they set up.
type app struct {
	logLevel     string
	otlpEndpoint string
	otlpProtocol string
	worlds       []string

	provider *telemetry.Provider
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if serr := a.shutdown(context.WithoutCancel(ctx)); serr != nil {
		_, _ = fmt.Fprintf(stderr, "telemetry shutdown: %v\n", serr)
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "plugconf",
		Short:         "Inspect and edit plugin configuration documents",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, args)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to $LOG_LEVEL or info")
	flags.StringVar(&a.otlpEndpoint, "otlp-endpoint", "", "OTLP collector endpoint; tracing is off when empty")
	flags.StringVar(&a.otlpProtocol, "otlp-protocol", "grpc", "OTLP exporter protocol (grpc or http)")
	flags.StringSliceVar(&a.worlds, "worlds", []string{"world", "world_nether", "world_the_end"}, "world names known to location, chunk and world reads")

	root.AddCommand(
		a.getCmd(),
		a.setCmd(),
		a.keysCmd(),
		a.defaultsCmd(),
		a.checkCmd(),
		a.watchCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	xglog.Reconfigure(xglog.Config{
		Level:  a.logLevel,
		Output: cmd.ErrOrStderr(),
	})

	provider, err := telemetry.NewProvider(cmd.Context(), telemetry.Config{
		Endpoint:       a.otlpEndpoint,
		Protocol:       strings.ToLower(a.otlpProtocol),
		ServiceVersion: version.Version,
		Command:        cmd.Name(),
		Documents:      documentArgs(cmd, args),
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	a.provider = provider
	return nil
}

// documentArgs returns the document files among args: every argument for
// check, the first one for the other commands.
func documentArgs(cmd *cobra.Command, args []string) []string {
	if len(args) == 0 {
		return nil
	}
	if cmd.Name() == "check" {
		return args
	}
	return args[:1]
}

func (a *app) shutdown(ctx context.Context) error {
	if a.provider == nil {
		return nil
	}
	return a.provider.Shutdown(ctx)
}

func (a *app) options() []config.Option {
	return []config.Option{
		config.WithWorlds(codec.StaticWorlds(a.worlds...)),
	}
}

func (a *app) open(cmd *cobra.Command, file string) (*config.Config, error) {
	return config.Open(cmd.Context(), file, a.options()...)
}
