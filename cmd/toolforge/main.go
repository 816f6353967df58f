// Package main provides the toolforge CLI entrypoint.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"toolforge/internal/catalog"
	"toolforge/internal/config"
	"toolforge/internal/tools"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "toolforge",
		Short: "Build HTTP-backed tools from a plain-text catalog",
		Long: `toolforge reads tools-config.txt from the project root and turns each
entry into a callable tool backed by an HTTP endpoint.

Examples:
  toolforge serve                          # Serve tools over REST and MCP
  toolforge list                           # Show the loaded tools
  toolforge call weather --args '{"city":"Oslo"}'
  toolforge validate                       # Check the catalog for incomplete entries`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	config.AddFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		serveCmd(),
		listCmd(),
		callCmd(),
		validateCmd(),
	)

	return rootCmd
}

// app is the state every command starts from.
type app struct {
	settings config.Settings
	logger   zerolog.Logger
}

func newApp(cmd *cobra.Command) (*app, error) {
	v, err := config.New(cmd.Flags())
	if err != nil {
		return nil, err
	}
	settings, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(settings.Level())
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().
		Timestamp().
		Logger()

	return &app{settings: settings, logger: logger}, nil
}

func (a *app) loader() *catalog.Loader {
	opts := []tools.Option{tools.WithHTTPClient(a.settings.HTTPClient())}
	if base := a.settings.Base(); base != nil {
		opts = append(opts, tools.WithBaseURL(base))
	}
	return catalog.NewLoader(catalog.LoaderConfig{
		StartDir:          a.settings.StartDir,
		ConfigFile:        a.settings.ConfigFile,
		ProjectMarker:     a.settings.ProjectMarker,
		BuildOutputMarker: a.settings.BuildOutputMarker,
	}, a.logger, opts...)
}
