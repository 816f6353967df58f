package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"toolforge/internal/definition"
	"toolforge/internal/server"
	"toolforge/internal/telemetry"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the tool catalog over REST and MCP",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			metrics := telemetry.NewMetrics(reg)
			registry := telemetry.NewInstrumentedRegistry(a.loader().Load(), metrics, a.logger)

			handler, err := server.New(server.Config{
				Name:     "toolforge",
				Version:  version,
				Gatherer: reg,
			}, registry, metrics, a.logger)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			srv := &http.Server{
				Addr:              a.settings.ListenAddr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info().
					Str("addr", srv.Addr).
					Int("tools", registry.Len()).
					Msg("Starting server")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.logger.Info().Msg("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tools built from the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			registry := a.loader().Load()
			out := cmd.OutOrStdout()
			if registry.Len() == 0 {
				fmt.Fprintln(out, "No tools loaded")
				return nil
			}
			for _, tool := range registry.List() {
				fmt.Fprintf(out, "%-24s %s\n", tool.Name(), tool.Description())
			}
			return nil
		},
	}
}

func callCmd() *cobra.Command {
	var rawArgs string

	cmd := &cobra.Command{
		Use:   "call <tool-id>",
		Short: "Invoke one tool and print its JSON response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			result, err := a.loader().Load().Call(cmd.Context(), args[0], json.RawMessage(rawArgs))
			if err != nil {
				return err
			}

			var pretty bytes.Buffer
			if err := json.Indent(&pretty, result, "", "  "); err != nil {
				pretty.Reset()
				pretty.Write(result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&rawArgs, "args", "{}", "Tool input as a JSON object")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Report catalog entries that cannot be invoked",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}

			path := a.loader().Path()
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			out := cmd.OutOrStdout()
			defs := definition.Parse(string(data), a.logger)
			incomplete := 0
			for _, def := range defs {
				if missing := def.Missing(); len(missing) > 0 {
					incomplete++
					fmt.Fprintf(out, "%-24s missing %s\n", def.ID, strings.Join(missing, ", "))
					continue
				}
				fmt.Fprintf(out, "%-24s ok\n", def.ID)
			}

			if incomplete > 0 {
				return fmt.Errorf("%d of %d tool definitions in %s are incomplete", incomplete, len(defs), path)
			}
			fmt.Fprintf(out, "%d tool definitions in %s are complete\n", len(defs), path)
			return nil
		},
	}
}
