package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/tarmac-project/customer-lookup/metrics"
	"github.com/tarmac-project/customer-lookup/server"
)

const (
	transportStdio = "stdio"
	transportHTTP  = "http"

	defaultListenAddr  = "127.0.0.1:8010"
	defaultMetricsAddr = ""
)

func newServeCmd(opts *options) *cobra.Command {
	var (
		transport   string
		listenAddr  string
		metricsAddr string
		tokens      []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lookup as an MCP tool",
		Long: `Serve the customer lookup as the MCP tool "customer_lookup". The stdio
transport is meant to be launched by an MCP client; the http transport serves
streamable HTTP with optional bearer-token authentication.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if transport != transportStdio && transport != transportHTTP {
				return &inputError{err: fmt.Errorf("unknown transport %q (want %s or %s)", transport, transportStdio, transportHTTP)}
			}

			log, err := opts.logger()
			if err != nil {
				return err
			}

			conn, err := opts.connection()
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			m, err := metrics.New(metrics.Config{Registerer: reg})
			if err != nil {
				return err
			}
			m.SetBuildInfo(version, commit, date)

			lookup, err := opts.lookup(log, m)
			if err != nil {
				return err
			}

			srv, err := server.New(server.Config{
				Logger:        log,
				Lookup:        lookup,
				Connection:    conn,
				Version:       version,
				ListenAddr:    listenAddr,
				AllowedTokens: tokens,
			})
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if metricsAddr != "" {
				listener, err := net.Listen("tcp", metricsAddr)
				if err != nil {
					return fmt.Errorf("failed to start prometheus metrics server listener: %w", err)
				}
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
				go func() {
					log.Info("prometheus metrics server listening", "address", listener.Addr().String())
					if err := http.Serve(listener, mux); err != nil {
						log.Error("failed to serve prometheus metrics", "error", err)
					}
				}()
			}

			if transport == transportHTTP {
				return srv.RunHTTP(ctx)
			}
			return srv.RunStdio(ctx)
		},
	}

	cmd.Flags().StringVar(&transport, "transport", transportStdio, "MCP transport (stdio, http)")
	cmd.Flags().StringVar(&listenAddr, "listen-addr", defaultListenAddr, "HTTP listen address for the http transport")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", defaultMetricsAddr, "address to serve prometheus metrics on (disabled when empty)")
	cmd.Flags().StringSliceVar(&tokens, "token", nil, "bearer token accepted by the http transport (repeatable)")
	return cmd
}
