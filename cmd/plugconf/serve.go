// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ManuGH/plugconf/internal/api"
	xglog "github.com/ManuGH/plugconf/internal/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func (a *app) serveCmd() *cobra.Command {
	var (
		listen       string
		requestLimit int
	)
	cmd := &cobra.Command{
		Use:   "serve <file>",
		Short: "Watch a document and serve it read-only over HTTP",
		Long: `Watch a document and serve it read-only over HTTP, together with the
Prometheus metrics of this process.

  GET /v1/keys[?path=p]
  GET /v1/value?path=p[&type=t]
  GET /v1/revision
  GET /metrics
  GET /healthz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := a.open(cmd, args[0])
			if err != nil {
				return err
			}
			if err := c.Watch(ctx); err != nil {
				return err
			}
			defer c.Stop()

			ln, err := net.Listen("tcp", listen)
			if err != nil {
				return fmt.Errorf("listen %s: %w", listen, err)
			}
			srv := &http.Server{
				Handler:           api.NewRouter(c, api.Options{RequestLimit: requestLimit}),
				ReadHeaderTimeout: 5 * time.Second,
			}

			logger := xglog.WithComponent("serve")
			logger.Info().
				Str("event", "serve.started").
				Str("addr", ln.Addr().String()).
				Str(xglog.FieldFile, c.File()).
				Msg("serving configuration document")
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "serving %s on %s\n", c.File(), ln.Addr())

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:8080", "HTTP listen address")
	cmd.Flags().IntVar(&requestLimit, "rate-limit", 600, "requests per minute allowed per client IP on /v1")
	return cmd
}
