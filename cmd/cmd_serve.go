// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/jcodagnone/distcalc/server"
	"github.com/spf13/cobra"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the geocoding and distance HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		router, err := newRouter(ctx)
		if err != nil {
			return err
		}

		listen := cfg.Listen
		if cmd.Flags().Changed("listen") {
			listen = serveListen
		}

		srv := server.NewServer(router, server.Options{
			Listen:    listen,
			RateLimit: cfg.RateLimit,
			RateBurst: cfg.RateBurst,
		})

		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "localhost:8080", "Address to listen on")
}
