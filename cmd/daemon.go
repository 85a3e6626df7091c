// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func daemon(fs afero.Fs) *cobra.Command {
	command := &cobra.Command{
		Use:   "daemon",
		Short: "runs the supervisor until stopped or relaunched",
	}
	command.RunE = func(_ *cobra.Command, _ []string) error {
		mgr, err := initManager(fs)
		if err != nil {
			return err
		}

		if addr := viper.GetString(metricsAddrKey); addr != "" {
			go serveMetrics(addr)
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		req, err := mgr.Run(ctx)
		if err != nil {
			return err
		}

		// A nonzero code here is the relauncher contract, not a failure:
		// the external relauncher applies the pending self-update (67) or
		// starts a fresh instance (66).
		if code := req.ExitCode(); code != 0 {
			os.Exit(code)
		}
		return nil
	}

	return command
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	if err := http.ListenAndServe(addr, mux); err != nil {
		logrus.WithError(err).Warn("metrics listener stopped")
	}
}
