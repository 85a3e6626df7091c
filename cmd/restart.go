// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/fieldline/extman/constant"
)

func restart(fs afero.Fs) *cobra.Command {
	command := &cobra.Command{
		Use:   "restart",
		Short: "asks the relauncher for a fresh instance without updating",
	}
	command.RunE = func(_ *cobra.Command, _ []string) error {
		mgr, err := initManager(fs)
		if err != nil {
			return err
		}

		ctx := context.Background()
		mgr.Restart(ctx)
		if err := mgr.Wait(ctx); err != nil {
			return err
		}

		os.Exit(constant.ExitRelaunch)
		return nil
	}

	return command
}
