// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func uninstall(fs afero.Fs) *cobra.Command {
	command := &cobra.Command{
		Use:   "uninstall [name]...",
		Short: "uninstalls installed extensions",
		Args:  cobra.MinimumNArgs(1),
	}
	command.RunE = func(_ *cobra.Command, args []string) error {
		mgr, err := initManager(fs)
		if err != nil {
			return err
		}

		ctx := context.Background()
		if err := mgr.Refresh(ctx); err != nil {
			return err
		}
		for _, name := range args {
			if err := mgr.Uninstall(ctx, name); err != nil {
				return err
			}
		}
		return mgr.Wait(ctx)
	}

	return command
}
