// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func install(fs afero.Fs) *cobra.Command {
	command := &cobra.Command{
		Use:   "install [name]...",
		Short: "installs extensions from the catalog",
		Args:  cobra.MinimumNArgs(1),
	}
	command.RunE = func(_ *cobra.Command, args []string) error {
		mgr, err := initManager(fs)
		if err != nil {
			return err
		}

		ctx := context.Background()
		for _, name := range args {
			if err := mgr.Install(ctx, name); err != nil {
				return err
			}
		}
		return mgr.Wait(ctx)
	}

	return command
}
