// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func update(fs afero.Fs) *cobra.Command {
	all := false
	command := &cobra.Command{
		Use:   "update [name]...",
		Short: "updates installed extensions",
	}
	command.PersistentFlags().BoolVar(&all, "all", false, "update every extension with an advertised update")
	command.RunE = func(_ *cobra.Command, args []string) error {
		mgr, err := initManager(fs)
		if err != nil {
			return err
		}

		ctx := context.Background()
		if err := mgr.Refresh(ctx); err != nil {
			return err
		}

		if all {
			mgr.UpdateAll(ctx)
		}
		for _, name := range args {
			if err := mgr.Update(ctx, name); err != nil {
				return err
			}
		}
		return mgr.Wait(ctx)
	}

	return command
}
