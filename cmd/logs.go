// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func logs(fs afero.Fs) *cobra.Command {
	command := &cobra.Command{
		Use:   "logs",
		Short: "manages per-extension log capture",
	}
	command.AddCommand(logsToggle(fs, "enable", true), logsToggle(fs, "disable", false))

	return command
}

func logsToggle(fs afero.Fs, use string, enabled bool) *cobra.Command {
	command := &cobra.Command{
		Use:   fmt.Sprintf("%s [name]", use),
		Short: fmt.Sprintf("%ss output capture for an extension", use),
		Args:  cobra.ExactArgs(1),
	}
	command.RunE = func(_ *cobra.Command, args []string) error {
		mgr, err := initManager(fs)
		if err != nil {
			return err
		}

		if err := mgr.SetLogging(args[0], enabled); err != nil {
			return err
		}

		if enabled {
			fmt.Printf("%s logs to %s\n", args[0], dataPath("logs", args[0]+".log"))
		}
		return nil
	}

	return command
}
