// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func list(fs afero.Fs) *cobra.Command {
	command := &cobra.Command{
		Use:   "list",
		Short: "lists catalog extensions with their installed state",
	}
	command.RunE = func(_ *cobra.Command, _ []string) error {
		mgr, err := initManager(fs)
		if err != nil {
			return err
		}

		if err := mgr.Refresh(context.Background()); err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "name\tcategory\tinstalled\tupdate")

		cat := mgr.Catalog()
		for _, name := range cat.Names() {
			_, pos, _ := cat.Lookup(name)
			status := mgr.Status(name)

			installed := "-"
			if status.Installed {
				installed = status.Version
			}
			update := "-"
			if status.Update != "" {
				update = status.Update
			}

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, cat.Categories()[pos.Category], installed, update)
		}
		return w.Flush()
	}

	return command
}
