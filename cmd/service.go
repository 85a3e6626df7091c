// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/kardianos/service"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/fieldline/extman/constant"
)

// svc wires the daemon into the host's service manager, so the platform's
// relauncher (systemd's Restart= handling, for example) can honor the
// reserved exit statuses.
func svc(fs afero.Fs) *cobra.Command {
	command := &cobra.Command{
		Use:       "service [install|uninstall|start|stop|run]",
		Short:     "manages the supervisor as a system service",
		Args:      cobra.ExactArgs(1),
		ValidArgs: append(service.ControlAction[:], "run"),
	}
	command.RunE = func(_ *cobra.Command, args []string) error {
		prg := &program{fs: fs}

		s, err := service.New(prg, &service.Config{
			Name:        constant.AppName,
			DisplayName: "Extension Manager",
			Description: "Supervises locally installed extensions.",
			Arguments:   []string{"daemon"},
		})
		if err != nil {
			return err
		}

		if args[0] == "run" {
			return s.Run()
		}
		return service.Control(s, args[0])
	}

	return command
}

type program struct {
	fs     afero.Fs
	cancel context.CancelFunc
	done   chan struct{}
}

func (p *program) Start(service.Service) error {
	mgr, err := initManager(p.fs)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	go func() {
		defer close(p.done)

		req, err := mgr.Run(ctx)
		if err != nil {
			logrus.WithError(err).Error("supervisor stopped")
			return
		}
		if code := req.ExitCode(); code != 0 {
			fmt.Fprintf(os.Stderr, "exiting with reserved status %d\n", code)
			os.Exit(code)
		}
	}()
	return nil
}

func (p *program) Stop(service.Service) error {
	if p.cancel != nil {
		p.cancel()
		<-p.done
	}
	return nil
}
