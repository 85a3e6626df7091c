// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package manager

import (
	"github.com/sirupsen/logrus"

	"github.com/fieldline/extman/constant"
	"github.com/fieldline/extman/logging"
)

var _ logrus.Hook = &selfLogHook{}

// selfLogHook mirrors the manager's own log output into its registry
// entry, next to the children's captured output. While the entry is
// detached (around a relaunch) the hook writes nothing.
type selfLogHook struct {
	registry  *logging.Registry
	formatter logrus.Formatter
}

func (h *selfLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *selfLogHook) Fire(entry *logrus.Entry) error {
	w := h.registry.Writer(constant.ManagerName)
	if w == nil {
		return nil
	}

	if h.formatter == nil {
		h.formatter = &logrus.TextFormatter{DisableColors: true}
	}
	bytes, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}

	_, err = w.Write(bytes)
	return err
}
