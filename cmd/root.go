// Copyright (C) 2026, Fieldline, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fieldline/extman/backend"
	"github.com/fieldline/extman/backend/docker"
	"github.com/fieldline/extman/backend/npm"
	"github.com/fieldline/extman/config"
	"github.com/fieldline/extman/constant"
	"github.com/fieldline/extman/fetch"
	"github.com/fieldline/extman/manager"
)

var (
	homeDir = os.ExpandEnv("$HOME")
	dataDir = filepath.Join(homeDir, fmt.Sprintf(".%s", constant.AppName))
)

const (
	configFileKey   = "config-file"
	dataDirKey      = "data-dir"
	flagsFileKey    = "flags-file"
	manifestKey     = "manifest"
	fragmentsDirKey = "fragments-dir"
	metricsAddrKey  = "metrics-addr"
	scanIntervalKey = "scan-interval"
	jobTimeoutKey   = "job-timeout"
)

func New(fs afero.Fs) (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:   constant.AppName,
		Short: fmt.Sprintf("%s supervises locally installed extensions", constant.AppName),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// we need to initialize our config here before each command
			// starts, since Cobra doesn't actually parse any of the flags
			// until cobra.Execute() is called.
			return initializeConfig()
		},
	}

	rootCmd.PersistentFlags().String(configFileKey, "", "path to a configuration file")
	rootCmd.PersistentFlags().String(dataDirKey, dataDir, "path to the directory extman keeps its state in")
	rootCmd.PersistentFlags().String(flagsFileKey, "", "path to the feature-flag file (default <data-dir>/flags.json)")
	rootCmd.PersistentFlags().String(manifestKey, "", "path to the main extension manifest (default <data-dir>/node_modules/extman-repository/manifest.json)")
	rootCmd.PersistentFlags().String(fragmentsDirKey, "", "path to the local manifest fragment directory (default <data-dir>/fragments)")
	rootCmd.PersistentFlags().String(metricsAddrKey, "", "listen address for prometheus metrics; empty disables the listener")
	rootCmd.PersistentFlags().Duration(scanIntervalKey, time.Hour, "period of the automatic update scan")
	rootCmd.PersistentFlags().Duration(jobTimeoutKey, 0, "deadline applied to each queued job; 0 leaves jobs unbounded")

	for _, key := range []string{
		configFileKey,
		dataDirKey,
		flagsFileKey,
		manifestKey,
		fragmentsDirKey,
		metricsAddrKey,
		scanIntervalKey,
		jobTimeoutKey,
	} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)); err != nil {
			return nil, err
		}
	}

	rootCmd.AddCommand(
		daemon(fs),
		install(fs),
		uninstall(fs),
		update(fs),
		restart(fs),
		list(fs),
		logs(fs),
		svc(fs),
	)

	return rootCmd, nil
}

// initializes config from file, if available.
func initializeConfig() error {
	if viper.IsSet(configFileKey) {
		cfgFile := os.ExpandEnv(viper.GetString(configFileKey))
		viper.SetConfigFile(cfgFile)

		return viper.ReadInConfig()
	}

	return nil
}

func dataPath(elem ...string) string {
	return filepath.Join(append([]string{viper.GetString(dataDirKey)}, elem...)...)
}

func pathOr(key string, fallback string) string {
	if path := viper.GetString(key); path != "" {
		return path
	}
	return fallback
}

func initManager(fs afero.Fs) (*manager.Manager, error) {
	if err := npm.Detect(); err != nil {
		return nil, fmt.Errorf("%s cannot manage extensions without the package backend: %w", constant.AppName, err)
	}

	flags, err := config.ReadFlags(fs, pathOr(flagsFileKey, dataPath("flags.json")))
	if err != nil {
		return nil, err
	}

	var container backend.ContainerBackend
	if flags.ContainerEnabled() && docker.Detect() {
		container = docker.New()
	}

	return manager.New(manager.Config{
		Fs:           fs,
		DataDir:      viper.GetString(dataDirKey),
		LockPath:     dataPath(fmt.Sprintf(".%s.lock", constant.AppName)),
		MainManifest: pathOr(manifestKey, dataPath("node_modules", constant.RepositoryName, "manifest.json")),
		FragmentsDir: pathOr(fragmentsDirKey, dataPath("fragments")),
		Flags:        flags,
		Package:      npm.New(npm.Config{Dir: viper.GetString(dataDirKey)}),
		Container:    container,
		Fetch:        fetch.NewClient(),
		Notifier:     stderrNotifier{},

		AutoUpdateInterval: viper.GetDuration(scanIntervalKey),
		JobTimeout:         viper.GetDuration(jobTimeoutKey),
	})
}

// stderrNotifier is the CLI's error surface: the first failure of a queue
// session lands here.
type stderrNotifier struct{}

func (stderrNotifier) Notify(name string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", name, err)
}
