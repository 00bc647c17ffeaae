// Licensed under the Apache License, Version 2.0 or the MIT license, at
// your option. You may not use this file except in compliance with one
// of these licenses. You may obtain copies of the licenses at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//     https://opensource.org/licenses/MIT

// Package cmd implements the edbctl commands.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/easydb-io/easydb-go/pkg/config"
	"github.com/easydb-io/easydb-go/pkg/easydb"
	"github.com/easydb-io/easydb-go/pkg/logger"
	"github.com/easydb-io/easydb-go/pkg/version"
)

var (
	cfgPath   string
	flagUUID  string
	flagToken string
	flagURL   string
	jsonOut   bool
	logLevel  string
	insecure  bool
	cert      string
)

// NewRoot returns the root command.
func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "edbctl",
		DisableAutoGenTag: true,
		Version:           version.Build(),
		Short:             "edbctl is the command line tool of easydb.io",
		SilenceUsage:      true,
	}
	RootCmdFlags(cmd)
	return cmd
}

// RootCmdFlags registers the subcommands and persistent flags on cmd.
// It is split from NewRoot so tests can mount the commands on their own
// root.
func RootCmdFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to easydb.toml (default ./easydb.toml)")
	cmd.PersistentFlags().StringVar(&flagUUID, "uuid", "", "database UUID, overrides the config file")
	cmd.PersistentFlags().StringVar(&flagToken, "token", "", "database token, overrides the config file")
	cmd.PersistentFlags().StringVarP(&flagURL, "url", "a", "", "service URL, overrides the config file (default "+config.DefaultURL+")")
	cmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "print results as raw JSON instead of YAML")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "the level of logging")
	cmd.PersistentFlags().BoolVar(&insecure, "insecure", false, "skip verifying the service certificate")
	cmd.PersistentFlags().StringVar(&cert, "cert", "", "additional trusted PEM certificate")
	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		v, err := config.Open(cfgPath)
		if err != nil {
			return err
		}
		// fold the config file and EASYDB_* environment into any flag the
		// user did not set; explicit flags keep their value
		if err := config.BindFlags(c.Flags(), v, config.EnvPrefix); err != nil {
			return err
		}
		return logger.Init(logger.Logging{Env: "prod", Level: logLevel})
	}
	cmd.AddCommand(newGetCmd(), newPutCmd(), newDeleteCmd(), newListCmd(),
		newClearCmd(), newInfoCmd(), newShellCmd(), newVersionCmd())
}

// PromptForToken reads the token silently from the terminal. It is a
// variable so tests can replace it.
var PromptForToken = promptForTokenFunc

func promptForTokenFunc() (string, error) {
	fmt.Print("Enter token: ")
	byteToken, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", errors.WithMessage(err, "read token")
	}
	return strings.TrimSpace(string(byteToken)), nil
}

// loadConfig assembles the effective config. BindFlags already folded the
// config file and the environment into the flag values, so flags beat
// environment variables, which beat the file. A known database with no
// token falls back to an interactive prompt.
func loadConfig() (*config.Config, error) {
	cfg := &config.Config{UUID: flagUUID, Token: flagToken, URL: flagURL}
	if cfg.UUID != "" && cfg.Token == "" {
		token, err := PromptForToken()
		if err != nil {
			return nil, err
		}
		cfg.Token = token
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newDBClient() (*easydb.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	opts := []easydb.Option{easydb.WithLogger(logger.GetLogger("edbctl"))}
	if insecure {
		opts = append(opts, easydb.WithInsecureTLS())
	}
	if cert != "" {
		opts = append(opts, easydb.WithRootCertificate(cert))
	}
	return easydb.New(cfg, opts...)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of edbctl",
		Run: func(_ *cobra.Command, _ []string) {
			version.Show("edbctl")
		},
	}
}
