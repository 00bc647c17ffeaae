// Licensed under the Apache License, Version 2.0 or the MIT license, at
// your option. You may not use this file except in compliance with one
// of these licenses. You may obtain copies of the licenses at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//     https://opensource.org/licenses/MIT

package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/easydb-io/easydb-go/edbctl/pkg/file"
	"github.com/easydb-io/easydb-go/pkg/version"
)

var filePath string

func bindFileFlag(commands ...*cobra.Command) {
	for _, c := range commands {
		c.Flags().StringVarP(&filePath, "file", "f", "", "JSON payload file, - for stdin")
	}
}

func checkStatus(op, key string, status int) error {
	if status >= http.StatusBadRequest {
		return errors.Errorf("%s %q: service answered status %d", op, key, status)
	}
	return nil
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "get KEY",
		Version: version.Build(),
		Short:   "Get the value stored under a key",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := newDBClient()
			if err != nil {
				return err
			}
			raw, err := cli.GetJSON(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printValue(cmd.OutOrStdout(), raw)
		},
	}
}

func newPutCmd() *cobra.Command {
	putCmd := &cobra.Command{
		Use:     "put KEY [VALUE]",
		Version: version.Build(),
		Short:   "Set a key to a value",
		Long: "Set a key to a value. The value argument is stored as a string;\n" +
			"use -f to store an arbitrary JSON payload from a file or stdin.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := newDBClient()
			if err != nil {
				return err
			}
			key := args[0]
			var status int
			switch {
			case filePath != "":
				payload, err := file.Read(filePath, cmd.InOrStdin())
				if err != nil {
					return err
				}
				if !json.Valid(payload) {
					return errors.Errorf("%s: payload is not valid JSON", filePath)
				}
				status, err = cli.PutJSON(cmd.Context(), key, json.RawMessage(payload))
				if err != nil {
					return err
				}
			case len(args) == 2:
				if status, err = cli.Put(cmd.Context(), key, args[1]); err != nil {
					return err
				}
			default:
				return errors.New("either a VALUE argument or -f is required")
			}
			if err := checkStatus("put", key, status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "key %s is set\n", key)
			return nil
		},
	}
	bindFileFlag(putCmd)
	return putCmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete KEY",
		Aliases: []string{"del"},
		Version: version.Build(),
		Short:   "Delete a key",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := newDBClient()
			if err != nil {
				return err
			}
			status, err := cli.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := checkStatus("delete", args[0], status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "key %s is deleted\n", args[0])
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Version: version.Build(),
		Short:   "List all entries in the database",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cli, err := newDBClient()
			if err != nil {
				return err
			}
			entries, err := cli.ListJSON(cmd.Context())
			if err != nil {
				return err
			}
			return printListing(cmd.OutOrStdout(), entries)
		},
	}
}

func newClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "clear",
		Version: version.Build(),
		Short:   "Delete all entries in the database",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cli, err := newDBClient()
			if err != nil {
				return err
			}
			if err := cli.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "database is cleared")
			return nil
		},
	}
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "info",
		Version: version.Build(),
		Short:   "Show the effective database configuration",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			// the token itself stays out of the output
			body, err := json.Marshal(map[string]any{
				"uuid":     cfg.UUID,
				"url":      cfg.URL,
				"tokenSet": cfg.Token != "",
			})
			if err != nil {
				return err
			}
			if jsonOut {
				fmt.Fprintln(cmd.OutOrStdout(), string(body))
				return nil
			}
			return printYAML(cmd.OutOrStdout(), body)
		},
	}
}
