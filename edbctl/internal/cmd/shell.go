// Licensed under the Apache License, Version 2.0 or the MIT license, at
// your option. You may not use this file except in compliance with one
// of these licenses. You may obtain copies of the licenses at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//     https://opensource.org/licenses/MIT

package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/easydb-io/easydb-go/pkg/easydb"
	"github.com/easydb-io/easydb-go/pkg/version"
)

const shellHelp = `Commands:
    get      Get a value by key
    put      Set a key to a value
    del      Delete an entry by key
    list     List all entries in the database
    clear    Delete all entries
    uuid     Print the database UUID
    token    Print the token
    url      Print the service URL
    help     Print this help
    exit     Exit the prompt`

func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "sh",
		Aliases: []string{"shell"},
		Version: version.Build(),
		Short:   "Open an interactive prompt",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cli, err := newDBClient()
			if err != nil {
				return err
			}
			return runShell(cmd, cli)
		},
	}
}

func runShell(cmd *cobra.Command, cli *easydb.Client) error {
	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	prompt := func(label string) (string, bool) {
		fmt.Fprint(out, label)
		if !in.Scan() {
			return "", false
		}
		return strings.TrimSpace(in.Text()), true
	}
	report := func(err error) {
		fmt.Fprintf(out, "error: %v\n", err)
	}

	fmt.Fprintln(out, "easydb.io interactive prompt")
	fmt.Fprintln(out, "----------------------------")
	fmt.Fprintln(out, shellHelp)
	fmt.Fprintln(out)

	for {
		line, ok := prompt("> ")
		if !ok {
			return in.Err()
		}
		switch line {
		case "get":
			key, ok := prompt("Key: ")
			if !ok {
				return in.Err()
			}
			raw, err := cli.GetJSON(ctx, key)
			if err != nil {
				report(err)
				continue
			}
			if err := printValue(out, raw); err != nil {
				report(err)
			}
		case "put":
			key, ok := prompt("Key: ")
			if !ok {
				return in.Err()
			}
			value, ok := prompt("Value: ")
			if !ok {
				return in.Err()
			}
			status, err := cli.Put(ctx, key, value)
			if err != nil {
				report(err)
				continue
			}
			fmt.Fprintf(out, "Code: %d\n", status)
		case "del":
			key, ok := prompt("Key: ")
			if !ok {
				return in.Err()
			}
			status, err := cli.Delete(ctx, key)
			if err != nil {
				report(err)
				continue
			}
			fmt.Fprintf(out, "Code: %d\n", status)
		case "list":
			entries, err := cli.ListJSON(ctx)
			if err != nil {
				report(err)
				continue
			}
			printEntries(out, entries)
		case "clear":
			if err := cli.Clear(ctx); err != nil {
				report(err)
				continue
			}
			fmt.Fprintln(out, "Success")
		case "uuid":
			fmt.Fprintln(out, cli.UUID())
		case "token":
			fmt.Fprintln(out, cli.Token())
		case "url":
			fmt.Fprintln(out, cli.URL())
		case "help":
			fmt.Fprintln(out, shellHelp)
		case "exit":
			return nil
		case "":
		default:
			fmt.Fprintln(out, "Invalid command.")
		}
	}
}

func printEntries(out io.Writer, entries map[string]json.RawMessage) {
	for k, v := range entries {
		var s string
		if json.Unmarshal(v, &s) == nil {
			fmt.Fprintf(out, "%s: %s\n", k, s)
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", k, v)
	}
}
