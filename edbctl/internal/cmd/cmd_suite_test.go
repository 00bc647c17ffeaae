// Licensed under the Apache License, Version 2.0 or the MIT license, at
// your option. You may not use this file except in compliance with one
// of these licenses. You may obtain copies of the licenses at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//     https://opensource.org/licenses/MIT

package cmd_test

import (
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"
	"github.com/zenizh/go-capturer"

	"github.com/easydb-io/easydb-go/edbctl/internal/cmd"
)

func TestCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "edbctl Suite")
}

const (
	testUUID  = "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"
	testToken = "ffffffff-0000-1111-2222-333333333333"
)

// execute mounts the edbctl commands on a fresh root, runs them with
// args and an optional stdin, and captures stdout.
func execute(in string, args ...string) (string, error) {
	rootCmd := &cobra.Command{Use: "root"}
	cmd.RootCmdFlags(rootCmd)
	rootCmd.SetArgs(args)
	if in != "" {
		rootCmd.SetIn(strings.NewReader(in))
	}
	var execErr error
	out := capturer.CaptureStdout(func() {
		execErr = rootCmd.Execute()
	})
	return out, execErr
}

func connFlags(addr string, extra ...string) []string {
	return append(extra,
		"-a", addr,
		"--uuid", testUUID,
		"--token", testToken,
	)
}
