// Licensed under the Apache License, Version 2.0 or the MIT license, at
// your option. You may not use this file except in compliance with one
// of these licenses. You may obtain copies of the licenses at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//     https://opensource.org/licenses/MIT

package cmd_test

import (
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/easydb-io/easydb-go/edbctl/internal/cmd"
	"github.com/easydb-io/easydb-go/pkg/test/mockdb"
)

var _ = Describe("Database commands", func() {
	var srv *mockdb.Server

	BeforeEach(func() {
		srv = mockdb.New(testUUID, testToken)
		DeferCleanup(srv.Close)
	})

	It("puts and gets a string", func() {
		out, err := execute("", connFlags(srv.BaseURL(), "put", "hello", "world")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("key hello is set"))

		out, err = execute("", connFlags(srv.BaseURL(), "get", "hello")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("world\n"))
	})

	It("gets an unset key as the empty string", func() {
		out, err := execute("", connFlags(srv.BaseURL(), "get", "missing")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("\n"))
	})

	It("prints raw JSON with -j", func() {
		srv.Seed(testUUID, "hello", json.RawMessage(`"world"`))
		out, err := execute("", connFlags(srv.BaseURL(), "get", "hello", "-j")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("\"world\"\n"))
	})

	It("puts a JSON payload from stdin", func() {
		out, err := execute(`{"a": "b", "c": ["d", "e"]}`,
			connFlags(srv.BaseURL(), "put", "goodbye", "-f", "-")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("key goodbye is set"))

		out, err = execute("", connFlags(srv.BaseURL(), "get", "goodbye")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("a: b"))
	})

	It("rejects a put without a value", func() {
		_, err := execute("", connFlags(srv.BaseURL(), "put", "hello")...)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a malformed JSON payload", func() {
		_, err := execute(`{"a": `, connFlags(srv.BaseURL(), "put", "hello", "-f", "-")...)
		Expect(err).To(HaveOccurred())
	})

	It("deletes a key", func() {
		srv.Seed(testUUID, "hello", json.RawMessage(`"world"`))
		out, err := execute("", connFlags(srv.BaseURL(), "delete", "hello")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("key hello is deleted"))
		Expect(srv.Values(testUUID)).To(BeEmpty())
	})

	It("lists the database as YAML", func() {
		srv.Seed(testUUID, "hello", json.RawMessage(`"world"`))
		srv.Seed(testUUID, "goodbye", json.RawMessage(`"earth"`))
		out, err := execute("", connFlags(srv.BaseURL(), "list")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("hello: world"))
		Expect(out).To(ContainSubstring("goodbye: earth"))
	})

	It("clears the database", func() {
		srv.Seed(testUUID, "hello", json.RawMessage(`"world"`))
		out, err := execute("", connFlags(srv.BaseURL(), "clear")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("database is cleared"))
		Expect(srv.Values(testUUID)).To(BeEmpty())
	})

	It("shows configuration without leaking the token", func() {
		out, err := execute("", connFlags(srv.BaseURL(), "info")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(testUUID))
		Expect(out).To(ContainSubstring("tokenSet: true"))
		Expect(out).NotTo(ContainSubstring(testToken))
	})

	It("fails cleanly on a wrong token", func() {
		_, err := execute("", "get", "hello",
			"-a", srv.BaseURL(), "--uuid", testUUID, "--token", "wrong")
		Expect(err).To(HaveOccurred())
	})

	It("reads credentials from a config file", func() {
		dir, err := os.MkdirTemp("", "edbctl")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { _ = os.RemoveAll(dir) })
		path := filepath.Join(dir, "easydb.toml")
		content := "UUID = \"" + testUUID + "\"\nToken = \"" + testToken + "\"\nURL = \"" + srv.BaseURL() + "\"\n"
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())

		srv.Seed(testUUID, "hello", json.RawMessage(`"world"`))
		out, err := execute("", "get", "hello", "-c", path)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("world\n"))
	})

	It("reads the URL from the environment when only flags carry credentials", func() {
		srv.Seed(testUUID, "hello", json.RawMessage(`"world"`))
		GinkgoT().Setenv("EASYDB_URL", srv.BaseURL())

		out, err := execute("", "get", "hello", "--uuid", testUUID, "--token", testToken)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("world\n"))
	})

	It("reads all credentials from the environment", func() {
		srv.Seed(testUUID, "hello", json.RawMessage(`"world"`))
		GinkgoT().Setenv("EASYDB_UUID", testUUID)
		GinkgoT().Setenv("EASYDB_TOKEN", testToken)
		GinkgoT().Setenv("EASYDB_URL", srv.BaseURL())

		out, err := execute("", "get", "hello")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("world\n"))
	})

	It("prefers flags over the environment", func() {
		srv.Seed(testUUID, "hello", json.RawMessage(`"world"`))
		GinkgoT().Setenv("EASYDB_TOKEN", "wrong")
		GinkgoT().Setenv("EASYDB_URL", srv.BaseURL())

		out, err := execute("", "get", "hello", "--uuid", testUUID, "--token", testToken)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("world\n"))
	})

	It("prompts for the token when it is missing", func() {
		restore := cmd.PromptForToken
		cmd.PromptForToken = func() (string, error) { return testToken, nil }
		DeferCleanup(func() { cmd.PromptForToken = restore })

		srv.Seed(testUUID, "hello", json.RawMessage(`"world"`))
		out, err := execute("", "get", "hello", "-a", srv.BaseURL(), "--uuid", testUUID)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("world\n"))
	})

	It("fails without any credentials", func() {
		_, err := execute("", "get", "hello", "-c", filepath.Join("testdata", "does-not-exist.toml"))
		Expect(err).To(HaveOccurred())
	})
})
