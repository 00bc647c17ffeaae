// Licensed under the Apache License, Version 2.0 or the MIT license, at
// your option. You may not use this file except in compliance with one
// of these licenses. You may obtain copies of the licenses at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//     https://opensource.org/licenses/MIT

package cmd_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/easydb-io/easydb-go/pkg/test/mockdb"
)

var _ = Describe("Interactive shell", func() {
	var srv *mockdb.Server

	BeforeEach(func() {
		srv = mockdb.New(testUUID, testToken)
		DeferCleanup(srv.Close)
	})

	It("runs a put/get/list session", func() {
		session := "put\nhello\nworld\nget\nhello\nlist\nexit\n"
		out, err := execute(session, connFlags(srv.BaseURL(), "sh")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("easydb.io interactive prompt"))
		Expect(out).To(ContainSubstring("Code: 200"))
		Expect(out).To(ContainSubstring("world"))
		Expect(out).To(ContainSubstring("hello: world"))
	})

	It("deletes and clears", func() {
		srv.Seed(testUUID, "hello", json.RawMessage(`"world"`))
		srv.Seed(testUUID, "goodbye", json.RawMessage(`"earth"`))
		session := "del\nhello\nclear\nexit\n"
		out, err := execute(session, connFlags(srv.BaseURL(), "sh")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Code: 200"))
		Expect(out).To(ContainSubstring("Success"))
		Expect(srv.Values(testUUID)).To(BeEmpty())
	})

	It("prints connection details", func() {
		session := "uuid\nurl\nexit\n"
		out, err := execute(session, connFlags(srv.BaseURL(), "sh")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring(testUUID))
		Expect(out).To(ContainSubstring(srv.BaseURL()))
	})

	It("rejects unknown commands and keeps going", func() {
		session := "frobnicate\nexit\n"
		out, err := execute(session, connFlags(srv.BaseURL(), "sh")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Invalid command."))
	})

	It("exits cleanly on EOF", func() {
		out, err := execute("list\n", connFlags(srv.BaseURL(), "sh")...)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("easydb.io interactive prompt"))
	})
})
