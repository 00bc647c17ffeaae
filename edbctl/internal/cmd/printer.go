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
	"io"

	"sigs.k8s.io/yaml"
)

// printValue writes a single stored value: plain text for JSON strings,
// YAML for anything structured, raw JSON when -j is set.
func printValue(w io.Writer, raw json.RawMessage) error {
	if jsonOut {
		fmt.Fprintln(w, string(raw))
		return nil
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		fmt.Fprintln(w, s)
		return nil
	}
	return printYAML(w, raw)
}

// printListing writes a whole-database listing.
func printListing(w io.Writer, entries map[string]json.RawMessage) error {
	b, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if jsonOut {
		fmt.Fprintln(w, string(b))
		return nil
	}
	return printYAML(w, b)
}

func printYAML(w io.Writer, jsonBody []byte) error {
	yamlResult, err := yaml.JSONToYAML(jsonBody)
	if err != nil {
		return err
	}
	fmt.Fprint(w, string(yamlResult))
	return nil
}
