// Licensed under the Apache License, Version 2.0 or the MIT license, at
// your option. You may not use this file except in compliance with one
// of these licenses. You may obtain copies of the licenses at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//     https://opensource.org/licenses/MIT

// Package version embeds versioning details from git tags and branches
// into the importing binary.
package version

import (
	"fmt"
	"strings"
)

// build is populated at build time using -ldflags -X.
var build string

// Build shows the raw build information.
func Build() string {
	return build
}

// Show prints the binary's version information.
func Show(binaryName string) {
	fmt.Println(binaryName + " " + Parse())
}

// Parse returns the parsed version information from the raw git label.
func Parse() string {
	// build syntax:
	//   <release tag>-<commits since release tag>-g<commit hash>-<branch name>
	v := strings.SplitN(build, "-", 4)
	// Go module tags should include the 'v'
	if len(v[0]) > 1 && strings.ToLower(v[0])[0] != 'v' {
		v[0] = "v" + v[0]
	}
	switch {
	case len(v) != 4:
		// built without the make tooling
		return "v0.0.0-unofficial"
	case v[1] != "0":
		// built from a non release commit point; the commit tag carries a
		// "-g" ("git") prefix which is dropped when printing
		return fmt.Sprintf("%s-%s (%s, +%s)", v[0], v[3], v[2][1:], v[1])
	case v[3] != "main":
		// specific branch release build
		return fmt.Sprintf("%s-%s", v[0], v[3])
	default:
		return v[0]
	}
}
