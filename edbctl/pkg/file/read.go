// Licensed under the Apache License, Version 2.0 or the MIT license, at
// your option. You may not use this file except in compliance with one
// of these licenses. You may obtain copies of the licenses at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//     https://opensource.org/licenses/MIT

// Package file provides utils to handle payload files.
package file

import (
	"bufio"
	"io"
	"os"
)

// Read returns the bytes of the given file, or of stdin in case that
// path is `-`.
func Read(path string, reader io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(bufio.NewReader(reader))
	}
	return os.ReadFile(path)
}
