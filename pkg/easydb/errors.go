// Licensed under the Apache License, Version 2.0 or the MIT license, at
// your option. You may not use this file except in compliance with one
// of these licenses. You may obtain copies of the licenses at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//     https://opensource.org/licenses/MIT

package easydb

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyKey is returned when an operation is attempted with an
	// empty key.
	ErrEmptyKey = errors.New("key must not be empty")

	// ErrNotString is returned by Get and List when a stored value is
	// valid JSON but not a JSON string.
	ErrNotString = errors.New("value is not a JSON string")
)

// APIError is returned when the service answers a read with a non-2xx
// status.
type APIError struct {
	Body       string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("easydb: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("easydb: unexpected status %d: %s", e.StatusCode, e.Body)
}

const apiErrorBodyLimit = 256

func newAPIError(statusCode int, body []byte) *APIError {
	b := string(body)
	if len(b) > apiErrorBodyLimit {
		b = b[:apiErrorBodyLimit] + "..."
	}
	return &APIError{StatusCode: statusCode, Body: b}
}
