// Licensed under the Apache License, Version 2.0 or the MIT license, at
// your option. You may not use this file except in compliance with one
// of these licenses. You may obtain copies of the licenses at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//     https://opensource.org/licenses/MIT

package easydb

import (
	"net/http"
	"time"

	"github.com/easydb-io/easydb-go/pkg/logger"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultRetryCount   = 3
	defaultRetryWait    = 500 * time.Millisecond
	defaultRetryMaxWait = 5 * time.Second
)

type options struct {
	l           *logger.Logger
	httpClient  *http.Client
	rootCert    string
	timeout     time.Duration
	retryCount  int
	cacheSize   int
	cacheTTL    time.Duration
	insecureTLS bool
}

func defaultOptions() options {
	return options{
		timeout:    defaultTimeout,
		retryCount: defaultRetryCount,
	}
}

// Option customizes a Client.
type Option func(*options)

// WithLogger sets the logger the client emits events through.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.l = l }
}

// WithTimeout bounds each request attempt.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRetry sets how many times a failed request is retried. Zero
// disables retries.
func WithRetry(count int) Option {
	return func(o *options) { o.retryCount = count }
}

// WithCache enables a read cache of at most size entries, each served
// for at most ttl. Writes and deletes through this client invalidate
// their key; writes from elsewhere become visible after ttl.
func WithCache(size int, ttl time.Duration) Option {
	return func(o *options) {
		o.cacheSize = size
		o.cacheTTL = ttl
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithInsecureTLS skips verification of the service certificate. Meant
// for self-hosted instances with self-signed certificates.
func WithInsecureTLS() Option {
	return func(o *options) { o.insecureTLS = true }
}

// WithRootCertificate trusts the PEM certificate at path in addition to
// the system roots.
func WithRootCertificate(path string) Option {
	return func(o *options) { o.rootCert = path }
}
