// Licensed under the Apache License, Version 2.0 or the MIT license, at
// your option. You may not use this file except in compliance with one
// of these licenses. You may obtain copies of the licenses at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//     https://opensource.org/licenses/MIT

// Package easydb is a client for the easydb.io hosted key-value database.
//
// A database is addressed by its UUID and authenticated with a token, both
// usually loaded from easydb.toml:
//
//	cfg, err := config.Load("")
//	cli, err := easydb.New(cfg)
//	status, err := cli.Put(ctx, "hello", "world")
//	v, err := cli.Get(ctx, "hello")
//
// The service is eventually consistent: a read immediately after a write
// may return the previous value.
package easydb

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/easydb-io/easydb-go/pkg/cache"
	"github.com/easydb-io/easydb-go/pkg/config"
	"github.com/easydb-io/easydb-go/pkg/logger"
)

// tokenHeader authenticates every request against the database.
const tokenHeader = "token"

// Client talks to one easydb.io database. Safe for concurrent use.
type Client struct {
	rest  *resty.Client
	l     *logger.Logger
	cache *cache.Cache
	cfg   config.Config
	dbURL string
}

// New creates a Client from cfg. The config is validated; a malformed
// URL or an empty UUID/Token is rejected here rather than on first use.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	l := o.l
	if l == nil {
		l = logger.GetLogger("client")
	}
	if uuid.Validate(cfg.UUID) != nil {
		// the service accepts any identifier that forms a URL segment,
		// canonical or not
		l.Warn().Str("uuid", cfg.UUID).Msg("database id is not a canonical UUID")
	}

	var rc *resty.Client
	if o.httpClient != nil {
		rc = resty.NewWithClient(o.httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetTimeout(o.timeout).
		SetHeader(tokenHeader, cfg.Token).
		SetRetryCount(o.retryCount).
		SetRetryWaitTime(defaultRetryWait).
		SetRetryMaxWaitTime(defaultRetryMaxWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	if o.insecureTLS {
		rc.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec // opt-in for self-signed endpoints
	}
	if o.rootCert != "" {
		rc.SetRootCertificate(o.rootCert)
	}

	c := &Client{
		cfg:   *cfg,
		dbURL: strings.TrimRight(cfg.URL, "/") + "/" + url.PathEscape(cfg.UUID),
		rest:  rc,
		l:     l,
	}
	if o.cacheSize > 0 {
		rdc, err := cache.New(o.cacheSize, o.cacheTTL)
		if err != nil {
			return nil, err
		}
		c.cache = rdc
	}
	return c, nil
}

// FromUUIDToken creates a Client from a UUID, a token and an optional
// URL. An empty url falls back to the service default.
func FromUUIDToken(dbUUID, token, dbURL string, opts ...Option) (*Client, error) {
	return New(&config.Config{UUID: dbUUID, Token: token, URL: dbURL}, opts...)
}

// UUID returns the configured database UUID.
func (c *Client) UUID() string { return c.cfg.UUID }

// Token returns the configured token.
func (c *Client) Token() string { return c.cfg.Token }

// URL returns the configured base URL.
func (c *Client) URL() string { return c.cfg.URL }

func (c *Client) itemURL(key string) string {
	return c.dbURL + "/" + url.PathEscape(key)
}

// GetJSON fetches the raw JSON value stored under key. Keys that were
// never set, or were deleted, yield the JSON string "".
func (c *Client) GetJSON(ctx context.Context, key string) (json.RawMessage, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			c.l.Debug().Str("key", key).Msg("cache hit")
			return v, nil
		}
	}
	resp, err := c.rest.R().SetContext(ctx).Get(c.itemURL(key))
	if err != nil {
		return nil, errors.WithMessagef(err, "get %q", key)
	}
	if resp.StatusCode() >= 400 {
		return nil, newAPIError(resp.StatusCode(), resp.Body())
	}
	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 {
		// the service answers an empty body for keys it has no data for
		body = []byte(`""`)
	}
	if !json.Valid(body) {
		return nil, errors.Errorf("get %q: response is not valid JSON", key)
	}
	v := json.RawMessage(body)
	if c.cache != nil {
		c.cache.Set(key, v)
	}
	return v, nil
}

// Get fetches the string stored under key. It fails with ErrNotString
// when the stored value is not a JSON string. Unset keys return "".
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	raw, err := c.GetJSON(ctx, key)
	if err != nil {
		return "", err
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return "", errors.WithMessagef(ErrNotString, "key %q", key)
	}
	return s, nil
}

// GetInto fetches the value stored under key and unmarshals it into v.
func (c *Client) GetInto(ctx context.Context, key string, v any) error {
	raw, err := c.GetJSON(ctx, key)
	if err != nil {
		return err
	}
	return errors.WithMessagef(json.Unmarshal(raw, v), "key %q", key)
}

type putPayload struct {
	Value any `json:"value"`
}

// PutJSON stores any JSON-marshalable value under key and returns the
// service's status code.
func (c *Client) PutJSON(ctx context.Context, key string, value any) (int, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(putPayload{Value: value}).
		Post(c.itemURL(key))
	if err != nil {
		return 0, errors.WithMessagef(err, "put %q", key)
	}
	if c.cache != nil {
		c.cache.Invalidate(key)
	}
	c.l.Debug().Str("key", key).Int("status", resp.StatusCode()).Msg("put")
	return resp.StatusCode(), nil
}

// Put stores a string under key and returns the service's status code.
func (c *Client) Put(ctx context.Context, key, value string) (int, error) {
	return c.PutJSON(ctx, key, value)
}

// Delete removes key and returns the service's status code. Deleting a
// key that does not exist is not an error.
func (c *Client) Delete(ctx context.Context, key string) (int, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		Delete(c.itemURL(key))
	if err != nil {
		return 0, errors.WithMessagef(err, "delete %q", key)
	}
	if c.cache != nil {
		c.cache.Invalidate(key)
	}
	c.l.Debug().Str("key", key).Int("status", resp.StatusCode()).Msg("delete")
	return resp.StatusCode(), nil
}

// ListJSON fetches every entry in the database as raw JSON values.
func (c *Client) ListJSON(ctx context.Context) (map[string]json.RawMessage, error) {
	resp, err := c.rest.R().SetContext(ctx).Get(c.dbURL)
	if err != nil {
		return nil, errors.WithMessage(err, "list")
	}
	if resp.StatusCode() >= 400 {
		return nil, newAPIError(resp.StatusCode(), resp.Body())
	}
	out := make(map[string]json.RawMessage)
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, errors.WithMessage(err, "list: decode response")
	}
	return out, nil
}

// List fetches every entry in the database. It fails with ErrNotString
// when any stored value is not a JSON string; the error names the key.
func (c *Client) List(ctx context.Context) (map[string]string, error) {
	raw, err := c.ListJSON(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		var s string
		if json.Unmarshal(v, &s) != nil {
			return nil, errors.WithMessagef(ErrNotString, "key %q, value %s", k, v)
		}
		out[k] = s
	}
	return out, nil
}

// Clear deletes every key in the database. Individual delete failures
// do not stop the sweep; they are combined into the returned error.
func (c *Client) Clear(ctx context.Context) error {
	raw, err := c.ListJSON(ctx)
	if err != nil {
		return err
	}
	var errs error
	for k := range raw {
		if _, err := c.Delete(ctx, k); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if c.cache != nil {
		c.cache.Purge()
	}
	return errs
}
