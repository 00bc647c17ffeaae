// Licensed under the Apache License, Version 2.0 or the MIT license, at
// your option. You may not use this file except in compliance with one
// of these licenses. You may obtain copies of the licenses at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//     https://opensource.org/licenses/MIT

// Package mockdb provides an in-process easydb.io double for tests.
package mockdb

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// Server mimics the easydb.io HTTP surface: one database per UUID,
// authenticated by a token header.
type Server struct {
	*httptest.Server
	databases map[string]map[string]json.RawMessage
	tokens    map[string]string
	latency   time.Duration
	failNext  int
	mu        sync.Mutex
}

// New starts a mock service with a single database identified by dbUUID
// and guarded by token.
func New(dbUUID, token string) *Server {
	s := newServer(dbUUID, token)
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// NewTLS is New but serving HTTPS with a self-signed certificate.
func NewTLS(dbUUID, token string) *Server {
	s := newServer(dbUUID, token)
	s.Server = httptest.NewTLSServer(http.HandlerFunc(s.handle))
	return s
}

func newServer(dbUUID, token string) *Server {
	return &Server{
		databases: map[string]map[string]json.RawMessage{
			dbUUID: {},
		},
		tokens: map[string]string{dbUUID: token},
	}
}

// BaseURL returns the URL clients should use in place of
// https://app.easydb.io/database/.
func (s *Server) BaseURL() string {
	return s.URL + "/"
}

// Seed stores raw JSON under key without going through HTTP.
func (s *Server) Seed(dbUUID, key string, value json.RawMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.databases[dbUUID][key] = value
}

// Values returns a copy of the database content.
func (s *Server) Values(dbUUID string) map[string]json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]json.RawMessage, len(s.databases[dbUUID]))
	for k, v := range s.databases[dbUUID] {
		out[k] = v
	}
	return out
}

// FailNext makes the next n requests answer 500.
func (s *Server) FailNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = n
}

// SetLatency delays every response by d.
func (s *Server) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	latency := s.latency
	fail := s.failNext > 0
	if fail {
		s.failNext--
	}
	s.mu.Unlock()
	if latency > 0 {
		time.Sleep(latency)
	}
	if fail {
		http.Error(w, "simulated outage", http.StatusInternalServerError)
		return
	}

	parts := strings.SplitN(strings.Trim(r.URL.Path, "/"), "/", 2)
	dbUUID := parts[0]

	s.mu.Lock()
	defer s.mu.Unlock()
	db, ok := s.databases[dbUUID]
	if !ok {
		http.Error(w, "unknown database", http.StatusNotFound)
		return
	}
	if r.Header.Get("token") != s.tokens[dbUUID] {
		http.Error(w, "bad token", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if len(parts) == 1 {
		// whole-database listing
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		_ = json.NewEncoder(w).Encode(db)
		return
	}

	key := parts[1]
	switch r.Method {
	case http.MethodGet:
		v, ok := db[key]
		if !ok {
			// the real service answers the empty JSON string for
			// unknown keys
			v = json.RawMessage(`""`)
		}
		_, _ = w.Write(v)
	case http.MethodPost:
		var payload struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "malformed body", http.StatusBadRequest)
			return
		}
		db[key] = payload.Value
		_, _ = w.Write([]byte(`""`))
	case http.MethodDelete:
		delete(db, key)
		_, _ = w.Write([]byte(`""`))
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
