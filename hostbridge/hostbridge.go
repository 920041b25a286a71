// Copyright (c) 2026 The PDD Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package hostbridge defines the analysis host query interface spec.md §6
// names as a wrapper layer, not core: "two operations: query_text(command)
// returns the command's textual output, query_json(command) returns its
// parsed object form. Used only by the surrounding glue to fetch function
// metadata." The core pipeline never imports this package directly; it is
// the boundary the CLI and front-end glue use to pull function boundaries,
// addresses, and disassembly text out of the host process.
package hostbridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/klauspost/compress/s2"
)

// Host is the analysis host's raw query interface: a command string in,
// textual or JSON-shaped bytes out. A typical command is the host's
// function-info query (e.g. "afij" at an address); the exact command
// vocabulary is host-specific and opaque to this package.
type Host interface {
	QueryText(command string) (string, error)
	QueryJSON(command string) ([]byte, error)
}

// CachingHost wraps a Host, caching each command's QueryJSON response
// compressed with s2 so repeated queries for the same function during
// development/debugging don't re-parse large JSON blobs.
type CachingHost struct {
	Host Host

	mu    sync.Mutex
	cache map[string][]byte // command -> s2-compressed JSON
}

// NewCachingHost wraps h with an empty cache.
func NewCachingHost(h Host) *CachingHost {
	return &CachingHost{Host: h, cache: make(map[string][]byte)}
}

// QueryText passes through to the wrapped Host uncached; text responses are
// typically one-shot disassembly listings, not worth caching.
func (c *CachingHost) QueryText(command string) (string, error) {
	return c.Host.QueryText(command)
}

// QueryJSON returns command's JSON response, serving it from the compressed
// cache on a repeat call.
func (c *CachingHost) QueryJSON(command string) ([]byte, error) {
	c.mu.Lock()
	compressed, hit := c.cache[command]
	c.mu.Unlock()
	if hit {
		return decompress(compressed)
	}

	raw, err := c.Host.QueryJSON(command)
	if err != nil {
		return nil, fmt.Errorf("querying host for %q: %w", command, err)
	}

	compressed, err = compress(raw)
	if err != nil {
		return nil, fmt.Errorf("caching response for %q: %w", command, err)
	}
	c.mu.Lock()
	c.cache[command] = compressed
	c.mu.Unlock()
	return raw, nil
}

// Decode runs QueryJSON(command) and unmarshals the result into v.
func (c *CachingHost) Decode(command string, v any) error {
	raw, err := c.QueryJSON(command)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding response for %q: %w", command, err)
	}
	return nil
}

// Reset drops every cached entry, forcing the next QueryJSON for each
// command to hit the host again.
func (c *CachingHost) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string][]byte)
}

func compress(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := s2.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(compressed []byte) ([]byte, error) {
	r := s2.NewReader(bytes.NewReader(compressed))
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FunctionMetadata is the subset of a host's function-info response the
// core's surrounding glue needs to build a lifter.FunctionDescriptor:
// address bounds and a display name.
type FunctionMetadata struct {
	Addr  uint64 `json:"addr"`
	Name  string `json:"name"`
	Lower uint64 `json:"lower"`
	Upper uint64 `json:"upper"`
}
