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

package hostbridge

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	textCalls int
	jsonCalls int
}

func (f *fakeHost) QueryText(command string) (string, error) {
	f.textCalls++
	return "text:" + command, nil
}

func (f *fakeHost) QueryJSON(command string) ([]byte, error) {
	f.jsonCalls++
	return []byte(fmt.Sprintf(`{"addr":4096,"name":%q,"lower":4096,"upper":4352}`, command)), nil
}

func TestQueryJSONCachesAcrossCalls(t *testing.T) {
	fh := &fakeHost{}
	c := NewCachingHost(fh)

	first, err := c.QueryJSON("afij")
	require.NoError(t, err)
	second, err := c.QueryJSON("afij")
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, fh.jsonCalls)
}

func TestQueryTextNeverCaches(t *testing.T) {
	fh := &fakeHost{}
	c := NewCachingHost(fh)

	_, err := c.QueryText("pd 10")
	require.NoError(t, err)
	_, err = c.QueryText("pd 10")
	require.NoError(t, err)

	require.Equal(t, 2, fh.textCalls)
}

func TestDecodeUnmarshalsIntoFunctionMetadata(t *testing.T) {
	fh := &fakeHost{}
	c := NewCachingHost(fh)

	var meta FunctionMetadata
	require.NoError(t, c.Decode("afij", &meta))
	require.Equal(t, uint64(4096), meta.Addr)
	require.Equal(t, "afij", meta.Name)
}

func TestResetForcesRequery(t *testing.T) {
	fh := &fakeHost{}
	c := NewCachingHost(fh)

	_, err := c.QueryJSON("afij")
	require.NoError(t, err)
	c.Reset()
	_, err = c.QueryJSON("afij")
	require.NoError(t, err)

	require.Equal(t, 2, fh.jsonCalls)
}
