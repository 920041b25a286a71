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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultHasSaneOutDefaults(t *testing.T) {
	cfg := Default()
	require.Equal(t, "\n", cfg.Out.Newline)
	require.Equal(t, 4, cfg.Out.TabSize)
	require.Equal(t, ThemeNone, cfg.Out.Theme)
	require.False(t, cfg.Opt.NoAlias)
}

func TestLoadOverridesOnlyMentionedFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pdd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("opt:\n  noalias: true\ncflow:\n  converge: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, cfg.Opt.NoAlias)
	require.True(t, cfg.Cflow.Converge)
	require.Equal(t, "\n", cfg.Out.Newline) // untouched default survives
}

func TestOptOptionsAndCflowOptionsAdapt(t *testing.T) {
	cfg := Default()
	cfg.Opt.NoAlias = true
	cfg.Cflow.Converge = true

	require.True(t, cfg.OptOptions().NoAlias)
	require.True(t, cfg.CflowOptions().Converge)
}
