/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/storefront/database"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "storefront.yaml")
	content := fmt.Sprintf(`connection:
  type: sqlite
  dsn: file:%s
  connect_timeout: 5s
migrate:
  enable_foreign_key: true
`, filepath.Join(dir, "shop.db"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunMigrateThenHealth(t *testing.T) {
	cfg := writeConfig(t)
	ctx := context.Background()

	require.NoError(t, run(ctx, []string{"-c", cfg, "migrate"}, &bytes.Buffer{}))

	var out bytes.Buffer
	require.NoError(t, run(ctx, []string{"-c", cfg, "health"}, &out))
	assert.Contains(t, out.String(), `"healthy": true`)
	assert.Nil(t, database.GetDB(), "the command closes the global connection")
}

func TestRunForeignKeyCommands(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, run(ctx, []string{"fk-validate"}, &bytes.Buffer{}))

	out := filepath.Join(t.TempDir(), "fk", "foreign_keys.yaml")
	require.NoError(t, run(ctx, []string{"-out", out, "fk-export"}, &bytes.Buffer{}))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "reference_table: products")
}

func TestRunRejectsBadInvocations(t *testing.T) {
	ctx := context.Background()
	assert.Error(t, run(ctx, nil, &bytes.Buffer{}))
	assert.ErrorContains(t, run(ctx, []string{"teleport"}, &bytes.Buffer{}), "unknown command")
	assert.ErrorContains(t, run(ctx, []string{"-c", filepath.Join(t.TempDir(), "missing.yaml"), "migrate"}, &bytes.Buffer{}), "failed to read config file")
}
