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

// Package dbtest opens migrated in-memory SQLite databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tomoncle/storefront/database"
	"github.com/tomoncle/storefront/models"
	"github.com/uptrace/bun"
)

var counter atomic.Int64

// DSN returns a private shared-cache in-memory SQLite DSN for t.
func DSN(t testing.TB) string {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, counter.Add(1))
}

// Config returns a sqlite config that migrates every registered table with
// foreign keys on startup.
func Config(t testing.TB) *database.Config {
	return &database.Config{
		Connection: database.ConnectionConfig{
			Type:           database.TypeSQLite,
			DSN:            DSN(t),
			ConnectTimeout: 5 * time.Second,
		},
		Migrate: database.DataMigrateConfig{
			EnableMigrateOnStartup: true,
			EnableForeignKey:       true,
		},
	}
}

// Open connects a fresh database, creates the storefront schema and closes
// it when the test ends.
func Open(t testing.TB) *bun.DB {
	t.Helper()
	models.Register()

	cfg := Config(t)
	manager := database.NewDatabaseManager(&cfg.Connection)
	ctx := context.Background()
	require.NoError(t, manager.Connect(ctx))
	t.Cleanup(func() { _ = manager.Disconnect() })
	require.NoError(t, manager.RunMigrations(ctx, cfg))
	return manager.GetDB()
}
