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

package repository

import (
	"database/sql"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/storefront/models"
	"github.com/tomoncle/storefront/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/schema"
)

func offlineDB(t *testing.T, dialect schema.Dialect) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db := bun.NewDB(sqldb, dialect)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func productBuilder(db *bun.DB) *queryBuilder {
	return &queryBuilder{
		table:   db.Table(reflect.TypeOf((*models.Product)(nil)).Elem()),
		dialect: db.Dialect().Name(),
	}
}

func render(t *testing.T, db *bun.DB, ps predicates) string {
	t.Helper()
	return ps.applySelect(db.NewSelect().Model((*models.Product)(nil))).String()
}

func TestFilterRendering(t *testing.T) {
	db := offlineDB(t, sqlitedialect.New())
	b := productBuilder(db)

	cases := []struct {
		name   string
		filter types.Filter
		want   string
	}{
		{"equals", types.Equals("product_name", "lamp"), `"product_name" = 'lamp'`},
		{"equals coerces integers", types.Equals("base_quantity", "3"), `"base_quantity" = 3`},
		{"in", types.In("id", "1", "2"), `"id" IN (1, 2)`},
		{"range", types.Range("base_price", types.OpLte, "9.5"), `"base_price" <= 9.5`},
		{"is null", types.IsNull("deleted_at"), `"deleted_at" IS NULL`},
		{"date", types.Range("created_at", types.OpGte, "2024-10-01").OnDate(), `DATE("created_at") >= '2024-10-01'`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := b.filter(tc.filter)
			require.NoError(t, err)
			assert.Contains(t, render(t, db, predicates{p}), tc.want)
		})
	}
}

func TestSearchRenderingPerDialect(t *testing.T) {
	search := &types.Search{Columns: []string{"product_name", "id"}, Term: "42"}

	sqlite := offlineDB(t, sqlitedialect.New())
	p, ok, err := productBuilder(sqlite).search(search)
	require.NoError(t, err)
	require.True(t, ok)
	got := render(t, sqlite, predicates{p})
	assert.Contains(t, got, `(LOWER("product_name") LIKE LOWER('%42%') OR "id" = 42)`)

	pg := offlineDB(t, pgdialect.New())
	p, ok, err = productBuilder(pg).search(search)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, render(t, pg, predicates{p}), `CAST("product_name" AS TEXT) ILIKE '%42%'`)

	_, ok, err = productBuilder(sqlite).search(&types.Search{Columns: []string{"id"}, Term: "lamp"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOrderRendering(t *testing.T) {
	db := offlineDB(t, sqlitedialect.New())
	b := productBuilder(db)

	order, err := b.order(nil, "id", true)
	require.NoError(t, err)
	require.Len(t, order, 1)
	assert.Equal(t, "? DESC", order[0].query)

	order, err = b.order(nil, "id", false)
	require.NoError(t, err)
	assert.Empty(t, order)

	order, err = b.order([]types.SortKey{{Column: "base_price", Direction: types.Desc}, {Column: "id"}}, "id", true)
	require.NoError(t, err)
	var queries []string
	for _, o := range order {
		queries = append(queries, o.query)
	}
	assert.Equal(t, []string{"? DESC", "? ASC", "? ASC"}, queries)
}

func TestConditionsRendering(t *testing.T) {
	db := offlineDB(t, sqlitedialect.New())
	ps, err := productBuilder(db).conditions(types.Conditions{"category_id": nil, "base_quantity": "2"})
	require.NoError(t, err)
	got := render(t, db, ps)
	assert.Contains(t, got, `("base_quantity" = 2) AND ("category_id" IS NULL)`)
}

func TestCoerceRejectsMismatchedValues(t *testing.T) {
	db := offlineDB(t, sqlitedialect.New())
	b := productBuilder(db)
	for _, f := range []types.Filter{
		types.Equals("base_quantity", "x"),
		types.Range("base_price", types.OpGt, "cheap"),
		types.In("id"),
	} {
		_, err := b.filter(f)
		assert.True(t, errors.Is(err, ErrInvalidQuery), f.String())
	}
}

func TestNotFoundErrorMessage(t *testing.T) {
	err := &NotFoundError{Table: "products", IDs: []int64{3, 4}}
	assert.Equal(t, "Record(s) with ID(s) 3, 4 not found", err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Record not found in carts", (&NotFoundError{Table: "carts"}).Error())
}
