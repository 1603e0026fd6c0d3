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

package storefront_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/storefront"
	"github.com/tomoncle/storefront/database"
	"github.com/tomoncle/storefront/internal/dbtest"
	"github.com/tomoncle/storefront/models"
	"github.com/tomoncle/storefront/repository"
	"github.com/tomoncle/storefront/types"
	"github.com/uptrace/bun"
)

func TestService(t *testing.T) {
	require.Error(t, storefront.Transaction(context.Background(), func(context.Context, bun.Tx) error { return nil }))

	models.Register()
	// Declared before the connection exists.
	users := storefront.NewService(models.Users)

	_, err := database.InitDB(context.Background(), dbtest.Config(t))
	require.NoError(t, err)
	defer func() { _ = database.CloseDB() }()

	ctx := context.Background()
	saved, err := users.Save(ctx,
		&models.User{Username: "ada", Email: "ada@example.com", Password: "x"},
		&models.User{Username: "alan", Email: "alan@example.com", Password: "x", Role: models.RoleAdmin},
	)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, models.RoleUser, saved[0].Role)

	got, err := users.Get(ctx, saved[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "alan", got.Username)

	page, err := users.Page(ctx, types.NewQuerySpec(types.Equals("role", models.RoleAdmin)))
	require.NoError(t, err)
	assert.Equal(t, 1, page.PaginationDetails.TotalNumOfItems)

	updated, err := users.Update(ctx, types.Conditions{"username": "ada"}, types.Patch{"avatar": "ada.png"})
	require.NoError(t, err)
	assert.Equal(t, "ada.png", updated.Avatar)

	boom := errors.New("boom")
	err = storefront.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := users.SaveWithTx(ctx, tx, &models.User{Username: "grace", Email: "grace@example.com", Password: "x"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	_, err = users.Find(ctx, types.Conditions{"username": "grace"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, users.Delete(ctx, []int64{saved[0].ID}))
	count, err := users.SelectBuilder().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
