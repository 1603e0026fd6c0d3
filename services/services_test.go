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

package services_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomoncle/storefront/database"
	"github.com/tomoncle/storefront/internal/dbtest"
	"github.com/tomoncle/storefront/models"
	"github.com/tomoncle/storefront/repository"
	"github.com/tomoncle/storefront/services"
	"github.com/tomoncle/storefront/types"
	"github.com/uptrace/bun"
)

type fixture struct {
	db       *bun.DB
	svc      *services.Services
	user     *models.User
	product  *models.Product
	variants []*models.ProductVariant
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := dbtest.Open(t)
	f := &fixture{db: db, svc: services.New(db)}

	var err error
	f.user, err = repository.New(db, models.Users).CreateOne(ctx, &models.User{Username: "shopper", Email: "shopper@example.com", Password: "x"})
	require.NoError(t, err)
	f.product, err = repository.New(db, models.Products).CreateOne(ctx, &models.Product{ProductName: "lamp", BasePrice: 20, BaseQuantity: 3, BaseTaxRate: 10, BaseTaxAmount: 2})
	require.NoError(t, err)
	f.variants, err = repository.New(db, models.ProductVariants).CreateMany(ctx, []*models.ProductVariant{
		{ProductID: f.product.ID, SKU: "LAMP-RED", UniqueVariantName: "red"},
		{ProductID: f.product.ID, SKU: "LAMP-BLUE", UniqueVariantName: "blue"},
	})
	require.NoError(t, err)
	return f
}

func (f *fixture) newUser(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := repository.New(f.db, models.Users).CreateOne(context.Background(),
		&models.User{Username: name, Email: fmt.Sprintf("%s@example.com", name), Password: "x"})
	require.NoError(t, err)
	return u
}

func TestCartToggleTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	variant := f.variants[0].ID

	result, err := f.svc.Cart.ToggleItem(ctx, f.user.ID, variant)
	require.NoError(t, err)
	assert.Equal(t, services.Added, result)

	items, err := f.svc.Cart.Items(ctx, f.user.ID, nil)
	require.NoError(t, err)
	require.Len(t, items.Data, 1)
	assert.Equal(t, int64(1), items.Data[0].Quantity)

	result, err = f.svc.Cart.ToggleItem(ctx, f.user.ID, variant)
	require.NoError(t, err)
	assert.Equal(t, services.Removed, result)

	cart, err := repository.New(f.db, models.Carts).GetOne(ctx, types.Conditions{"user_id": f.user.ID})
	require.NoError(t, err)
	item, err := repository.New(f.db, models.CartItems).GetOne(ctx,
		types.Conditions{"cart_id": cart.ID, "product_variant_id": variant},
		repository.WithoutNotFoundError())
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestCartToggleUnknownVariant(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Cart.ToggleItem(context.Background(), f.user.ID, 9999)
	require.ErrorIs(t, err, repository.ErrNotFound)

	carts, err := repository.New(f.db, models.Carts).GetAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, carts.Data, "failed toggle leaves no cart behind")
}

func TestCartQuantityAndClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Cart.ChangeQuantity(ctx, f.user.ID, f.variants[0].ID, 2)
	require.ErrorIs(t, err, repository.ErrNotFound, "no cart yet")

	for _, v := range f.variants {
		_, err := f.svc.Cart.ToggleItem(ctx, f.user.ID, v.ID)
		require.NoError(t, err)
	}
	item, err := f.svc.Cart.ChangeQuantity(ctx, f.user.ID, f.variants[1].ID, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), item.Quantity)

	_, err = f.svc.Cart.ChangeQuantity(ctx, f.user.ID, f.variants[1].ID, 0)
	require.ErrorIs(t, err, services.ErrInvalidQuantity)

	require.NoError(t, f.svc.Cart.Clear(ctx, f.user.ID))
	items, err := repository.New(f.db, models.CartItems).GetAll(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, items.Data, "cart items cascade with the cart")

	err = f.svc.Cart.Clear(ctx, f.user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWishlistToggleAndClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.ErrorIs(t, f.svc.Wishlist.Clear(ctx, f.user.ID), repository.ErrNotFound)

	result, err := f.svc.Wishlist.ToggleItem(ctx, f.user.ID, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, services.Added, result)

	page, err := f.svc.Wishlist.Items(ctx, f.user.ID, nil)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, f.product.ID, page.Data[0].ProductID)

	require.NoError(t, f.svc.Wishlist.Clear(ctx, f.user.ID))
	page, err = f.svc.Wishlist.Items(ctx, f.user.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, page.Data)
	require.NoError(t, f.svc.Wishlist.Clear(ctx, f.user.ID), "clearing an empty wishlist succeeds")

	result, err = f.svc.Wishlist.ToggleItem(ctx, f.user.ID, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, services.Added, result)
	result, err = f.svc.Wishlist.ToggleItem(ctx, f.user.ID, f.product.ID)
	require.NoError(t, err)
	assert.Equal(t, services.Removed, result)
}

func TestReviewLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	review, err := f.svc.Reviews.Create(ctx, f.user.ID, f.product.ID, services.ReviewInput{Rating: 4, ReviewText: "bright"})
	require.NoError(t, err)
	assert.Zero(t, review.HelpfulCount)

	_, err = f.svc.Reviews.Create(ctx, f.user.ID, f.product.ID, services.ReviewInput{Rating: 1})
	require.ErrorIs(t, err, services.ErrReviewExists)
	_, err = f.svc.Reviews.Create(ctx, f.user.ID, 9999, services.ReviewInput{Rating: 1})
	require.ErrorIs(t, err, repository.ErrNotFound)

	edited, err := f.svc.Reviews.Edit(ctx, f.user.ID, review.ID, services.ReviewInput{Rating: 5, ReviewText: "brighter"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), edited.Rating)
	assert.Equal(t, "brighter", edited.ReviewText)

	other := f.newUser(t, "other")
	_, err = f.svc.Reviews.Edit(ctx, other.ID, review.ID, services.ReviewInput{Rating: 1})
	require.ErrorIs(t, err, repository.ErrNotFound, "only the author edits")

	reply, err := f.svc.Reviews.Reply(ctx, other.ID, review.ID, "agreed")
	require.NoError(t, err)
	reply, err = f.svc.Reviews.EditReply(ctx, other.ID, review.ID, reply.ID, "strongly agreed")
	require.NoError(t, err)
	assert.Equal(t, "strongly agreed", reply.ReplyText)

	page, err := f.svc.Reviews.ForProduct(ctx, f.product.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, page.PaginationDetails.TotalNumOfItems)

	require.NoError(t, f.svc.Reviews.Delete(ctx, f.user.ID, review.ID))
	_, err = repository.New(f.db, models.Replies).GetOne(ctx, types.ByID(reply.ID))
	assert.ErrorIs(t, err, repository.ErrNotFound, "replies cascade with the review")
}

func TestReviewToggleHelpful(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	review, err := f.svc.Reviews.Create(ctx, f.user.ID, f.product.ID, services.ReviewInput{Rating: 3})
	require.NoError(t, err)
	voter := f.newUser(t, "voter")

	result, err := f.svc.Reviews.ToggleHelpful(ctx, voter.ID, review.ID)
	require.NoError(t, err)
	assert.Equal(t, services.Added, result)
	got, err := f.svc.Reviews.Get(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.HelpfulCount)

	result, err = f.svc.Reviews.ToggleHelpful(ctx, voter.ID, review.ID)
	require.NoError(t, err)
	assert.Equal(t, services.Removed, result)
	got, err = f.svc.Reviews.Get(ctx, review.ID)
	require.NoError(t, err)
	assert.Zero(t, got.HelpfulCount)

	_, err = f.svc.Reviews.ToggleHelpful(ctx, voter.ID, 9999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func seedRegions(t *testing.T, db *bun.DB) {
	t.Helper()
	ctx := context.Background()
	_, err := repository.New(db, models.Countries).CreateOne(ctx, &models.Country{CountryCode: "EG", CountryName: "Egypt"})
	require.NoError(t, err)
	_, err = repository.New(db, models.Currencies).CreateOne(ctx, &models.Currency{CurrencyCode: "EGP", CurrencyName: "Egyptian Pound", ExchangeRate: 48.5})
	require.NoError(t, err)
}

func productInput(attr *models.Attribute, opts []*models.AttributeOption) services.ProductInput {
	return services.ProductInput{
		Product: models.Product{ProductName: "shirt", BasePrice: 15, BaseQuantity: 10, BaseTaxRate: 14, BaseTaxAmount: 2.1},
		Variants: []services.VariantInput{
			{SKU: "SHIRT-S", UniqueVariantName: "small", Attributes: []services.VariantAttributeInput{{AttributeID: attr.ID, AttributeOptionID: opts[0].ID}}},
			{SKU: "SHIRT-M", UniqueVariantName: "medium", Attributes: []services.VariantAttributeInput{{AttributeID: attr.ID, AttributeOptionID: opts[1].ID}}},
		},
		RegionalData: []services.RegionalInput{
			{SKU: "SHIRT-S", CountryCode: "EG", CurrencyCode: "EGP", Price: 700, TaxRate: 14, TaxAmount: 98, Quantity: 5},
			{SKU: "SHIRT-M", CountryCode: "EG", CurrencyCode: "EGP", Price: 750, TaxRate: 14, TaxAmount: 105, Quantity: 2},
		},
		Images: []services.ImageInput{{ImgURL: "https://cdn.example.com/shirt.png", ImgOrder: 1}},
	}
}

func seedAttribute(t *testing.T, db *bun.DB) (*models.Attribute, []*models.AttributeOption) {
	t.Helper()
	ctx := context.Background()
	attr, err := repository.New(db, models.Attributes).CreateOne(ctx, &models.Attribute{AttributeName: "size"})
	require.NoError(t, err)
	opts, err := repository.New(db, models.AttributeOptions).CreateMany(ctx, []*models.AttributeOption{
		{AttributeID: attr.ID, OptionName: "S"},
		{AttributeID: attr.ID, OptionName: "M"},
	})
	require.NoError(t, err)
	return attr, opts
}

func TestProductCreateAsOneUnit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedRegions(t, f.db)
	attr, opts := seedAttribute(t, f.db)

	created, err := f.svc.Products.Create(ctx, productInput(attr, opts))
	require.NoError(t, err)
	require.Len(t, created.Variants, 2)
	assert.Len(t, created.VariantAttributes, 2)
	assert.Len(t, created.RegionalData, 2)
	assert.Len(t, created.Images, 1)
	assert.Equal(t, created.Variants[0].ID, created.RegionalData[0].ProductVariantID)

	loaded, err := f.svc.Products.Details(ctx, created.Product.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Variants, 2)
	assert.Len(t, loaded.VariantAttributes, 2)
	assert.Len(t, loaded.RegionalData, 2)
	assert.Len(t, loaded.Images, 1)

	t.Run("unknown sku rolls everything back", func(t *testing.T) {
		in := productInput(attr, opts)
		in.Variants[0].SKU, in.Variants[1].SKU = "PANTS-S", "PANTS-M"
		in.RegionalData[1].SKU = "NOPE"
		in.RegionalData[0].SKU = "PANTS-S"
		_, err := f.svc.Products.Create(ctx, in)
		require.ErrorIs(t, err, services.ErrUnknownSKU)

		_, err = repository.New(f.db, models.ProductVariants).GetOne(ctx, types.Conditions{"sku": "PANTS-S"})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("duplicate sku rolls everything back", func(t *testing.T) {
		before, err := f.svc.Products.List(ctx, nil)
		require.NoError(t, err)
		_, err = f.svc.Products.Create(ctx, productInput(attr, opts))
		require.Error(t, err)
		after, err := f.svc.Products.List(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, before.PaginationDetails.TotalNumOfItems, after.PaginationDetails.TotalNumOfItems)
	})
}

func TestProductDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	second, err := repository.New(f.db, models.Products).CreateOne(ctx, &models.Product{ProductName: "desk", BasePrice: 90, BaseQuantity: 1, BaseTaxRate: 10, BaseTaxAmount: 9})
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.Products.Delete(ctx, []int64{second.ID, 9999}, false), repository.ErrNotFound)

	require.NoError(t, f.svc.Products.Delete(ctx, []int64{second.ID}, true))
	page, err := f.svc.Products.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, f.product.ID, page.Data[0].ID)

	require.NoError(t, f.svc.Products.Delete(ctx, []int64{f.product.ID}, false))
	variants, err := repository.New(f.db, models.ProductVariants).GetAll(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, variants.Data, "variants cascade with the product")
}

func TestOneCartAndWishlistPerUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Cart.ToggleItem(ctx, f.user.ID, f.variants[0].ID)
	require.NoError(t, err)
	_, err = f.svc.Wishlist.ToggleItem(ctx, f.user.ID, f.product.ID)
	require.NoError(t, err)

	_, err = repository.New(f.db, models.Carts).CreateOne(ctx, &models.Cart{UserID: f.user.ID})
	assert.True(t, database.IsDuplicateKey(err), "got %v", err)
	_, err = repository.New(f.db, models.Wishlists).CreateOne(ctx, &models.Wishlist{UserID: f.user.ID})
	assert.True(t, database.IsDuplicateKey(err), "got %v", err)

	_, err = f.svc.Cart.ToggleItem(ctx, f.user.ID, f.variants[1].ID)
	require.NoError(t, err)
	items, err := f.svc.Cart.Items(ctx, f.user.ID, nil)
	require.NoError(t, err)
	assert.Len(t, items.Data, 2, "later toggles reuse the existing cart")
}
