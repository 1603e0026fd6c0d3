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

package services

import (
	"context"

	"github.com/tomoncle/storefront/models"
	"github.com/tomoncle/storefront/repository"
	"github.com/tomoncle/storefront/types"
	"github.com/uptrace/bun"
)

// CartService manages the single lazily created cart of each user.
type CartService struct {
	db       *bun.DB
	carts    repository.Repository[models.Cart]
	items    repository.Repository[models.CartItem]
	variants repository.Repository[models.ProductVariant]
}

func NewCartService(db *bun.DB) *CartService {
	return &CartService{
		db:       db,
		carts:    repository.New(db, models.Carts),
		items:    repository.New(db, models.CartItems),
		variants: repository.New(db, models.ProductVariants),
	}
}

func (s *CartService) cartOf(ctx context.Context, tx bun.IDB, userID int64, create bool) (*models.Cart, error) {
	if !create {
		return s.carts.GetOne(ctx, types.Conditions{"user_id": userID}, repository.WithTx(tx))
	}
	cart, err := s.carts.GetOne(ctx, types.Conditions{"user_id": userID}, repository.WithTx(tx), repository.WithoutNotFoundError())
	if err != nil || cart != nil {
		return cart, err
	}
	return s.carts.CreateOne(ctx, &models.Cart{UserID: userID}, repository.WithTx(tx))
}

// ToggleItem adds the variant to the user's cart with quantity 1, or removes
// it when already present.
func (s *CartService) ToggleItem(ctx context.Context, userID, variantID int64) (ToggleResult, error) {
	var result ToggleResult
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.variants.GetOne(ctx, types.ByID(variantID), repository.WithTx(tx), repository.WithColumns("id")); err != nil {
			return err
		}
		cart, err := s.cartOf(ctx, tx, userID, true)
		if err != nil {
			return err
		}
		key := types.Conditions{"cart_id": cart.ID, "product_variant_id": variantID}
		item, err := s.items.GetOne(ctx, key, repository.WithTx(tx), repository.WithoutNotFoundError())
		if err != nil {
			return err
		}
		if item != nil {
			result = Removed
			return s.items.DeleteByIds(ctx, []int64{item.ID}, repository.WithTx(tx))
		}
		result = Added
		_, err = s.items.CreateOne(ctx, &models.CartItem{CartID: cart.ID, ProductVariantID: variantID, Quantity: 1}, repository.WithTx(tx))
		return err
	})
	if err != nil {
		return "", err
	}
	logger().Info("cart item toggled", "user_id", userID, "product_variant_id", variantID, "result", result)
	return result, nil
}

// ChangeQuantity sets the quantity of a variant already in the cart.
func (s *CartService) ChangeQuantity(ctx context.Context, userID, variantID, quantity int64) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	cart, err := s.cartOf(ctx, s.db, userID, false)
	if err != nil {
		return nil, err
	}
	return s.items.UpdateOne(ctx,
		types.Conditions{"cart_id": cart.ID, "product_variant_id": variantID},
		types.Patch{"quantity": quantity},
	)
}

// Items lists the cart of a user; an absent cart is an empty page.
func (s *CartService) Items(ctx context.Context, userID int64, spec *types.QuerySpec) (*types.Page[models.CartItem], error) {
	if spec == nil {
		spec = types.NewQuerySpec()
	}
	cart, err := s.carts.GetOne(ctx, types.Conditions{"user_id": userID}, repository.WithoutNotFoundError())
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return types.NewEmptyPage[models.CartItem](spec.GetPage(), spec.GetLimit()), nil
	}
	scoped := *spec
	scoped.Filters = append([]types.Filter{types.Equals("cart_id", cart.ID)}, spec.Filters...)
	return s.items.GetAll(ctx, &scoped)
}

// Clear deletes the user's cart together with its items.
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	return s.carts.DeleteOne(ctx, types.Conditions{"user_id": userID})
}
