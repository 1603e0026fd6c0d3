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
	"errors"

	"github.com/tomoncle/storefront/models"
	"github.com/tomoncle/storefront/repository"
	"github.com/tomoncle/storefront/types"
	"github.com/uptrace/bun"
)

type WishlistService struct {
	db        *bun.DB
	wishlists repository.Repository[models.Wishlist]
	items     repository.Repository[models.WishlistItem]
	products  repository.Repository[models.Product]
}

func NewWishlistService(db *bun.DB) *WishlistService {
	return &WishlistService{
		db:        db,
		wishlists: repository.New(db, models.Wishlists),
		items:     repository.New(db, models.WishlistItems),
		products:  repository.New(db, models.Products),
	}
}

// ToggleItem adds the product to the user's wishlist or removes it when
// already present. The wishlist is created on first use.
func (s *WishlistService) ToggleItem(ctx context.Context, userID, productID int64) (ToggleResult, error) {
	var result ToggleResult
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := s.products.GetOne(ctx, types.ByID(productID), repository.WithTx(tx), repository.WithColumns("id")); err != nil {
			return err
		}
		wishlist, err := s.wishlists.GetOne(ctx, types.Conditions{"user_id": userID}, repository.WithTx(tx), repository.WithoutNotFoundError())
		if err != nil {
			return err
		}
		if wishlist == nil {
			if wishlist, err = s.wishlists.CreateOne(ctx, &models.Wishlist{UserID: userID}, repository.WithTx(tx)); err != nil {
				return err
			}
		}
		key := types.Conditions{"wishlist_id": wishlist.ID, "product_id": productID}
		item, err := s.items.GetOne(ctx, key, repository.WithTx(tx), repository.WithoutNotFoundError())
		if err != nil {
			return err
		}
		if item != nil {
			result = Removed
			return s.items.DeleteByIds(ctx, []int64{item.ID}, repository.WithTx(tx))
		}
		result = Added
		_, err = s.items.CreateOne(ctx, &models.WishlistItem{WishlistID: wishlist.ID, ProductID: productID}, repository.WithTx(tx))
		return err
	})
	if err != nil {
		return "", err
	}
	logger().Info("wishlist item toggled", "user_id", userID, "product_id", productID, "result", result)
	return result, nil
}

// Items lists the products on the user's wishlist.
func (s *WishlistService) Items(ctx context.Context, userID int64, spec *types.QuerySpec) (*types.Page[models.WishlistItem], error) {
	if spec == nil {
		spec = types.NewQuerySpec()
	}
	wishlist, err := s.wishlists.GetOne(ctx, types.Conditions{"user_id": userID}, repository.WithoutNotFoundError())
	if err != nil {
		return nil, err
	}
	if wishlist == nil {
		return types.NewEmptyPage[models.WishlistItem](spec.GetPage(), spec.GetLimit()), nil
	}
	scoped := *spec
	scoped.Filters = append([]types.Filter{types.Equals("wishlist_id", wishlist.ID)}, spec.Filters...)
	return s.items.GetAll(ctx, &scoped)
}

// Clear removes every item but keeps the wishlist. Clearing an empty
// wishlist succeeds; a user without a wishlist gets ErrNotFound.
func (s *WishlistService) Clear(ctx context.Context, userID int64) error {
	wishlist, err := s.wishlists.GetOne(ctx, types.Conditions{"user_id": userID})
	if err != nil {
		return err
	}
	err = s.items.DeleteManyByFields(ctx, types.Conditions{"wishlist_id": wishlist.ID})
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}
