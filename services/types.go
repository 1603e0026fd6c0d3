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
	"errors"

	"github.com/tomoncle/storefront/database"
	"github.com/tomoncle/storefront/models"
	"github.com/uptrace/bun"
)

var (
	ErrReviewExists    = errors.New("services: product already reviewed by this user")
	ErrInvalidQuantity = errors.New("services: quantity must be at least 1")
	ErrUnknownSKU      = errors.New("services: regional data references an unknown sku")
	ErrNoVariants      = errors.New("services: product needs at least one variant")
)

// ToggleResult reports what a toggle did.
type ToggleResult string

const (
	Added   ToggleResult = "added"
	Removed ToggleResult = "removed"
)

// Services groups the feature services sharing one database.
type Services struct {
	Cart     *CartService
	Wishlist *WishlistService
	Reviews  *ReviewService
	Products *ProductService
}

// New wires every service to db. The storefront tables must be registered
// and migrated.
func New(db *bun.DB) *Services {
	return &Services{
		Cart:     NewCartService(db),
		Wishlist: NewWishlistService(db),
		Reviews:  NewReviewService(db),
		Products: NewProductService(db),
	}
}

// Register makes the storefront tables known to the database package.
func Register() {
	models.Register()
}

func logger() database.Logger {
	return database.GetLogger()
}
