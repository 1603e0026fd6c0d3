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

package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Wishlist is created lazily, one per user.
type Wishlist struct {
	bun.BaseModel `bun:"table:wishlists,alias:wl"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID    int64     `bun:"user_id,notnull,unique" json:"user_id"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

type WishlistItem struct {
	bun.BaseModel `bun:"table:wishlist_items,alias:wi"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	WishlistID int64     `bun:"wishlist_id,notnull,unique:wishlist_product" json:"wishlist_id"`
	ProductID  int64     `bun:"product_id,notnull,unique:wishlist_product" json:"product_id"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Cart is created lazily, one per user.
type Cart struct {
	bun.BaseModel `bun:"table:carts,alias:c"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID    int64     `bun:"user_id,notnull,unique" json:"user_id"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

type CartItem struct {
	bun.BaseModel `bun:"table:cart_items,alias:ci"`

	ID               int64     `bun:"id,pk,autoincrement" json:"id"`
	CartID           int64     `bun:"cart_id,notnull,unique:cart_variant" json:"cart_id"`
	ProductVariantID int64     `bun:"product_variant_id,notnull,unique:cart_variant" json:"product_variant_id"`
	Quantity         int64     `bun:"quantity,nullzero,notnull,default:1" json:"quantity"`
	CreatedAt        time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
