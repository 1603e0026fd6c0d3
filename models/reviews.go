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

// Review is unique per (product, user).
type Review struct {
	bun.BaseModel `bun:"table:reviews,alias:rv"`

	ID               int64     `bun:"id,pk,autoincrement" json:"id"`
	ProductID        int64     `bun:"product_id,notnull,unique:review_product_user" json:"product_id"`
	UserID           int64     `bun:"user_id,notnull,unique:review_product_user" json:"user_id"`
	Rating           int64     `bun:"rating,notnull" json:"rating"`
	ReviewText       string    `bun:"review_text,type:text,nullzero" json:"review_text,omitempty"`
	HelpfulCount     int64     `bun:"helpful_count,notnull,default:0" json:"helpful_count"`
	VerifiedPurchase bool      `bun:"verified_purchase,notnull,default:false" json:"verified_purchase"`
	CreatedAt        time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

type Reply struct {
	bun.BaseModel `bun:"table:replies,alias:rp"`

	ID               int64     `bun:"id,pk,autoincrement" json:"id"`
	ReviewID         int64     `bun:"review_id,notnull" json:"review_id"`
	UserID           int64     `bun:"user_id,notnull" json:"user_id"`
	ReplyText        string    `bun:"reply_text,type:text,notnull" json:"reply_text"`
	VerifiedPurchase bool      `bun:"verified_purchase,notnull,default:false" json:"verified_purchase"`
	CreatedAt        time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

type Rating struct {
	bun.BaseModel `bun:"table:ratings,alias:ra"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	ProductID int64     `bun:"product_id,notnull" json:"product_id"`
	UserID    int64     `bun:"user_id,notnull" json:"user_id"`
	Rating    int64     `bun:"rating,notnull" json:"rating"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// HelpfulReview records that a user marked a review as helpful.
type HelpfulReview struct {
	bun.BaseModel `bun:"table:helpful_reviews,alias:hr"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID    int64     `bun:"user_id,notnull,unique:helpful_user_review" json:"user_id"`
	ReviewID  int64     `bun:"review_id,notnull,unique:helpful_user_review" json:"review_id"`
	IsHelpful bool      `bun:"is_helpful,notnull" json:"is_helpful"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
