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

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	PhoneTypeSMS      = "SMS"
	PhoneTypeWhatsApp = "WhatsApp"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Username  string    `bun:"username,notnull" json:"username"`
	Email     string    `bun:"email,notnull,unique" json:"email"`
	Password  string    `bun:"password,notnull" json:"-"`
	Role      string    `bun:"role,nullzero,notnull,default:'user'" json:"role"`
	Avatar    string    `bun:"avatar,nullzero" json:"avatar,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt time.Time `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
}

type Address struct {
	bun.BaseModel `bun:"table:addresses,alias:a"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID     int64     `bun:"user_id,notnull" json:"user_id"`
	Street     string    `bun:"street,notnull" json:"street"`
	City       string    `bun:"city,notnull" json:"city"`
	PostalCode string    `bun:"postal_code,notnull" json:"postal_code"`
	Country    string    `bun:"country,notnull" json:"country"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

type PhoneNumber struct {
	bun.BaseModel `bun:"table:phone_numbers,alias:pn"`

	ID             int64     `bun:"id,pk,autoincrement" json:"id"`
	UserID         int64     `bun:"user_id,notnull" json:"user_id"`
	PhoneNumber    string    `bun:"phone_number,notnull" json:"phone_number"`
	CountryCode    string    `bun:"country_code,notnull" json:"country_code"`
	Type           string    `bun:"type,nullzero,notnull,default:'SMS'" json:"type"`
	MarketingOptIn bool      `bun:"marketing_opt_in,notnull,default:false" json:"marketing_opt_in"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
