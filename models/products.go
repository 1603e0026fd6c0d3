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

type Country struct {
	bun.BaseModel `bun:"table:countries,alias:co"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	CountryCode string    `bun:"country_code,notnull,unique" json:"country_code"`
	CountryName string    `bun:"country_name,notnull" json:"country_name"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

type Currency struct {
	bun.BaseModel `bun:"table:currencies,alias:cu"`

	ID           int64     `bun:"id,pk,autoincrement" json:"id"`
	CurrencyCode string    `bun:"currency_code,notnull,unique" json:"currency_code"`
	CurrencyName string    `bun:"currency_name,notnull" json:"currency_name"`
	ExchangeRate float64   `bun:"exchange_rate,type:double precision,notnull" json:"exchange_rate"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Category forms a tree through ParentCategoryID; zero means a root category.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID                  int64     `bun:"id,pk,autoincrement" json:"id"`
	ParentCategoryID    int64     `bun:"parent_category_id,nullzero" json:"parent_category_id,omitempty"`
	CategoryName        string    `bun:"category_name,notnull" json:"category_name"`
	CategoryDescription string    `bun:"category_description,nullzero" json:"category_description,omitempty"`
	CategoryImg         string    `bun:"category_img,nullzero" json:"category_img,omitempty"`
	CreatedAt           time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt           time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID                 int64     `bun:"id,pk,autoincrement" json:"id"`
	CategoryID         int64     `bun:"category_id,nullzero" json:"category_id,omitempty"`
	ProductName        string    `bun:"product_name,notnull" json:"product_name"`
	ProductDescription string    `bun:"product_description,type:text,nullzero" json:"product_description,omitempty"`
	BasePrice          float64   `bun:"base_price,type:double precision,notnull" json:"base_price"`
	BaseQuantity       int64     `bun:"base_quantity,notnull" json:"base_quantity"`
	BaseTaxRate        float64   `bun:"base_tax_rate,type:double precision,notnull" json:"base_tax_rate"`
	BaseTaxAmount      float64   `bun:"base_tax_amount,type:double precision,notnull" json:"base_tax_amount"`
	CreatedAt          time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt          time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt          time.Time `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
}

type Attribute struct {
	bun.BaseModel `bun:"table:attributes,alias:at"`

	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	AttributeName string    `bun:"attribute_name,notnull" json:"attribute_name"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

type AttributeOption struct {
	bun.BaseModel `bun:"table:attribute_options,alias:ao"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	AttributeID int64     `bun:"attribute_id,notnull" json:"attribute_id"`
	OptionName  string    `bun:"option_name,notnull" json:"option_name"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// ProductVariant is one purchasable combination of attribute options.
type ProductVariant struct {
	bun.BaseModel `bun:"table:product_variants,alias:pv"`

	ID                int64     `bun:"id,pk,autoincrement" json:"id"`
	ProductID         int64     `bun:"product_id,notnull" json:"product_id"`
	SKU               string    `bun:"sku,notnull,unique" json:"sku"`
	UniqueVariantName string    `bun:"unique_variant_name,notnull" json:"unique_variant_name"`
	CreatedAt         time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

type ProductVariantAttribute struct {
	bun.BaseModel `bun:"table:product_variant_attributes,alias:pva"`

	ID                int64     `bun:"id,pk,autoincrement" json:"id"`
	ProductVariantID  int64     `bun:"product_variant_id,notnull" json:"product_variant_id"`
	AttributeID       int64     `bun:"attribute_id,notnull" json:"attribute_id"`
	AttributeOptionID int64     `bun:"attribute_option_id,notnull" json:"attribute_option_id"`
	CreatedAt         time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// RegionalData is the price, tax and stock of a variant in one country.
type RegionalData struct {
	bun.BaseModel `bun:"table:product_regional_data,alias:prd"`

	ID               int64     `bun:"id,pk,autoincrement" json:"id"`
	ProductVariantID int64     `bun:"product_variant_id,notnull" json:"product_variant_id"`
	CountryCode      string    `bun:"country_code,notnull" json:"country_code"`
	CurrencyCode     string    `bun:"currency_code,notnull" json:"currency_code"`
	Price            float64   `bun:"price,type:double precision,notnull" json:"price"`
	TaxRate          float64   `bun:"tax_rate,type:double precision,notnull" json:"tax_rate"`
	TaxAmount        float64   `bun:"tax_amount,type:double precision,notnull" json:"tax_amount"`
	Quantity         int64     `bun:"quantity,notnull" json:"quantity"`
	CreatedAt        time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

type ProductImage struct {
	bun.BaseModel `bun:"table:product_images,alias:pi"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	ProductID int64     `bun:"product_id,notnull" json:"product_id"`
	ImgURL    string    `bun:"img_url,notnull" json:"img_url"`
	ImgType   string    `bun:"img_type,nullzero" json:"img_type,omitempty"`
	ImgOrder  int64     `bun:"img_order,nullzero" json:"img_order,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
