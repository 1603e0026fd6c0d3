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
	"github.com/tomoncle/storefront/database"
)

// Table identifiers. The priority orders table creation so that referenced
// tables exist before the tables pointing at them.
var (
	Users        = database.NewTable[User]("users", 0)
	Countries    = database.NewTable[Country]("countries", 0)
	Currencies   = database.NewTable[Currency]("currencies", 0)
	Attributes   = database.NewTable[Attribute]("attributes", 0)
	Addresses    = database.NewTable[Address]("addresses", 1)
	PhoneNumbers = database.NewTable[PhoneNumber]("phone_numbers", 1)
	Categories   = database.NewTable[Category]("categories", 1)
	Carts        = database.NewTable[Cart]("carts", 1)
	Wishlists    = database.NewTable[Wishlist]("wishlists", 1)

	AttributeOptions = database.NewTable[AttributeOption]("attribute_options", 1)
	Products         = database.NewTable[Product]("products", 2)
	ProductVariants  = database.NewTable[ProductVariant]("product_variants", 3)
	ProductImages    = database.NewTable[ProductImage]("product_images", 3)
	Reviews          = database.NewTable[Review]("reviews", 3)
	Ratings          = database.NewTable[Rating]("ratings", 3)
	WishlistItems    = database.NewTable[WishlistItem]("wishlist_items", 3)

	ProductVariantAttributes = database.NewTable[ProductVariantAttribute]("product_variant_attributes", 4)
	ProductRegionalData      = database.NewTable[RegionalData]("product_regional_data", 4)
	Replies                  = database.NewTable[Reply]("replies", 4)
	HelpfulReviews           = database.NewTable[HelpfulReview]("helpful_reviews", 4)
	CartItems                = database.NewTable[CartItem]("cart_items", 4)
)

// Tables returns every table identifier.
func Tables() []database.SQLModel {
	return []database.SQLModel{
		Users, Countries, Currencies, Attributes,
		Addresses, PhoneNumbers, Categories, Carts, Wishlists, AttributeOptions,
		Products,
		ProductVariants, ProductImages, Reviews, Ratings, WishlistItems,
		ProductVariantAttributes, ProductRegionalData, Replies, HelpfulReviews, CartItems,
	}
}

// ForeignKeys returns the relationships between the tables. Owned child rows
// are removed together with their parent.
func ForeignKeys() []database.ForeignKeyConstraint {
	return []database.ForeignKeyConstraint{
		database.Cascade("addresses", "user_id", "users"),
		database.Cascade("phone_numbers", "user_id", "users"),
		database.Cascade("categories", "parent_category_id", "categories"),
		database.Cascade("products", "category_id", "categories"),
		database.Cascade("attribute_options", "attribute_id", "attributes"),
		database.Cascade("product_variants", "product_id", "products"),
		database.Cascade("product_variant_attributes", "product_variant_id", "product_variants"),
		database.Cascade("product_variant_attributes", "attribute_id", "attributes"),
		database.Cascade("product_variant_attributes", "attribute_option_id", "attribute_options"),
		database.Cascade("product_regional_data", "product_variant_id", "product_variants"),
		database.CascadeOn("product_regional_data", "country_code", "countries", "country_code"),
		database.CascadeOn("product_regional_data", "currency_code", "currencies", "currency_code"),
		database.Cascade("product_images", "product_id", "products"),
		database.Cascade("reviews", "product_id", "products"),
		database.Cascade("reviews", "user_id", "users"),
		database.Cascade("replies", "review_id", "reviews"),
		database.Cascade("replies", "user_id", "users"),
		database.Cascade("ratings", "product_id", "products"),
		database.Cascade("ratings", "user_id", "users"),
		database.Cascade("helpful_reviews", "user_id", "users"),
		database.Cascade("helpful_reviews", "review_id", "reviews"),
		database.Cascade("wishlists", "user_id", "users"),
		database.Cascade("wishlist_items", "wishlist_id", "wishlists"),
		database.Cascade("wishlist_items", "product_id", "products"),
		database.Cascade("carts", "user_id", "users"),
		database.Cascade("cart_items", "cart_id", "carts"),
		database.Cascade("cart_items", "product_variant_id", "product_variants"),
	}
}

// Register adds all tables and their foreign keys to the database registry.
// It is safe to call more than once.
func Register() {
	database.RegisterModels(Tables()...)
	database.RegisterForeignKeys(ForeignKeys()...)
}
