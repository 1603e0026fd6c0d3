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
	"fmt"

	"github.com/tomoncle/storefront/models"
	"github.com/tomoncle/storefront/repository"
	"github.com/tomoncle/storefront/types"
	"github.com/uptrace/bun"
)

type VariantAttributeInput struct {
	AttributeID       int64
	AttributeOptionID int64
}

type VariantInput struct {
	SKU               string
	UniqueVariantName string
	Attributes        []VariantAttributeInput
}

// RegionalInput prices one variant, identified by SKU, in one country.
type RegionalInput struct {
	SKU          string
	CountryCode  string
	CurrencyCode string
	Price        float64
	TaxRate      float64
	TaxAmount    float64
	Quantity     int64
}

type ImageInput struct {
	ImgURL   string
	ImgType  string
	ImgOrder int64
}

// ProductInput is everything needed to list a new product.
type ProductInput struct {
	Product      models.Product
	Variants     []VariantInput
	RegionalData []RegionalInput
	Images       []ImageInput
}

// ProductDetails is a product with its owned rows.
type ProductDetails struct {
	Product           *models.Product                   `json:"product"`
	Variants          []*models.ProductVariant          `json:"variants"`
	VariantAttributes []*models.ProductVariantAttribute `json:"variant_attributes"`
	RegionalData      []*models.RegionalData            `json:"regional_data"`
	Images            []*models.ProductImage            `json:"images"`
}

type ProductService struct {
	db                *bun.DB
	products          repository.Repository[models.Product]
	variants          repository.Repository[models.ProductVariant]
	variantAttributes repository.Repository[models.ProductVariantAttribute]
	regionalData      repository.Repository[models.RegionalData]
	images            repository.Repository[models.ProductImage]
}

func NewProductService(db *bun.DB) *ProductService {
	return &ProductService{
		db:                db,
		products:          repository.New(db, models.Products),
		variants:          repository.New(db, models.ProductVariants),
		variantAttributes: repository.New(db, models.ProductVariantAttributes),
		regionalData:      repository.New(db, models.ProductRegionalData),
		images:            repository.New(db, models.ProductImages),
	}
}

// Create inserts a product with its variants, variant attributes, regional
// data and images. Any failure rolls the whole product back.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*ProductDetails, error) {
	if len(in.Variants) == 0 {
		return nil, ErrNoVariants
	}
	details := &ProductDetails{}
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		withTx := repository.WithTx(tx)

		product := in.Product
		created, err := s.products.CreateOne(ctx, &product, withTx)
		if err != nil {
			return err
		}
		details.Product = created

		variants := make([]*models.ProductVariant, len(in.Variants))
		for i, v := range in.Variants {
			variants[i] = &models.ProductVariant{ProductID: created.ID, SKU: v.SKU, UniqueVariantName: v.UniqueVariantName}
		}
		if details.Variants, err = s.variants.CreateMany(ctx, variants, withTx); err != nil {
			return err
		}

		bySKU := make(map[string]int64, len(details.Variants))
		var attributes []*models.ProductVariantAttribute
		for i, v := range details.Variants {
			bySKU[v.SKU] = v.ID
			for _, a := range in.Variants[i].Attributes {
				attributes = append(attributes, &models.ProductVariantAttribute{
					ProductVariantID:  v.ID,
					AttributeID:       a.AttributeID,
					AttributeOptionID: a.AttributeOptionID,
				})
			}
		}
		if details.VariantAttributes, err = s.variantAttributes.CreateMany(ctx, attributes, withTx); err != nil {
			return err
		}

		regional := make([]*models.RegionalData, len(in.RegionalData))
		for i, r := range in.RegionalData {
			variantID, ok := bySKU[r.SKU]
			if !ok {
				return fmt.Errorf("%w: %q", ErrUnknownSKU, r.SKU)
			}
			regional[i] = &models.RegionalData{
				ProductVariantID: variantID,
				CountryCode:      r.CountryCode,
				CurrencyCode:     r.CurrencyCode,
				Price:            r.Price,
				TaxRate:          r.TaxRate,
				TaxAmount:        r.TaxAmount,
				Quantity:         r.Quantity,
			}
		}
		if details.RegionalData, err = s.regionalData.CreateMany(ctx, regional, withTx); err != nil {
			return err
		}

		images := make([]*models.ProductImage, len(in.Images))
		for i, img := range in.Images {
			images[i] = &models.ProductImage{ProductID: created.ID, ImgURL: img.ImgURL, ImgType: img.ImgType, ImgOrder: img.ImgOrder}
		}
		details.Images, err = s.images.CreateMany(ctx, images, withTx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return details, nil
}

// Details loads a product and every row it owns.
func (s *ProductService) Details(ctx context.Context, productID int64) (*ProductDetails, error) {
	product, err := s.products.GetOne(ctx, types.ByID(productID))
	if err != nil {
		return nil, err
	}
	details := &ProductDetails{Product: product}

	err = s.variants.NewSelect().
		Where("? = ?", bun.Ident("product_id"), productID).
		OrderExpr("? ASC", bun.Ident("id")).
		Scan(ctx, &details.Variants)
	if err != nil {
		return nil, err
	}
	variantIDs := make([]int64, len(details.Variants))
	for i, v := range details.Variants {
		variantIDs[i] = v.ID
	}
	if len(variantIDs) > 0 {
		err = s.variantAttributes.NewSelect().
			Where("? IN (?)", bun.Ident("product_variant_id"), bun.In(variantIDs)).
			OrderExpr("? ASC", bun.Ident("id")).
			Scan(ctx, &details.VariantAttributes)
		if err != nil {
			return nil, err
		}
		err = s.regionalData.NewSelect().
			Where("? IN (?)", bun.Ident("product_variant_id"), bun.In(variantIDs)).
			OrderExpr("? ASC", bun.Ident("id")).
			Scan(ctx, &details.RegionalData)
		if err != nil {
			return nil, err
		}
	}
	err = s.images.NewSelect().
		Where("? = ?", bun.Ident("product_id"), productID).
		OrderExpr("? ASC, ? ASC", bun.Ident("img_order"), bun.Ident("id")).
		Scan(ctx, &details.Images)
	if err != nil {
		return nil, err
	}
	return details, nil
}

// List pages through products; soft deleted products are hidden unless the
// caller filters on deleted_at.
func (s *ProductService) List(ctx context.Context, spec *types.QuerySpec) (*types.Page[models.Product], error) {
	if spec == nil {
		spec = types.NewQuerySpec()
	}
	for _, f := range spec.Filters {
		if f.Column == "deleted_at" {
			return s.products.GetAll(ctx, spec)
		}
	}
	scoped := *spec
	scoped.Filters = append([]types.Filter{types.IsNull("deleted_at")}, spec.Filters...)
	return s.products.GetAll(ctx, &scoped)
}

// Delete removes all products or none. Soft deletion keeps the owned rows.
func (s *ProductService) Delete(ctx context.Context, ids []int64, soft bool) error {
	var opts []repository.Option
	if soft {
		opts = append(opts, repository.WithSoftDelete())
	}
	return s.products.DeleteByIds(ctx, ids, opts...)
}
