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

	"github.com/tomoncle/storefront/database"
	"github.com/tomoncle/storefront/models"
	"github.com/tomoncle/storefront/repository"
	"github.com/tomoncle/storefront/types"
	"github.com/uptrace/bun"
)

// ReviewInput is the user-editable part of a review.
type ReviewInput struct {
	Rating           int64
	ReviewText       string
	VerifiedPurchase bool
}

type ReviewService struct {
	db       *bun.DB
	reviews  repository.Repository[models.Review]
	replies  repository.Repository[models.Reply]
	helpful  repository.Repository[models.HelpfulReview]
	products repository.Repository[models.Product]
}

func NewReviewService(db *bun.DB) *ReviewService {
	return &ReviewService{
		db:       db,
		reviews:  repository.New(db, models.Reviews),
		replies:  repository.New(db, models.Replies),
		helpful:  repository.New(db, models.HelpfulReviews),
		products: repository.New(db, models.Products),
	}
}

// Create stores the first review of a user for a product. A second review
// fails with ErrReviewExists; the user edits the existing one instead.
func (s *ReviewService) Create(ctx context.Context, userID, productID int64, in ReviewInput) (*models.Review, error) {
	if _, err := s.products.GetOne(ctx, types.ByID(productID), repository.WithColumns("id")); err != nil {
		return nil, err
	}
	existing, err := s.reviews.GetOne(ctx,
		types.Conditions{"product_id": productID, "user_id": userID},
		repository.WithoutNotFoundError(), repository.WithColumns("id"),
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewExists
	}
	review, err := s.reviews.CreateOne(ctx, &models.Review{
		ProductID:        productID,
		UserID:           userID,
		Rating:           in.Rating,
		ReviewText:       in.ReviewText,
		VerifiedPurchase: in.VerifiedPurchase,
	})
	// A concurrent create loses on the unique (product_id, user_id) index.
	if database.IsDuplicateKey(err) {
		return nil, ErrReviewExists
	}
	return review, err
}

// Edit updates a review owned by userID.
func (s *ReviewService) Edit(ctx context.Context, userID, reviewID int64, in ReviewInput) (*models.Review, error) {
	return s.reviews.UpdateOne(ctx,
		types.Conditions{"id": reviewID, "user_id": userID},
		types.Patch{"rating": in.Rating, "review_text": in.ReviewText},
	)
}

// Delete removes a review owned by userID with its replies and helpful marks.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID int64) error {
	return s.reviews.DeleteOne(ctx, types.Conditions{"id": reviewID, "user_id": userID})
}

func (s *ReviewService) Get(ctx context.Context, reviewID int64) (*models.Review, error) {
	return s.reviews.GetOne(ctx, types.ByID(reviewID))
}

// ForProduct pages through the reviews of a product.
func (s *ReviewService) ForProduct(ctx context.Context, productID int64, spec *types.QuerySpec) (*types.Page[models.Review], error) {
	if spec == nil {
		spec = types.NewQuerySpec()
	}
	scoped := *spec
	scoped.Filters = append([]types.Filter{types.Equals("product_id", productID)}, spec.Filters...)
	return s.reviews.GetAll(ctx, &scoped)
}

// ToggleHelpful marks the review as helpful for userID, or removes the mark.
// The join row and the review's counter change in one transaction.
func (s *ReviewService) ToggleHelpful(ctx context.Context, userID, reviewID int64) (ToggleResult, error) {
	var result ToggleResult
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		review, err := s.reviews.GetOne(ctx, types.ByID(reviewID), repository.WithTx(tx))
		if err != nil {
			return err
		}
		mark, err := s.helpful.GetOne(ctx,
			types.Conditions{"user_id": userID, "review_id": reviewID},
			repository.WithTx(tx), repository.WithoutNotFoundError(),
		)
		if err != nil {
			return err
		}

		count := review.HelpfulCount + 1
		if mark != nil {
			result = Removed
			count = review.HelpfulCount - 1
			if err := s.helpful.DeleteByIds(ctx, []int64{mark.ID}, repository.WithTx(tx)); err != nil {
				return err
			}
		} else {
			result = Added
			if _, err := s.helpful.CreateOne(ctx, &models.HelpfulReview{UserID: userID, ReviewID: reviewID, IsHelpful: true}, repository.WithTx(tx)); err != nil {
				return err
			}
		}
		_, err = s.reviews.UpdateOne(ctx, types.ByID(reviewID), types.Patch{"helpful_count": count}, repository.WithTx(tx))
		return err
	})
	if err != nil {
		return "", err
	}
	logger().Info("review helpful toggled", "user_id", userID, "review_id", reviewID, "result", result)
	return result, nil
}

// Reply answers a review.
func (s *ReviewService) Reply(ctx context.Context, userID, reviewID int64, text string) (*models.Reply, error) {
	if _, err := s.reviews.GetOne(ctx, types.ByID(reviewID), repository.WithColumns("id")); err != nil {
		return nil, err
	}
	return s.replies.CreateOne(ctx, &models.Reply{ReviewID: reviewID, UserID: userID, ReplyText: text})
}

// EditReply changes the text of a reply owned by userID.
func (s *ReviewService) EditReply(ctx context.Context, userID, reviewID, replyID int64, text string) (*models.Reply, error) {
	return s.replies.UpdateOne(ctx,
		types.Conditions{"id": replyID, "user_id": userID, "review_id": reviewID},
		types.Patch{"reply_text": text},
	)
}

func (s *ReviewService) DeleteReply(ctx context.Context, userID, reviewID, replyID int64) error {
	return s.replies.DeleteOne(ctx, types.Conditions{"id": replyID, "user_id": userID, "review_id": reviewID})
}
