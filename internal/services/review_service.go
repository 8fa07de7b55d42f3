package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shopware-backend/internal/models"
	"shopware-backend/internal/utils"
)

// ReviewService handles reviews and keeps the product rating aggregate
// consistent with them. Every aggregate recomputation runs in the same
// transaction as the review write.
type ReviewService struct {
	db *sql.DB
}

// NewReviewService creates a new review service
func NewReviewService(db *sql.DB) *ReviewService {
	return &ReviewService{db: db}
}

// CanReview reports whether the user has a delivered order containing
// the product
func (s *ReviewService) CanReview(userID, productID string) (bool, error) {
	return canReview(s.db, userID, productID)
}

func canReview(q queryer, userID, productID string) (bool, error) {
	var count int
	err := q.QueryRow(`
		SELECT COUNT(*) FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE o.user_id = ? AND o.order_status = ? AND oi.product_id = ?`,
		userID, models.OrderStatusDelivered, productID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check review eligibility: %w", err)
	}
	return count > 0, nil
}

type queryer interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

// CreateReview adds a review and folds its rating into the product
// aggregate. One review per (user, product).
func (s *ReviewService) CreateReview(userID string, req *models.ReviewCreation) (*models.Review, error) {
	if err := requireNotBlocked(s.db, userID); err != nil {
		return nil, err
	}

	var review *models.Review
	err := withTx(s.db, func(tx *sql.Tx) error {
		if _, err := getProductForUpdate(tx, req.ProductID); err != nil {
			return err
		}

		eligible, err := canReview(tx, userID, req.ProductID)
		if err != nil {
			return err
		}
		if !eligible {
			return ErrForbidden("only verified buyers with a delivered order can review")
		}

		var existing int
		err = tx.QueryRow(`SELECT COUNT(*) FROM reviews WHERE user_id = ? AND product_id = ?`,
			userID, req.ProductID).Scan(&existing)
		if err != nil {
			return fmt.Errorf("failed to check existing review: %w", err)
		}
		if existing > 0 {
			return ErrConflict("you have already reviewed this product")
		}

		now := time.Now()
		review = &models.Review{
			ID:        uuid.New().String(),
			UserID:    userID,
			ProductID: req.ProductID,
			Rating:    req.Rating,
			Comment:   req.Comment,
			CreatedAt: now,
			UpdatedAt: now,
		}
		_, err = tx.Exec(`
			INSERT INTO reviews (id, user_id, product_id, rating, comment, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			review.ID, review.UserID, review.ProductID, review.Rating,
			review.Comment, review.CreatedAt, review.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}

		return applyRatingCreate(tx, req.ProductID, req.Rating)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// UpdateReview changes a review and recomputes the product aggregate
// when the rating changed
func (s *ReviewService) UpdateReview(userID, reviewID string, req *models.ReviewUpdate) (*models.Review, error) {
	if err := requireNotBlocked(s.db, userID); err != nil {
		return nil, err
	}

	var review *models.Review
	err := withTx(s.db, func(tx *sql.Tx) error {
		var err error
		review, err = getReviewForUpdate(tx, reviewID)
		if err != nil {
			return err
		}
		if review.UserID != userID {
			return ErrForbidden("not your review")
		}

		previousRating := review.Rating
		if req.Rating != nil {
			review.Rating = *req.Rating
		}
		if req.Comment != nil {
			review.Comment = *req.Comment
		}
		review.UpdatedAt = time.Now()

		_, err = tx.Exec(`UPDATE reviews SET rating = ?, comment = ?, updated_at = ? WHERE id = ?`,
			review.Rating, review.Comment, review.UpdatedAt, reviewID)
		if err != nil {
			return fmt.Errorf("failed to update review: %w", err)
		}

		if req.Rating != nil && *req.Rating != previousRating {
			return applyRatingUpdate(tx, review.ProductID, previousRating, review.Rating)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview removes a review and unfolds its rating from the
// product aggregate. Admins may delete any review.
func (s *ReviewService) DeleteReview(userID, reviewID string, isAdmin bool) error {
	if !isAdmin {
		if err := requireNotBlocked(s.db, userID); err != nil {
			return err
		}
	}

	return withTx(s.db, func(tx *sql.Tx) error {
		review, err := getReviewForUpdate(tx, reviewID)
		if err != nil {
			return err
		}
		if !isAdmin && review.UserID != userID {
			return ErrForbidden("not your review")
		}

		if _, err := tx.Exec(`DELETE FROM reviews WHERE id = ?`, reviewID); err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}

		return applyRatingDelete(tx, review.ProductID, review.Rating)
	})
}

func getReviewForUpdate(tx *sql.Tx, reviewID string) (*models.Review, error) {
	review := &models.Review{}
	err := tx.QueryRow(`
		SELECT id, user_id, product_id, rating, comment, created_at, updated_at
		FROM reviews WHERE id = ?`, reviewID).Scan(
		&review.ID, &review.UserID, &review.ProductID, &review.Rating,
		&review.Comment, &review.CreatedAt, &review.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound("review not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}
	return review, nil
}

// Rating aggregate maintenance. The stored rating is the one-decimal
// rounded mean of all folded-in reviews; ratingCount is their number.

func applyRatingCreate(tx *sql.Tx, productID string, newRating float64) error {
	rating, count, err := getRatingAggregate(tx, productID)
	if err != nil {
		return err
	}
	updated := utils.RoundToOneDecimal((rating*float64(count) + newRating) / float64(count+1))
	return setRatingAggregate(tx, productID, updated, count+1)
}

func applyRatingUpdate(tx *sql.Tx, productID string, previousRating, newRating float64) error {
	rating, count, err := getRatingAggregate(tx, productID)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	updated := utils.RoundToOneDecimal((rating*float64(count) - previousRating + newRating) / float64(count))
	return setRatingAggregate(tx, productID, updated, count)
}

func applyRatingDelete(tx *sql.Tx, productID string, deletedRating float64) error {
	rating, count, err := getRatingAggregate(tx, productID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return setRatingAggregate(tx, productID, 0, 0)
	}
	updated := utils.RoundToOneDecimal((rating*float64(count) - deletedRating) / float64(count-1))
	return setRatingAggregate(tx, productID, updated, count-1)
}

func getRatingAggregate(tx *sql.Tx, productID string) (float64, int, error) {
	var rating float64
	var count int
	err := tx.QueryRow(`SELECT rating, rating_count FROM products WHERE id = ?`, productID).
		Scan(&rating, &count)
	if err == sql.ErrNoRows {
		return 0, 0, ErrNotFound("product not found")
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get rating aggregate: %w", err)
	}
	return rating, count, nil
}

func setRatingAggregate(tx *sql.Tx, productID string, rating float64, count int) error {
	_, err := tx.Exec(`
		UPDATE products SET rating = ?, rating_count = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, rating, count, productID)
	if err != nil {
		return fmt.Errorf("failed to update rating aggregate: %w", err)
	}
	return nil
}
