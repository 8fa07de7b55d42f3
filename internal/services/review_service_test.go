package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopware-backend/internal/models"
)

func TestReviewGateRequiresDeliveredOrder(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 10})

	reviewService := NewReviewService(db)

	eligible, err := reviewService.CanReview(userID, productID)
	require.NoError(t, err)
	assert.False(t, eligible)

	_, err = reviewService.CreateReview(userID, &models.ReviewCreation{
		ProductID: productID, Rating: 5, Comment: "great",
	})
	require.Error(t, err)
	assert.Equal(t, 403, StatusOf(err))

	// an undelivered order does not open the gate
	addCartLine(t, db, userID, productID, 1, "M")
	placeTestOrder(t, db, userID)
	eligible, err = reviewService.CanReview(userID, productID)
	require.NoError(t, err)
	assert.False(t, eligible)
}

func TestCreateAndDeleteReviewRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 10})

	addCartLine(t, db, userID, productID, 1, "M")
	order := placeTestOrder(t, db, userID)
	deliverOrder(t, db, order.ID)

	reviewService := NewReviewService(db)
	review, err := reviewService.CreateReview(userID, &models.ReviewCreation{
		ProductID: productID, Rating: 5, Comment: "great",
	})
	require.NoError(t, err)

	rating, count := getRatingAndCount(t, db, productID)
	assert.Equal(t, 5.0, rating)
	assert.Equal(t, 1, count)

	require.NoError(t, reviewService.DeleteReview(userID, review.ID, false))

	rating, count = getRatingAndCount(t, db, productID)
	assert.Equal(t, 0.0, rating)
	assert.Equal(t, 0, count)
}

func TestDuplicateReviewRejected(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 10})

	addCartLine(t, db, userID, productID, 1, "M")
	order := placeTestOrder(t, db, userID)
	deliverOrder(t, db, order.ID)

	reviewService := NewReviewService(db)
	_, err := reviewService.CreateReview(userID, &models.ReviewCreation{
		ProductID: productID, Rating: 4,
	})
	require.NoError(t, err)

	_, err = reviewService.CreateReview(userID, &models.ReviewCreation{
		ProductID: productID, Rating: 5,
	})
	require.Error(t, err)
	assert.Equal(t, 409, StatusOf(err))

	_, count := getRatingAndCount(t, db, productID)
	assert.Equal(t, 1, count)
}

func TestRatingAggregateAcrossReviewers(t *testing.T) {
	db := setupTestDB(t)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 10})
	reviewService := NewReviewService(db)

	first := createTestUser(t, db, "first", false)
	second := createTestUser(t, db, "second", false)
	third := createTestUser(t, db, "third", false)

	for _, userID := range []string{first, second, third} {
		addCartLine(t, db, userID, productID, 1, "M")
		order := placeTestOrder(t, db, userID)
		deliverOrder(t, db, order.ID)
	}

	_, err := reviewService.CreateReview(first, &models.ReviewCreation{ProductID: productID, Rating: 5})
	require.NoError(t, err)
	_, err = reviewService.CreateReview(second, &models.ReviewCreation{ProductID: productID, Rating: 4})
	require.NoError(t, err)

	rating, count := getRatingAndCount(t, db, productID)
	assert.Equal(t, 4.5, rating)
	assert.Equal(t, 2, count)

	thirdReview, err := reviewService.CreateReview(third, &models.ReviewCreation{ProductID: productID, Rating: 2})
	require.NoError(t, err)

	// (4.5*2 + 2) / 3 = 3.666... -> 3.7
	rating, count = getRatingAndCount(t, db, productID)
	assert.Equal(t, 3.7, rating)
	assert.Equal(t, 3, count)

	// delete the low rating: (3.7*3 - 2) / 2 = 4.55 -> 4.6
	require.NoError(t, reviewService.DeleteReview(third, thirdReview.ID, false))
	rating, count = getRatingAndCount(t, db, productID)
	assert.Equal(t, 4.6, rating)
	assert.Equal(t, 2, count)
}

func TestUpdateReviewRecomputesRating(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 10})

	addCartLine(t, db, userID, productID, 1, "M")
	order := placeTestOrder(t, db, userID)
	deliverOrder(t, db, order.ID)

	reviewService := NewReviewService(db)
	review, err := reviewService.CreateReview(userID, &models.ReviewCreation{
		ProductID: productID, Rating: 5, Comment: "great",
	})
	require.NoError(t, err)

	newRating := 2.0
	updated, err := reviewService.UpdateReview(userID, review.ID, &models.ReviewUpdate{
		Rating: &newRating,
	})
	require.NoError(t, err)
	assert.Equal(t, 2.0, updated.Rating)

	rating, count := getRatingAndCount(t, db, productID)
	assert.Equal(t, 2.0, rating)
	assert.Equal(t, 1, count)
}

func TestReviewOwnershipEnforced(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner", false)
	stranger := createTestUser(t, db, "stranger", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 10})

	addCartLine(t, db, owner, productID, 1, "M")
	order := placeTestOrder(t, db, owner)
	deliverOrder(t, db, order.ID)

	reviewService := NewReviewService(db)
	review, err := reviewService.CreateReview(owner, &models.ReviewCreation{
		ProductID: productID, Rating: 4,
	})
	require.NoError(t, err)

	newRating := 1.0
	_, err = reviewService.UpdateReview(stranger, review.ID, &models.ReviewUpdate{Rating: &newRating})
	require.Error(t, err)
	assert.Equal(t, 403, StatusOf(err))

	err = reviewService.DeleteReview(stranger, review.ID, false)
	require.Error(t, err)
	assert.Equal(t, 403, StatusOf(err))

	// admin delete is allowed and recomputes the aggregate
	require.NoError(t, reviewService.DeleteReview(stranger, review.ID, true))
	rating, count := getRatingAndCount(t, db, productID)
	assert.Equal(t, 0.0, rating)
	assert.Equal(t, 0, count)
}
