package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/backend/app/models"
	"github.com/storefront/backend/pkg/apperr"
	"github.com/storefront/backend/pkg/authz"
)

func newReviewWorld() (*ReviewService, *fakeReviewRepo, *fakeProductRepo) {
	reviews := newFakeReviewRepo()
	products := newFakeProductRepo()
	return NewReviewService(reviews, products), reviews, products
}

func customerPrincipal() authz.Principal {
	return authz.Principal{ID: primitive.NewObjectID(), Role: authz.RoleCustomer}
}

func TestReviewCreateRecomputesRating(t *testing.T) {
	svc, _, products := newReviewWorld()
	productID := products.add(models.Product{Name: "A", Stock: 1})

	_, err := svc.Create(context.Background(), customerPrincipal(), productID, ReviewInput{Rating: 4, Comment: "good"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), customerPrincipal(), productID, ReviewInput{Rating: 5, Comment: "great"})
	require.NoError(t, err)

	p, err := products.FindByID(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, p.Ratings)
	assert.Equal(t, 2, p.NumReviews)
}

func TestReviewAverageRoundsToOneDecimal(t *testing.T) {
	svc, _, products := newReviewWorld()
	productID := products.add(models.Product{Name: "A", Stock: 1})

	for _, rating := range []int{5, 4, 4} { // avg 4.333… → 4.3
		_, err := svc.Create(context.Background(), customerPrincipal(), productID, ReviewInput{Rating: rating, Comment: "ok"})
		require.NoError(t, err)
	}

	p, err := products.FindByID(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, 4.3, p.Ratings)
}

func TestReviewDuplicateConflicts(t *testing.T) {
	svc, _, products := newReviewWorld()
	productID := products.add(models.Product{Name: "A", Stock: 1})
	p := customerPrincipal()

	_, err := svc.Create(context.Background(), p, productID, ReviewInput{Rating: 4, Comment: "good"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), p, productID, ReviewInput{Rating: 5, Comment: "changed my mind"})
	assert.True(t, apperr.IsKind(err, apperr.Conflict))
}

func TestReviewCreateUnknownProduct(t *testing.T) {
	svc, _, _ := newReviewWorld()

	_, err := svc.Create(context.Background(), customerPrincipal(), primitive.NewObjectID(), ReviewInput{Rating: 3, Comment: "?"})
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestReviewDeleteLastResetsSummary(t *testing.T) {
	svc, _, products := newReviewWorld()
	productID := products.add(models.Product{Name: "A", Stock: 1})
	p := customerPrincipal()

	rev, err := svc.Create(context.Background(), p, productID, ReviewInput{Rating: 5, Comment: "great"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), p, rev.ID))

	prod, err := products.FindByID(context.Background(), productID)
	require.NoError(t, err)
	assert.Zero(t, prod.Ratings, "no reviews left resets the average")
	assert.Zero(t, prod.NumReviews)
}

func TestReviewUpdateRecomputesRating(t *testing.T) {
	svc, _, products := newReviewWorld()
	productID := products.add(models.Product{Name: "A", Stock: 1})
	p := customerPrincipal()

	rev, err := svc.Create(context.Background(), p, productID, ReviewInput{Rating: 2, Comment: "meh"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), p, rev.ID, ReviewInput{Rating: 5, Comment: "grew on me"})
	require.NoError(t, err)

	prod, err := products.FindByID(context.Background(), productID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, prod.Ratings)
	assert.Equal(t, 1, prod.NumReviews)
}

func TestReviewAuthz(t *testing.T) {
	svc, _, products := newReviewWorld()
	productID := products.add(models.Product{Name: "A", Stock: 1})
	owner := customerPrincipal()
	stranger := customerPrincipal()
	admin := authz.Principal{ID: primitive.NewObjectID(), Role: authz.RoleAdmin}

	rev, err := svc.Create(context.Background(), owner, productID, ReviewInput{Rating: 4, Comment: "good"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), stranger, rev.ID, ReviewInput{Rating: 1, Comment: "sabotage"})
	assert.True(t, apperr.IsKind(err, apperr.Unauthorized))

	err = svc.Delete(context.Background(), stranger, rev.ID)
	assert.True(t, apperr.IsKind(err, apperr.Unauthorized))

	// Admin may delete someone else's review.
	require.NoError(t, svc.Delete(context.Background(), admin, rev.ID))
}
