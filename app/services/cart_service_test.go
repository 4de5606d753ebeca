package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/backend/app/models"
	"github.com/storefront/backend/pkg/apperr"
)

func newCartWorld() (*CartService, *fakeCartRepo, *fakeProductRepo) {
	carts := newFakeCartRepo()
	products := newFakeProductRepo()
	return NewCartService(carts, products), carts, products
}

// assertTotals checks the fold invariant: the derived totals always equal
// the sums over the current items.
func assertTotals(t *testing.T, c *models.Cart) {
	t.Helper()
	quantity := 0
	subtotal := 0.0
	for _, item := range c.Items {
		quantity += item.Quantity
		subtotal += float64(item.Quantity) * item.Price
	}
	assert.Equal(t, quantity, c.TotalQuantity)
	assert.Equal(t, subtotal, c.Subtotal)
}

func TestCartGetWithoutCartReturnsEmptyValue(t *testing.T) {
	svc, _, _ := newCartWorld()

	cart, err := svc.Get(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalQuantity)
	assert.Zero(t, cart.Subtotal)
}

func TestCartAddCreatesCartLazily(t *testing.T) {
	svc, _, products := newCartWorld()
	userID := primitive.NewObjectID()
	productID := products.add(models.Product{Name: "A", Price: 25.50, Stock: 10})

	cart, err := svc.Add(context.Background(), userID, productID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 25.50, cart.Items[0].Price, "price captured from the live product")
	assertTotals(t, cart)
}

func TestCartAddMergesQuantities(t *testing.T) {
	svc, _, products := newCartWorld()
	userID := primitive.NewObjectID()
	productID := products.add(models.Product{Name: "A", Price: 10, Stock: 10})

	_, err := svc.Add(context.Background(), userID, productID, 2)
	require.NoError(t, err)
	cart, err := svc.Add(context.Background(), userID, productID, 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1, "same product merges into one line")
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assertTotals(t, cart)
}

func TestCartAddUnknownProduct(t *testing.T) {
	svc, _, _ := newCartWorld()

	_, err := svc.Add(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), 1)
	assert.True(t, apperr.IsKind(err, apperr.NotFound))
}

func TestCartAddRejectsOverStock(t *testing.T) {
	svc, _, products := newCartWorld()
	userID := primitive.NewObjectID()
	productID := products.add(models.Product{Name: "A", Price: 10, Stock: 3})

	_, err := svc.Add(context.Background(), userID, productID, 4)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.InvalidInput))
	assert.EqualError(t, err, "Only 3 items available. Cannot add 4 to cart.")
}

func TestCartAddRejectsMergeOverStock(t *testing.T) {
	svc, _, products := newCartWorld()
	userID := primitive.NewObjectID()
	productID := products.add(models.Product{Name: "A", Price: 10, Stock: 3})

	_, err := svc.Add(context.Background(), userID, productID, 2)
	require.NoError(t, err)

	// Stock is 3, the cart already holds 2: adding 2 more must fail.
	_, err = svc.Add(context.Background(), userID, productID, 2)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.InvalidInput))
	assert.EqualError(t, err, "Only 3 items available. You have 2 in cart.")
}

func TestCartUpdateItem(t *testing.T) {
	svc, _, products := newCartWorld()
	userID := primitive.NewObjectID()
	productID := products.add(models.Product{Name: "A", Price: 10, Stock: 5})

	cart, err := svc.Add(context.Background(), userID, productID, 1)
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = svc.UpdateItem(context.Background(), userID, itemID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, cart.Items[0].Quantity)
	assertTotals(t, cart)

	_, err = svc.UpdateItem(context.Background(), userID, itemID, 6)
	require.Error(t, err)
	assert.EqualError(t, err, "Only 5 items available. Cannot update to 6.")
}

func TestCartUpdateMissingItem(t *testing.T) {
	svc, carts, _ := newCartWorld()
	userID := primitive.NewObjectID()

	_, err := svc.UpdateItem(context.Background(), userID, primitive.NewObjectID(), 1)
	assert.True(t, apperr.IsKind(err, apperr.NotFound), "no cart at all")

	carts.seed(models.Cart{User: userID, Items: []models.CartItem{}})
	_, err = svc.UpdateItem(context.Background(), userID, primitive.NewObjectID(), 1)
	assert.True(t, apperr.IsKind(err, apperr.NotFound), "cart exists, item does not")
}

func TestCartRemoveItem(t *testing.T) {
	svc, _, products := newCartWorld()
	userID := primitive.NewObjectID()
	productA := products.add(models.Product{Name: "A", Price: 10, Stock: 5})
	productB := products.add(models.Product{Name: "B", Price: 20, Stock: 5})

	_, err := svc.Add(context.Background(), userID, productA, 1)
	require.NoError(t, err)
	cart, err := svc.Add(context.Background(), userID, productB, 2)
	require.NoError(t, err)

	itemA := cart.Items[cart.ItemIndexByProduct(productA)].ID
	cart, err = svc.RemoveItem(context.Background(), userID, itemA)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, productB, cart.Items[0].Product)
	assertTotals(t, cart)
}

func TestCartClear(t *testing.T) {
	svc, _, products := newCartWorld()
	userID := primitive.NewObjectID()
	productID := products.add(models.Product{Name: "A", Price: 10, Stock: 5})

	_, err := svc.Add(context.Background(), userID, productID, 3)
	require.NoError(t, err)

	cart, err := svc.Clear(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalQuantity)
	assert.Zero(t, cart.Subtotal)

	// Clearing when no cart exists is a no-op, not an error.
	cart, err = svc.Clear(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
