package services

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/backend/app/models"
	"github.com/storefront/backend/app/repositories"
)

// In-memory repository fakes. They mirror the mongo repositories' error
// contract (the repositories package sentinels) and guard their maps with a
// mutex so the concurrency tests can hammer them.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]models.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repositories.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) FindByResetToken(_ context.Context, digest string, now time.Time) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ResetTokenDigest == digest && u.ResetTokenExpires.After(now) {
			u := u
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return repositories.ErrNotFound
	}
	for id, existing := range f.users {
		if id != u.ID && existing.Email == u.Email {
			return repositories.ErrDuplicate
		}
	}
	f.users[u.ID] = *u
	return nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[primitive.ObjectID]models.Product{}}
}

func (f *fakeProductRepo) add(p models.Product) primitive.ObjectID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	f.products[p.ID] = p
	return p.ID
}

func (f *fakeProductRepo) stock(id primitive.ObjectID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id].Stock
}

func (f *fakeProductRepo) Create(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = primitive.NewObjectID()
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProductRepo) All(_ context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) Update(_ context.Context, p *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[p.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.products[p.ID] = *p
	return nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.products[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

// DecrementStock models the conditional update: check and subtract under
// one lock, exactly as the mongo filter makes it one atomic operation.
func (f *fakeProductRepo) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if p.Stock < qty {
		return repositories.ErrInsufficientStock
	}
	p.Stock -= qty
	f.products[id] = p
	return nil
}

func (f *fakeProductRepo) RestoreStock(_ context.Context, id primitive.ObjectID, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil
	}
	p.Stock += qty
	f.products[id] = p
	return nil
}

func (f *fakeProductRepo) UpdateRating(_ context.Context, id primitive.ObjectID, summary models.RatingSummary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Ratings = summary.Average
	p.NumReviews = summary.Count
	f.products[id] = p
	return nil
}

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[primitive.ObjectID]models.Cart // keyed by user
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[primitive.ObjectID]models.Cart{}}
}

func (f *fakeCartRepo) seed(c models.Cart) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	c.RecalculateTotals()
	f.carts[c.User] = c
}

func (f *fakeCartRepo) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.carts[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &c, nil
}

func (f *fakeCartRepo) Create(_ context.Context, c *models.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.carts[c.User]; ok {
		return repositories.ErrDuplicate
	}
	c.ID = primitive.NewObjectID()
	f.carts[c.User] = *c
	return nil
}

func (f *fakeCartRepo) Save(_ context.Context, c *models.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.carts[c.User]; !ok {
		return repositories.ErrNotFound
	}
	f.carts[c.User] = *c
	return nil
}

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[primitive.ObjectID]models.Order
	createErr error // injected failure for the next Create
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[primitive.ObjectID]models.Order{}}
}

func (f *fakeOrderRepo) Create(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	o.ID = primitive.NewObjectID()
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	f.orders[o.ID] = *o
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &o, nil
}

func (f *fakeOrderRepo) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.orders {
		if o.User == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) All(_ context.Context) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Order{}
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeOrderRepo) Update(_ context.Context, o *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.orders[o.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.orders[o.ID] = *o
	return nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[primitive.ObjectID]models.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[primitive.ObjectID]models.Review{}}
}

func (f *fakeReviewRepo) Create(_ context.Context, rev *models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.reviews {
		if existing.User == rev.User && existing.Product == rev.Product {
			return repositories.ErrDuplicate
		}
	}
	rev.ID = primitive.NewObjectID()
	f.reviews[rev.ID] = *rev
	return nil
}

func (f *fakeReviewRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rev, ok := f.reviews[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &rev, nil
}

func (f *fakeReviewRepo) FindByProduct(_ context.Context, productID primitive.ObjectID) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Review{}
	for _, rev := range f.reviews {
		if rev.Product == productID {
			out = append(out, rev)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Review, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Review{}
	for _, rev := range f.reviews {
		if rev.User == userID {
			out = append(out, rev)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) Update(_ context.Context, rev *models.Review) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reviews[rev.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.reviews[rev.ID] = *rev
	return nil
}

func (f *fakeReviewRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reviews[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviewRepo) Aggregate(_ context.Context, productID primitive.ObjectID) (models.RatingSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum, count := 0, 0
	for _, rev := range f.reviews {
		if rev.Product == productID {
			sum += rev.Rating
			count++
		}
	}
	if count == 0 {
		return models.RatingSummary{}, nil
	}
	return models.RatingSummary{
		Average: models.RoundRating(float64(sum) / float64(count)),
		Count:   count,
	}, nil
}

// fakeNotifier records which notifications fired.
type fakeNotifier struct {
	mu            sync.Mutex
	welcomes      int
	resets        int
	changed       int
	confirmations int
	statusUpdates int
	resetErr      error
	lastResetURL  string
}

func (f *fakeNotifier) Welcome(models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcomes++
}

func (f *fakeNotifier) PasswordReset(_ models.User, resetURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resetErr != nil {
		return f.resetErr
	}
	f.resets++
	f.lastResetURL = resetURL
	return nil
}

func (f *fakeNotifier) PasswordChanged(models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changed++
}

func (f *fakeNotifier) OrderConfirmation(_ models.User, _ models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations++
}

func (f *fakeNotifier) OrderStatusUpdate(_ models.User, _ models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusUpdates++
}

func (f *fakeNotifier) counts() (welcomes, confirmations, statusUpdates int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.welcomes, f.confirmations, f.statusUpdates
}
