package memory

import (
	"context"
	"strings"

	"agrichain.backend/internal/domain/entities"
	domainerrors "agrichain.backend/internal/domain/errors"
)

// ProductRepository implements product operations with linear scans.
type ProductRepository struct {
	s *Store
}

// NewProductRepository creates a new product repository
func NewProductRepository(s *Store) *ProductRepository {
	return &ProductRepository{s: s}
}

// Create assigns the next id and creation time and stores a copy of product.
func (r *ProductRepository) Create(ctx context.Context, product *entities.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextProductID++
	product.ID = r.s.nextProductID
	product.CreatedAt = r.s.now()
	r.s.products[product.ID] = product.Clone()
	id := product.ID
	record(ctx, func() { delete(r.s.products, id) })
	return nil
}

// GetByID gets a product by ID
func (r *ProductRepository) GetByID(_ context.Context, id int64) (*entities.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return p.Clone(), nil
}

// List returns products matching every set field of filter
func (r *ProductRepository) List(_ context.Context, filter entities.ProductFilter) ([]*entities.Product, error) {
	return r.scan(filter.Matches), nil
}

// Search matches query case-insensitively against name, description,
// category and location. An empty query matches everything.
func (r *ProductRepository) Search(_ context.Context, query string) ([]*entities.Product, error) {
	q := strings.ToLower(query)
	return r.scan(func(p *entities.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) ||
			strings.Contains(strings.ToLower(p.Location), q)
	}), nil
}

// Update merges input into the stored product. It never creates a product.
func (r *ProductRepository) Update(ctx context.Context, id int64, input *entities.UpdateProductInput) (*entities.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	old := p.Clone()
	updated := p.Clone()
	input.Apply(updated)
	r.s.products[id] = updated
	record(ctx, func() { r.s.products[id] = old })
	return updated.Clone(), nil
}

// Delete permanently removes a product
func (r *ProductRepository) Delete(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return false, nil
	}
	delete(r.s.products, id)
	record(ctx, func() { r.s.products[id] = p })
	return true, nil
}

func (r *ProductRepository) scan(match func(*entities.Product) bool) []*entities.Product {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entities.Product, 0)
	for _, id := range sortedKeys(r.s.products) {
		if p := r.s.products[id]; match(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}
