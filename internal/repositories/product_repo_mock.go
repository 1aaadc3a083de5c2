package repositories

import (
	"sort"
	"strings"
	"sync"
	"time"

	"catalogo/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// It backs the "mock" database mode and keeps the same ordering and error
// semantics as the SQL implementation.
type MockProductRepository struct {
	produtos map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMockProductRepository creates an empty in-memory repository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		produtos: make(map[uint]models.Product),
		nextID:   1,
	}
}

// ListAll returns all products, newest first by creation time.
func (r *MockProductRepository) ListAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lista := make([]models.Product, 0, len(r.produtos))
	for _, p := range r.produtos {
		lista = append(lista, p)
	}
	sort.Slice(lista, func(i, j int) bool {
		return lista[i].CreatedAt.After(lista[j].CreatedAt)
	})
	return lista, nil
}

// FindByID returns a product by its id.
func (r *MockProductRepository) FindByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	produto, ok := r.produtos[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &produto, nil
}

// Create validates and stores a new product, assigning the next id.
func (r *MockProductRepository) Create(produto *models.Product) (*models.Product, error) {
	if erros := produto.Validate(); len(erros) > 0 {
		return nil, models.NewValidationError(erros)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *produto
	stored.ID = r.nextID
	r.nextID++
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = stored.CreatedAt
	}
	r.produtos[stored.ID] = stored

	result := stored
	return &result, nil
}

// Update validates and overwrites an existing product.
func (r *MockProductRepository) Update(id uint, produto *models.Product) (*models.Product, error) {
	if erros := produto.Validate(); len(erros) > 0 {
		return nil, models.NewValidationError(erros)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existente, ok := r.produtos[id]
	if !ok {
		return nil, ErrNotFound
	}

	stored := *produto
	stored.ID = id
	stored.CreatedAt = existente.CreatedAt
	stored.UpdatedAt = time.Now()
	r.produtos[id] = stored

	result := stored
	return &result, nil
}

// Delete removes a product by its id.
func (r *MockProductRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.produtos[id]; !ok {
		return ErrNotFound
	}
	delete(r.produtos, id)
	return nil
}

// FindByName returns products whose name contains the term, ignoring case,
// ordered by name.
func (r *MockProductRepository) FindByName(nome string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	termo := strings.ToLower(nome)
	var lista []models.Product
	for _, p := range r.produtos {
		if strings.Contains(strings.ToLower(p.Nome), termo) {
			lista = append(lista, p)
		}
	}
	sort.Slice(lista, func(i, j int) bool {
		return lista[i].Nome < lista[j].Nome
	})
	return lista, nil
}

// FindByPriceRange returns products priced within [min, max], cheapest first.
func (r *MockProductRepository) FindByPriceRange(min, max float64) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var lista []models.Product
	for _, p := range r.produtos {
		if p.Preco >= min && p.Preco <= max {
			lista = append(lista, p)
		}
	}
	sort.Slice(lista, func(i, j int) bool {
		return lista[i].Preco < lista[j].Preco
	})
	return lista, nil
}

// Count returns the number of stored products.
func (r *MockProductRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.produtos)), nil
}
