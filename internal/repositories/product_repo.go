package repositories

import (
	"errors"
	"fmt"

	"catalogo/internal/models"
)

// ErrNotFound is returned whenever an operation references a product id that
// has no matching row.
var ErrNotFound = errors.New("produto não encontrado")

// RepositoryError wraps infrastructure failures (connectivity, constraint
// violations) so callers can tell them apart from bad input or missing rows.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// ProductRepository defines the persistence contract for products.
type ProductRepository interface {
	// ListAll returns every product, newest first by creation time.
	ListAll() ([]models.Product, error)
	// FindByID returns the product with the given id, or ErrNotFound.
	FindByID(id uint) (*models.Product, error)
	// Create validates the product, inserts it and returns the fully
	// reloaded record carrying the generated id.
	Create(produto *models.Product) (*models.Product, error)
	// Update validates the product, overwrites the row with the given id
	// and returns the reloaded record. ErrNotFound when no row matches.
	Update(id uint, produto *models.Product) (*models.Product, error)
	// Delete removes the row with the given id. ErrNotFound when absent.
	Delete(id uint) error
	// FindByName returns products whose name contains the term,
	// case-insensitively, ordered by name.
	FindByName(nome string) ([]models.Product, error)
	// FindByPriceRange returns products priced within [min, max],
	// ordered by price ascending.
	FindByPriceRange(min, max float64) ([]models.Product, error)
	// Count returns the total number of products.
	Count() (int64, error)
}
