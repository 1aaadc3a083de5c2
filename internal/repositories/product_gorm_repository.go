package repositories

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"catalogo/internal/models"
)

// GORMProductRepository is the GORM implementation of ProductRepository over
// the "produtos" relation. The *gorm.DB handle is owned by the caller and
// injected here; the repository holds no connection state of its own.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a repository bound to the given database.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// ListAll retrieves every product, newest first.
func (r *GORMProductRepository) ListAll() ([]models.Product, error) {
	var produtos []models.Product
	if err := r.db.Order("created_at DESC").Find(&produtos).Error; err != nil {
		return nil, &RepositoryError{Op: "list", Err: err}
	}
	return produtos, nil
}

// FindByID retrieves a single product by its id.
func (r *GORMProductRepository) FindByID(id uint) (*models.Product, error) {
	var produto models.Product
	if err := r.db.First(&produto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &RepositoryError{Op: "find", Err: err}
	}
	return &produto, nil
}

// Create validates and inserts the product, then reloads it so the caller
// gets the generated id and the timestamps exactly as stored.
func (r *GORMProductRepository) Create(produto *models.Product) (*models.Product, error) {
	if erros := produto.Validate(); len(erros) > 0 {
		return nil, models.NewValidationError(erros)
	}
	if err := r.db.Create(produto).Error; err != nil {
		return nil, &RepositoryError{Op: "create", Err: err}
	}
	return r.FindByID(produto.ID)
}

// Update validates and overwrites the row with the given id. The column map
// is explicit so a zero quantity is written instead of being skipped.
func (r *GORMProductRepository) Update(id uint, produto *models.Product) (*models.Product, error) {
	if erros := produto.Validate(); len(erros) > 0 {
		return nil, models.NewValidationError(erros)
	}

	res := r.db.Model(&models.Product{}).Where("id = ?", id).Updates(map[string]interface{}{
		"nome":       produto.Nome,
		"preco":      produto.Preco,
		"descricao":  produto.Descricao,
		"quantidade": produto.Quantidade,
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return nil, &RepositoryError{Op: "update", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return r.FindByID(id)
}

// Delete removes the row with the given id.
func (r *GORMProductRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return &RepositoryError{Op: "delete", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByName searches for a case-insensitive substring of the name.
func (r *GORMProductRepository) FindByName(nome string) ([]models.Product, error) {
	var produtos []models.Product
	pattern := "%" + strings.ToLower(nome) + "%"
	err := r.db.Where("LOWER(nome) LIKE ?", pattern).Order("nome").Find(&produtos).Error
	if err != nil {
		return nil, &RepositoryError{Op: "search by name", Err: err}
	}
	return produtos, nil
}

// FindByPriceRange returns products priced within the inclusive range.
func (r *GORMProductRepository) FindByPriceRange(min, max float64) ([]models.Product, error) {
	var produtos []models.Product
	err := r.db.Where("preco BETWEEN ? AND ?", min, max).Order("preco").Find(&produtos).Error
	if err != nil {
		return nil, &RepositoryError{Op: "search by price", Err: err}
	}
	return produtos, nil
}

// Count returns the number of rows in the relation.
func (r *GORMProductRepository) Count() (int64, error) {
	var total int64
	if err := r.db.Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, &RepositoryError{Op: "count", Err: err}
	}
	return total, nil
}
