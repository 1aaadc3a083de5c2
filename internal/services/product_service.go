package services

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"catalogo/internal/models"
	"catalogo/internal/repositories"
	"catalogo/pkg/rabbitmq"
)

// Service-level guard errors. The handler maps all of these to 400.
var (
	ErrInvalidID       = errors.New("ID inválido")
	ErrEmptySearchTerm = errors.New("nome é obrigatório para busca")
	ErrMissingBound    = errors.New("preço mínimo e máximo são obrigatórios")
	ErrInvalidBound    = errors.New("preço informado é inválido")
	ErrNegativePrice   = errors.New("preços não podem ser negativos")
	ErrInvertedRange   = errors.New("preço mínimo não pode ser maior que o máximo")
)

// Stock below this threshold counts as low and triggers an event.
const lowStockThreshold = 10

// CreateProductInput carries the fields accepted on product creation.
type CreateProductInput struct {
	Nome       string
	Preco      float64
	Descricao  string
	Quantidade int
}

// Statistics aggregates the whole catalog.
type Statistics struct {
	Total                   int64   `json:"total"`
	ValorTotal              float64 `json:"valorTotal"`
	QuantidadeTotal         int     `json:"quantidadeTotal"`
	PrecoMedio              float64 `json:"precoMedio"`
	ProdutosComEstoqueBaixo int     `json:"produtosComEstoqueBaixo"`
}

// ProductService owns domain validation and orchestrates the repository.
// The RabbitMQ client is optional; a nil client disables event publishing.
type ProductService struct {
	repo     repositories.ProductRepository
	mqClient *rabbitmq.Client
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, mqClient *rabbitmq.Client) *ProductService {
	return &ProductService{
		repo:     repo,
		mqClient: mqClient,
	}
}

// ListProducts retrieves all products, newest first.
func (s *ProductService) ListProducts() ([]models.Product, error) {
	return s.repo.ListAll()
}

// GetProductByID retrieves a single product. Persisted ids start at 1, so
// anything below that is rejected before touching the store.
func (s *ProductService) GetProductByID(id int64) (*models.Product, error) {
	if id < 1 {
		return nil, ErrInvalidID
	}
	return s.repo.FindByID(uint(id))
}

// CreateProduct builds the entity, validates it and persists it.
func (s *ProductService) CreateProduct(input CreateProductInput) (*models.Product, error) {
	produto := models.NewProduct(input.Nome, input.Preco, input.Descricao, input.Quantidade)

	if erros := produto.Validate(); len(erros) > 0 {
		return nil, models.NewValidationError(erros)
	}

	criado, err := s.repo.Create(produto)
	if err != nil {
		log.Error().Err(err).Str("nome", input.Nome).Msg("failed to create product")
		return nil, err
	}

	s.publishEvent("produto.criado", criado)
	return criado, nil
}

// UpdateProduct merges the patch over the stored product, re-validates the
// result and persists it. Fields absent from the patch keep their current
// value; an explicit zero quantity is applied.
func (s *ProductService) UpdateProduct(id int64, patch models.ProductPatch) (*models.Product, error) {
	if id < 1 {
		return nil, ErrInvalidID
	}

	existente, err := s.repo.FindByID(uint(id))
	if err != nil {
		return nil, err
	}

	patch.ApplyTo(existente)

	if erros := existente.Validate(); len(erros) > 0 {
		return nil, models.NewValidationError(erros)
	}

	return s.repo.Update(uint(id), existente)
}

// DeleteProduct removes a product after confirming it exists.
func (s *ProductService) DeleteProduct(id int64) error {
	if id < 1 {
		return ErrInvalidID
	}

	produto, err := s.repo.FindByID(uint(id))
	if err != nil {
		return err
	}

	if err := s.repo.Delete(uint(id)); err != nil {
		return err
	}

	s.publishEvent("produto.excluido", produto)
	return nil
}

// SearchByName searches products by a case-insensitive name fragment.
func (s *ProductService) SearchByName(nome string) ([]models.Product, error) {
	termo := strings.TrimSpace(nome)
	if termo == "" {
		return nil, ErrEmptySearchTerm
	}
	return s.repo.FindByName(termo)
}

// SearchByPriceRange searches products priced within [min, max]. Both bounds
// are required; equal bounds are a valid singleton range.
func (s *ProductService) SearchByPriceRange(min, max *float64) ([]models.Product, error) {
	if min == nil || max == nil {
		return nil, ErrMissingBound
	}
	if *min < 0 || *max < 0 {
		return nil, ErrNegativePrice
	}
	if *min > *max {
		return nil, ErrInvertedRange
	}
	return s.repo.FindByPriceRange(*min, *max)
}

// AdjustStock applies a signed delta to a product's stock and persists the
// result. Falling below the low-stock threshold publishes an event.
func (s *ProductService) AdjustStock(id int64, delta int) (*models.Product, error) {
	if id < 1 {
		return nil, ErrInvalidID
	}

	produto, err := s.repo.FindByID(uint(id))
	if err != nil {
		return nil, err
	}

	if err := produto.AdjustStock(delta); err != nil {
		return nil, err
	}

	atualizado, err := s.repo.Update(uint(id), produto)
	if err != nil {
		return nil, err
	}

	if atualizado.Quantidade < lowStockThreshold {
		s.publishEvent("produto.estoque_baixo", atualizado)
	}
	return atualizado, nil
}

// ApplyDiscount applies a percentage discount to a product's price and
// persists the result.
func (s *ProductService) ApplyDiscount(id int64, percentual float64) (*models.Product, error) {
	if id < 1 {
		return nil, ErrInvalidID
	}

	produto, err := s.repo.FindByID(uint(id))
	if err != nil {
		return nil, err
	}

	if err := produto.ApplyDiscount(percentual); err != nil {
		return nil, err
	}

	return s.repo.Update(uint(id), produto)
}

// GetStatistics aggregates the full catalog: row count, total stock value,
// total quantity, average price and the number of low-stock products.
func (s *ProductService) GetStatistics() (*Statistics, error) {
	produtos, err := s.repo.ListAll()
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count()
	if err != nil {
		return nil, err
	}

	stats := &Statistics{Total: total}
	var somaPrecos float64
	for _, p := range produtos {
		stats.ValorTotal += p.Preco * float64(p.Quantidade)
		stats.QuantidadeTotal += p.Quantidade
		somaPrecos += p.Preco
		if p.Quantidade < lowStockThreshold {
			stats.ProdutosComEstoqueBaixo++
		}
	}
	if len(produtos) > 0 {
		stats.PrecoMedio = somaPrecos / float64(len(produtos))
	}

	return stats, nil
}

// publishEvent sends a product event when a client is configured. Event
// failures are logged and never fail the originating request.
func (s *ProductService) publishEvent(tipo string, produto *models.Product) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishProductEvent(tipo, produto); err != nil {
		log.Warn().Err(err).Str("tipo", tipo).Msg("failed to publish product event")
	}
}
