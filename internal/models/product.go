package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Domain rule errors surfaced by the entity's own operations.
var (
	ErrInsufficientStock = errors.New("quantidade insuficiente em estoque")
	ErrInvalidDiscount   = errors.New("percentual de desconto inválido")
)

// ValidationError carries every rule the entity violated, not just the first.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("dados inválidos: %s", strings.Join(e.Messages, ", "))
}

// NewValidationError wraps the message list returned by Product.Validate.
func NewValidationError(messages []string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// Product represents a catalog product stored in the "produtos" table.
type Product struct {
	ID         uint      `json:"id,omitempty" gorm:"primaryKey"`
	Nome       string    `json:"nome" gorm:"size:255;not null"`
	Preco      float64   `json:"preco" gorm:"type:decimal(10,2);not null"`
	Descricao  string    `json:"descricao" gorm:"type:text"`
	Quantidade int       `json:"quantidade" gorm:"not null;default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName keeps the relation name used by the public API and schema.
func (Product) TableName() string {
	return "produtos"
}

// NewProduct creates an unsaved product (ID 0) with both timestamps set.
func NewProduct(nome string, preco float64, descricao string, quantidade int) *Product {
	now := time.Now()
	return &Product{
		Nome:       nome,
		Preco:      preco,
		Descricao:  descricao,
		Quantidade: quantidade,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ProductFromJSON decodes a product record. Records coming from outside the
// store may omit timestamps; those default to now.
func ProductFromJSON(data []byte) (*Product, error) {
	var produto Product
	if err := json.Unmarshal(data, &produto); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	now := time.Now()
	if produto.CreatedAt.IsZero() {
		produto.CreatedAt = now
	}
	if produto.UpdatedAt.IsZero() {
		produto.UpdatedAt = now
	}
	return &produto, nil
}

// IsNew reports whether the product has been persisted yet. Generated
// identifiers start at 1, so 0 marks an unsaved entity.
func (p *Product) IsNew() bool {
	return p.ID == 0
}

// Validate runs every business rule and returns all violations. An empty
// slice means the product is valid.
func (p *Product) Validate() []string {
	var erros []string

	if strings.TrimSpace(p.Nome) == "" {
		erros = append(erros, "nome é obrigatório")
	}
	if p.Preco <= 0 {
		erros = append(erros, "preço deve ser maior que zero")
	}
	if p.Quantidade < 0 {
		erros = append(erros, "quantidade não pode ser negativa")
	}
	if utf8.RuneCountInString(p.Nome) > 255 {
		erros = append(erros, "nome deve ter no máximo 255 caracteres")
	}

	return erros
}

// AdjustStock applies a delta to the current stock. The product is left
// untouched when the delta would drive the quantity negative.
func (p *Product) AdjustStock(delta int) error {
	if p.Quantidade+delta < 0 {
		return ErrInsufficientStock
	}
	p.Quantidade += delta
	p.UpdatedAt = time.Now()
	return nil
}

// ApplyDiscount reduces the price by a percentage in [0, 100]. The product is
// left untouched when the percentage is out of bounds.
func (p *Product) ApplyDiscount(percentual float64) error {
	if percentual < 0 || percentual > 100 {
		return ErrInvalidDiscount
	}
	p.Preco = p.Preco * (1 - percentual/100)
	p.UpdatedAt = time.Now()
	return nil
}

// ProductPatch is a partial update. Nil fields keep the current value; a
// non-nil pointer always wins, so an explicit zero quantity is applied rather
// than ignored.
type ProductPatch struct {
	Nome       *string  `json:"nome"`
	Preco      *float64 `json:"preco"`
	Descricao  *string  `json:"descricao"`
	Quantidade *int     `json:"quantidade"`
}

// ApplyTo merges the patch into an existing product and restamps UpdatedAt.
func (patch ProductPatch) ApplyTo(produto *Product) {
	if patch.Nome != nil {
		produto.Nome = *patch.Nome
	}
	if patch.Preco != nil {
		produto.Preco = *patch.Preco
	}
	if patch.Descricao != nil {
		produto.Descricao = *patch.Descricao
	}
	if patch.Quantidade != nil {
		produto.Quantidade = *patch.Quantidade
	}
	produto.UpdatedAt = time.Now()
}
