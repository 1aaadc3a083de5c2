package handlers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"catalogo/internal/models"
	"catalogo/internal/repositories"
	"catalogo/internal/services"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service    *services.ProductService
	validate   *validator.Validate
	production bool
}

// NewProductHandler creates a new ProductHandler. In production mode the
// detail of unexpected errors is suppressed from responses.
func NewProductHandler(service *services.ProductService, production bool) *ProductHandler {
	return &ProductHandler{
		service:    service,
		validate:   validator.New(),
		production: production,
	}
}

// RegisterRoutes registers the product routes. Static segments come before
// the :id routes so "estatisticas" and "buscar" are not captured as ids.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	produtoRoutes := router.Group("/produtos")
	produtoRoutes.Get("/", h.HandleListProducts)
	produtoRoutes.Get("/estatisticas", h.HandleGetStatistics)
	produtoRoutes.Get("/buscar/nome", h.HandleSearchByName)
	produtoRoutes.Get("/buscar/preco", h.HandleSearchByPrice)
	produtoRoutes.Get("/:id", h.HandleGetProductByID)
	produtoRoutes.Post("/", h.HandleCreateProduct)
	produtoRoutes.Put("/:id", h.HandleUpdateProduct)
	produtoRoutes.Delete("/:id", h.HandleDeleteProduct)
	produtoRoutes.Patch("/:id/estoque", h.HandleAdjustStock)
	produtoRoutes.Patch("/:id/desconto", h.HandleApplyDiscount)
}

type createProdutoRequest struct {
	Nome       string   `json:"nome" validate:"required"`
	Preco      *float64 `json:"preco" validate:"required"`
	Descricao  string   `json:"descricao"`
	Quantidade *int     `json:"quantidade" validate:"required"`
}

type estoqueRequest struct {
	Quantidade *int `json:"quantidade" validate:"required"`
}

type descontoRequest struct {
	Percentual *float64 `json:"percentual" validate:"required"`
}

// HandleListProducts retrieves all products, newest first.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	produtos, err := h.service.ListProducts()
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(emptyIfNil(produtos))
}

// HandleGetProductByID retrieves a single product by its id.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	produto, err := h.service.GetProductByID(id)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(produto)
}

// HandleCreateProduct creates a new product. Name, price and quantity are
// required; the quantity field is a pointer so an explicit 0 is accepted.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req createProdutoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Corpo inválido",
			"message": err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Dados obrigatórios",
			"message": "nome, preço e quantidade são obrigatórios",
		})
	}

	produto, err := h.service.CreateProduct(services.CreateProductInput{
		Nome:       req.Nome,
		Preco:      *req.Preco,
		Descricao:  req.Descricao,
		Quantidade: *req.Quantidade,
	})
	if err != nil {
		return h.respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(produto)
}

// HandleUpdateProduct applies a partial update. Absent fields keep their
// stored values.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	var patch models.ProductPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Corpo inválido",
			"message": err.Error(),
		})
	}

	produto, err := h.service.UpdateProduct(id, patch)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(produto)
}

// HandleDeleteProduct removes a product by its id.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	if err := h.service.DeleteProduct(id); err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Produto excluído com sucesso",
	})
}

// HandleSearchByName searches products by a name fragment (?nome=).
func (h *ProductHandler) HandleSearchByName(c *fiber.Ctx) error {
	produtos, err := h.service.SearchByName(c.Query("nome"))
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(emptyIfNil(produtos))
}

// HandleSearchByPrice searches products within a price range (?min=&max=).
func (h *ProductHandler) HandleSearchByPrice(c *fiber.Ctx) error {
	min, err := parsePriceBound(c.Query("min"))
	if err != nil {
		return h.respondError(c, err)
	}
	max, err := parsePriceBound(c.Query("max"))
	if err != nil {
		return h.respondError(c, err)
	}

	produtos, err := h.service.SearchByPriceRange(min, max)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(emptyIfNil(produtos))
}

// HandleAdjustStock applies a stock delta ({quantidade}) to a product.
func (h *ProductHandler) HandleAdjustStock(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	var req estoqueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Corpo inválido",
			"message": err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Dados obrigatórios",
			"message": "quantidade é obrigatória",
		})
	}

	produto, err := h.service.AdjustStock(id, *req.Quantidade)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(produto)
}

// HandleApplyDiscount applies a percentage discount ({percentual}) to a
// product's price.
func (h *ProductHandler) HandleApplyDiscount(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return h.respondError(c, err)
	}

	var req descontoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Corpo inválido",
			"message": err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Dados obrigatórios",
			"message": "percentual é obrigatório",
		})
	}

	produto, err := h.service.ApplyDiscount(id, *req.Percentual)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(produto)
}

// HandleGetStatistics aggregates the whole catalog.
func (h *ProductHandler) HandleGetStatistics(c *fiber.Ctx) error {
	stats, err := h.service.GetStatistics()
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(stats)
}

// respondError maps domain errors to HTTP status codes. Everything the
// client can correct is 400, missing rows are 404, and infrastructure or
// unexpected failures are 500.
func (h *ProductHandler) respondError(c *fiber.Ctx, err error) error {
	var validationErr *models.ValidationError
	var repoErr *repositories.RepositoryError

	switch {
	case errors.As(err, &validationErr):
		return h.errorJSON(c, fiber.StatusBadRequest, "Dados inválidos", err)
	case errors.Is(err, repositories.ErrNotFound):
		return h.errorJSON(c, fiber.StatusNotFound, "Produto não encontrado", err)
	case errors.Is(err, services.ErrInvalidID),
		errors.Is(err, services.ErrEmptySearchTerm),
		errors.Is(err, services.ErrMissingBound),
		errors.Is(err, services.ErrInvalidBound),
		errors.Is(err, services.ErrNegativePrice),
		errors.Is(err, services.ErrInvertedRange):
		return h.errorJSON(c, fiber.StatusBadRequest, "Parâmetros inválidos", err)
	case errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrInvalidDiscount):
		return h.errorJSON(c, fiber.StatusBadRequest, "Regra de negócio violada", err)
	case errors.As(err, &repoErr):
		log.Error().Err(err).Str("path", c.Path()).Msg("repository failure")
		return h.errorJSON(c, fiber.StatusInternalServerError, "Erro interno do servidor", err)
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("unexpected error")
		return h.errorJSON(c, fiber.StatusInternalServerError, "Erro interno do servidor", err)
	}
}

func (h *ProductHandler) errorJSON(c *fiber.Ctx, status int, categoria string, err error) error {
	message := err.Error()
	if h.production && status == fiber.StatusInternalServerError {
		message = "ocorreu um erro inesperado"
	}
	return c.Status(status).JSON(fiber.Map{
		"error":   categoria,
		"message": message,
	})
}

// parseID reads the :id route parameter. Malformed values surface as the
// same invalid-id error the service uses.
func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, services.ErrInvalidID
	}
	return id, nil
}

// parsePriceBound converts a query bound, treating absence as nil so the
// service can distinguish missing from zero.
func parsePriceBound(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	valor, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, services.ErrInvalidBound
	}
	return &valor, nil
}

// emptyIfNil keeps list responses as JSON arrays even when no rows match.
func emptyIfNil(produtos []models.Product) []models.Product {
	if produtos == nil {
		return []models.Product{}
	}
	return produtos
}
