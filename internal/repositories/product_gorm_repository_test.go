package repositories_test

import (
	"fmt"
	"testing"
	"time"

	"catalogo/internal/models"
	"catalogo/internal/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupRepo opens a fresh in-memory SQLite database per test.
func setupRepo(t *testing.T) *repositories.GORMProductRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	assert.NoError(t, db.AutoMigrate(&models.Product{}))

	return repositories.NewGORMProductRepository(db)
}

func TestGORMRepositoryCreateAssignsID(t *testing.T) {
	repo := setupRepo(t)

	criado, err := repo.Create(models.NewProduct("Notebook", 3500, "dev machine", 10))
	assert.NoError(t, err)
	assert.NotZero(t, criado.ID)
	assert.Equal(t, "Notebook", criado.Nome)
	assert.Equal(t, 3500.0, criado.Preco)
	assert.Equal(t, 10, criado.Quantidade)
	assert.False(t, criado.CreatedAt.IsZero())
}

func TestGORMRepositoryCreateRejectsInvalid(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.Create(models.NewProduct("", -1, "", -1))

	var validationErr *models.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Len(t, validationErr.Messages, 3)

	total, err := repo.Count()
	assert.NoError(t, err)
	assert.Zero(t, total)
}

func TestGORMRepositoryListAllNewestFirst(t *testing.T) {
	repo := setupRepo(t)

	antigo := models.NewProduct("Antigo", 10, "", 1)
	antigo.CreatedAt = time.Now().Add(-2 * time.Hour)
	recente := models.NewProduct("Recente", 20, "", 1)
	recente.CreatedAt = time.Now().Add(-1 * time.Hour)

	_, err := repo.Create(antigo)
	assert.NoError(t, err)
	_, err = repo.Create(recente)
	assert.NoError(t, err)

	produtos, err := repo.ListAll()
	assert.NoError(t, err)
	assert.Len(t, produtos, 2)
	assert.Equal(t, "Recente", produtos[0].Nome)
	assert.Equal(t, "Antigo", produtos[1].Nome)
}

func TestGORMRepositoryFindByID(t *testing.T) {
	repo := setupRepo(t)

	criado, err := repo.Create(models.NewProduct("Notebook", 3500, "", 10))
	assert.NoError(t, err)

	produto, err := repo.FindByID(criado.ID)
	assert.NoError(t, err)
	assert.Equal(t, criado.ID, produto.ID)
	assert.Equal(t, "Notebook", produto.Nome)
}

func TestGORMRepositoryFindByIDNotFound(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.FindByID(99)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMRepositoryUpdate(t *testing.T) {
	repo := setupRepo(t)

	criado, err := repo.Create(models.NewProduct("Notebook", 3500, "", 10))
	assert.NoError(t, err)

	criado.Preco = 2999
	atualizado, err := repo.Update(criado.ID, criado)
	assert.NoError(t, err)
	assert.Equal(t, 2999.0, atualizado.Preco)
}

func TestGORMRepositoryUpdateWritesExplicitZeroQuantity(t *testing.T) {
	repo := setupRepo(t)

	criado, err := repo.Create(models.NewProduct("Notebook", 3500, "", 10))
	assert.NoError(t, err)

	criado.Quantidade = 0
	atualizado, err := repo.Update(criado.ID, criado)
	assert.NoError(t, err)
	assert.Equal(t, 0, atualizado.Quantidade)
}

func TestGORMRepositoryUpdateNotFound(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.Update(99, models.NewProduct("Notebook", 3500, "", 10))
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMRepositoryUpdateRejectsInvalid(t *testing.T) {
	repo := setupRepo(t)

	criado, err := repo.Create(models.NewProduct("Notebook", 3500, "", 10))
	assert.NoError(t, err)

	criado.Nome = ""
	_, err = repo.Update(criado.ID, criado)

	var validationErr *models.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	intacto, err := repo.FindByID(criado.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Notebook", intacto.Nome)
}

func TestGORMRepositoryDelete(t *testing.T) {
	repo := setupRepo(t)

	criado, err := repo.Create(models.NewProduct("Notebook", 3500, "", 10))
	assert.NoError(t, err)

	assert.NoError(t, repo.Delete(criado.ID))

	_, err = repo.FindByID(criado.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMRepositoryDeleteNotFound(t *testing.T) {
	repo := setupRepo(t)

	assert.ErrorIs(t, repo.Delete(99), repositories.ErrNotFound)
}

func TestGORMRepositoryFindByNameCaseInsensitive(t *testing.T) {
	repo := setupRepo(t)

	for _, produto := range []*models.Product{
		models.NewProduct("Notebook Gamer", 5000, "", 5),
		models.NewProduct("notebook básico", 2000, "", 8),
		models.NewProduct("Mouse", 120, "", 50),
	} {
		_, err := repo.Create(produto)
		assert.NoError(t, err)
	}

	produtos, err := repo.FindByName("NOTEBOOK")
	assert.NoError(t, err)
	assert.Len(t, produtos, 2)
	// Ordered by name.
	assert.Equal(t, "Notebook Gamer", produtos[0].Nome)
	assert.Equal(t, "notebook básico", produtos[1].Nome)
}

func TestGORMRepositoryFindByNameNoMatch(t *testing.T) {
	repo := setupRepo(t)

	_, err := repo.Create(models.NewProduct("Mouse", 120, "", 50))
	assert.NoError(t, err)

	produtos, err := repo.FindByName("teclado")
	assert.NoError(t, err)
	assert.Empty(t, produtos)
}

func TestGORMRepositoryFindByPriceRangeInclusive(t *testing.T) {
	repo := setupRepo(t)

	for _, produto := range []*models.Product{
		models.NewProduct("Barato", 50, "", 1),
		models.NewProduct("Medio", 100, "", 1),
		models.NewProduct("Caro", 200, "", 1),
	} {
		_, err := repo.Create(produto)
		assert.NoError(t, err)
	}

	produtos, err := repo.FindByPriceRange(50, 100)
	assert.NoError(t, err)
	assert.Len(t, produtos, 2)
	// Ordered by price ascending, bounds included.
	assert.Equal(t, "Barato", produtos[0].Nome)
	assert.Equal(t, "Medio", produtos[1].Nome)
}

func TestGORMRepositoryCount(t *testing.T) {
	repo := setupRepo(t)

	total, err := repo.Count()
	assert.NoError(t, err)
	assert.Zero(t, total)

	_, err = repo.Create(models.NewProduct("Notebook", 3500, "", 10))
	assert.NoError(t, err)

	total, err = repo.Count()
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
}
