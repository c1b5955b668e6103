package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m-akash/e-commerce-inventory-api/internal/domain"
	"github.com/m-akash/e-commerce-inventory-api/internal/repository"
	"github.com/m-akash/e-commerce-inventory-api/pkg/database"
	apperrors "github.com/m-akash/e-commerce-inventory-api/pkg/errors"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

func int64Ptr(n int64) *int64 { return &n }
func strPtr(s string) *string { return &s }

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

var productColumnNames = []string{
	"id", "name", "description", "price", "stock", "category_id",
	"owner_id", "image_url", "created_at", "updated_at",
}

var productColumnsWithCount = append(
	append([]string{}, productColumnNames...), "total_count",
)

var productColumnsWithRefs = append(
	append([]string{}, productColumnNames...),
	"cat_id", "cat_name", "own_id", "own_username",
)

func sampleProduct() domain.Product {
	return domain.Product{
		ID:          "prod-1",
		Name:        "Desk Lamp",
		Description: "An adjustable desk lamp",
		Price:       2499,
		Stock:       12,
		CategoryID:  "cat-1",
		OwnerID:     "user-1",
		ImageURL:    "https://cdn.example.com/lamp.jpg",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func productRow(p domain.Product) []any {
	return []any{
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.CategoryID,
		p.OwnerID, strPtr(p.ImageURL), p.CreatedAt, p.UpdatedAt,
	}
}

func TestProductRepository_Create_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()

	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			p.ID, p.Name, p.Description, p.Price, p.Stock, p.CategoryID,
			p.OwnerID, strPtr(p.ImageURL), p.CreatedAt, p.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Create(context.Background(), &p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Create_MissingCategory(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	p.CategoryID = "no-such-cat"

	mock.ExpectExec("INSERT INTO products").
		WithArgs(
			p.ID, p.Name, p.Description, p.Price, p.Stock, p.CategoryID,
			p.OwnerID, strPtr(p.ImageURL), p.CreatedAt, p.UpdatedAt,
		).
		WillReturnError(errors.New(`ERROR: insert or update on table "products" violates foreign key constraint (SQLSTATE 23503)`))

	err := repo.Create(context.Background(), &p)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	row := append(productRow(p), strPtr("cat-1"), strPtr("Lighting"), strPtr("user-1"), strPtr("makash"))

	mock.ExpectQuery("SELECT .+ FROM products p").
		WithArgs(p.ID).
		WillReturnRows(
			pgxmock.NewRows(productColumnsWithRefs).AddRow(row...),
		)

	result, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, result.ID)
	assert.Equal(t, p.Name, result.Name)
	assert.Equal(t, p.Price, result.Price)
	assert.Equal(t, p.ImageURL, result.ImageURL)
	require.NotNil(t, result.Category)
	assert.Equal(t, "Lighting", result.Category.Name)
	require.NotNil(t, result.Owner)
	assert.Equal(t, "makash", result.Owner.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_GetByID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM products p").
		WithArgs("missing-id").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), "missing-id")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_NoFilters(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	row := append(productRow(p), 1)

	mock.ExpectQuery("SELECT .+ FROM products p").
		WithArgs(10, 0).
		WillReturnRows(
			pgxmock.NewRows(productColumnsWithCount).AddRow(row...),
		)

	products, total, err := repo.List(context.Background(), repository.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, p.ID, products[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_AllFilters(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	row := append(productRow(p), 42)

	filter := repository.ProductFilter{
		Search:     "lamp",
		CategoryID: "cat-1",
		MinPrice:   int64Ptr(1000),
		MaxPrice:   int64Ptr(5000),
		Page:       3,
		Limit:      5,
	}

	mock.ExpectQuery("SELECT .+ FROM products p").
		WithArgs("%lamp%", "cat-1", int64(1000), int64(5000), 5, 10).
		WillReturnRows(
			pgxmock.NewRows(productColumnsWithCount).AddRow(row...),
		)

	products, total, err := repo.List(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 42, total)
	require.Len(t, products, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_WhitespaceSearchIgnored(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	row := append(productRow(p), 1)

	// Only limit and offset are bound; no ILIKE predicate is built.
	mock.ExpectQuery("SELECT .+ FROM products p").
		WithArgs(10, 0).
		WillReturnRows(
			pgxmock.NewRows(productColumnsWithCount).AddRow(row...),
		)

	products, total, err := repo.List(context.Background(), repository.ProductFilter{Search: "   "})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_List_Empty(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectQuery("SELECT .+ FROM products p").
		WithArgs(10, 0).
		WillReturnRows(pgxmock.NewRows(productColumnsWithCount))

	products, total, err := repo.List(context.Background(), repository.ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, products)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Search_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()

	mock.ExpectQuery("SELECT .+ FROM products p").
		WithArgs("%lamp%").
		WillReturnRows(
			pgxmock.NewRows(productColumnNames).AddRow(productRow(p)...),
		)

	products, err := repo.Search(context.Background(), "lamp")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, p.Name, products[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()

	mock.ExpectExec("UPDATE products").
		WithArgs(
			p.Name, p.Description, p.Price, p.Stock, p.CategoryID,
			strPtr(p.ImageURL), pgxmock.AnyArg(), p.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.Update(context.Background(), &p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	p := sampleProduct()
	p.ID = "missing-id"

	mock.ExpectExec("UPDATE products").
		WithArgs(
			p.Name, p.Description, p.Price, p.Stock, p.CategoryID,
			strPtr(p.ImageURL), pgxmock.AnyArg(), p.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &p)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_Success(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectExec("DELETE FROM products").
		WithArgs("prod-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "prod-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepository_Delete_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectExec("DELETE FROM products").
		WithArgs("missing-id").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing-id")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
