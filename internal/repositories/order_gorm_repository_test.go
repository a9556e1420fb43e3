package repositories_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// newTestDB opens a fresh in-memory SQLite database, isolated per test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{}))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price string, stock int) models.Product {
	t.Helper()
	product := models.Product{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func TestGORMOrderRepository_CreatePersistsOrderAndDecrementsStock(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	laptop := seedProduct(t, db, "Laptop", "1200.00", 10)
	mouse := seedProduct(t, db, "Mouse", "25.00", 50)

	order := &models.Order{
		UserID: "user-1",
		Total:  decimal.RequireFromString("2450.00"),
		Status: models.OrderStatusPending,
		Items: []models.OrderItem{
			{ProductID: laptop.ID, Quantity: 2, Price: laptop.Price},
			{ProductID: mouse.ID, Quantity: 2, Price: mouse.Price},
		},
	}
	require.NoError(t, repo.Create(order))
	assert.NotZero(t, order.ID)

	fetched, err := repo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", fetched.UserID)
	assert.Equal(t, models.OrderStatusPending, fetched.Status)
	assert.Len(t, fetched.Items, 2)
	assert.True(t, decimal.RequireFromString("2450.00").Equal(fetched.Total))

	var p models.Product
	require.NoError(t, db.First(&p, laptop.ID).Error)
	assert.Equal(t, 8, p.Stock)
	p = models.Product{}
	require.NoError(t, db.First(&p, mouse.ID).Error)
	assert.Equal(t, 48, p.Stock)
}

func TestGORMOrderRepository_CreateInsufficientStockRollsBackEverything(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	laptop := seedProduct(t, db, "Laptop", "1200.00", 10)
	mouse := seedProduct(t, db, "Mouse", "25.00", 1)

	// First item is satisfiable, second is short: the whole transaction
	// must roll back, including the first decrement and the order rows.
	order := &models.Order{
		UserID: "user-1",
		Total:  decimal.RequireFromString("1250.00"),
		Status: models.OrderStatusPending,
		Items: []models.OrderItem{
			{ProductID: laptop.ID, Quantity: 1, Price: laptop.Price},
			{ProductID: mouse.ID, Quantity: 2, Price: mouse.Price},
		},
	}
	err := repo.Create(order)
	require.Error(t, err)
	assert.ErrorIs(t, err, repositories.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "available 1")

	var orderCount, itemCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)

	var p models.Product
	require.NoError(t, db.First(&p, laptop.ID).Error)
	assert.Equal(t, 10, p.Stock)
	p = models.Product{}
	require.NoError(t, db.First(&p, mouse.ID).Error)
	assert.Equal(t, 1, p.Stock)
}

func TestGORMOrderRepository_CreateMissingProductRollsBack(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	order := &models.Order{
		UserID: "user-1",
		Total:  decimal.RequireFromString("10.00"),
		Status: models.OrderStatusPending,
		Items: []models.OrderItem{
			{ProductID: 999, Quantity: 1, Price: decimal.RequireFromString("10.00")},
		},
	}
	err := repo.Create(order)
	require.Error(t, err)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	var orderCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	assert.Zero(t, orderCount)
}

func TestGORMOrderRepository_GetByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	_, err := repo.GetByID(12345)
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
}

func TestGORMOrderRepository_UpdateStatus(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	product := seedProduct(t, db, "Keyboard", "75.00", 5)
	order := &models.Order{
		UserID: "user-1",
		Total:  product.Price,
		Status: models.OrderStatusPending,
		Items: []models.OrderItem{
			{ProductID: product.ID, Quantity: 1, Price: product.Price},
		},
	}
	require.NoError(t, repo.Create(order))

	require.NoError(t, repo.UpdateStatus(order.ID, models.OrderStatusShipped))
	fetched, err := repo.GetByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, fetched.Status)

	assert.ErrorIs(t, repo.UpdateStatus(9999, models.OrderStatusShipped), repositories.ErrOrderNotFound)
}

func TestGORMOrderRepository_GetByUser(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMOrderRepository(db)

	product := seedProduct(t, db, "Monitor", "200.00", 10)
	for _, userID := range []string{"user-a", "user-b", "user-a"} {
		order := &models.Order{
			UserID: userID,
			Total:  product.Price,
			Status: models.OrderStatusPending,
			Items: []models.OrderItem{
				{ProductID: product.ID, Quantity: 1, Price: product.Price},
			},
		}
		require.NoError(t, repo.Create(order))
	}

	orders, err := repo.GetByUser("user-a")
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, "user-a", o.UserID)
	}
}
