package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ndutagrace25/esperanza-internal/internal/domain/billing"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared"
	"github.com/ndutagrace25/esperanza-internal/internal/domain/shared/valueobject"
	"github.com/ndutagrace25/esperanza-internal/internal/infrastructure/persistence/models"
)

// newSQLiteDB opens a throwaway in-memory database with the billing schema
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.SaleModel{},
		&models.SaleItemModel{},
		&models.SaleInstallmentModel{},
	))
	return db
}

func newTestSale(t *testing.T) *billing.Sale {
	t.Helper()

	item, err := billing.NewSaleItem(nil, "ERP annual license", 1, valueobject.NewMoneyKESFromFloat(120000))
	require.NoError(t, err)

	sale, err := billing.NewSale("SALE-2026-001", uuid.New(), []*billing.SaleItem{item}, "Tulia Pharmacy renewal")
	require.NoError(t, err)
	return sale
}

func TestGormSaleRepository_SaveAndFindByID(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	sale := newTestSale(t)
	paidAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	_, err := sale.AddInstallment(
		valueobject.NewMoneyKESFromFloat(50000), &paidAt,
		billing.InstallmentStatusPaid, nil, "deposit", true,
	)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, sale))

	found, err := repo.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	require.NotNil(t, found)

	assert.Equal(t, "SALE-2026-001", found.SaleNumber)
	assert.Equal(t, billing.SaleStatusPending, found.Status)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "ERP annual license", found.Items[0].Description)
	require.Len(t, found.Installments, 1)
	assert.True(t, found.PaidAmount.Equal(sale.PaidAmount))
	assert.True(t, found.TotalAmount.Equal(sale.TotalAmount))
}

func TestGormSaleRepository_SaveRemovesOrphanedInstallments(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	sale := newTestSale(t)
	paidAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	first, err := sale.AddInstallment(
		valueobject.NewMoneyKESFromFloat(30000), &paidAt,
		billing.InstallmentStatusPaid, nil, "", false,
	)
	require.NoError(t, err)
	_, err = sale.AddInstallment(
		valueobject.NewMoneyKESFromFloat(20000), &paidAt,
		billing.InstallmentStatusPaid, nil, "", false,
	)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, sale))

	require.NoError(t, sale.RemoveInstallment(first.ID))
	require.NoError(t, repo.Save(ctx, sale))

	found, err := repo.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Len(t, found.Installments, 1)
	assert.NotEqual(t, first.ID, found.Installments[0].ID)

	var count int64
	require.NoError(t, db.Model(&models.SaleInstallmentModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormSaleRepository_FindDueForExtensionReminder_WindowBounds(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	// now=2026-03-10; the 1-to-3-day window queried by the reminder run.
	from := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	inWindow := newTestSale(t)
	require.NoError(t, inWindow.RequestExtension(time.Date(2026, 3, 13, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, repo.Save(ctx, inWindow))

	item, err := billing.NewSaleItem(nil, "ERP annual license", 1, valueobject.NewMoneyKESFromFloat(120000))
	require.NoError(t, err)
	outWindow, err := billing.NewSale("SALE-2026-002", uuid.New(), []*billing.SaleItem{item}, "")
	require.NoError(t, err)
	require.NoError(t, outWindow.RequestExtension(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)))
	require.NoError(t, repo.Save(ctx, outWindow))

	due, err := repo.FindDueForExtensionReminder(ctx, from, to)
	require.NoError(t, err)
	// A due date late on the last day of the window still qualifies.
	require.Len(t, due, 1)
	assert.Equal(t, inWindow.ID, due[0].ID)
}

func TestGormSaleRepository_SaveConcurrentModification(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	sale := newTestSale(t)
	require.NoError(t, repo.Save(ctx, sale))

	// Two actors load the same sale and both try to cancel it.
	first, err := repo.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, sale.ID)
	require.NoError(t, err)

	require.NoError(t, first.Cancel())
	require.NoError(t, repo.Save(ctx, first))

	require.NoError(t, second.Cancel())
	err = repo.Save(ctx, second)
	require.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestGormSaleRepository_FindByIDNotFound(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormSaleRepository(db)

	found, err := repo.FindByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, found)
}

func TestGormSaleRepository_GenerateSaleNumber(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormSaleRepository(db)
	ctx := context.Background()

	number, err := repo.GenerateSaleNumber(ctx, 2026)
	require.NoError(t, err)
	assert.Equal(t, "SALE-2026-001", number)

	sale := newTestSale(t)
	require.NoError(t, repo.Save(ctx, sale))

	number, err = repo.GenerateSaleNumber(ctx, 2026)
	require.NoError(t, err)
	assert.Equal(t, "SALE-2026-002", number)
}
