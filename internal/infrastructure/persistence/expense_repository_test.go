package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestGormExpenseRepository_GenerateExpenseNumber(t *testing.T) {
	t.Run("starts at 001 for an empty year", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormExpenseRepository(db)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "expenses" WHERE expense_number LIKE \$1`).
			WithArgs("EXP-2026-%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		number, err := repo.GenerateExpenseNumber(context.Background(), 2026)

		assert.NoError(t, err)
		assert.Equal(t, "EXP-2026-001", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("increments past existing expenses", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormExpenseRepository(db)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "expenses" WHERE expense_number LIKE \$1`).
			WithArgs("EXP-2026-%").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(41))

		number, err := repo.GenerateExpenseNumber(context.Background(), 2026)

		assert.NoError(t, err)
		assert.Equal(t, "EXP-2026-042", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormExpenseRepository_FindByJobExpenseID(t *testing.T) {
	t.Run("returns nil when no expense is linked", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormExpenseRepository(db)

		jobExpenseID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "expenses" WHERE job_expense_id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(jobExpenseID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		expense, err := repo.FindByJobExpenseID(context.Background(), jobExpenseID)

		assert.NoError(t, err)
		assert.Nil(t, expense)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
