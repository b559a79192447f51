// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
	"github.com/finance-tracker/recurring/internal/integration/persistence/model"
)

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// Create creates a new transaction in the database.
func (r *transactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	transactionModel := model.TransactionFromEntity(transaction)
	result := r.db.WithContext(ctx).Create(transactionModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a transaction by its ID.
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return r.findByID(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate retrieves a transaction and locks its row.
func (r *transactionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	return r.findByID(forUpdate(r.db.WithContext(ctx)), id)
}

func (r *transactionRepository) findByID(db *gorm.DB, id uuid.UUID) (*entity.Transaction, error) {
	var transactionModel model.TransactionModel
	result := db.Where("id = ?", id).First(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return transactionModel.ToEntity(), nil
}

// FindByAccount retrieves all transactions of a user's account, newest first.
func (r *transactionRepository) FindByAccount(ctx context.Context, userID, accountID uuid.UUID) ([]*entity.Transaction, error) {
	var transactionModels []model.TransactionModel
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND account_id = ?", userID, accountID).
		Order("date DESC, created_at DESC").
		Find(&transactionModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toTransactionEntities(transactionModels), nil
}

// FindByRecurring retrieves the transactions materialized from a recurring template.
func (r *transactionRepository) FindByRecurring(ctx context.Context, recurringID uuid.UUID) ([]*entity.Transaction, error) {
	var transactionModels []model.TransactionModel
	result := r.db.WithContext(ctx).
		Where("recurring_id = ?", recurringID).
		Order("date ASC").
		Find(&transactionModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toTransactionEntities(transactionModels), nil
}

// Update updates an existing transaction in the database.
func (r *transactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	transactionModel := model.TransactionFromEntity(transaction)
	result := r.db.WithContext(ctx).Save(transactionModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Delete soft-deletes a transaction from the database.
func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.TransactionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}

// SumExpensesByCategory totals expense amounts per category within [startDate, endDate).
func (r *transactionRepository) SumExpensesByCategory(
	ctx context.Context,
	userID uuid.UUID,
	accountID uuid.UUID,
	startDate time.Time,
	endDate time.Time,
) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []struct {
		CategoryID uuid.UUID
		Total      decimal.Decimal
	}

	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Select("category_id, COALESCE(SUM(amount), 0) as total").
		Where("user_id = ? AND account_id = ? AND type = ?", userID, accountID, string(entity.TransactionTypeExpense)).
		Where("date >= ? AND date < ?", startDate.UTC(), endDate.UTC()).
		Group("category_id").
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	sums := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[row.CategoryID] = row.Total
	}
	return sums, nil
}

func toTransactionEntities(models []model.TransactionModel) []*entity.Transaction {
	transactions := make([]*entity.Transaction, len(models))
	for i, tm := range models {
		transactions[i] = tm.ToEntity()
	}
	return transactions
}
