// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
	domainerror "github.com/finance-tracker/recurring/internal/domain/error"
	"github.com/finance-tracker/recurring/internal/integration/persistence/model"
)

// recurringTransactionRepository implements the adapter.RecurringTransactionRepository interface.
type recurringTransactionRepository struct {
	db *gorm.DB
}

// NewRecurringTransactionRepository creates a new recurring transaction repository instance.
func NewRecurringTransactionRepository(db *gorm.DB) adapter.RecurringTransactionRepository {
	return &recurringTransactionRepository{
		db: db,
	}
}

// Create persists a new recurring template.
func (r *recurringTransactionRepository) Create(ctx context.Context, recurring *entity.RecurringTransaction) error {
	result := r.db.WithContext(ctx).Create(model.RecurringTransactionFromEntity(recurring))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves a recurring template by its ID.
func (r *recurringTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RecurringTransaction, error) {
	return r.findByID(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate retrieves a recurring template holding a row lock.
func (r *recurringTransactionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.RecurringTransaction, error) {
	return r.findByID(forUpdate(r.db.WithContext(ctx)), id)
}

func (r *recurringTransactionRepository) findByID(db *gorm.DB, id uuid.UUID) (*entity.RecurringTransaction, error) {
	var recurringModel model.RecurringTransactionModel
	result := db.Where("id = ?", id).First(&recurringModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrRecurringTransactionNotFound
		}
		return nil, result.Error
	}
	return recurringModel.ToEntity(), nil
}

// FindByUser retrieves all recurring templates for a user, ordered by next due date.
func (r *recurringTransactionRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.RecurringTransaction, error) {
	var recurringModels []model.RecurringTransactionModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("next_due_date ASC").
		Find(&recurringModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toRecurringEntities(recurringModels), nil
}

// FindActiveByUser retrieves the active recurring templates for a user.
func (r *recurringTransactionRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.RecurringTransaction, error) {
	var recurringModels []model.RecurringTransactionModel
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("next_due_date ASC").
		Find(&recurringModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toRecurringEntities(recurringModels), nil
}

// FindAllActive retrieves every active template.
func (r *recurringTransactionRepository) FindAllActive(ctx context.Context) ([]*entity.RecurringTransaction, error) {
	var recurringModels []model.RecurringTransactionModel
	result := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("next_due_date ASC").
		Find(&recurringModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toRecurringEntities(recurringModels), nil
}

// FindDue retrieves active templates whose cursor is at or before now, oldest first.
func (r *recurringTransactionRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*entity.RecurringTransaction, error) {
	var recurringModels []model.RecurringTransactionModel
	result := r.db.WithContext(ctx).
		Where("is_active = ? AND next_due_date <= ?", true, now.UTC()).
		Order("next_due_date ASC").
		Limit(limit).
		Find(&recurringModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toRecurringEntities(recurringModels), nil
}

// Update saves all fields of an existing template.
func (r *recurringTransactionRepository) Update(ctx context.Context, recurring *entity.RecurringTransaction) error {
	result := r.db.WithContext(ctx).Save(model.RecurringTransactionFromEntity(recurring))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// AdvanceCursor moves the cursor only if nobody else moved it since it was read.
func (r *recurringTransactionRepository) AdvanceCursor(
	ctx context.Context,
	id uuid.UUID,
	expectedNextDue time.Time,
	nextDue time.Time,
	processedAt time.Time,
) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.RecurringTransactionModel{}).
		Where("id = ? AND is_active = ? AND next_due_date = ?", id, true, expectedNextDue.UTC()).
		Updates(map[string]any{
			"next_due_date":  nextDue.UTC(),
			"last_processed": processedAt.UTC(),
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Delete hard-deletes a template.
func (r *recurringTransactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.RecurringTransactionModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrRecurringTransactionNotFound
	}
	return nil
}

func toRecurringEntities(models []model.RecurringTransactionModel) []*entity.RecurringTransaction {
	templates := make([]*entity.RecurringTransaction, len(models))
	for i, m := range models {
		templates[i] = m.ToEntity()
	}
	return templates
}
