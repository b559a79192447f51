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

// accountRepository implements the adapter.AccountRepository interface.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository instance.
func NewAccountRepository(db *gorm.DB) adapter.AccountRepository {
	return &accountRepository{
		db: db,
	}
}

// Create creates a new account in the database.
func (r *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	result := r.db.WithContext(ctx).Create(model.AccountFromEntity(account))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// FindByID retrieves an account by its ID.
func (r *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error) {
	var accountModel model.AccountModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&accountModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrAccountNotFound
		}
		return nil, result.Error
	}
	return accountModel.ToEntity(), nil
}

// FindByUser retrieves all accounts of a user, oldest first.
func (r *accountRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Account, error) {
	return r.findByUser(r.db.WithContext(ctx), userID)
}

// FindByUserForUpdate retrieves all accounts of a user and locks their rows.
func (r *accountRepository) FindByUserForUpdate(ctx context.Context, userID uuid.UUID) ([]*entity.Account, error) {
	return r.findByUser(forUpdate(r.db.WithContext(ctx)), userID)
}

func (r *accountRepository) findByUser(db *gorm.DB, userID uuid.UUID) ([]*entity.Account, error) {
	var accountModels []model.AccountModel
	result := db.
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&accountModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toAccountEntities(accountModels), nil
}

// FindActiveByUser retrieves the active accounts of a user.
func (r *accountRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Account, error) {
	var accountModels []model.AccountModel
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").
		Find(&accountModels)
	if result.Error != nil {
		return nil, result.Error
	}
	return toAccountEntities(accountModels), nil
}

// Update updates an existing account in the database.
func (r *accountRepository) Update(ctx context.Context, account *entity.Account) error {
	result := r.db.WithContext(ctx).Save(model.AccountFromEntity(account))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// DeactivateOthers clears the active flag on every other account of the user.
func (r *accountRepository) DeactivateOthers(ctx context.Context, userID, exceptID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("user_id = ? AND id <> ? AND is_active = ?", userID, exceptID, true).
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Delete removes an account from the database.
func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.AccountModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrAccountNotFound
	}
	return nil
}

func toAccountEntities(models []model.AccountModel) []*entity.Account {
	accounts := make([]*entity.Account, len(models))
	for i, am := range models {
		accounts[i] = am.ToEntity()
	}
	return accounts
}
