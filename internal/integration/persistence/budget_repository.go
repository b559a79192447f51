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

// budgetRepository implements the adapter.BudgetRepository interface.
type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new budget repository instance.
func NewBudgetRepository(db *gorm.DB) adapter.BudgetRepository {
	return &budgetRepository{
		db: db,
	}
}

// CreateBudget persists a new budget.
func (r *budgetRepository) CreateBudget(ctx context.Context, budget *entity.Budget) error {
	result := r.db.WithContext(ctx).Create(model.BudgetFromEntity(budget))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domainerror.ErrBudgetAlreadyExists
		}
		return result.Error
	}
	return nil
}

// FindBudgetByID retrieves a budget by its ID.
func (r *budgetRepository) FindBudgetByID(ctx context.Context, id uuid.UUID) (*entity.Budget, error) {
	return r.findBudgetByID(r.db.WithContext(ctx), id)
}

// FindBudgetByIDForUpdate retrieves a budget and locks its row.
func (r *budgetRepository) FindBudgetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Budget, error) {
	return r.findBudgetByID(forUpdate(r.db.WithContext(ctx)), id)
}

func (r *budgetRepository) findBudgetByID(db *gorm.DB, id uuid.UUID) (*entity.Budget, error) {
	var budgetModel model.BudgetModel
	result := db.Where("id = ?", id).First(&budgetModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrBudgetNotFound
		}
		return nil, result.Error
	}
	return budgetModel.ToEntity(), nil
}

// FindBudgetByScope retrieves the budget for (user, account, month), or nil if none exists.
func (r *budgetRepository) FindBudgetByScope(ctx context.Context, userID, accountID uuid.UUID, month string) (*entity.Budget, error) {
	var budgetModel model.BudgetModel
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND account_id = ? AND month = ?", userID, accountID, month).
		First(&budgetModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return budgetModel.ToEntity(), nil
}

// FindBudgetsByAccount retrieves every budget of a user's account with its categories.
func (r *budgetRepository) FindBudgetsByAccount(ctx context.Context, userID, accountID uuid.UUID) ([]*entity.BudgetWithCategories, error) {
	var budgetModels []model.BudgetModel
	result := r.db.WithContext(ctx).
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Where("user_id = ? AND account_id = ?", userID, accountID).
		Order("month DESC").
		Find(&budgetModels)
	if result.Error != nil {
		return nil, result.Error
	}

	budgets := make([]*entity.BudgetWithCategories, len(budgetModels))
	for i, bm := range budgetModels {
		categories := make([]*entity.BudgetCategory, len(bm.Categories))
		for j, cm := range bm.Categories {
			categories[j] = cm.ToEntity()
		}
		budgets[i] = &entity.BudgetWithCategories{
			Budget:     bm.ToEntity(),
			Categories: categories,
		}
	}
	return budgets, nil
}

// DeleteBudget removes a budget and all of its categories.
func (r *budgetRepository) DeleteBudget(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("budget_id = ?", id).Delete(&model.BudgetCategoryModel{}).Error; err != nil {
		return err
	}
	result := db.Delete(&model.BudgetModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrBudgetNotFound
	}
	return nil
}

// AddToBudgetTotals atomically adds the deltas to the budget totals.
func (r *budgetRepository) AddToBudgetTotals(ctx context.Context, budgetID uuid.UUID, budgetedDelta, spentDelta decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&model.BudgetModel{}).
		Where("id = ?", budgetID).
		Updates(map[string]any{
			"total_budgeted": gorm.Expr("total_budgeted + ?", budgetedDelta),
			"total_spent":    gorm.Expr("total_spent + ?", spentDelta),
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrBudgetNotFound
	}
	return nil
}

// CreateCategory persists a new budget category.
func (r *budgetRepository) CreateCategory(ctx context.Context, category *entity.BudgetCategory) error {
	result := r.db.WithContext(ctx).Create(model.BudgetCategoryFromEntity(category))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domainerror.ErrBudgetCategoryExists
		}
		return result.Error
	}
	return nil
}

// FindCategoryByID retrieves a budget category by its ID.
func (r *budgetRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*entity.BudgetCategory, error) {
	return r.findCategoryByID(r.db.WithContext(ctx), id)
}

// FindCategoryByIDForUpdate retrieves a budget category and locks its row.
func (r *budgetRepository) FindCategoryByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.BudgetCategory, error) {
	return r.findCategoryByID(forUpdate(r.db.WithContext(ctx)), id)
}

func (r *budgetRepository) findCategoryByID(db *gorm.DB, id uuid.UUID) (*entity.BudgetCategory, error) {
	var categoryModel model.BudgetCategoryModel
	result := db.Where("id = ?", id).First(&categoryModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrBudgetCategoryNotFound
		}
		return nil, result.Error
	}
	return categoryModel.ToEntity(), nil
}

// FindCategoryInBudget retrieves the aggregate for categoryID within budgetID, or nil if absent.
func (r *budgetRepository) FindCategoryInBudget(ctx context.Context, budgetID, categoryID uuid.UUID) (*entity.BudgetCategory, error) {
	var categoryModel model.BudgetCategoryModel
	result := r.db.WithContext(ctx).
		Where("budget_id = ? AND category_id = ?", budgetID, categoryID).
		First(&categoryModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return categoryModel.ToEntity(), nil
}

// FindCategoriesByBudget retrieves every category aggregate of a budget.
func (r *budgetRepository) FindCategoriesByBudget(ctx context.Context, budgetID uuid.UUID) ([]*entity.BudgetCategory, error) {
	return r.findCategoriesByBudget(r.db.WithContext(ctx), budgetID)
}

// FindCategoriesByBudgetForUpdate retrieves every category aggregate of a budget and locks their rows.
func (r *budgetRepository) FindCategoriesByBudgetForUpdate(ctx context.Context, budgetID uuid.UUID) ([]*entity.BudgetCategory, error) {
	return r.findCategoriesByBudget(forUpdate(r.db.WithContext(ctx)), budgetID)
}

func (r *budgetRepository) findCategoriesByBudget(db *gorm.DB, budgetID uuid.UUID) ([]*entity.BudgetCategory, error) {
	var categoryModels []model.BudgetCategoryModel
	result := db.
		Where("budget_id = ?", budgetID).
		Order("name ASC").
		Find(&categoryModels)
	if result.Error != nil {
		return nil, result.Error
	}

	categories := make([]*entity.BudgetCategory, len(categoryModels))
	for i, cm := range categoryModels {
		categories[i] = cm.ToEntity()
	}
	return categories, nil
}

// AddToCategoryTotals atomically adds the deltas to a budget category's budgeted and spent.
func (r *budgetRepository) AddToCategoryTotals(ctx context.Context, budgetCategoryID uuid.UUID, budgetedDelta, spentDelta decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&model.BudgetCategoryModel{}).
		Where("id = ?", budgetCategoryID).
		Updates(map[string]any{
			"budgeted":   gorm.Expr("budgeted + ?", budgetedDelta),
			"spent":      gorm.Expr("spent + ?", spentDelta),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrBudgetCategoryNotFound
	}
	return nil
}

// AddToCategorySpent atomically adds delta to a budget category's spent.
func (r *budgetRepository) AddToCategorySpent(ctx context.Context, budgetCategoryID uuid.UUID, delta decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&model.BudgetCategoryModel{}).
		Where("id = ?", budgetCategoryID).
		Updates(map[string]any{
			"spent":      gorm.Expr("spent + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrBudgetCategoryNotFound
	}
	return nil
}

// DeleteCategory removes a budget category.
func (r *budgetRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.BudgetCategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrBudgetCategoryNotFound
	}
	return nil
}
