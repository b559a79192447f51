// Package category contains category-related use cases.
package category

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/application/adapter"
	"github.com/finance-tracker/recurring/internal/domain/entity"
)

// ListCategoriesInput represents the input for listing categories.
type ListCategoriesInput struct {
	UserID       uuid.UUID
	CategoryType *entity.CategoryType // Optional filter by category type
	AccountID    *uuid.UUID           // Optional, with Month enables spending statistics
	Month        string               // Optional "YYYY-MM"
}

// ListCategoriesOutput represents the output of listing categories.
type ListCategoriesOutput struct {
	Categories []*CategoryOutput
}

// CategoryOutput represents a single category in the output.
type CategoryOutput struct {
	ID         uuid.UUID
	Name       string
	Color      string
	Icon       string
	Type       entity.CategoryType
	MonthSpent decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ListCategoriesUseCase handles listing categories logic.
type ListCategoriesUseCase struct {
	categoryRepo    adapter.CategoryRepository
	transactionRepo adapter.TransactionRepository
}

// NewListCategoriesUseCase creates a new ListCategoriesUseCase instance.
func NewListCategoriesUseCase(
	categoryRepo adapter.CategoryRepository,
	transactionRepo adapter.TransactionRepository,
) *ListCategoriesUseCase {
	return &ListCategoriesUseCase{
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
	}
}

// Execute performs the category listing.
func (uc *ListCategoriesUseCase) Execute(ctx context.Context, input ListCategoriesInput) (*ListCategoriesOutput, error) {
	var categories []*entity.Category
	var err error

	if input.CategoryType != nil {
		categories, err = uc.categoryRepo.FindByUserAndType(ctx, input.UserID, *input.CategoryType)
	} else {
		categories, err = uc.categoryRepo.FindByUser(ctx, input.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	var spent map[uuid.UUID]decimal.Decimal
	if input.AccountID != nil && input.Month != "" && len(categories) > 0 {
		start, err := entity.ParseMonth(input.Month)
		if err != nil {
			return nil, err
		}
		spent, err = uc.transactionRepo.SumExpensesByCategory(ctx, input.UserID, *input.AccountID, start, start.AddDate(0, 1, 0))
		if err != nil {
			// Statistics are optional; the listing still succeeds.
			slog.Warn("Failed to load category spending", "userID", input.UserID, "error", err)
			spent = nil
		}
	}

	output := &ListCategoriesOutput{
		Categories: make([]*CategoryOutput, len(categories)),
	}

	for i, cat := range categories {
		output.Categories[i] = &CategoryOutput{
			ID:         cat.ID,
			Name:       cat.Name,
			Color:      cat.Color,
			Icon:       cat.Icon,
			Type:       cat.Type,
			MonthSpent: spent[cat.ID],
			CreatedAt:  cat.CreatedAt,
			UpdatedAt:  cat.UpdatedAt,
		}
	}

	return output, nil
}
