package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recurring/internal/domain/entity"
)

// CreateAccountRequest represents the request body for account creation.
type CreateAccountRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=50"`
	Description string          `json:"description,omitempty" binding:"max=255"`
	Balance     decimal.Decimal `json:"balance"`
	Currency    string          `json:"currency,omitempty"`
	Color       string          `json:"color,omitempty"`
	Icon        string          `json:"icon,omitempty"`
	IsActive    bool            `json:"is_active,omitempty"`
}

// UpdateAccountRequest represents the request body for account update.
type UpdateAccountRequest struct {
	Name        *string          `json:"name,omitempty" binding:"omitempty,max=50"`
	Description *string          `json:"description,omitempty" binding:"omitempty,max=255"`
	Balance     *decimal.Decimal `json:"balance,omitempty"`
	Currency    *string          `json:"currency,omitempty"`
	Color       *string          `json:"color,omitempty"`
	Icon        *string          `json:"icon,omitempty"`
	IsActive    *bool            `json:"is_active,omitempty"`
}

// AccountResponse represents a single account in API responses.
type AccountResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Balance     string    `json:"balance"`
	Currency    string    `json:"currency"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AccountListResponse represents the response for listing accounts.
type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain Account entity to an AccountResponse DTO.
func ToAccountResponse(account *entity.Account) AccountResponse {
	return AccountResponse{
		ID:          account.ID.String(),
		UserID:      account.UserID.String(),
		Name:        account.Name,
		Description: account.Description,
		Balance:     account.Balance.StringFixed(2),
		Currency:    account.Currency,
		Color:       account.Color,
		Icon:        account.Icon,
		IsActive:    account.IsActive,
		CreatedAt:   account.CreatedAt,
		UpdatedAt:   account.UpdatedAt,
	}
}

// ToAccountListResponse converts a list of accounts to an AccountListResponse.
func ToAccountListResponse(accounts []*entity.Account) AccountListResponse {
	responses := make([]AccountResponse, len(accounts))
	for i, account := range accounts {
		responses[i] = ToAccountResponse(account)
	}
	return AccountListResponse{Accounts: responses}
}
