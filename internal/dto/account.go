package dto

import (
	"time"

	"github.com/hmsuite/hospital_accounting_app/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name            string             `json:"name" binding:"required"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	ParentAccountID *int64             `json:"parentAccountID"` // Optional, use pointer for nullability
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name            *string             `json:"name"`            // Optional: new name
	AccountType     *domain.AccountType `json:"accountType"`     // Optional: new type
	ParentAccountID *int64              `json:"parentAccountID"` // Optional: new parent (cycle checked)
	IsActive        *bool               `json:"isActive"`        // Optional: new active status
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	AccountType     *domain.AccountType `form:"type"`
	IsActive        *bool               `form:"active"`
	ParentAccountID *int64              `form:"parent"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       int64              `json:"accountID"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	ParentAccountID *int64             `json:"parentAccountID"`
	IsActive        bool               `json:"isActive"`
	CreatedAt       time.Time          `json:"createdAt"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		ParentAccountID: acc.ParentAccountID,
		IsActive:        acc.IsActive,
		CreatedAt:       acc.CreatedAt,
		LastUpdatedAt:   acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}
