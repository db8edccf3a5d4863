package dto

import (
	"time"

	"github.com/mattaxpro/client-go/internal/domain"
)

// TransactionPayload payload for create/update.
type TransactionPayload struct {
	Amount     float64                `json:"amount"`
	Type       domain.TransactionType `json:"type"`
	CategoryID string                 `json:"categoryId"`
	VendorID   string                 `json:"vendorId,omitempty"`
	Note       string                 `json:"note,omitempty"`
}

// TransactionResponse mirrors the server's transaction shape.
type TransactionResponse struct {
	ID         string                 `json:"id"`
	OwnerID    string                 `json:"userId"`
	Amount     float64                `json:"amount"`
	Type       domain.TransactionType `json:"type"`
	CategoryID string                 `json:"categoryId"`
	VendorID   string                 `json:"vendorId"`
	Note       string                 `json:"note"`
	Deleted    bool                   `json:"isDeleted"`
	CreatedAt  time.Time              `json:"createdAt"`
	UpdatedAt  time.Time              `json:"updatedAt"`
}

// Transaction converts the wire shape to the domain model.
func (t TransactionResponse) Transaction() domain.Transaction {
	return domain.Transaction{
		ID:         t.ID,
		OwnerID:    t.OwnerID,
		Amount:     t.Amount,
		Type:       t.Type,
		CategoryID: t.CategoryID,
		VendorID:   t.VendorID,
		Note:       t.Note,
		Deleted:    t.Deleted,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// ListTransactionsParams query parameters for paginated listing.
type ListTransactionsParams struct {
	Page  int
	Limit int
}

// PaginatedTransactions wraps a page of results.
type PaginatedTransactions struct {
	Items      []TransactionResponse `json:"items"`
	Page       int                   `json:"page"`
	Limit      int                   `json:"limit"`
	TotalPages int                   `json:"totalPages"`
	TotalItems int                   `json:"totalItems"`
}

// ImportResult summarizes a CSV import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// VendorPayload payload for create/update.
type VendorPayload struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// VendorResponse mirrors the server's vendor shape.
type VendorResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
}

// CategoryPayload payload for create/update.
type CategoryPayload struct {
	Name string                 `json:"name"`
	Type domain.TransactionType `json:"type"`
}

// CategoryResponse mirrors the server's category shape.
type CategoryResponse struct {
	ID        string                 `json:"id"`
	OwnerID   string                 `json:"userId"`
	Name      string                 `json:"name"`
	Type      domain.TransactionType `json:"type"`
	CreatedAt time.Time              `json:"createdAt"`
}
