package api

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mattaxpro/client-go/internal/api/dto"
)

// ListTransactions returns one page of the caller's transactions.
func (c *Client) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.PaginatedTransactions, error) {
	var page dto.PaginatedTransactions
	if err := c.do(ctx, http.MethodGet, "/transaction", pageQuery(params), nil, &page, "could not load transactions"); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetTransaction fetches a single transaction.
func (c *Client) GetTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	var tx dto.TransactionResponse
	if err := c.do(ctx, http.MethodGet, "/transaction/"+url.PathEscape(id), nil, nil, &tx, "could not load transaction"); err != nil {
		return nil, err
	}
	return &tx, nil
}

// CreateTransaction records a new transaction.
func (c *Client) CreateTransaction(ctx context.Context, payload dto.TransactionPayload) (*dto.TransactionResponse, error) {
	var tx dto.TransactionResponse
	if err := c.do(ctx, http.MethodPost, "/transaction", nil, payload, &tx, "could not create transaction"); err != nil {
		return nil, err
	}
	return &tx, nil
}

// UpdateTransaction edits an existing transaction.
func (c *Client) UpdateTransaction(ctx context.Context, id string, payload dto.TransactionPayload) (*dto.TransactionResponse, error) {
	var tx dto.TransactionResponse
	if err := c.do(ctx, http.MethodPut, "/transaction/"+url.PathEscape(id), nil, payload, &tx, "could not update transaction"); err != nil {
		return nil, err
	}
	return &tx, nil
}

// DeleteTransaction soft-deletes; the record moves to the bin.
func (c *Client) DeleteTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/transaction/"+url.PathEscape(id), nil, nil, nil, "could not delete transaction")
}

// RestoreTransaction pulls a record back out of the bin.
func (c *Client) RestoreTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/transaction/"+url.PathEscape(id)+"/restore", nil, nil, nil, "could not restore transaction")
}

// PurgeTransaction permanently deletes a binned record.
func (c *Client) PurgeTransaction(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/transaction/"+url.PathEscape(id)+"/permanent", nil, nil, nil, "could not permanently delete transaction")
}

// ListBin returns one page of soft-deleted transactions.
func (c *Client) ListBin(ctx context.Context, params dto.ListTransactionsParams) (*dto.PaginatedTransactions, error) {
	var page dto.PaginatedTransactions
	if err := c.do(ctx, http.MethodGet, "/transaction/bin", pageQuery(params), nil, &page, "could not load bin"); err != nil {
		return nil, err
	}
	return &page, nil
}

// ImportTransactionsCSV uploads a CSV file for bulk import.
func (c *Client) ImportTransactionsCSV(ctx context.Context, filename string, file io.Reader) (*dto.ImportResult, error) {
	var result dto.ImportResult
	if err := c.doMultipart(ctx, "/transaction/import", "file", filename, file, &result, "csv import failed"); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExtractReceipt uploads a receipt image; the server OCRs it into a
// draft transaction the user can confirm.
func (c *Client) ExtractReceipt(ctx context.Context, filename string, file io.Reader) (*dto.TransactionPayload, error) {
	var draft dto.TransactionPayload
	if err := c.doMultipart(ctx, "/transaction/extract-receipt", "receipt", filename, file, &draft, "receipt extraction failed"); err != nil {
		return nil, err
	}
	return &draft, nil
}

func pageQuery(params dto.ListTransactionsParams) url.Values {
	query := url.Values{}
	if params.Page > 0 {
		query.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	return query
}
