package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mattaxpro/client-go/internal/api/dto"
)

// ListCategories returns the caller's categories.
func (c *Client) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	var categories []dto.CategoryResponse
	if err := c.do(ctx, http.MethodGet, "/category", nil, nil, &categories, "could not load categories"); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory adds a category.
func (c *Client) CreateCategory(ctx context.Context, payload dto.CategoryPayload) (*dto.CategoryResponse, error) {
	var category dto.CategoryResponse
	if err := c.do(ctx, http.MethodPost, "/category", nil, payload, &category, "could not create category"); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory edits a category.
func (c *Client) UpdateCategory(ctx context.Context, id string, payload dto.CategoryPayload) (*dto.CategoryResponse, error) {
	var category dto.CategoryResponse
	if err := c.do(ctx, http.MethodPut, "/category/"+url.PathEscape(id), nil, payload, &category, "could not update category"); err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/category/"+url.PathEscape(id), nil, nil, nil, "could not delete category")
}
