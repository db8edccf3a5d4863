package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mattaxpro/client-go/internal/api/dto"
)

// ListVendors returns the caller's vendors.
func (c *Client) ListVendors(ctx context.Context) ([]dto.VendorResponse, error) {
	var vendors []dto.VendorResponse
	if err := c.do(ctx, http.MethodGet, "/vendor", nil, nil, &vendors, "could not load vendors"); err != nil {
		return nil, err
	}
	return vendors, nil
}

// CreateVendor adds a vendor.
func (c *Client) CreateVendor(ctx context.Context, payload dto.VendorPayload) (*dto.VendorResponse, error) {
	var vendor dto.VendorResponse
	if err := c.do(ctx, http.MethodPost, "/vendor", nil, payload, &vendor, "could not create vendor"); err != nil {
		return nil, err
	}
	return &vendor, nil
}

// UpdateVendor edits a vendor.
func (c *Client) UpdateVendor(ctx context.Context, id string, payload dto.VendorPayload) (*dto.VendorResponse, error) {
	var vendor dto.VendorResponse
	if err := c.do(ctx, http.MethodPut, "/vendor/"+url.PathEscape(id), nil, payload, &vendor, "could not update vendor"); err != nil {
		return nil, err
	}
	return &vendor, nil
}

// DeleteVendor removes a vendor.
func (c *Client) DeleteVendor(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/vendor/"+url.PathEscape(id), nil, nil, nil, "could not delete vendor")
}
