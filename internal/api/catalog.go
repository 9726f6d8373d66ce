package api

import (
	"context"
	"strings"

	"harmoniq/internal/domain"
)

// CatalogClient lists infrastructure items
type CatalogClient struct {
	client *Client
}

// List fetches the items served at /api/{endpoint} and tags them with the category
func (cc *CatalogClient) List(ctx context.Context, category domain.Category, endpoint string) ([]domain.Item, error) {
	if endpoint == "" {
		endpoint = category.Endpoint()
	}
	var items []domain.Item
	if err := cc.client.get(ctx, "/api/"+strings.TrimPrefix(endpoint, "/"), &items); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Category = category
	}
	return items, nil
}
