package api

import (
	"context"
	"fmt"

	"harmoniq/internal/domain"
)

const groupsPath = "/api/listeinfrastructures"

// GroupsClient reads and writes infrastructure groups
type GroupsClient struct {
	client *Client
}

// List returns every group in server order
func (g *GroupsClient) List(ctx context.Context) ([]domain.Group, error) {
	var groups []domain.Group
	if err := g.client.get(ctx, groupsPath, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Get fetches the full record of one group
func (g *GroupsClient) Get(ctx context.Context, id int) (*domain.GroupRecord, error) {
	var record domain.GroupRecord
	if err := g.client.get(ctx, fmt.Sprintf("%s/%d", groupsPath, id), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Update replaces the stored selection of a group. The response body is ignored.
func (g *GroupsClient) Update(ctx context.Context, id int, record domain.GroupRecord) error {
	record.ID = 0
	return g.client.put(ctx, fmt.Sprintf("%s/%d", groupsPath, id), record, nil)
}

// Create adds an empty group with the given name
func (g *GroupsClient) Create(ctx context.Context, name string) (*domain.Group, error) {
	var group domain.Group
	if err := g.client.post(ctx, groupsPath, domain.GroupRecord{Name: name}, &group); err != nil {
		return nil, err
	}
	if group.Name == "" {
		group.Name = name
	}
	return &group, nil
}
