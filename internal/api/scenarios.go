package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"harmoniq/internal/domain"
	herrors "harmoniq/internal/errors"
)

const scenariosPath = "/api/scenario"

// ScenariosClient manages scenarios and launches simulations
type ScenariosClient struct {
	client *Client
}

// List returns every scenario
func (s *ScenariosClient) List(ctx context.Context) ([]domain.Scenario, error) {
	var scenarios []domain.Scenario
	if err := s.client.get(ctx, scenariosPath, &scenarios); err != nil {
		return nil, err
	}
	return scenarios, nil
}

// Get fetches one scenario with all its fields
func (s *ScenariosClient) Get(ctx context.Context, id int) (*domain.Scenario, error) {
	var scenario domain.Scenario
	if err := s.client.get(ctx, fmt.Sprintf("%s/%d", scenariosPath, id), &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// Create stores a new scenario and returns it with its id
func (s *ScenariosClient) Create(ctx context.Context, draft domain.Scenario) (*domain.Scenario, error) {
	draft.ID = 0
	var created domain.Scenario
	if err := s.client.post(ctx, scenariosPath, draft, &created); err != nil {
		return nil, err
	}
	if created.Name == "" {
		id := created.ID
		created = draft
		created.ID = id
	}
	return &created, nil
}

// Delete removes a scenario
func (s *ScenariosClient) Delete(ctx context.Context, id int) error {
	return s.client.delete(ctx, fmt.Sprintf("%s/%d", scenariosPath, id))
}

// LaunchSimulation asks the backend to simulate a scenario over a group.
// A 501 answer becomes a NOT_IMPLEMENTED error.
func (s *ScenariosClient) LaunchSimulation(ctx context.Context, scenarioID, groupID int) error {
	q := url.Values{}
	q.Set("scenario_id", strconv.Itoa(scenarioID))
	q.Set("liste_infra_id", strconv.Itoa(groupID))

	err := s.client.post(ctx, "/api/simulation?"+q.Encode(), nil, nil)
	if apiErr, ok := AsAPIError(err); ok && apiErr.IsNotImplemented() {
		return herrors.Wrap(apiErr, herrors.ErrCodeNotImplemented, "simulation is not implemented by the server").
			WithDetail("feature", "simulation")
	}
	return err
}
