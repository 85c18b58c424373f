package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ProfileService handles compliance profile API calls
type ProfileService struct {
	client *Client
}

// ProfileRequest carries the indicator evaluations for a create or update.
// An update replaces the whole indicator set.
type ProfileRequest struct {
	Indicators map[string]Evaluation  `json:"indicators"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// Create creates the compliance profile for an organization
func (s *ProfileService) Create(ctx context.Context, organizationID int64, req *ProfileRequest) (*Profile, error) {
	var p Profile
	path := fmt.Sprintf("/api/v1/organizations/%d/profile", organizationID)
	if err := s.client.doRequest(ctx, http.MethodPost, path, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Get retrieves the active profile of an organization
func (s *ProfileService) Get(ctx context.Context, organizationID int64) (*Profile, error) {
	var p Profile
	path := fmt.Sprintf("/api/v1/organizations/%d/profile", organizationID)
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update replaces the indicator set of the active profile and rescores it
func (s *ProfileService) Update(ctx context.Context, organizationID int64, req *ProfileRequest) (*Profile, error) {
	var p Profile
	path := fmt.Sprintf("/api/v1/organizations/%d/profile", organizationID)
	if err := s.client.doRequest(ctx, http.MethodPut, path, req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete moves the active profile to the trash
func (s *ProfileService) Delete(ctx context.Context, organizationID int64) error {
	path := fmt.Sprintf("/api/v1/organizations/%d/profile", organizationID)
	return s.client.doRequest(ctx, http.MethodDelete, path, nil, nil)
}

// Restore brings a trashed profile back
func (s *ProfileService) Restore(ctx context.Context, organizationID int64) (*Profile, error) {
	var p Profile
	path := fmt.Sprintf("/api/v1/organizations/%d/profile/restore", organizationID)
	if err := s.client.doRequest(ctx, http.MethodPost, path, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Purge permanently removes a trashed profile
func (s *ProfileService) Purge(ctx context.Context, organizationID int64) error {
	path := fmt.Sprintf("/api/v1/organizations/%d/profile/purge", organizationID)
	return s.client.doRequest(ctx, http.MethodDelete, path, nil, nil)
}

// List retrieves active profiles across organizations
func (s *ProfileService) List(ctx context.Context, limit, offset int) ([]Profile, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}

	path := "/api/v1/profiles"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var profiles []Profile
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// ListTrashed retrieves soft-deleted profiles
func (s *ProfileService) ListTrashed(ctx context.Context) ([]Profile, error) {
	var profiles []Profile
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/v1/profiles/trash", nil, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// Statistics retrieves the cross-organization profile summary
func (s *ProfileService) Statistics(ctx context.Context) (*ProfileStatistics, error) {
	var stats ProfileStatistics
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/v1/profiles/statistics", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
