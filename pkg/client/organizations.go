package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// OrganizationService handles organization directory API calls
type OrganizationService struct {
	client *Client
}

// Get retrieves one organization
func (s *OrganizationService) Get(ctx context.Context, id int64) (*Organization, error) {
	var org Organization
	path := fmt.Sprintf("/api/v1/organizations/%d", id)
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &org); err != nil {
		return nil, err
	}
	return &org, nil
}

// Upsert creates or replaces an organization record
func (s *OrganizationService) Upsert(ctx context.Context, org *Organization) (*Organization, error) {
	var result Organization
	path := fmt.Sprintf("/api/v1/organizations/%d", org.ID)
	if err := s.client.doRequest(ctx, http.MethodPut, path, org, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// List retrieves all known organizations
func (s *OrganizationService) List(ctx context.Context) ([]Organization, error) {
	var orgs []Organization
	if err := s.client.doRequest(ctx, http.MethodGet, "/api/v1/organizations", nil, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// AuditTrail retrieves the most recent audit events of an organization
func (s *OrganizationService) AuditTrail(ctx context.Context, id int64, limit int) ([]AuditEvent, error) {
	path := fmt.Sprintf("/api/v1/organizations/%d/audit", id)
	if limit > 0 {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(limit))
		path += "?" + query.Encode()
	}

	var events []AuditEvent
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}
