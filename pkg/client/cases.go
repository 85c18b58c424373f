package client

import (
	"context"
	"fmt"
	"net/http"
)

// CaseService handles accreditation case API calls
type CaseService struct {
	client *Client
}

// CreateCaseRequest opens a new accreditation case
type CreateCaseRequest struct {
	OrganizationID int64  `json:"organization_id"`
	TemplateID     string `json:"template_id"`
}

// Create opens a new accreditation case in draft
func (s *CaseService) Create(ctx context.Context, req *CreateCaseRequest) (*Case, error) {
	var c Case
	if err := s.client.doRequest(ctx, http.MethodPost, "/api/v1/cases", req, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Get retrieves a case by ID
func (s *CaseService) Get(ctx context.Context, id string) (*Case, error) {
	var c Case
	path := fmt.Sprintf("/api/v1/cases/%s", id)
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Transition requests a status change on a case. Disallowed transitions
// are rejected with IsInvalidTransition set on the returned error.
func (s *CaseService) Transition(ctx context.Context, id, status string) (*TransitionResult, error) {
	var result TransitionResult
	path := fmt.Sprintf("/api/v1/cases/%s/transition", id)
	body := map[string]string{"status": status}
	if err := s.client.doRequest(ctx, http.MethodPost, path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListByOrganization retrieves all cases of an organization
func (s *CaseService) ListByOrganization(ctx context.Context, organizationID int64) ([]Case, error) {
	var cases []Case
	path := fmt.Sprintf("/api/v1/organizations/%d/cases", organizationID)
	if err := s.client.doRequest(ctx, http.MethodGet, path, nil, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// IssueAssignment mints a one-time specialist assignment token for a case.
// The plaintext token is returned once and never stored.
func (s *CaseService) IssueAssignment(ctx context.Context, caseID string, organizationID int64) (*AssignmentToken, error) {
	var token AssignmentToken
	path := fmt.Sprintf("/api/v1/cases/%s/assignments", caseID)
	var body interface{}
	if organizationID != 0 {
		body = map[string]int64{"organization_id": organizationID}
	}
	if err := s.client.doRequest(ctx, http.MethodPost, path, body, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// AcceptAssignmentRequest redeems an assignment token for a specialist
type AcceptAssignmentRequest struct {
	Token        string `json:"token"`
	SpecialistID int64  `json:"specialist_id"`
}

// AcceptAssignment redeems an assignment token, binding the specialist
// to the case
func (s *CaseService) AcceptAssignment(ctx context.Context, req *AcceptAssignmentRequest) (*Assignment, error) {
	var a Assignment
	if err := s.client.doRequest(ctx, http.MethodPost, "/api/v1/assignments/accept", req, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
