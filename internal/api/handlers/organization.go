package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/xbeat/certicredia-sub000/internal/domain/organization"
	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
	"github.com/xbeat/certicredia-sub000/internal/pkg/logger"
	"github.com/xbeat/certicredia-sub000/internal/pkg/utils"
	"github.com/xbeat/certicredia-sub000/internal/repository/postgres"
)

// OrganizationHandler exposes the organization directory that profiles and
// cases reference. Records are fed from the surrounding platform, so the
// write side is a plain upsert.
type OrganizationHandler struct {
	repo   *postgres.OrganizationRepository
	logger *logger.Logger
}

func NewOrganizationHandler(repo *postgres.OrganizationRepository, log *logger.Logger) *OrganizationHandler {
	return &OrganizationHandler{
		repo:   repo,
		logger: log,
	}
}

// Get retrieves one organization
// @Summary Get organization
// @Tags Organizations
// @Produce json
// @Param orgId path int true "Organization ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Organization not found"
// @Security BearerAuth
// @Router /organizations/{orgId} [get]
func (h *OrganizationHandler) Get(w http.ResponseWriter, r *http.Request) {
	orgID, appErr := organizationID(r)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	org, err := h.repo.GetOrganization(r.Context(), orgID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, org)
}

// Upsert creates or replaces an organization record
// @Summary Upsert organization
// @Tags Organizations
// @Accept json
// @Produce json
// @Param orgId path int true "Organization ID"
// @Param request body organization.Organization true "Organization record"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /organizations/{orgId} [put]
func (h *OrganizationHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	orgID, appErr := organizationID(r)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	var org organization.Organization
	if err := json.NewDecoder(r.Body).Decode(&org); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request payload"))
		return
	}
	org.ID = orgID
	if org.Name == "" {
		utils.WriteError(w, errors.ValidationError("name is required", nil))
		return
	}

	if err := h.repo.Upsert(r.Context(), &org); err != nil {
		utils.WriteAppError(w, err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"organization_id": orgID,
		"industry":        org.Industry,
	}).Info("Organization record upserted")

	utils.WriteSuccess(w, http.StatusOK, org)
}

// List returns all known organizations
// @Summary List organizations
// @Tags Organizations
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /organizations [get]
func (h *OrganizationHandler) List(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.repo.List(r.Context())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, orgs)
}

// AuditHandler exposes the read side of the audit trail.
type AuditHandler struct {
	repo *postgres.AuditRepository
}

func NewAuditHandler(repo *postgres.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// ListByOrganization returns the audit trail of one organization
// @Summary List audit events
// @Tags Audit
// @Produce json
// @Param orgId path int true "Organization ID"
// @Param limit query int false "Maximum events"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /organizations/{orgId}/audit [get]
func (h *AuditHandler) ListByOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, appErr := organizationID(r)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.repo.ListByOrganization(r.Context(), orgID, limit)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, events)
}
