package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xbeat/certicredia-sub000/internal/domain/indicator"
	"github.com/xbeat/certicredia-sub000/internal/domain/profile"
	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
	"github.com/xbeat/certicredia-sub000/internal/pkg/logger"
	"github.com/xbeat/certicredia-sub000/internal/pkg/utils"
)

type ProfileHandler struct {
	service profile.Service
	logger  *logger.Logger
}

func NewProfileHandler(service profile.Service, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  log,
	}
}

type profileRequest struct {
	Indicators map[string]indicator.Evaluation `json:"indicators"`
	Metadata   map[string]interface{}          `json:"metadata,omitempty"`
}

func organizationID(r *http.Request) (int64, *errors.AppError) {
	raw := chi.URLParam(r, "orgId")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest("Invalid organization id")
	}
	return id, nil
}

// Create creates the compliance profile for an organization
// @Summary Create compliance profile
// @Description Normalize the submitted evaluations and create the organization's profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Param orgId path int true "Organization ID"
// @Param request body profileRequest true "Indicator evaluations"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse "Malformed evaluations"
// @Failure 409 {object} utils.ErrorResponse "Profile already exists"
// @Security BearerAuth
// @Router /organizations/{orgId}/profile [post]
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	orgID, appErr := organizationID(r)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request payload"))
		return
	}

	p, err := h.service.Create(r.Context(), orgID, req.Indicators, req.Metadata)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, p)
}

// Get retrieves the active compliance profile
// @Summary Get compliance profile
// @Tags Profiles
// @Produce json
// @Param orgId path int true "Organization ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Profile not found"
// @Security BearerAuth
// @Router /organizations/{orgId}/profile [get]
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	orgID, appErr := organizationID(r)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	p, err := h.service.Get(r.Context(), orgID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, p)
}

// Update replaces the full indicator map of the active profile
// @Summary Update compliance profile
// @Description Replace the indicator map and recompute the aggregate
// @Tags Profiles
// @Accept json
// @Produce json
// @Param orgId path int true "Organization ID"
// @Param request body profileRequest true "Indicator evaluations"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Profile not found"
// @Security BearerAuth
// @Router /organizations/{orgId}/profile [put]
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	orgID, appErr := organizationID(r)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request payload"))
		return
	}

	p, err := h.service.Update(r.Context(), orgID, req.Indicators)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, p)
}

// SoftDelete moves the profile to the trash
// @Summary Trash compliance profile
// @Tags Profiles
// @Produce json
// @Param orgId path int true "Organization ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Profile not found"
// @Security BearerAuth
// @Router /organizations/{orgId}/profile [delete]
func (h *ProfileHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	orgID, appErr := organizationID(r)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	p, err := h.service.SoftDelete(r.Context(), orgID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Profile moved to trash", p)
}

// Restore brings a trashed profile back
// @Summary Restore compliance profile
// @Tags Profiles
// @Produce json
// @Param orgId path int true "Organization ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "No trashed profile"
// @Security BearerAuth
// @Router /organizations/{orgId}/profile/restore [post]
func (h *ProfileHandler) Restore(w http.ResponseWriter, r *http.Request) {
	orgID, appErr := organizationID(r)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	p, err := h.service.Restore(r.Context(), orgID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Profile restored", p)
}

// Purge removes the profile permanently
// @Summary Purge compliance profile
// @Description Irreversibly delete the profile, trashed or not
// @Tags Profiles
// @Produce json
// @Param orgId path int true "Organization ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /organizations/{orgId}/profile/purge [delete]
func (h *ProfileHandler) Purge(w http.ResponseWriter, r *http.Request) {
	orgID, appErr := organizationID(r)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	removed, err := h.service.Purge(r.Context(), orgID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]interface{}{"removed": removed})
}

// List lists active compliance profiles
// @Summary List compliance profiles
// @Tags Profiles
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /profiles [get]
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	profiles, err := h.service.ListActive(r.Context(), profile.Filter{Limit: limit, Offset: offset})
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, profiles)
}

// ListTrashed lists soft-deleted profiles
// @Summary List trashed compliance profiles
// @Tags Profiles
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /profiles/trash [get]
func (h *ProfileHandler) ListTrashed(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.ListTrashed(r.Context())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, profiles)
}

// Statistics returns aggregate statistics over all profiles
// @Summary Profile statistics
// @Tags Profiles
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /profiles/statistics [get]
func (h *ProfileHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context())
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, stats)
}
