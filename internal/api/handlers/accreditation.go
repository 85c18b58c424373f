package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xbeat/certicredia-sub000/internal/api/middleware"
	"github.com/xbeat/certicredia-sub000/internal/domain/accreditation"
	"github.com/xbeat/certicredia-sub000/internal/domain/assignment"
	"github.com/xbeat/certicredia-sub000/internal/pkg/errors"
	"github.com/xbeat/certicredia-sub000/internal/pkg/logger"
	"github.com/xbeat/certicredia-sub000/internal/pkg/utils"
	"github.com/xbeat/certicredia-sub000/internal/pkg/validator"
)

type AccreditationHandler struct {
	cases       accreditation.Service
	assignments assignment.Service
	logger      *logger.Logger
	validate    *validator.Validator
}

func NewAccreditationHandler(cases accreditation.Service, assignments assignment.Service, log *logger.Logger) *AccreditationHandler {
	return &AccreditationHandler{
		cases:       cases,
		assignments: assignments,
		logger:      log,
		validate:    validator.New(),
	}
}

type createCaseRequest struct {
	OrganizationID int64  `json:"organization_id" validate:"required,gt=0"`
	TemplateID     string `json:"template_id" validate:"required"`
}

type transitionRequest struct {
	Status string `json:"status" validate:"required"`
}

type acceptAssignmentRequest struct {
	Token        string `json:"token" validate:"required"`
	SpecialistID int64  `json:"specialist_id" validate:"required,gt=0"`
}

// Create opens a new accreditation case
// @Summary Create accreditation case
// @Tags Accreditation
// @Accept json
// @Produce json
// @Param request body object{organization_id=int,template_id=string} true "Case details"
// @Success 201 {object} utils.SuccessResponse
// @Failure 400 {object} utils.ErrorResponse "Invalid request"
// @Failure 404 {object} utils.ErrorResponse "Unknown template"
// @Security BearerAuth
// @Router /cases [post]
func (h *AccreditationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request payload"))
		return
	}
	if verrs := h.validate.Validate(req); len(verrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Invalid request", verrs))
		return
	}

	c, err := h.cases.Create(r.Context(), req.OrganizationID, req.TemplateID, middleware.GetActor(r))
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, c)
}

// Get retrieves an accreditation case
// @Summary Get accreditation case
// @Tags Accreditation
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Case not found"
// @Security BearerAuth
// @Router /cases/{id} [get]
func (h *AccreditationHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.cases.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, c)
}

// Transition moves a case to a new lifecycle status
// @Summary Transition accreditation case
// @Description Apply one validated lifecycle transition to the case
// @Tags Accreditation
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param request body object{status=string} true "Target status"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Case not found"
// @Failure 409 {object} utils.ErrorResponse "Transition not allowed"
// @Security BearerAuth
// @Router /cases/{id}/transition [post]
func (h *AccreditationHandler) Transition(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request payload"))
		return
	}
	if verrs := h.validate.Validate(req); len(verrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Invalid request", verrs))
		return
	}

	result, err := h.cases.Transition(r.Context(), chi.URLParam(r, "id"),
		accreditation.Status(req.Status), middleware.GetActor(r))
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, result)
}

// ListByOrganization lists the cases of one organization
// @Summary List accreditation cases
// @Tags Accreditation
// @Produce json
// @Param orgId path int true "Organization ID"
// @Success 200 {object} utils.SuccessResponse
// @Security BearerAuth
// @Router /organizations/{orgId}/cases [get]
func (h *AccreditationHandler) ListByOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, appErr := organizationID(r)
	if appErr != nil {
		utils.WriteError(w, appErr)
		return
	}

	cases, err := h.cases.ListByOrganization(r.Context(), orgID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, cases)
}

// IssueAssignment issues a one-time specialist assignment token
// @Summary Issue specialist assignment token
// @Description Create a pending assignment and return its one-time token
// @Tags Accreditation
// @Accept json
// @Produce json
// @Param id path string true "Case ID"
// @Param request body object{organization_id=int} false "Scope check"
// @Success 201 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Case not found"
// @Security BearerAuth
// @Router /cases/{id}/assignments [post]
func (h *AccreditationHandler) IssueAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrganizationID int64 `json:"organization_id"`
	}
	if r.Body != nil {
		// Body is optional; a missing one means no extra scope check.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	token, err := h.assignments.Issue(r.Context(), chi.URLParam(r, "id"),
		req.OrganizationID, middleware.GetActor(r))
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, token)
}

// AcceptAssignment redeems an assignment token
// @Summary Accept specialist assignment
// @Description Redeem a one-time token, binding the specialist to the case
// @Tags Accreditation
// @Accept json
// @Produce json
// @Param request body object{token=string,specialist_id=int} true "Token and specialist"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse "Invalid or expired token"
// @Security BearerAuth
// @Router /assignments/accept [post]
func (h *AccreditationHandler) AcceptAssignment(w http.ResponseWriter, r *http.Request) {
	var req acceptAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request payload"))
		return
	}
	if verrs := h.validate.Validate(req); len(verrs) > 0 {
		utils.WriteError(w, errors.ValidationError("Invalid request", verrs))
		return
	}

	a, err := h.assignments.Accept(r.Context(), req.Token, req.SpecialistID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, a)
}
