package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/psgtech/internship-undertaking-api/internal/dto"
	"github.com/psgtech/internship-undertaking-api/internal/models"
	appErrors "github.com/psgtech/internship-undertaking-api/pkg/errors"
	"github.com/psgtech/internship-undertaking-api/pkg/response"
)

type submissionService interface {
	Create(ctx context.Context, req dto.CreateSubmissionRequest, claims *models.JWTClaims) (*dto.CreateSubmissionAck, error)
	ListPending(ctx context.Context, claims *models.JWTClaims) ([]dto.PendingSubmissionItem, error)
	ListAccepted(ctx context.Context, claims *models.JWTClaims) (*dto.AcceptedSubmissionList, error)
	Decide(ctx context.Context, submissionID string, req dto.DecisionRequest, claims *models.JWTClaims) (*dto.DecisionAck, error)
	ListMine(ctx context.Context, claims *models.JWTClaims) ([]dto.MySubmissionItem, error)
	AdminOverview(ctx context.Context) (dto.Overview, bool, error)
	OverviewCSV(ctx context.Context) ([]byte, error)
	RenderUndertaking(ctx context.Context, submissionID string) (string, []byte, error)
}

// SubmissionHandler exposes the submission workflow endpoints.
type SubmissionHandler struct {
	service submissionService
}

// NewSubmissionHandler builds a new handler.
func NewSubmissionHandler(service submissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

// Create godoc
// @Summary Submit internship details
// @Tags Submissions
// @Accept json
// @Produce json
// @Param payload body dto.CreateSubmissionRequest true "Submission payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /submissions [post]
func (h *SubmissionHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	var req dto.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid submission payload"))
		return
	}
	ack, err := h.service.Create(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ack)
}

// ListPending godoc
// @Summary List the tutor's pending submissions
// @Tags Submissions
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /submissions/pending [get]
func (h *SubmissionHandler) ListPending(c *gin.Context) {
	claims := claimsFromContext(c)
	items, err := h.service.ListPending(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// ListAccepted godoc
// @Summary List the tutor's accepted submissions with class names
// @Tags Submissions
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /submissions/accepted-submissions/class [get]
func (h *SubmissionHandler) ListAccepted(c *gin.Context) {
	claims := claimsFromContext(c)
	list, err := h.service.ListAccepted(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// Decide godoc
// @Summary Accept or decline a submission
// @Tags Submissions
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param payload body dto.DecisionRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /submissions/{id}/decision [patch]
func (h *SubmissionHandler) Decide(c *gin.Context) {
	claims := claimsFromContext(c)
	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid decision payload"))
		return
	}
	ack, err := h.service.Decide(c.Request.Context(), c.Param("id"), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ack, nil)
}

// ListMine godoc
// @Summary List the authenticated student's submissions
// @Tags Submissions
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /submissions/me [get]
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	items, err := h.service.ListMine(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// AdminOverview godoc
// @Summary Accepted submissions grouped by department and class
// @Tags Overview
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /submissions/admin/overview [get]
func (h *SubmissionHandler) AdminOverview(c *gin.Context) {
	overview, cacheHit, err := h.service.AdminOverview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, map[string]interface{}{"cache_hit": cacheHit})
}

// ExportOverview godoc
// @Summary Export the accepted overview as CSV
// @Tags Overview
// @Produce text/csv
// @Success 200 {string} string "CSV payload"
// @Router /submissions/admin/overview/export [get]
func (h *SubmissionHandler) ExportOverview(c *gin.Context) {
	data, err := h.service.OverviewCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="overview.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// DownloadPDF godoc
// @Summary Download the internship undertaking PDF
// @Tags Submissions
// @Produce application/pdf
// @Param id path string true "Submission ID"
// @Success 200 {string} string "PDF payload"
// @Router /submissions/{id}/download-pdf [get]
func (h *SubmissionHandler) DownloadPDF(c *gin.Context) {
	filename, data, err := h.service.RenderUndertaking(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename=`+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}
