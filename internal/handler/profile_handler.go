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

type profileService interface {
	ListDepartments(ctx context.Context) ([]models.Department, error)
	GetProfile(ctx context.Context, claims *models.JWTClaims) (*dto.ProfileResponse, error)
	SelectDepartment(ctx context.Context, req dto.SelectDepartmentRequest, claims *models.JWTClaims) (*dto.SelectDepartmentAck, error)
	UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest, claims *models.JWTClaims) (*dto.ProfileResponse, error)
}

// ProfileHandler exposes the student profile endpoints.
type ProfileHandler struct {
	service profileService
}

// NewProfileHandler builds a new handler.
func NewProfileHandler(service profileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// ListDepartments godoc
// @Summary List departments for selection
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /submissions/departments [get]
func (h *ProfileHandler) ListDepartments(c *gin.Context) {
	departments, err := h.service.ListDepartments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, departments, nil)
}

// GetProfile godoc
// @Summary Get the authenticated student's profile
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /submissions/me/profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	claims := claimsFromContext(c)
	profile, err := h.service.GetProfile(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// SelectDepartment godoc
// @Summary Select the student's department
// @Tags Profile
// @Accept json
// @Produce json
// @Param payload body dto.SelectDepartmentRequest true "Department selection"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /submissions/me/select-department [post]
func (h *ProfileHandler) SelectDepartment(c *gin.Context) {
	claims := claimsFromContext(c)
	var req dto.SelectDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid department selection"))
		return
	}
	ack, err := h.service.SelectDepartment(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ack, nil)
}

// UpdateProfile godoc
// @Summary Update the student's editable profile fields
// @Tags Profile
// @Accept json
// @Produce json
// @Param payload body dto.UpdateProfileRequest true "Profile updates"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /submissions/me/update-profile [patch]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	claims := claimsFromContext(c)
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile payload"))
		return
	}
	profile, err := h.service.UpdateProfile(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}
