package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kindredapp/kindred/internal/model"
	"github.com/kindredapp/kindred/internal/service"
)

// ProfileHandler handles profile and preference endpoints
type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// SaveProfile godoc
// @Summary Create or replace the authenticated user's profile
// @Tags Profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body model.SaveProfileRequest true "Profile payload"
// @Success 200 {object} model.Profile
// @Failure 400 {object} model.ErrorResponse
// @Router /profile [put]
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	var req model.SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	profile, err := h.profileService.SaveProfile(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetMyProfile godoc
// @Summary Get the authenticated user's profile
// @Tags Profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} model.Profile
// @Failure 404 {object} model.ErrorResponse
// @Router /profile [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	profile, err := h.profileService.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetProfile godoc
// @Summary Get another user's profile by ID
// @Tags Profile
// @Security BearerAuth
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} model.Profile
// @Failure 404 {object} model.ErrorResponse
// @Router /profile/{id} [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid user ID"})
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateBasicInfo godoc
// @Summary Update name and bio
// @Tags Profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body model.UpdateBasicInfoRequest true "Fields to update"
// @Success 200 {object} model.Profile
// @Failure 400 {object} model.ErrorResponse
// @Router /profile [patch]
func (h *ProfileHandler) UpdateBasicInfo(c *gin.Context) {
	var req model.UpdateBasicInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	profile, err := h.profileService.UpdateBasicInfo(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdatePreferences godoc
// @Summary Update discovery preferences (looking for, age range, distance)
// @Tags Profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body model.UpdatePreferencesRequest true "Preferences to update"
// @Success 200 {object} model.Profile
// @Failure 400 {object} model.ErrorResponse
// @Router /profile/preferences [patch]
func (h *ProfileHandler) UpdatePreferences(c *gin.Context) {
	var req model.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	profile, err := h.profileService.UpdatePreferences(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// RegisterPushToken godoc
// @Summary Register an FCM push token for the authenticated user
// @Tags Profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body model.RegisterPushTokenRequest true "Push token"
// @Success 200 {object} model.SuccessResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /profile/push-token [post]
func (h *ProfileHandler) RegisterPushToken(c *gin.Context) {
	var req model.RegisterPushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	if err := h.profileService.RegisterPushToken(c.Request.Context(), currentUserID(c), req.PushToken); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Push token registered"})
}
