package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kindredapp/kindred/internal/model"
	"github.com/kindredapp/kindred/internal/service"
)

// DiscoveryHandler serves the discovery feed
type DiscoveryHandler struct {
	discoveryService *service.DiscoveryService
}

func NewDiscoveryHandler(discoveryService *service.DiscoveryService) *DiscoveryHandler {
	return &DiscoveryHandler{discoveryService: discoveryService}
}

// Discover godoc
// @Summary Fetch discoverable profiles for the authenticated user
// @Description Returns profiles that are mutually compatible with the requester:
// @Description both gender preferences, both age ranges, and both distance radii must hold.
// @Tags Discovery
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Maximum profiles to return"
// @Success 200 {array} model.DiscoveredProfile
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /discovery [get]
func (h *DiscoveryHandler) Discover(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid limit"})
			return
		}
		limit = parsed
	}

	profiles, err := h.discoveryService.FetchProfiles(c.Request.Context(), currentUserID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profiles)
}
