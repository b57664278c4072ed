package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kindredapp/kindred/internal/model"
	"github.com/kindredapp/kindred/internal/service"
	"github.com/kindredapp/kindred/internal/ws"
)

// SwipeHandler records swipes and reports resulting matches
type SwipeHandler struct {
	swipeService *service.SwipeService
	hub          *ws.Hub
}

func NewSwipeHandler(swipeService *service.SwipeService, hub *ws.Hub) *SwipeHandler {
	return &SwipeHandler{
		swipeService: swipeService,
		hub:          hub,
	}
}

// Swipe godoc
// @Summary Record a swipe on another user
// @Description Records like/pass/superlike. Swiping the same target again
// @Description overwrites the previous decision. A mutual like creates a match
// @Description and the response carries its ID.
// @Tags Swipes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body model.SwipeRequest true "Swipe request"
// @Success 200 {object} model.SwipeResult
// @Failure 400 {object} model.ErrorResponse
// @Router /swipes [post]
func (h *SwipeHandler) Swipe(c *gin.Context) {
	var req model.SwipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	userID := currentUserID(c)
	result, err := h.swipeService.RecordSwipe(c.Request.Context(), userID, req.TargetID, req.Action)
	if err != nil {
		respondError(c, err)
		return
	}

	// Connected clients learn about the match immediately; push covers the rest
	if result.Matched && h.hub != nil {
		h.notifyMatch(result.MatchID, userID, req.TargetID)
		h.notifyMatch(result.MatchID, req.TargetID, userID)
	}

	c.JSON(http.StatusOK, result)
}

func (h *SwipeHandler) notifyMatch(matchID string, userID, otherUserID uuid.UUID) {
	h.hub.SendToUser(userID, &model.WSEvent{
		Type: model.WSEventMatch,
		Payload: model.MatchEvent{
			MatchID:   matchID,
			OtherUser: otherUserID,
		},
	})
}
