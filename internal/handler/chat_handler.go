package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kindredapp/kindred/internal/model"
	"github.com/kindredapp/kindred/internal/service"
)

// ChatHandler handles matches, conversations and messages
type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// GetMatches godoc
// @Summary List the authenticated user's matches with the other member's profile
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Success 200 {array} model.MatchResponse
// @Router /matches [get]
func (h *ChatHandler) GetMatches(c *gin.Context) {
	matches, err := h.chatService.GetMatches(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, matches)
}

// GetRecentMatches godoc
// @Summary List matches created in the last 24 hours
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Success 200 {array} model.MatchResponse
// @Router /matches/recent [get]
func (h *ChatHandler) GetRecentMatches(c *gin.Context) {
	matches, err := h.chatService.GetRecentMatches(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, matches)
}

// GetConversations godoc
// @Summary List conversations sorted by most recent activity
// @Description Each entry carries the last message and the unread count for
// @Description the authenticated user. Matches without messages sort last.
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Success 200 {array} model.Conversation
// @Router /conversations [get]
func (h *ChatHandler) GetConversations(c *gin.Context) {
	userID := currentUserID(c)

	matches, err := h.chatService.GetMatches(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	matchIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		matchIDs = append(matchIDs, m.ID)
	}

	conversations, err := h.chatService.GetConversations(c.Request.Context(), userID, matchIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, conversations)
}

// GetMessages godoc
// @Summary Get the full message history of a match, oldest first
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {array} model.Message
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /matches/{id}/messages [get]
func (h *ChatHandler) GetMessages(c *gin.Context) {
	messages, err := h.chatService.GetMessages(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// SendMessage godoc
// @Summary Send a message in a match
// @Tags Chat
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Match ID"
// @Param body body model.SendMessageRequest true "Message"
// @Success 201 {object} model.Message
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /matches/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request", Message: err.Error()})
		return
	}

	message, err := h.chatService.SendMessage(c.Request.Context(), c.Param("id"), currentUserID(c), req.ReceiverID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// MarkRead godoc
// @Summary Mark all messages sent to the authenticated user in a match as read
// @Tags Chat
// @Security BearerAuth
// @Produce json
// @Param id path string true "Match ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /matches/{id}/read [post]
func (h *ChatHandler) MarkRead(c *gin.Context) {
	if err := h.chatService.MarkMessagesAsRead(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Messages marked as read"})
}
