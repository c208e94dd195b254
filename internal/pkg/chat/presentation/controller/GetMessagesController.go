package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	chat "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/domain"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/usecase"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/view"
	repository "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/persistence/repository/port"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/presentation/middleware"
)

// GetMessagesController returns the ordered message snapshot of a thread as
// display-ready view models (one controller per endpoint).
type GetMessagesController struct {
	UC *usecase.GetMessagesUseCase
}

func NewGetMessagesController(repo repository.ChatRepository) *GetMessagesController {
	return &GetMessagesController{UC: usecase.NewGetMessagesUseCase(repo)}
}

func (h *GetMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Param("conversationId")
		if conversationID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId is required"})
			return
		}

		me := middleware.MustIdentity(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		msgs, err := h.UC.Execute(ctx, usecase.GetMessagesInput{
			ConversationID: conversationID,
			ViewerEmail:    me.Email,
		})
		if err != nil {
			switch {
			case errors.Is(err, chat.ErrNotParticipant):
				c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			case errors.Is(err, usecase.ErrPersistence):
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			}
			return
		}

		views := view.NewMessageViews(msgs, me.Email, time.Now())
		c.JSON(http.StatusOK, gin.H{
			"conversation_id": conversationID,
			"messages":        views,
			"count":           len(views),
		})
	}
}
