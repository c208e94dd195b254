package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/usecase"
	repository "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/persistence/repository/port"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/presentation/middleware"
)

// StartConversationController handles the new-conversation endpoint
// (one controller per endpoint).
type StartConversationController struct {
	UC *usecase.StartConversationUseCase
}

func NewStartConversationController(repo repository.ChatRepository) *StartConversationController {
	return &StartConversationController{UC: usecase.NewStartConversationUseCase(repo)}
}

type startConversationRequest struct {
	RecipientEmail string `json:"recipient_email" binding:"required"`
}

// Handle gates and creates a two-party thread. Rejected candidates answer 200
// with the outcome so the dialog-close UX of the original stays silent while
// the cause remains visible to clients and tests.
func (h *StartConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req startConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		me := middleware.MustIdentity(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		res, err := h.UC.Execute(ctx, usecase.StartConversationInput{
			CurrentUserEmail: me.Email,
			RecipientEmail:   req.RecipientEmail,
		})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		if res.Outcome != usecase.OutcomeCreated {
			c.JSON(http.StatusOK, gin.H{"outcome": res.Outcome.String()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"outcome":         res.Outcome.String(),
			"conversation_id": res.ConversationID,
		})
	}
}
