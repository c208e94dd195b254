package controller

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	cacheport "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/cache/port"
	chat "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/domain"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/usecase"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/view"
	repository "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/persistence/repository/port"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/presentation/middleware"
)

// ConversationPageController renders the server-side conversation page: one
// point lookup, one ordered message query, and a hydration payload the client
// uses until its live subscription delivers the first snapshot.
type ConversationPageController struct {
	HydrateUC *usecase.HydrateConversationUseCase
	ResolveUC *usecase.ResolveRecipientUseCase
}

func NewConversationPageController(repo repository.ChatRepository, cache cacheport.Cache) *ConversationPageController {
	return &ConversationPageController{
		HydrateUC: usecase.NewHydrateConversationUseCase(repo),
		ResolveUC: usecase.NewResolveRecipientUseCase(repo, cache),
	}
}

type conversationPageData struct {
	Title          string
	ConversationID string
	Recipient      view.RecipientView
	Messages       []view.MessageView
	Hydration      template.JS
}

func (h *ConversationPageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Param("conversationId")
		if conversationID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId is required"})
			return
		}

		me := middleware.MustIdentity(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		res, err := h.HydrateUC.Execute(ctx, usecase.HydrateConversationInput{
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

		recipient, err := h.ResolveUC.Execute(ctx, usecase.ResolveRecipientInput{
			Users:            res.Conversation.Users,
			CurrentUserEmail: me.Email,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		now := time.Now()
		views := view.NewMessageViews(res.Messages, me.Email, now)

		hydration, err := json.Marshal(gin.H{
			"conversation_id": conversationID,
			"messages":        views,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode hydration payload"})
			return
		}

		c.HTML(http.StatusOK, "conversation.html", conversationPageData{
			Title:          "Conversation with " + recipient.Email,
			ConversationID: conversationID,
			Recipient:      view.NewRecipientView(recipient.Email, recipient.Profile, now),
			Messages:       views,
			Hydration:      template.JS(hydration),
		})
	}
}
