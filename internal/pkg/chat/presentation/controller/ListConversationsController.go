package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	cacheport "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/cache/port"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/usecase"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/view"
	repository "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/persistence/repository/port"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/presentation/middleware"
)

// ListConversationsController serves the sidebar: every thread containing the
// current user, each with its resolved recipient.
type ListConversationsController struct {
	ListUC    *usecase.ListConversationsUseCase
	ResolveUC *usecase.ResolveRecipientUseCase
}

func NewListConversationsController(repo repository.ChatRepository, cache cacheport.Cache) *ListConversationsController {
	return &ListConversationsController{
		ListUC:    usecase.NewListConversationsUseCase(repo),
		ResolveUC: usecase.NewResolveRecipientUseCase(repo, cache),
	}
}

func (h *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		me := middleware.MustIdentity(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		convs, err := h.ListUC.Execute(ctx, usecase.ListConversationsInput{UserEmail: me.Email})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		recipients, err := h.ResolveUC.ResolveMany(ctx, convs, me.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		now := time.Now()
		out := make([]gin.H, 0, len(convs))
		for _, conv := range convs {
			res := recipients[conv.ID]
			out = append(out, gin.H{
				"id":        conv.ID,
				"users":     conv.Users,
				"recipient": view.NewRecipientView(res.Email, res.Profile, now),
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"conversations": out,
			"count":         len(out),
		})
	}
}
