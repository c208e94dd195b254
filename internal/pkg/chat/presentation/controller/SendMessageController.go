package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	cacheport "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/cache/port"
	queueport "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/queue/port"
	chat "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/domain"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/livefeed"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/task"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/usecase"
	repository "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/persistence/repository/port"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/presentation/middleware"
)

// SendMessageController handles the send-message endpoint (one controller per
// endpoint). With a queue client present the message rides a background task
// and the endpoint answers 202; without one it falls back to the inline path.
type SendMessageController struct {
	Q         queueport.Client
	UC        *usecase.SendMessageUseCase
	Repo      repository.ChatRepository
	Hub       *livefeed.Hub
	Announcer task.Announcer
}

func NewSendMessageController(repo repository.ChatRepository, q queueport.Client, hub *livefeed.Hub, announcer task.Announcer, cache cacheport.Cache) *SendMessageController {
	return &SendMessageController{
		Q:         q,
		UC:        usecase.NewSendMessageUseCase(repo, cache),
		Repo:      repo,
		Hub:       hub,
		Announcer: announcer,
	}
}

type sendMessageRequest struct {
	Text      string `json:"text" binding:"required"`
	DedupeKey string `json:"dedupe_key"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		conversationID := c.Param("conversationId")
		if conversationID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId is required"})
			return
		}

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		me := middleware.MustIdentity(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if h.Q == nil {
			h.sendInline(c, ctx, conversationID, me.Email, req.Text)
			return
		}

		payload := task.SendMessageTaskPayload{
			ConversationID: conversationID,
			Sender:         me.Email,
			Text:           req.Text,
			DedupeKey:      req.DedupeKey,
		}
		b, err := json.Marshal(payload)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode task payload"})
			return
		}

		opts := queueport.EnqueueOption{Queue: "chat", MaxRetry: 20}
		if req.DedupeKey != "" {
			// Rapid double-submits with the same key collapse into one task.
			opts.UniqueTTL = time.Minute
		}
		id, err := h.Q.Enqueue(ctx, queueport.Task{Type: task.SendMessageTaskType, Payload: b}, opts)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to enqueue message"})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"status":          "queued",
			"task_id":         id,
			"conversation_id": conversationID,
		})
	}
}

func (h *SendMessageController) sendInline(c *gin.Context, ctx context.Context, conversationID, sender, text string) {
	msg, err := h.UC.Execute(ctx, usecase.SendMessageInput{
		ConversationID: conversationID,
		Sender:         sender,
		Text:           text,
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

	if h.Hub != nil {
		if snapshot, err := h.Repo.MessagesByConversation(ctx, conversationID); err == nil {
			h.Hub.Publish(conversationID, snapshot)
		}
	}
	if h.Announcer != nil {
		_ = h.Announcer.Announce(ctx, conversationID)
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":              msg.ID,
		"conversation_id": msg.ConversationID,
		"sender":          msg.Sender,
		"text":            msg.Text,
	})
}
