package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	authport "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/auth/port"
	cacheport "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/cache/port"
	"github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/realtime"
	chat "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/domain"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/livefeed"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/task"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/usecase"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/view"
	repository "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/persistence/repository/port"
)

// ChatSocketController handles the websocket endpoint of a conversation
// screen. The socket carries the live snapshot stream: the first frame a
// client receives supersedes its server-rendered snapshot permanently, and
// every later frame replaces the previous result set.
type ChatSocketController struct {
	router          *realtime.Router
	hub             *livefeed.Hub
	authn           authport.Authenticator
	announcer       task.Announcer
	repo            repository.ChatRepository
	hydrateUC       *usecase.HydrateConversationUseCase
	sendMessageUC   *usecase.SendMessageUseCase
	inflightTimeout time.Duration
}

func NewChatSocketController(repo repository.ChatRepository, router *realtime.Router, hub *livefeed.Hub, authn authport.Authenticator, announcer task.Announcer, cache cacheport.Cache) *ChatSocketController {
	return &ChatSocketController{
		router:          router,
		hub:             hub,
		authn:           authn,
		announcer:       announcer,
		repo:            repo,
		hydrateUC:       usecase.NewHydrateConversationUseCase(repo),
		sendMessageUC:   usecase.NewSendMessageUseCase(repo, cache),
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when the frontend
		// origin set is pinned down.
		return true
	},
}

type inboundFrame struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type snapshotFrame struct {
	Type           string             `json:"type"`
	Origin         string             `json:"origin"` // "server" until the first live result, then "live"
	ConversationID string             `json:"conversation_id"`
	Messages       []view.MessageView `json:"messages"`
}

type ackFrame struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades the request and serves frames until the client disconnects.
// Teardown unsubscribes the live feed and detaches the session.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		conversationID := c.Query("conversation")
		if token == "" || conversationID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token and conversation are required"})
			return
		}

		identity, err := ctl.authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		hydrateCtx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
		static, err := ctl.hydrateUC.Execute(hydrateCtx, usecase.HydrateConversationInput{
			ConversationID: conversationID,
			ViewerEmail:    identity.Email,
		})
		cancel()
		if err != nil {
			if errors.Is(err, chat.ErrNotParticipant) {
				c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response.
			return
		}

		conn := realtime.NewConnection(identity.Email, ws)
		ctl.router.Attach(conn)
		sub := ctl.hub.Subscribe(conversationID)
		done := make(chan struct{})
		defer func() {
			close(done)
			ctl.hub.Unsubscribe(sub)
			ctl.router.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		feed := livefeed.NewFeed(static.Messages)
		ctl.sendSnapshot(conn, conversationID, identity.Email, feed)

		go func() {
			for {
				select {
				case <-done:
					return
				case snapshot := <-sub.C:
					feed.Apply(snapshot)
					ctl.sendSnapshot(conn, conversationID, identity.Email, feed)
				}
			}
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.replyError(conn, "read_error", err.Error())
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case "message":
				ctl.handleMessage(c, conn, conversationID, identity.Email, frame)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

func (ctl *ChatSocketController) handleMessage(c *gin.Context, conn *realtime.Connection, conversationID, sender string, frame inboundFrame) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	msg, err := ctl.sendMessageUC.Execute(ctx, usecase.SendMessageInput{
		ConversationID: conversationID,
		Sender:         sender,
		Text:           frame.Text,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}

	if payload, err := json.Marshal(ackFrame{Type: "sent", ID: msg.ID}); err == nil {
		_ = conn.Send(payload)
	}

	// Refresh the snapshot for every watcher of this conversation, local and
	// remote.
	if snapshot, err := ctl.repo.MessagesByConversation(ctx, conversationID); err == nil {
		ctl.hub.Publish(conversationID, snapshot)
	}
	if ctl.announcer != nil {
		_ = ctl.announcer.Announce(ctx, conversationID)
	}
}

func (ctl *ChatSocketController) sendSnapshot(conn *realtime.Connection, conversationID, viewer string, feed *livefeed.Feed) {
	origin := "server"
	if feed.Live() {
		origin = "live"
	}
	frame := snapshotFrame{
		Type:           "snapshot",
		Origin:         origin,
		ConversationID: conversationID,
		Messages:       view.NewMessageViews(feed.Current(), viewer, time.Now()),
	}
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *ChatSocketController) handleUseCaseError(conn *realtime.Connection, err error) {
	switch {
	case errors.Is(err, usecase.ErrPersistence):
		ctl.replyError(conn, "internal_error", "unexpected persistence error")
	case errors.Is(err, chat.ErrNotParticipant):
		ctl.replyError(conn, "forbidden", "user is not a participant in this conversation")
	default:
		ctl.replyError(conn, "bad_request", err.Error())
	}
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, code string, message string) {
	frame := errorFrame{
		Type:  "error",
		Code:  code,
		Error: message,
	}
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}
