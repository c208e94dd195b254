package task

import (
	"context"
	"encoding/json"
	"time"

	cacheport "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/cache/port"
	qport "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/queue/port"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/livefeed"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/usecase"
	repository "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/persistence/repository/port"
)

// SendMessageTaskType is the queue task name for sending a chat message.
const SendMessageTaskType = "chat:send_message"

// SendMessageTaskPayload is the JSON payload transported via the queue.
// Kept decoupled from domain types to avoid tight coupling with JSON tags.
type SendMessageTaskPayload struct {
	ConversationID string `json:"conversationId"`
	Sender         string `json:"sender"`
	Text           string `json:"text"`
	DedupeKey      string `json:"dedupeKey,omitempty"`
}

// Announcer relays a conversation change to peer nodes.
type Announcer interface {
	Announce(ctx context.Context, conversationID string) error
}

// RegisterSendMessageTask binds the send-message handler to the provided
// server. After the message is persisted the handler re-runs the conversation
// query and publishes the refreshed snapshot to the hub; announcer may be nil
// on single-node deployments.
func RegisterSendMessageTask(srv qport.Server, repo repository.ChatRepository, hub *livefeed.Hub, announcer Announcer, cache cacheport.Cache) {
	sendUC := usecase.NewSendMessageUseCase(repo, cache)

	srv.Register(SendMessageTaskType, func(ctx context.Context, t qport.Task) error {
		var p SendMessageTaskPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry indefinitely
			return err
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		_, err := sendUC.Execute(ctx, usecase.SendMessageInput{
			ConversationID: p.ConversationID,
			Sender:         p.Sender,
			Text:           p.Text,
		})
		if err != nil {
			// Persistence errors signal retry per the adapter's policy.
			return err
		}

		if hub != nil {
			if snapshot, err := repo.MessagesByConversation(ctx, p.ConversationID); err == nil {
				hub.Publish(p.ConversationID, snapshot)
			}
		}
		if announcer != nil {
			_ = announcer.Announce(ctx, p.ConversationID)
		}
		return nil
	})
}
