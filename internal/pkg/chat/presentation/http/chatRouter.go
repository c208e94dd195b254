package http

import (
	"github.com/gin-gonic/gin"

	authport "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/auth/port"
	cacheport "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/cache/port"
	qport "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/queue/port"
	"github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/realtime"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/livefeed"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/task"
	repository "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/persistence/repository/port"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/presentation/controller"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/presentation/middleware"
)

// Dependencies bundles the capability handles the chat endpoints need. All of
// them are injected explicitly so tests can substitute fakes.
type Dependencies struct {
	Repo      repository.ChatRepository
	Queue     qport.Client // nil disables the queued send path
	Realtime  *realtime.Router
	Hub       *livefeed.Hub
	Authn     authport.Authenticator
	Cache     cacheport.Cache // nil disables profile caching
	Announcer task.Announcer  // nil on single-node deployments
}

// RegisterRoutes registers chat-related HTTP endpoints under the given router
// group. It constructs per-endpoint controllers and binds them directly to
// routes.
func RegisterRoutes(g *gin.RouterGroup, deps Dependencies) {
	startCtl := controller.NewStartConversationController(deps.Repo)
	listCtl := controller.NewListConversationsController(deps.Repo, deps.Cache)
	getMsgCtl := controller.NewGetMessagesController(deps.Repo)
	sendMsgCtl := controller.NewSendMessageController(deps.Repo, deps.Queue, deps.Hub, deps.Announcer, deps.Cache)
	pageCtl := controller.NewConversationPageController(deps.Repo, deps.Cache)
	socketCtl := controller.NewChatSocketController(deps.Repo, deps.Realtime, deps.Hub, deps.Authn, deps.Announcer, deps.Cache)
	signOutCtl := controller.NewSignOutController(deps.Authn)

	// Websocket auth rides a query param because browser sockets cannot set
	// the Authorization header; everything else goes through the middleware.
	g.GET("/conversations/ws", socketCtl.Handle())

	authed := g.Group("")
	authed.Use(middleware.AuthMiddleware(deps.Authn))

	authed.POST("/conversations", startCtl.Handle())
	authed.GET("/conversations", listCtl.Handle())
	authed.GET("/conversations/:conversationId/messages", getMsgCtl.Handle())
	authed.POST("/conversations/:conversationId/messages", sendMsgCtl.Handle())
	authed.GET("/conversations/:conversationId/page", pageCtl.Handle())
	authed.POST("/auth/signout", signOutCtl.Handle())
}
