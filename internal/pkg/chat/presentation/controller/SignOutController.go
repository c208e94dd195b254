package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	authport "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/auth/port"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/presentation/middleware"
)

// SignOutController revokes the caller's token. Failures are logged and
// swallowed: the client treats sign-out as fire-and-forget.
type SignOutController struct {
	Authn authport.Authenticator
}

func NewSignOutController(authn authport.Authenticator) *SignOutController {
	return &SignOutController{Authn: authn}
}

func (h *SignOutController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		me := middleware.MustIdentity(c)
		token := middleware.MustToken(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		if err := h.Authn.SignOut(ctx, token); err != nil {
			logrus.WithField("user", me.Email).WithError(err).Error("sign-out failed")
		}
		c.Status(http.StatusNoContent)
	}
}
