package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	authadapter "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/auth/adapter"
	cacheadapter "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/cache/adapter"
	cacheport "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/cache/port"
	"github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/database"
	"github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/notify"
	queueadapter "github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/queue/adapter"
	"github.com/tranduchuynh/whatsapp-clone/internal/infrastructure/realtime"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/livefeed"
	"github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/application/task"
	repoadapter "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/persistence/repository/adapter"
	httpHandler "github.com/tranduchuynh/whatsapp-clone/internal/pkg/chat/presentation/http"
)

// buildDependencies wires the capability handles for the chat endpoints.
// Postgres and the JWT secret are mandatory; Redis-backed concerns (cache,
// queue, cross-node change feed) degrade to nil with a logged warning so the
// API still boots on a bare single-node setup.
func buildDependencies(ctx context.Context) (httpHandler.Dependencies, func(), error) {
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(connectCtx)
	if err != nil {
		return httpHandler.Dependencies{}, nil, err
	}

	var cache cacheport.Cache
	redisCache, err := cacheadapter.NewRedisAdapter()
	if err != nil {
		logrus.WithError(err).Warn("redis cache unavailable, continuing without it")
	} else {
		cache = redisCache
	}

	authn, err := authadapter.NewJWTAuthenticatorFromEnv(cache)
	if err != nil {
		pool.Close()
		return httpHandler.Dependencies{}, nil, err
	}

	repo := repoadapter.NewPgChatRepository(pool)
	hub := livefeed.NewHub()
	rt := realtime.NewRouter()

	deps := httpHandler.Dependencies{
		Repo:     repo,
		Realtime: rt,
		Hub:      hub,
		Authn:    authn,
		Cache:    cache,
	}

	changeFeed, err := notify.NewRedisChangeFeedFromEnv()
	if err != nil {
		logrus.WithError(err).Warn("change feed unavailable, live updates stay node-local")
		changeFeed = nil
	} else {
		deps.Announcer = changeFeed
		go func() {
			err := changeFeed.Listen(ctx, func(conversationID string) {
				queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
				defer cancel()
				snapshot, err := repo.MessagesByConversation(queryCtx, conversationID)
				if err != nil {
					logrus.WithError(err).Warn("change feed refresh query failed")
					return
				}
				hub.Publish(conversationID, snapshot)
			})
			if err != nil && ctx.Err() == nil {
				logrus.WithError(err).Warn("change feed listener stopped")
			}
		}()
	}

	queueClient, err := queueadapter.NewAsynqClientFromEnv()
	if err != nil {
		logrus.WithError(err).Warn("queue unavailable, messages will be sent inline")
	} else {
		deps.Queue = queueClient
	}

	var queueServer *queueadapter.AsynqServer
	if queueClient != nil {
		queueServer, err = queueadapter.NewAsynqServer()
		if err != nil {
			logrus.WithError(err).Warn("queue server unavailable, queued sends will not be processed by this node")
		} else {
			task.RegisterSendMessageTask(queueServer, repo, hub, deps.Announcer, cache)
			go func() {
				if err := queueServer.Run(ctx); err != nil {
					logrus.WithError(err).Error("queue server stopped")
				}
			}()
		}
	}

	cleanup := func() {
		rt.Close()
		if queueServer != nil {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = queueServer.Stop(stopCtx)
			cancel()
		}
		if queueClient != nil {
			_ = queueClient.Close()
		}
		if changeFeed != nil {
			_ = changeFeed.Close()
		}
		if redisCache != nil && cache != nil {
			_ = redisCache.Close()
		}
		pool.Close()
	}

	return deps, cleanup, nil
}
