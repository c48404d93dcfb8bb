package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/meteormadness/backend/internal/handler/chat"
	sessionHandler "github.com/meteormadness/backend/internal/handler/session"
	streamHandler "github.com/meteormadness/backend/internal/handler/stream"
	middlewarePkg "github.com/meteormadness/backend/internal/middleware"
	"github.com/meteormadness/backend/internal/service/ai"
	"github.com/meteormadness/backend/internal/service/rag"
	sessionService "github.com/meteormadness/backend/internal/service/session"
)

// NewRouter wires HTTP routes to core services. client and invoker are
// nil when the completion credential is missing; ragSvc is nil when
// retrieval is not configured. Handlers degrade accordingly.
func NewRouter(registry *sessionService.Registry, invoker *ai.Invoker, client *ai.Client, ragSvc *rag.Service, model string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	sessions := sessionHandler.New(registry, ragSvc)
	chats := chatHandler.New(invoker)
	streams := streamHandler.New(client, registry, ragSvc, model)

	r.Route("/api", func(api chi.Router) {
		sessions.RegisterRoutes(api)
		chats.RegisterRoutes(api)
		streams.RegisterRoutes(api)
	})

	return r
}
