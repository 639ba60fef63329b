package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/whatisthe411/the411/backend/internal/handler/collection"
	"github.com/whatisthe411/the411/backend/internal/handler/events"
	newsletterHandler "github.com/whatisthe411/the411/backend/internal/handler/newsletter"
	"github.com/whatisthe411/the411/backend/internal/handler/page"
	middlewarePkg "github.com/whatisthe411/the411/backend/internal/middleware"
	"github.com/whatisthe411/the411/backend/internal/model/content"
	newsletterService "github.com/whatisthe411/the411/backend/internal/service/newsletter"
	"github.com/whatisthe411/the411/backend/internal/service/route"
	"github.com/whatisthe411/the411/backend/internal/service/search"
	"github.com/whatisthe411/the411/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(store *content.Store, newsletterSvc *newsletterService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	searchSvc := search.New(store)
	dispatcher := route.New(store, searchSvc)

	pageHandler := page.New(dispatcher)
	collectionHandler := collection.New(store, searchSvc)
	subscribeHandler := newsletterHandler.New(newsletterSvc)
	eventsHandler := events.New(store)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		pageHandler.RegisterRoutes(api)
		collectionHandler.RegisterRoutes(api)
		subscribeHandler.RegisterRoutes(api)
		eventsHandler.RegisterRoutes(api)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondError(w, http.StatusNotFound, "route not found")
	})

	return r
}
