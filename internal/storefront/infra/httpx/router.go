package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jcmexdev/storefront/internal/storefront/infra/httpx/middlewares"
)

// NewRouter registers the storefront routes with the standard middleware
// chain.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlewares.RequestLogger)
	r.Use(middleware.Recoverer)

	r.Post("/session", handler.OpenSession)
	r.Get("/healthz", handler.Health)

	r.Get("/page", handler.GetPage)
	r.Post("/cards/{id}/select", handler.SelectCard)
	r.Get("/preview", handler.GetPreview)

	r.Get("/basket", handler.GetBasket)
	r.Post("/basket/open", handler.OpenBasket)
	r.Post("/basket/items/{id}", handler.AddBasketItem)
	r.Delete("/basket/items/{id}", handler.RemoveBasketItem)

	r.Get("/order", handler.GetDraft)
	r.Post("/order/open", handler.OpenOrder)
	r.Post("/order/fields", handler.ChangeOrderField)
	r.Post("/order/submit", handler.SubmitOrder)
	r.Post("/contacts/submit", handler.SubmitContacts)
	r.Post("/success/close", handler.CloseSuccess)

	return r
}
