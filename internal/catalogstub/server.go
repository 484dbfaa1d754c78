// Package catalogstub is an in-memory stand-in for the shop backend. It
// speaks the same wire contract (GET /product, GET /product/{id},
// POST /order) and exists for local development and integration tests.
package catalogstub

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// Product is the wire shape of one catalog item. Image paths are relative;
// the storefront gateway resolves them against its CDN origin.
type Product struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
}

// Order is the wire shape of an incoming submission.
type Order struct {
	Total   float64  `json:"total"`
	Items   []string `json:"items"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Address string   `json:"address"`
	Payment string   `json:"payment"`
}

// OrderResult is the acknowledgement of an accepted order.
type OrderResult struct {
	ID    string  `json:"id"`
	Total float64 `json:"total"`
}

// Server holds the stub catalog and the orders it accepted.
type Server struct {
	mu       sync.Mutex
	products []Product
	orders   map[string]Order
}

// New creates a stub serving the given catalog. Pass nil to use the demo
// seed catalog.
func New(products []Product) *Server {
	if products == nil {
		products = seedCatalog()
	}
	return &Server{
		products: products,
		orders:   make(map[string]Order),
	}
}

// Orders returns the accepted submissions keyed by order id.
func (s *Server) Orders() map[string]Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Order, len(s.orders))
	for id, o := range s.orders {
		out[id] = o
	}
	return out
}

// Router returns the HTTP handler implementing the wire contract.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/product", s.listProducts)
	r.Get("/product/{id}", s.getProduct)
	r.Post("/order", s.createOrder)
	return r
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	items := append([]Product(nil), s.products...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, struct {
		Total int       `json:"total"`
		Items []Product `json:"items"`
	}{Total: len(items), Items: items})
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeError(w, http.StatusNotFound, "NotFound")
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var order Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(order.Items) == 0 {
		writeError(w, http.StatusBadRequest, "order has no items")
		return
	}
	var total float64
	for _, id := range order.Items {
		p, ok := s.find(id)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown product "+id)
			return
		}
		if p.Price == nil {
			writeError(w, http.StatusBadRequest, "product "+id+" is not purchasable")
			return
		}
		total += *p.Price
	}
	if order.Total != total {
		writeError(w, http.StatusBadRequest, "total does not match item prices")
		return
	}
	if order.Email == "" || order.Phone == "" || order.Address == "" || order.Payment == "" {
		writeError(w, http.StatusBadRequest, "missing contact or payment details")
		return
	}

	id := uuid.NewString()
	s.orders[id] = order
	writeJSON(w, http.StatusOK, OrderResult{ID: id, Total: order.Total})
}

func (s *Server) find(id string) (Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: msg})
}

func price(v float64) *float64 { return &v }

func seedCatalog() []Product {
	return []Product{
		{
			ID:          "854cef69-976d-4c2a-a18c-2aa45046c390",
			Title:       "+1 hour a day",
			Description: "If you are tired and there is never enough time, this is for you.",
			Category:    "soft-skill",
			Image:       "/5_Dots.svg",
			Price:       price(750),
		},
		{
			ID:          "c101ab44-ed99-4a54-990d-47aa2bb4e7d9",
			Title:       "HEX-leviathan",
			Description: "A healthy approach to digit systems.",
			Category:    "other",
			Image:       "/Shell.svg",
			Price:       price(2500),
		},
		{
			ID:          "b06cde61-912f-4663-9751-09956c0eed67",
			Title:       "Combinator grounding",
			Description: "Will put the mind in order and clear the channels.",
			Category:    "extra",
			Image:       "/Polygon.svg",
			Price:       price(950),
		},
		{
			ID:          "412bcf81-7e75-4e70-bdb9-d3c73c9803b7",
			Title:       "Backend anti-stress",
			Description: "Squeeze to get through a hard release.",
			Category:    "other",
			Image:       "/Mithosis.svg",
			Price:       nil,
		},
	}
}
