package app

import "github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"

// Modal contents a session can show. At most one modal is open at a time;
// an open modal locks the page underneath.
const (
	ModalPreview  = "preview"
	ModalBasket   = "basket"
	ModalOrder    = "order"
	ModalContacts = "contacts"
	ModalSuccess  = "success"
)

// CardView is a catalog item rendered for display.
type CardView struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Price    *float64 `json:"price"`
	Image    string   `json:"image"`
}

// PageView is the top-level page slice: basket counter, catalog cards and
// the lock flag driven by the modal state.
type PageView struct {
	Counter int        `json:"counter"`
	Catalog []CardView `json:"catalog"`
	Locked  bool       `json:"locked"`
}

// PreviewView is the modal rendering of a selected card.
type PreviewView struct {
	CardView
	Description string `json:"description"`
	Purchasable bool   `json:"purchasable"`
}

// BasketItemView is one basket line with its 1-based display position.
type BasketItemView struct {
	Index int     `json:"index"`
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
}

// BasketView is the rendered basket.
type BasketView struct {
	Items []BasketItemView `json:"items"`
	Total float64          `json:"total"`
}

// FormView is the render-time slice of one checkout form: a validity flag
// and the joined error string.
type FormView struct {
	Valid  bool   `json:"valid"`
	Errors string `json:"errors"`
}

// SuccessView is the post-order confirmation.
type SuccessView struct {
	OrderID string  `json:"order_id"`
	Total   float64 `json:"total"`
}

// ModalView reports which modal surface is visible.
type ModalView struct {
	Open    bool   `json:"open"`
	Content string `json:"content,omitempty"`
}

func cardView(p entity.Product) CardView {
	return CardView{
		ID:       p.ID,
		Title:    p.Title,
		Category: p.Category,
		Price:    p.Price,
		Image:    p.Image,
	}
}

func basketView(lines []entity.BasketLine, total float64) BasketView {
	view := BasketView{Items: make([]BasketItemView, len(lines)), Total: total}
	for i, line := range lines {
		view.Items[i] = BasketItemView{
			Index: i + 1,
			ID:    line.ID,
			Title: line.Title,
			Price: line.Price,
		}
	}
	return view
}
