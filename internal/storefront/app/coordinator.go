package app

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/jcmexdev/storefront/internal/pkg/eventbus"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/events"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
	"github.com/jcmexdev/storefront/internal/storefront/orderlog"
)

// coordinator wires the session bus: intent events invoke store mutators,
// change events rebuild the view snapshots the HTTP surface reads back.
// The store never talks to a view directly; everything meets here.
//
// Handlers run synchronously inside Publish while the session mutex is
// already held, so they work on the session fields directly and must not
// call the locking Session entry points.
type coordinator struct {
	session *Session
	api     ports.ShopAPI
	orders  orderlog.Repository
	logger  *slog.Logger
}

func attachCoordinator(s *Session, api ports.ShopAPI, orders orderlog.Repository, logger *slog.Logger) {
	c := &coordinator{session: s, api: api, orders: orders, logger: logger}

	// User-intent events.
	s.bus.Subscribe(events.CardSelectName, c.onCardSelect)
	s.bus.Subscribe(events.BasketOpenName, c.onBasketOpen)
	s.bus.Subscribe(events.BasketRemoveName, c.onBasketRemove)
	s.bus.Subscribe(events.OrderOpenName, c.onOrderOpen)
	s.bus.Subscribe(events.OrderChangeName, c.onOrderChange)
	s.bus.Subscribe(events.OrderSubmitName, c.onOrderSubmit)
	s.bus.Subscribe(events.ContactsSubmitName, c.onContactsSubmit)
	s.bus.Subscribe(events.SuccessCloseName, c.onSuccessClose)
	s.bus.Subscribe(events.ModalOpenName, c.onModalOpen)
	s.bus.Subscribe(events.ModalCloseName, c.onModalClose)

	// State-change events.
	s.bus.Subscribe(events.CatalogChangedName, c.onCatalogChanged)
	s.bus.Subscribe(events.PreviewChangedName, c.onPreviewChanged)
	s.bus.Subscribe(events.BasketChangedName, c.onBasketChanged)
	s.bus.Subscribe(events.OrderChangedName, c.onOrderChanged)
	s.bus.Subscribe(events.FormErrorsChangedName, c.onFormErrorsChanged)
}

func (c *coordinator) onCardSelect(ctx context.Context, ev eventbus.Event) error {
	e := ev.(events.CardSelect)
	c.session.state.SavePreview(ctx, e.Item)
	return nil
}

func (c *coordinator) onBasketOpen(ctx context.Context, ev eventbus.Event) error {
	c.session.bus.Publish(ctx, events.ModalOpen{Content: ModalBasket})
	return nil
}

func (c *coordinator) onBasketRemove(ctx context.Context, ev eventbus.Event) error {
	e := ev.(events.BasketRemove)
	c.session.state.RemoveFromBasket(ctx, e.ID)
	return nil
}

func (c *coordinator) onOrderOpen(ctx context.Context, ev eventbus.Event) error {
	c.session.stage = stagePayment
	c.session.paymentForm = FormView{}
	c.session.bus.Publish(ctx, events.ModalOpen{Content: ModalOrder})
	return nil
}

func (c *coordinator) onOrderChange(ctx context.Context, ev eventbus.Event) error {
	e := ev.(events.OrderChange)
	c.session.state.SetOrderField(ctx, e.Field, e.Value)
	return nil
}

func (c *coordinator) onOrderSubmit(ctx context.Context, ev eventbus.Event) error {
	if !c.session.state.ValidatePaymentForm(ctx) {
		return nil
	}
	c.session.stage = stageContacts
	c.session.contactForm = FormView{}
	c.session.bus.Publish(ctx, events.ModalOpen{Content: ModalContacts})
	return nil
}

// onContactsSubmit runs the final step: contact validation, then the order
// submission. A failed submission is logged and abandoned — the checkout
// stays open and the basket is untouched.
func (c *coordinator) onContactsSubmit(ctx context.Context, ev eventbus.Event) error {
	s := c.session
	if s.stage != stageContacts {
		// The contact step was never reached through a validated payment
		// step; ignore the submit.
		return nil
	}
	if !s.state.ValidateContactForm(ctx) {
		return nil
	}

	order := s.state.PrepareOrder()
	result, err := c.api.CreateOrder(ctx, order)
	if err != nil {
		s.submitErr = err
		c.logger.ErrorContext(ctx, "order submission failed",
			"session_id", s.ID,
			"error", err,
		)
		c.record(ctx, orderlog.NewEntry(ctx, s.ID, "", orderlog.StatusRejected, encodeOrder(order), err.Error()))
		return nil
	}

	c.logger.InfoContext(ctx, "order accepted",
		"session_id", s.ID,
		"order_id", result.ID,
		"total", result.Total,
	)
	c.record(ctx, orderlog.NewEntry(ctx, s.ID, result.ID, orderlog.StatusAccepted, encodeOrder(order), ""))

	s.success = &SuccessView{OrderID: result.ID, Total: order.Total}
	s.stage = stageSuccess
	s.bus.Publish(ctx, events.ModalOpen{Content: ModalSuccess})
	return nil
}

func (c *coordinator) onSuccessClose(ctx context.Context, ev eventbus.Event) error {
	s := c.session
	s.bus.Publish(ctx, events.ModalClose{})
	s.state.ClearBasket(ctx)
	s.state.ResetOrder(ctx)
	s.stage = stageIdle
	s.success = nil
	s.paymentForm = FormView{}
	s.contactForm = FormView{}
	return nil
}

func (c *coordinator) onModalOpen(ctx context.Context, ev eventbus.Event) error {
	e := ev.(events.ModalOpen)
	c.session.modal = ModalView{Open: true, Content: e.Content}
	c.session.page.Locked = true
	return nil
}

func (c *coordinator) onModalClose(ctx context.Context, ev eventbus.Event) error {
	c.session.modal = ModalView{}
	c.session.page.Locked = false
	return nil
}

func (c *coordinator) onCatalogChanged(ctx context.Context, ev eventbus.Event) error {
	items := c.session.state.Catalog()
	cards := make([]CardView, len(items))
	for i, p := range items {
		cards[i] = cardView(p)
	}
	c.session.page.Catalog = cards
	return nil
}

func (c *coordinator) onPreviewChanged(ctx context.Context, ev eventbus.Event) error {
	e := ev.(events.PreviewChanged)
	c.session.preview = &PreviewView{
		CardView:    cardView(e.Item),
		Description: e.Item.Description,
		Purchasable: e.Item.Purchasable(),
	}
	c.session.bus.Publish(ctx, events.ModalOpen{Content: ModalPreview})
	return nil
}

func (c *coordinator) onBasketChanged(ctx context.Context, ev eventbus.Event) error {
	s := c.session
	s.basket = basketView(s.state.Basket(), s.state.BasketTotal())
	s.page.Counter = s.state.BasketCount()
	return nil
}

func (c *coordinator) onOrderChanged(ctx context.Context, ev eventbus.Event) error {
	e := ev.(events.OrderChanged)
	c.session.draft = e.Draft
	return nil
}

func (c *coordinator) onFormErrorsChanged(ctx context.Context, ev eventbus.Event) error {
	e := ev.(events.FormErrorsChanged)
	view := FormView{Valid: e.Errors.Valid(), Errors: e.Errors.Message()}
	switch e.Step {
	case events.StepPayment:
		c.session.paymentForm = view
	case events.StepContacts:
		c.session.contactForm = view
	}
	return nil
}

func (c *coordinator) record(ctx context.Context, entry *orderlog.Entry) {
	if c.orders == nil {
		return
	}
	if err := c.orders.Save(ctx, entry); err != nil {
		c.logger.ErrorContext(ctx, "order log write failed",
			"session_id", entry.SessionID,
			"error", err,
		)
	}
}

func encodeOrder(order entity.Order) string {
	b, err := json.Marshal(struct {
		Total   float64  `json:"total"`
		Items   []string `json:"items"`
		Email   string   `json:"email"`
		Phone   string   `json:"phone"`
		Address string   `json:"address"`
		Payment string   `json:"payment"`
	}{order.Total, order.Items, order.Email, order.Phone, order.Address, order.Payment})
	if err != nil {
		return ""
	}
	return string(b)
}
