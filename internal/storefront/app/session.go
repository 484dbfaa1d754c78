package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/storefront/internal/pkg/eventbus"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/events"
	"github.com/jcmexdev/storefront/internal/storefront/core/state"
)

// checkoutStage tracks how far the two-step checkout has progressed. The
// contact step is only reachable after the payment step validated.
type checkoutStage int

const (
	stageIdle checkoutStage = iota
	stagePayment
	stageContacts
	stageSuccess
)

// Session owns the reactive core of one storefront visitor: a private event
// bus, the state store publishing on it, and the view snapshots the
// coordinator keeps in sync. One mutex serializes every entry point, so a
// mutation and all its synchronous event dispatch run to completion before
// the next request is processed — the same run-to-completion model the
// original single-threaded app had.
type Session struct {
	ID string

	mu    sync.Mutex
	bus   *eventbus.Bus
	state *state.Store

	stage       checkoutStage
	page        PageView
	preview     *PreviewView
	basket      BasketView
	draft       entity.OrderDraft
	paymentForm FormView
	contactForm FormView
	success     *SuccessView
	modal       ModalView
	submitErr   error

	lastSeen time.Time
}

func newSession(bus *eventbus.Bus) *Session {
	return &Session{
		ID:       uuid.NewString(),
		bus:      bus,
		state:    state.New(bus),
		draft:    entity.NewOrderDraft(),
		lastSeen: time.Now(),
	}
}

// Touch refreshes the idle timer.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Session) seenBefore(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

// LoadCatalog replaces the session catalog.
func (s *Session) LoadCatalog(ctx context.Context, items []entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SetCatalog(ctx, items)
}

// FindProduct looks up an item in the loaded catalog.
func (s *Session) FindProduct(id string) (entity.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.FindProduct(id)
}

// Page returns the page snapshot.
func (s *Session) Page() PageView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Basket returns the basket snapshot.
func (s *Session) Basket() BasketView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.basket
}

// Preview returns the preview snapshot, if a card is selected.
func (s *Session) Preview() (PreviewView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.preview == nil {
		return PreviewView{}, false
	}
	return *s.preview, true
}

// Modal returns the modal snapshot.
func (s *Session) Modal() ModalView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modal
}

// Draft returns the current order draft snapshot.
func (s *Session) Draft() entity.OrderDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SelectCard publishes card:select for the given product and returns the
// resulting preview.
func (s *Session) SelectCard(ctx context.Context, item entity.Product) PreviewView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus.Publish(ctx, events.CardSelect{Item: item})
	if s.preview == nil {
		return PreviewView{}
	}
	return *s.preview
}

// AddItem puts the previewed product into the basket and closes the modal,
// mirroring the preview card's buy action.
func (s *Session) AddItem(ctx context.Context, item entity.Product) BasketView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.AddToBasket(ctx, item)
	s.bus.Publish(ctx, events.ModalClose{})
	return s.basket
}

// OpenBasket publishes basket:open and returns the basket snapshot.
func (s *Session) OpenBasket(ctx context.Context) BasketView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus.Publish(ctx, events.BasketOpen{})
	return s.basket
}

// RemoveItem publishes basket:remove for the given id.
func (s *Session) RemoveItem(ctx context.Context, id string) BasketView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus.Publish(ctx, events.BasketRemove{ID: id})
	return s.basket
}

// OpenOrder publishes order:open, entering the payment step.
func (s *Session) OpenOrder(ctx context.Context) FormView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus.Publish(ctx, events.OrderOpen{})
	return s.paymentForm
}

// ChangeField publishes order:change for one edited field and returns the
// form snapshot of the step the field belongs to.
func (s *Session) ChangeField(ctx context.Context, field, value string) FormView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus.Publish(ctx, events.OrderChange{Field: field, Value: value})
	if field == entity.FieldEmail || field == entity.FieldPhone {
		return s.contactForm
	}
	return s.paymentForm
}

// SubmitOrder publishes order:submit. It reports whether the payment step
// validated and the checkout advanced to the contact step.
func (s *Session) SubmitOrder(ctx context.Context) (FormView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus.Publish(ctx, events.OrderSubmit{})
	return s.paymentForm, s.stage == stageContacts
}

// SubmitContacts publishes contacts:submit. On success the returned view is
// the confirmation; otherwise ok is false and err carries the transport
// failure, if any (a validation failure has a nil err — the detail is in
// the form snapshot).
func (s *Session) SubmitContacts(ctx context.Context) (SuccessView, FormView, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitErr = nil
	s.bus.Publish(ctx, events.ContactsSubmit{})
	if s.stage == stageSuccess && s.success != nil {
		return *s.success, s.contactForm, true, nil
	}
	return SuccessView{}, s.contactForm, false, s.submitErr
}

// CloseSuccess dismisses the confirmation, clearing basket and order.
func (s *Session) CloseSuccess(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bus.Publish(ctx, events.SuccessClose{})
}
