// Package state holds the single source of truth for one storefront session:
// catalog, basket, order draft and form validation errors. Every mutator ends
// by publishing the corresponding change event on the session bus.
package state

import (
	"context"

	"github.com/jcmexdev/storefront/internal/pkg/eventbus"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/events"
)

// Validation messages surfaced through formErrors:changed.
const (
	msgPaymentRequired = "payment method is required"
	msgAddressRequired = "delivery address is required"
	msgEmailRequired   = "email is required"
	msgPhoneRequired   = "phone is required"
)

// Store is the application state container. It is not safe for concurrent
// use on its own: the owning session serializes access, preserving the
// run-to-completion model of mutation followed by synchronous dispatch.
type Store struct {
	bus *eventbus.Bus

	catalog     []entity.Product
	basket      []entity.BasketLine
	order       entity.OrderDraft
	paymentErrs entity.FormErrors
	contactErrs entity.FormErrors
	preview     *entity.Product
}

// New creates an empty store publishing change events on bus.
func New(bus *eventbus.Bus) *Store {
	return &Store{
		bus:         bus,
		order:       entity.NewOrderDraft(),
		paymentErrs: entity.FormErrors{},
		contactErrs: entity.FormErrors{},
	}
}

// SetCatalog replaces the catalog wholesale and emits catalog:changed.
func (s *Store) SetCatalog(ctx context.Context, items []entity.Product) {
	s.catalog = append([]entity.Product(nil), items...)
	s.bus.Publish(ctx, events.CatalogChanged{})
}

// Catalog returns the current catalog.
func (s *Store) Catalog() []entity.Product {
	return append([]entity.Product(nil), s.catalog...)
}

// FindProduct looks an item up by id in the loaded catalog.
func (s *Store) FindProduct(id string) (entity.Product, bool) {
	for _, p := range s.catalog {
		if p.ID == id {
			return p, true
		}
	}
	return entity.Product{}, false
}

// SavePreview records the item being previewed and emits preview:changed
// with the item.
func (s *Store) SavePreview(ctx context.Context, item entity.Product) {
	s.preview = &item
	s.bus.Publish(ctx, events.PreviewChanged{Item: item})
}

// Preview returns the currently previewed item, if any.
func (s *Store) Preview() (entity.Product, bool) {
	if s.preview == nil {
		return entity.Product{}, false
	}
	return *s.preview, true
}

// AddToBasket appends a line derived from item and emits basket:changed.
// Adding an item whose id is already in the basket is a silent no-op, so the
// basket never holds two lines with the same id.
func (s *Store) AddToBasket(ctx context.Context, item entity.Product) {
	for _, line := range s.basket {
		if line.ID == item.ID {
			return
		}
	}
	s.basket = append(s.basket, entity.NewBasketLine(item))
	s.bus.Publish(ctx, events.BasketChanged{})
}

// RemoveFromBasket deletes the line with the given id and emits
// basket:changed. A missing id is a no-op and emits nothing.
func (s *Store) RemoveFromBasket(ctx context.Context, id string) {
	for i, line := range s.basket {
		if line.ID == id {
			s.basket = append(s.basket[:i:i], s.basket[i+1:]...)
			s.bus.Publish(ctx, events.BasketChanged{})
			return
		}
	}
}

// Basket returns the basket lines in insertion order.
func (s *Store) Basket() []entity.BasketLine {
	return append([]entity.BasketLine(nil), s.basket...)
}

// BasketCount returns the number of basket lines.
func (s *Store) BasketCount() int {
	return len(s.basket)
}

// BasketTotal returns the sum of basket line prices.
func (s *Store) BasketTotal() float64 {
	var total float64
	for _, line := range s.basket {
		total += line.Price
	}
	return total
}

// SetOrderField updates one of the mutable draft fields. Unknown fields are
// ignored. A payment value other than "card" or "cash" is rejected silently:
// no state change, no emission. After a successful mutation the validation
// of the affected checkout step is re-run (emitting formErrors:changed) and
// order:changed is emitted with the full draft.
func (s *Store) SetOrderField(ctx context.Context, field, value string) {
	switch field {
	case entity.FieldEmail:
		s.order.Email = value
	case entity.FieldPhone:
		s.order.Phone = value
	case entity.FieldAddress:
		s.order.Address = value
	case entity.FieldPayment:
		if !entity.ValidPayment(value) {
			return
		}
		s.order.Payment = value
	default:
		return
	}

	switch field {
	case entity.FieldPayment, entity.FieldAddress:
		s.validatePayment(ctx)
	case entity.FieldEmail, entity.FieldPhone:
		s.validateContacts(ctx)
	}
	s.bus.Publish(ctx, events.OrderChanged{Draft: s.orderCopy()})
}

// Order returns a copy of the current draft.
func (s *Store) Order() entity.OrderDraft {
	return s.orderCopy()
}

// ValidatePaymentForm recomputes the payment-step error set, emits
// formErrors:changed, and reports whether the step is valid. Validation
// never fails with an error; the detail lives in the emitted map.
func (s *Store) ValidatePaymentForm(ctx context.Context) bool {
	return s.validatePayment(ctx)
}

// ValidateContactForm is the contact-step counterpart of ValidatePaymentForm.
func (s *Store) ValidateContactForm(ctx context.Context) bool {
	return s.validateContacts(ctx)
}

// PaymentErrors returns the payment-step error set.
func (s *Store) PaymentErrors() entity.FormErrors {
	return s.paymentErrs.Clone()
}

// ContactErrors returns the contact-step error set.
func (s *Store) ContactErrors() entity.FormErrors {
	return s.contactErrs.Clone()
}

// PrepareOrder materializes a submission-ready snapshot: Total recomputed
// from the basket and Items listing the basket ids in order. Stored state is
// not mutated, so the draft's own Total/Items stay stale by design.
func (s *Store) PrepareOrder() entity.Order {
	items := make([]string, len(s.basket))
	for i, line := range s.basket {
		items[i] = line.ID
	}
	return entity.Order{
		Total:   s.BasketTotal(),
		Items:   items,
		Email:   s.order.Email,
		Phone:   s.order.Phone,
		Address: s.order.Address,
		Payment: s.order.Payment,
	}
}

// ClearBasket empties the basket and emits basket:changed.
func (s *Store) ClearBasket(ctx context.Context) {
	s.basket = nil
	s.bus.Publish(ctx, events.BasketChanged{})
}

// ResetOrder restores the draft to defaults, clears both error sets and
// emits order:changed.
func (s *Store) ResetOrder(ctx context.Context) {
	s.order = entity.NewOrderDraft()
	s.paymentErrs = entity.FormErrors{}
	s.contactErrs = entity.FormErrors{}
	s.bus.Publish(ctx, events.OrderChanged{Draft: s.orderCopy()})
}

func (s *Store) validatePayment(ctx context.Context) bool {
	errs := entity.FormErrors{}
	if s.order.Payment == "" {
		errs[entity.FieldPayment] = msgPaymentRequired
	}
	if s.order.Address == "" {
		errs[entity.FieldAddress] = msgAddressRequired
	}
	s.paymentErrs = errs
	s.bus.Publish(ctx, events.FormErrorsChanged{Step: events.StepPayment, Errors: errs.Clone()})
	return errs.Valid()
}

func (s *Store) validateContacts(ctx context.Context) bool {
	errs := entity.FormErrors{}
	if s.order.Email == "" {
		errs[entity.FieldEmail] = msgEmailRequired
	}
	if s.order.Phone == "" {
		errs[entity.FieldPhone] = msgPhoneRequired
	}
	s.contactErrs = errs
	s.bus.Publish(ctx, events.FormErrorsChanged{Step: events.StepContacts, Errors: errs.Clone()})
	return errs.Valid()
}

func (s *Store) orderCopy() entity.OrderDraft {
	out := s.order
	out.Items = append([]string(nil), s.order.Items...)
	return out
}
