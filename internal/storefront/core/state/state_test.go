package state

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/storefront/internal/pkg/eventbus"
	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/events"
)

// recorder captures every event published on the bus, in order.
type recorder struct {
	events []eventbus.Event
}

func (r *recorder) handler(ctx context.Context, ev eventbus.Event) error {
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) names() []string {
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Name()
	}
	return out
}

func (r *recorder) count(name string) int {
	n := 0
	for _, ev := range r.events {
		if ev.Name() == name {
			n++
		}
	}
	return n
}

func (r *recorder) last(name string) (eventbus.Event, bool) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Name() == name {
			return r.events[i], true
		}
	}
	return nil, false
}

func newTestStore(t *testing.T) (*Store, *recorder) {
	t.Helper()
	bus := eventbus.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	rec := &recorder{}
	for _, name := range []string{
		events.CatalogChangedName,
		events.PreviewChangedName,
		events.BasketChangedName,
		events.OrderChangedName,
		events.FormErrorsChangedName,
	} {
		bus.Subscribe(name, rec.handler)
	}
	return New(bus), rec
}

func price(v float64) *float64 { return &v }

func testCatalog() []entity.Product {
	return []entity.Product{
		{ID: "a", Title: "Priced", Category: "other", Price: price(100)},
		{ID: "b", Title: "Priceless", Category: "other", Price: nil},
	}
}

func TestSetCatalogReplacesAndEmits(t *testing.T) {
	s, rec := newTestStore(t)

	s.SetCatalog(context.Background(), testCatalog())
	assert.Len(t, s.Catalog(), 2)
	assert.Equal(t, 1, rec.count(events.CatalogChangedName))

	s.SetCatalog(context.Background(), nil)
	assert.Empty(t, s.Catalog())
	assert.Equal(t, 2, rec.count(events.CatalogChangedName))
}

func TestFindProduct(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetCatalog(context.Background(), testCatalog())

	p, ok := s.FindProduct("a")
	require.True(t, ok)
	assert.Equal(t, "Priced", p.Title)

	_, ok = s.FindProduct("missing")
	assert.False(t, ok)
}

func TestSavePreviewEmitsItem(t *testing.T) {
	s, rec := newTestStore(t)
	item := testCatalog()[0]

	s.SavePreview(context.Background(), item)

	got, ok := s.Preview()
	require.True(t, ok)
	assert.Equal(t, item.ID, got.ID)

	ev, ok := rec.last(events.PreviewChangedName)
	require.True(t, ok)
	assert.Equal(t, item.ID, ev.(events.PreviewChanged).Item.ID)
}

func TestAddToBasketIsIdempotent(t *testing.T) {
	s, rec := newTestStore(t)
	item := testCatalog()[0]

	s.AddToBasket(context.Background(), item)
	s.AddToBasket(context.Background(), item)
	s.AddToBasket(context.Background(), item)

	assert.Equal(t, 1, s.BasketCount())
	assert.Equal(t, 1, rec.count(events.BasketChangedName))
}

func TestNilPriceBecomesZero(t *testing.T) {
	s, _ := newTestStore(t)
	catalog := testCatalog()

	s.AddToBasket(context.Background(), catalog[0])
	s.AddToBasket(context.Background(), catalog[1])

	lines := s.Basket()
	require.Len(t, lines, 2)
	assert.Equal(t, 100.0, lines[0].Price)
	assert.Zero(t, lines[1].Price)
	assert.Equal(t, 100.0, s.BasketTotal())
	assert.Equal(t, 2, s.BasketCount())
}

func TestBasketPreservesInsertionOrder(t *testing.T) {
	s, _ := newTestStore(t)

	for _, id := range []string{"z", "a", "m"} {
		s.AddToBasket(context.Background(), entity.Product{ID: id, Price: price(1)})
	}

	lines := s.Basket()
	require.Len(t, lines, 3)
	assert.Equal(t, "z", lines[0].ID)
	assert.Equal(t, "a", lines[1].ID)
	assert.Equal(t, "m", lines[2].ID)
}

func TestRemoveFromBasketDecreasesTotalByLinePrice(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddToBasket(context.Background(), entity.Product{ID: "a", Price: price(100)})
	s.AddToBasket(context.Background(), entity.Product{ID: "b", Price: price(250)})

	before := s.BasketTotal()
	s.RemoveFromBasket(context.Background(), "b")
	assert.Equal(t, before-250, s.BasketTotal())
	assert.Equal(t, 1, s.BasketCount())
}

func TestRemoveMissingIsSilentNoOp(t *testing.T) {
	s, rec := newTestStore(t)
	s.AddToBasket(context.Background(), entity.Product{ID: "a", Price: price(100)})
	emitted := rec.count(events.BasketChangedName)

	s.RemoveFromBasket(context.Background(), "missing")
	assert.Equal(t, 1, s.BasketCount())
	assert.Equal(t, emitted, rec.count(events.BasketChangedName))
}

func TestSetOrderFieldUpdatesDraftAndEmits(t *testing.T) {
	s, rec := newTestStore(t)

	s.SetOrderField(context.Background(), entity.FieldEmail, "user@example.com")

	assert.Equal(t, "user@example.com", s.Order().Email)
	ev, ok := rec.last(events.OrderChangedName)
	require.True(t, ok)
	assert.Equal(t, "user@example.com", ev.(events.OrderChanged).Draft.Email)
}

func TestSetOrderFieldRejectsUnknownPayment(t *testing.T) {
	s, rec := newTestStore(t)

	s.SetOrderField(context.Background(), entity.FieldPayment, "bitcoin")

	// Draft keeps its default and nothing is emitted.
	assert.Equal(t, entity.PaymentCard, s.Order().Payment)
	assert.Zero(t, rec.count(events.OrderChangedName))
	assert.Zero(t, rec.count(events.FormErrorsChangedName))
}

func TestSetOrderFieldAcceptsEnumeratedPayments(t *testing.T) {
	s, _ := newTestStore(t)

	s.SetOrderField(context.Background(), entity.FieldPayment, entity.PaymentCash)
	assert.Equal(t, entity.PaymentCash, s.Order().Payment)

	s.SetOrderField(context.Background(), entity.FieldPayment, entity.PaymentCard)
	assert.Equal(t, entity.PaymentCard, s.Order().Payment)
}

func TestSetOrderFieldIgnoresUnknownField(t *testing.T) {
	s, rec := newTestStore(t)

	s.SetOrderField(context.Background(), "total", "9999")
	assert.Zero(t, rec.count(events.OrderChangedName))
}

func TestSetOrderFieldRevalidatesAffectedStep(t *testing.T) {
	s, rec := newTestStore(t)

	s.SetOrderField(context.Background(), entity.FieldAddress, "Main st. 1")
	ev, ok := rec.last(events.FormErrorsChangedName)
	require.True(t, ok)
	assert.Equal(t, events.StepPayment, ev.(events.FormErrorsChanged).Step)
	assert.True(t, ev.(events.FormErrorsChanged).Errors.Valid())

	s.SetOrderField(context.Background(), entity.FieldPhone, "+100200300")
	ev, ok = rec.last(events.FormErrorsChangedName)
	require.True(t, ok)
	assert.Equal(t, events.StepContacts, ev.(events.FormErrorsChanged).Step)
	// Email still empty, so the contact step stays invalid.
	errs := ev.(events.FormErrorsChanged).Errors
	assert.False(t, errs.Valid())
	assert.Contains(t, errs, entity.FieldEmail)
	assert.NotContains(t, errs, entity.FieldPhone)
}

func TestValidatePaymentFormKeySetMatchesEmptyFields(t *testing.T) {
	s, _ := newTestStore(t)

	// Fresh draft: payment defaults to card, address empty.
	ok := s.ValidatePaymentForm(context.Background())
	assert.False(t, ok)
	errs := s.PaymentErrors()
	assert.NotContains(t, errs, entity.FieldPayment)
	assert.Contains(t, errs, entity.FieldAddress)

	s.SetOrderField(context.Background(), entity.FieldAddress, "Main st. 1")
	assert.True(t, s.ValidatePaymentForm(context.Background()))
	assert.Empty(t, s.PaymentErrors())
}

func TestValidateContactFormKeySetMatchesEmptyFields(t *testing.T) {
	s, _ := newTestStore(t)

	assert.False(t, s.ValidateContactForm(context.Background()))
	errs := s.ContactErrors()
	assert.Contains(t, errs, entity.FieldEmail)
	assert.Contains(t, errs, entity.FieldPhone)

	s.SetOrderField(context.Background(), entity.FieldEmail, "user@example.com")
	s.SetOrderField(context.Background(), entity.FieldPhone, "+100200300")
	assert.True(t, s.ValidateContactForm(context.Background()))
	assert.Empty(t, s.ContactErrors())
}

func TestValidationEmitsFormErrorsChanged(t *testing.T) {
	s, rec := newTestStore(t)

	s.ValidatePaymentForm(context.Background())
	ev, ok := rec.last(events.FormErrorsChangedName)
	require.True(t, ok)
	assert.Equal(t, events.StepPayment, ev.(events.FormErrorsChanged).Step)
}

func TestPrepareOrderDerivesFromBasket(t *testing.T) {
	s, _ := newTestStore(t)
	catalog := testCatalog()
	s.AddToBasket(context.Background(), catalog[0])
	s.AddToBasket(context.Background(), catalog[1])

	// Stale draft fields must not leak into the snapshot.
	s.SetOrderField(context.Background(), entity.FieldEmail, "user@example.com")

	order := s.PrepareOrder()
	assert.Equal(t, s.BasketTotal(), order.Total)
	assert.Len(t, order.Items, s.BasketCount())
	assert.Equal(t, []string{"a", "b"}, order.Items)
	assert.Equal(t, "user@example.com", order.Email)

	// Preparing a snapshot does not mutate the stored draft.
	draft := s.Order()
	assert.Zero(t, draft.Total)
	assert.Empty(t, draft.Items)
}

func TestClearBasketEmits(t *testing.T) {
	s, rec := newTestStore(t)
	s.AddToBasket(context.Background(), testCatalog()[0])
	before := rec.count(events.BasketChangedName)

	s.ClearBasket(context.Background())
	assert.Zero(t, s.BasketCount())
	assert.Equal(t, before+1, rec.count(events.BasketChangedName))
}

func TestResetOrderRestoresDefaultsAndClearsErrors(t *testing.T) {
	s, _ := newTestStore(t)

	s.SetOrderField(context.Background(), entity.FieldPayment, entity.PaymentCash)
	s.SetOrderField(context.Background(), entity.FieldAddress, "Main st. 1")
	s.SetOrderField(context.Background(), entity.FieldEmail, "user@example.com")
	s.ValidateContactForm(context.Background()) // phone missing -> contact errors set

	s.ResetOrder(context.Background())

	draft := s.Order()
	assert.Equal(t, entity.PaymentCard, draft.Payment)
	assert.Empty(t, draft.Address)
	assert.Empty(t, draft.Email)
	assert.Empty(t, s.PaymentErrors())
	assert.Empty(t, s.ContactErrors())

	// Payment defaults to card, so a fresh validation fails only on address.
	assert.False(t, s.ValidatePaymentForm(context.Background()))
	errs := s.PaymentErrors()
	assert.Len(t, errs, 1)
	assert.Contains(t, errs, entity.FieldAddress)
}

func TestMutationOrderOfEmissions(t *testing.T) {
	s, rec := newTestStore(t)

	s.SetOrderField(context.Background(), entity.FieldAddress, "Main st. 1")

	// Validation emits before the order:changed that closes the mutation.
	names := rec.names()
	require.Len(t, names, 2)
	assert.Equal(t, events.FormErrorsChangedName, names[0])
	assert.Equal(t, events.OrderChangedName, names[1])
}
