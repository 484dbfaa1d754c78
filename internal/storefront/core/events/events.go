// Package events defines the closed set of events exchanged between the
// state store, the checkout coordinator and the HTTP surface. Event names
// follow the topic:verb convention and are part of the observable contract.
package events

import "github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"

// Change events published by the state store.
const (
	CatalogChangedName    = "catalog:changed"
	PreviewChangedName    = "preview:changed"
	BasketChangedName     = "basket:changed"
	OrderChangedName      = "order:changed"
	FormErrorsChangedName = "formErrors:changed"
)

// Intent events published by the HTTP surface.
const (
	CardSelectName     = "card:select"
	BasketOpenName     = "basket:open"
	BasketRemoveName   = "basket:remove"
	OrderOpenName      = "order:open"
	OrderChangeName    = "order:change"
	OrderSubmitName    = "order:submit"
	ContactsSubmitName = "contacts:submit"
	ModalOpenName      = "modal:open"
	ModalCloseName     = "modal:close"
	SuccessCloseName   = "success:close"
)

// Checkout form steps, used to discriminate formErrors:changed payloads.
const (
	StepPayment  = "payment"
	StepContacts = "contacts"
)

// CatalogChanged signals a wholesale catalog replacement. Consumers re-read
// the catalog through the store accessor, so the event carries no payload.
type CatalogChanged struct{}

func (CatalogChanged) Name() string { return CatalogChangedName }

// PreviewChanged carries the product now shown in the preview surface.
type PreviewChanged struct {
	Item entity.Product
}

func (PreviewChanged) Name() string { return PreviewChangedName }

// BasketChanged signals any basket mutation; consumers re-read the basket.
type BasketChanged struct{}

func (BasketChanged) Name() string { return BasketChangedName }

// OrderChanged carries the full order draft after a field mutation or reset.
type OrderChanged struct {
	Draft entity.OrderDraft
}

func (OrderChanged) Name() string { return OrderChangedName }

// FormErrorsChanged carries the recomputed error set of one checkout step.
type FormErrorsChanged struct {
	Step   string
	Errors entity.FormErrors
}

func (FormErrorsChanged) Name() string { return FormErrorsChangedName }

// CardSelect asks for a product to be previewed.
type CardSelect struct {
	Item entity.Product
}

func (CardSelect) Name() string { return CardSelectName }

// BasketOpen asks for the basket surface to be shown.
type BasketOpen struct{}

func (BasketOpen) Name() string { return BasketOpenName }

// BasketRemove asks for the line with the given product id to be removed.
type BasketRemove struct {
	ID string
}

func (BasketRemove) Name() string { return BasketRemoveName }

// OrderOpen starts the checkout with the payment step.
type OrderOpen struct{}

func (OrderOpen) Name() string { return OrderOpenName }

// OrderChange carries one edited order field.
type OrderChange struct {
	Field string
	Value string
}

func (OrderChange) Name() string { return OrderChangeName }

// OrderSubmit submits the payment step.
type OrderSubmit struct{}

func (OrderSubmit) Name() string { return OrderSubmitName }

// ContactsSubmit submits the contact step and, when valid, the whole order.
type ContactsSubmit struct{}

func (ContactsSubmit) Name() string { return ContactsSubmitName }

// ModalOpen signals that a modal surface became visible.
type ModalOpen struct {
	Content string
}

func (ModalOpen) Name() string { return ModalOpenName }

// ModalClose signals that the modal surface was dismissed.
type ModalClose struct{}

func (ModalClose) Name() string { return ModalCloseName }

// SuccessClose dismisses the post-order confirmation.
type SuccessClose struct{}

func (SuccessClose) Name() string { return SuccessCloseName }
