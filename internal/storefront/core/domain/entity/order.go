package entity

// Payment methods accepted by the checkout form. Any other value is rejected
// by the state store without an error signal.
const (
	PaymentCard = "card"
	PaymentCash = "cash"
)

// ValidPayment reports whether v is one of the accepted payment methods.
func ValidPayment(v string) bool {
	return v == PaymentCard || v == PaymentCash
}

// Order field names accepted by the order:change pipeline.
const (
	FieldEmail   = "email"
	FieldPhone   = "phone"
	FieldAddress = "address"
	FieldPayment = "payment"
)

// OrderDraft is the mutable record filled in across the two-step checkout.
//
// Total and Items are deliberately stale while the draft is edited: they are
// only recomputed when a submission snapshot is prepared. Payment defaults
// to "card".
type OrderDraft struct {
	Total   float64
	Items   []string
	Email   string
	Phone   string
	Address string
	Payment string
}

// NewOrderDraft returns a draft with default values.
func NewOrderDraft() OrderDraft {
	return OrderDraft{Items: []string{}, Payment: PaymentCard}
}

// Order is a submission-ready snapshot of a draft: Total equals the basket
// total and Items lists the basket product ids in insertion order.
type Order struct {
	Total   float64
	Items   []string
	Email   string
	Phone   string
	Address string
	Payment string
}

// OrderResult is the backend's acknowledgement of an accepted order.
type OrderResult struct {
	ID    string
	Total float64
}
