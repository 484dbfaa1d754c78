package httpx

import "github.com/jcmexdev/storefront/internal/storefront/app"

// SessionResponse is returned when a session is opened.
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// OrderFieldRequest carries one edited checkout field (order:change).
type OrderFieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// FormResponse is the rendered state of one checkout form.
type FormResponse struct {
	Form app.FormView `json:"form"`
}

// SubmitOrderResponse reports the payment-step submission outcome. Advanced
// is true when the checkout moved on to the contact step.
type SubmitOrderResponse struct {
	Advanced bool         `json:"advanced"`
	Form     app.FormView `json:"form"`
}

// SubmitContactsResponse reports the contact-step submission outcome. Order
// is set only when the backend accepted the submission.
type SubmitContactsResponse struct {
	Submitted bool             `json:"submitted"`
	Form      app.FormView     `json:"form"`
	Order     *app.SuccessView `json:"order,omitempty"`
}

// DraftResponse exposes the current order draft.
type DraftResponse struct {
	Total   float64  `json:"total"`
	Items   []string `json:"items"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Address string   `json:"address"`
	Payment string   `json:"payment"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
