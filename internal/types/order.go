package types

// Order is the slim order projection returned by the Magento order-search
// endpoint. Fields whose mere presence carries meaning (entity_id,
// email_sent) are pointers so that "absent" and "zero" stay distinguishable.
//
// Magento only materializes email_sent on an order once the confirmation
// email has gone out, so the search cannot reliably exclude sent orders
// server-side; the dispatcher skips any order where the field is present.
type Order struct {
	EntityID    *int64          `json:"entity_id,omitempty"`
	IncrementID string          `json:"increment_id,omitempty"`
	EmailSent   *int            `json:"email_sent,omitempty"`
	Status      string          `json:"status,omitempty"`
	History     []StatusHistory `json:"status_histories,omitempty"`
}

// StatusHistory is one free-text comment record on an order. Magento appends
// one such comment for every automated resend attempt, which is how the
// attempt count is reconstructed each run.
type StatusHistory struct {
	Comment string `json:"comment"`
}

// EmailAlreadySent reports whether the backend has marked this order's
// confirmation email as delivered. Presence of the field is the signal,
// regardless of its value.
func (o *Order) EmailAlreadySent() bool {
	return o.EmailSent != nil
}

// OrderSearchResponse is the envelope returned by the Magento order-search
// endpoint. TotalCount is a pointer: its absence (not just zero) is how the
// backend signals an error or empty response.
type OrderSearchResponse struct {
	TotalCount *int    `json:"total_count,omitempty"`
	Items      []Order `json:"items,omitempty"`
	Errors     []any   `json:"errors,omitempty"`
	Message    string  `json:"message,omitempty"`
	Code       string  `json:"code,omitempty"`
}

// AlertPayload is the body POSTed to the operator alert webhook when an
// order has exhausted its resend budget.
type AlertPayload struct {
	EntityID    int64  `json:"entity_id"`
	IncrementID string `json:"increment_id"`
	Message     string `json:"message"`
}

// OrderForwardPayload is the projection of a full Magento order detail that
// is POSTed to the email-forwarding webhook during escalation. Nested
// structures (addresses, items) are forwarded verbatim, hence `any`.
type OrderForwardPayload struct {
	CustomerName    any `json:"customer_name"`
	IncrementID     any `json:"increment_id"`
	BillingAddress  any `json:"billing_address"`
	ShippingAddress any `json:"shipping_address"`
	PaymentMethod   any `json:"payment_method"`
	ShippingMethod  any `json:"shipping_method"`
	Items           any `json:"items"`
	ShippingCost    any `json:"shipping_cost"`
	Subtotal        any `json:"subtotal"`
	GrandTotal      any `json:"grand_total"`
	OrderComment    any `json:"order_comment"`
}
